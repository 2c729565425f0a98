package strev

import (
	"encoding"
	"reflect"
	"sync"
)

// category is the closed set of shapes the engines understand. Exactly one
// applies per static type.
type category int

const (
	catPointer category = iota // null-able reference
	catBool
	catInt
	catUint
	catFloat
	catText // encoding.TextMarshaler / TextUnmarshaler pair
	catString
	catSequence
	catMapping
	catRecord
)

// kindName renders the event kind a category produces, for diagnostics.
func (c category) String() string {
	switch c {
	case catPointer:
		return "null"
	case catBool:
		return "boolean"
	case catInt, catUint, catFloat:
		return "numeric"
	case catText, catString:
		return "string"
	case catSequence:
		return "array"
	case catMapping, catRecord:
		return "object"
	}
	return "unknown"
}

// strategy is the dispatch product for one static type: compiled once,
// cached for the life of the process, and shared by the walker and the
// builder. It holds no per-value state.
type strategy struct {
	t    reflect.Type
	cat  category
	bits int // numeric width for int/uint/float kinds

	elem   *strategy       // pointee, sequence element, or mapping value
	key    *strategy       // mapping key
	fields []fieldStrategy // record fields in declaration order
}

// fieldStrategy binds one declared record field to its sub-strategy. Names
// are the exact Go identifiers; there is no renaming.
type fieldStrategy struct {
	name  string
	index int
	strat *strategy
}

// fieldByName linearly scans declared fields for an exact match.
func (st *strategy) fieldByName(name string) (fieldStrategy, bool) {
	for _, f := range st.fields {
		if f.name == name {
			return f, true
		}
	}
	return fieldStrategy{}, false
}

var strategyCache sync.Map // reflect.Type -> *strategy

var (
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Prepare resolves the dispatch strategy for T ahead of any value flowing,
// surfacing unsupported types at startup rather than mid-call.
func Prepare[T any]() error {
	_, err := strategyFor(reflect.TypeOf((*T)(nil)).Elem())
	return err
}

// strategyFor returns the cached strategy for t, compiling it on first use.
func strategyFor(t reflect.Type) (*strategy, error) {
	if st, ok := strategyCache.Load(t); ok {
		return st.(*strategy), nil
	}
	seen := map[reflect.Type]*strategy{}
	st, err := compile(t, seen)
	if err != nil {
		return nil, err
	}
	// Publish the whole compiled graph so recursive types resolve to the
	// same nodes on later lookups.
	for ct, cst := range seen {
		strategyCache.LoadOrStore(ct, cst)
	}
	if got, ok := strategyCache.Load(t); ok {
		return got.(*strategy), nil
	}
	return st, nil
}

// compile classifies t and its reachable sub-types. seen ties the knot for
// recursive types; entries are published only after a fully successful
// compile.
func compile(t reflect.Type, seen map[reflect.Type]*strategy) (*strategy, error) {
	if st, ok := strategyCache.Load(t); ok {
		return st.(*strategy), nil
	}
	if st, ok := seen[t]; ok {
		return st, nil
	}
	st := &strategy{t: t}
	seen[t] = st

	// Null-able references take priority so nil pointers serialize as Null.
	if t.Kind() == reflect.Pointer {
		st.cat = catPointer
		elem, err := compile(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		st.elem = elem
		return st, nil
	}

	// Textual codec pair: types that round-trip through text cross the
	// protocol as String events, ahead of the record rule.
	if isTextCodec(t) {
		st.cat = catText
		return st, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		st.cat = catBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		st.cat = catInt
		st.bits = t.Bits()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		st.cat = catUint
		st.bits = t.Bits()
	case reflect.Float32, reflect.Float64:
		st.cat = catFloat
		st.bits = t.Bits()
	case reflect.String:
		st.cat = catString
	case reflect.Struct:
		st.cat = catRecord
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			fst, err := compile(sf.Type, seen)
			if err != nil {
				return nil, err
			}
			st.fields = append(st.fields, fieldStrategy{name: sf.Name, index: i, strat: fst})
		}
	case reflect.Slice:
		st.cat = catSequence
		elem, err := compile(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		st.elem = elem
	case reflect.Map:
		st.cat = catMapping
		key, err := compile(t.Key(), seen)
		if err != nil {
			return nil, err
		}
		elem, err := compile(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		st.key = key
		st.elem = elem
	default:
		// chan, func, complex, interface, fixed arrays, ...: dispatch must
		// be total, so the gap is reported before any value flows.
		return nil, issueUnsupported(t.String())
	}
	return st, nil
}

// isTextCodec reports whether t serializes as text: MarshalText reachable
// from t and UnmarshalText on *t, so both engines stay symmetric.
func isTextCodec(t reflect.Type) bool {
	marshals := t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)
	return marshals && reflect.PointerTo(t).Implements(textUnmarshalerType)
}
