package strev

import (
	"encoding"
	"reflect"
	"strconv"
)

// Walk serializes v by depth-first traversal, emitting one structural event
// per node into sink. Dispatch is resolved from T's static type; an
// unsupported type anywhere in T fails before any event is emitted.
func Walk[T any](v T, sink Sink) error {
	st, err := strategyFor(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return err
	}
	return st.walk(reflect.ValueOf(&v).Elem(), sink)
}

func (st *strategy) walk(v reflect.Value, sink Sink) error {
	switch st.cat {
	case catPointer:
		if v.IsNil() {
			return sink.Null()
		}
		return st.elem.walk(v.Elem(), sink)
	case catBool:
		return sink.Bool(v.Bool())
	case catInt:
		return sink.Number(strconv.FormatInt(v.Int(), 10))
	case catUint:
		return sink.Number(strconv.FormatUint(v.Uint(), 10))
	case catFloat:
		// shortest representation that round-trips
		return sink.Number(strconv.FormatFloat(v.Float(), 'g', -1, st.bits))
	case catText:
		return st.walkText(v, sink)
	case catString:
		return sink.String(v.String())
	case catSequence:
		return st.walkSequence(v, sink)
	case catMapping:
		return st.walkMapping(v, sink)
	case catRecord:
		return st.walkRecord(v, sink)
	}
	return issueUnsupported(st.t.String())
}

func (st *strategy) walkText(v reflect.Value, sink Sink) error {
	var m encoding.TextMarshaler
	if v.Type().Implements(textMarshalerType) {
		m = v.Interface().(encoding.TextMarshaler)
	} else {
		// MarshalText lives on the pointer; take an addressable copy.
		p := reflect.New(st.t)
		p.Elem().Set(v)
		m = p.Interface().(encoding.TextMarshaler)
	}
	b, err := m.MarshalText()
	if err != nil {
		return Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return sink.String(string(b))
}

func (st *strategy) walkSequence(v reflect.Value, sink Sink) error {
	i := 0
	return sink.Array(func(elem Sink) (bool, error) {
		if i >= v.Len() {
			return false, nil
		}
		ev := v.Index(i)
		i++
		if err := st.elem.walk(ev, elem); err != nil {
			return false, err
		}
		return true, nil
	})
}

// walkRecord emits declared fields in declaration order; the name producer
// always delivers the exact field identifier.
func (st *strategy) walkRecord(v reflect.Value, sink Sink) error {
	i := 0
	return sink.Object(func(name, value Sink) (bool, error) {
		if i >= len(st.fields) {
			return false, nil
		}
		f := st.fields[i]
		i++
		if err := name.String(f.name); err != nil {
			return false, err
		}
		if err := f.strat.walk(v.Field(f.index), value); err != nil {
			return false, err
		}
		return true, nil
	})
}

// walkMapping emits pairs in the mapping's own iteration order; the key is
// serialized as the name producer via its own dispatch rule.
func (st *strategy) walkMapping(v reflect.Value, sink Sink) error {
	it := v.MapRange()
	return sink.Object(func(name, value Sink) (bool, error) {
		if !it.Next() {
			return false, nil
		}
		if err := st.key.walk(it.Key(), name); err != nil {
			return false, err
		}
		if err := st.elem.walk(it.Value(), value); err != nil {
			return false, err
		}
		return true, nil
	})
}
