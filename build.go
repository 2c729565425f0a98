package strev

import (
	"encoding"
	"reflect"
	"strconv"
)

// Build reconstructs a T from the structural events src emits. On failure the
// zero T is returned; a partially built value is never surfaced.
func Build[T any](src Source) (T, error) {
	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()
	st, err := strategyFor(t)
	if err != nil {
		return zero, err
	}
	dst := reflect.New(t).Elem()
	vs := &valueSink{dst: dst, strat: st}
	if err := src.Emit(vs); err != nil {
		return zero, err
	}
	if !vs.resolved {
		return zero, issueProtocol("", "source delivered no event")
	}
	return dst.Interface().(T), nil
}

// BuildInto is the non-generic variant; dst must be a non-nil pointer. On
// failure *dst is left untouched.
func BuildInto(src Source, dst any) error {
	pv := reflect.ValueOf(dst)
	if pv.Kind() != reflect.Pointer || pv.IsNil() {
		return issueProtocol("", "destination must be a non-nil pointer")
	}
	st, err := strategyFor(pv.Type().Elem())
	if err != nil {
		return err
	}
	tmp := reflect.New(pv.Type().Elem()).Elem()
	vs := &valueSink{dst: tmp, strat: st}
	if err := src.Emit(vs); err != nil {
		return err
	}
	if !vs.resolved {
		return issueProtocol("", "source delivered no event")
	}
	pv.Elem().Set(tmp)
	return nil
}

// valueSink binds one destination location to the single event that will
// resolve it. It owns no data: dst is an addressable location inside the
// value under construction, strat its precompiled dispatch, path its
// location for diagnostics. The destination moves Awaiting -> Resolved
// exactly once.
type valueSink struct {
	dst      reflect.Value
	strat    *strategy
	path     string
	resolved bool
	// keyText marks a mapping-key destination. Format writers must render
	// non-string keys as quoted text (JSON requires string keys), so a key
	// destination also accepts the text rendition of its scalar kind.
	keyText bool
}

func (s *valueSink) begin() error {
	if s.resolved {
		return issueProtocol(s.path, "destination already resolved")
	}
	s.resolved = true
	return nil
}

// deref allocates through pointer destinations so a non-null event lands on
// the pointee. Null is handled before deref: it resolves the pointer itself.
func (s *valueSink) deref() *valueSink {
	cur := s
	for cur.strat.cat == catPointer {
		p := reflect.New(cur.strat.elem.t)
		cur.dst.Set(p)
		cur = &valueSink{dst: p.Elem(), strat: cur.strat.elem, path: cur.path, resolved: true, keyText: cur.keyText}
	}
	return cur
}

func (s *valueSink) Null() error {
	if err := s.begin(); err != nil {
		return err
	}
	if s.strat.cat != catPointer {
		return issueTypeMismatch(s.path, s.strat.t.String(), "null")
	}
	s.dst.SetZero()
	return nil
}

func (s *valueSink) Bool(v bool) error {
	if err := s.begin(); err != nil {
		return err
	}
	t := s.deref()
	if t.strat.cat != catBool {
		return issueTypeMismatch(t.path, t.strat.t.String(), "boolean")
	}
	t.dst.SetBool(v)
	return nil
}

func (s *valueSink) Number(text string) error {
	if err := s.begin(); err != nil {
		return err
	}
	return s.deref().assignNumber(text)
}

func (t *valueSink) assignNumber(text string) error {
	switch t.strat.cat {
	case catInt:
		n, err := strconv.ParseInt(text, 10, t.strat.bits)
		if err != nil {
			return issueConversion(t.path, t.strat.t.String(), text)
		}
		t.dst.SetInt(n)
	case catUint:
		n, err := strconv.ParseUint(text, 10, t.strat.bits)
		if err != nil {
			return issueConversion(t.path, t.strat.t.String(), text)
		}
		t.dst.SetUint(n)
	case catFloat:
		f, err := strconv.ParseFloat(text, t.strat.bits)
		if err != nil {
			return issueConversion(t.path, t.strat.t.String(), text)
		}
		t.dst.SetFloat(f)
	default:
		return issueTypeMismatch(t.path, t.strat.t.String(), "numeric")
	}
	return nil
}

func (s *valueSink) String(v string) error {
	if err := s.begin(); err != nil {
		return err
	}
	return s.deref().assignString(v)
}

func (s *valueSink) StringFragments(next FragmentIterator) error {
	if err := s.begin(); err != nil {
		return err
	}
	// Fragments are concatenated in delivery order before assignment, so a
	// fragmented and a whole delivery build the same value.
	v, err := CollectFragments(next)
	if err != nil {
		return err
	}
	return s.deref().assignString(v)
}

func (t *valueSink) assignString(v string) error {
	switch t.strat.cat {
	case catString:
		t.dst.SetString(v)
		return nil
	case catText:
		u := t.dst.Addr().Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(v)); err != nil {
			return Issues{{
				Path:    rootPath(t.path),
				Code:    CodeConversionFailure,
				Message: err.Error(),
				Cause:   err,
			}}
		}
		return nil
	case catInt, catUint, catFloat:
		if t.keyText {
			return t.assignNumber(v)
		}
	case catBool:
		if t.keyText {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return issueConversion(t.path, t.strat.t.String(), v)
			}
			t.dst.SetBool(b)
			return nil
		}
	}
	return issueTypeMismatch(t.path, t.strat.t.String(), "string")
}

func (s *valueSink) Array(next ElementIterator) error {
	if err := s.begin(); err != nil {
		return err
	}
	t := s.deref()
	if t.strat.cat != catSequence {
		return issueTypeMismatch(t.path, t.strat.t.String(), "array")
	}
	as := &arraySink{elem: t.strat.elem, buf: reflect.MakeSlice(t.strat.t, 0, 0), path: t.path}
	for {
		es := as.nextElement()
		ok, err := next(es)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if !es.resolved {
			return issueProtocol(es.path, "source delivered no event")
		}
		as.append(es.dst)
	}
	t.dst.Set(as.buf)
	return nil
}

func (s *valueSink) Object(next FieldIterator) error {
	if err := s.begin(); err != nil {
		return err
	}
	t := s.deref()
	switch t.strat.cat {
	case catMapping:
		return t.buildMapping(next)
	case catRecord:
		return t.buildRecord(next)
	default:
		return issueTypeMismatch(t.path, t.strat.t.String(), "object")
	}
}

// arraySink accumulates elements delivered one at a time into a growable
// buffer; each element gets a fresh destination exposing the full builder
// contract so nesting composes without special cases.
type arraySink struct {
	elem *strategy
	buf  reflect.Value
	path string
}

func (a *arraySink) nextElement() *valueSink {
	ev := reflect.New(a.elem.t).Elem()
	return &valueSink{dst: ev, strat: a.elem, path: a.path + "/" + strconv.Itoa(a.buf.Len())}
}

func (a *arraySink) append(v reflect.Value) { a.buf = reflect.Append(a.buf, v) }

// buildMapping builds each delivered name into a key and each value into the
// mapping's value type; insertion on a duplicate key is last-write-wins. A
// key that fails to build aborts the whole object.
func (t *valueSink) buildMapping(next FieldIterator) error {
	m := reflect.MakeMap(t.strat.t)
	for {
		kv := reflect.New(t.strat.key.t).Elem()
		vv := reflect.New(t.strat.elem.t).Elem()
		ks := &valueSink{dst: kv, strat: t.strat.key, path: t.path, keyText: true}
		vs := &valueSink{dst: vv, strat: t.strat.elem, path: t.path}
		ok, err := next(ks, vs)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if !ks.resolved || !vs.resolved {
			return issueProtocol(t.path, "source delivered an incomplete pair")
		}
		m.SetMapIndex(kv, vv)
	}
	t.dst.Set(m)
	return nil
}

// buildRecord resolves each delivered pair against the declared fields.
// Fields absent from the input keep their zero values; a name matching no
// declared field aborts the whole build.
func (t *valueSink) buildRecord(next FieldIterator) error {
	for {
		nv := reflect.New(stringStrategy.t).Elem()
		ns := &valueSink{dst: nv, strat: stringStrategy, path: t.path}
		fs := &recordFieldSink{rec: t, name: ns}
		ok, err := next(ns, fs)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if !fs.done {
			return issueProtocol(t.path, "source delivered no event")
		}
	}
}

// recordFieldSink defers choosing the destination field until the name sink
// has been driven; the protocol guarantees the name arrives first. It is a
// transient binding between the enclosing record and one incoming pair.
type recordFieldSink struct {
	rec  *valueSink
	name *valueSink
	done bool
}

func (f *recordFieldSink) target() (*valueSink, error) {
	if f.done {
		return nil, issueProtocol(f.rec.path, "destination already resolved")
	}
	f.done = true
	if !f.name.resolved {
		return nil, issueProtocol(f.rec.path, "field value delivered before its name")
	}
	n := f.name.dst.String()
	fd, ok := f.rec.strat.fieldByName(n)
	if !ok {
		return nil, issueUnknownField(f.rec.path, n)
	}
	return &valueSink{
		dst:   f.rec.dst.Field(fd.index),
		strat: fd.strat,
		path:  f.rec.path + "/" + n,
	}, nil
}

func (f *recordFieldSink) Null() error {
	t, err := f.target()
	if err != nil {
		return err
	}
	return t.Null()
}

func (f *recordFieldSink) Bool(v bool) error {
	t, err := f.target()
	if err != nil {
		return err
	}
	return t.Bool(v)
}

func (f *recordFieldSink) Number(text string) error {
	t, err := f.target()
	if err != nil {
		return err
	}
	return t.Number(text)
}

func (f *recordFieldSink) String(v string) error {
	t, err := f.target()
	if err != nil {
		return err
	}
	return t.String(v)
}

func (f *recordFieldSink) StringFragments(next FragmentIterator) error {
	t, err := f.target()
	if err != nil {
		return err
	}
	return t.StringFragments(next)
}

func (f *recordFieldSink) Array(next ElementIterator) error {
	t, err := f.target()
	if err != nil {
		return err
	}
	return t.Array(next)
}

func (f *recordFieldSink) Object(next FieldIterator) error {
	t, err := f.target()
	if err != nil {
		return err
	}
	return t.Object(next)
}

var stringStrategy = mustStrategy(reflect.TypeOf((*string)(nil)).Elem())

func mustStrategy(t reflect.Type) *strategy {
	st, err := strategyFor(t)
	if err != nil {
		panic(err)
	}
	return st
}
