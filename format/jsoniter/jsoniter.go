// Package jsoniter is the json-iterator/go-backed format backend: Reader
// pulls events off a jsoniter.Iterator, Writer renders them through a
// jsoniter.Stream.
package jsoniter

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	ji "github.com/json-iterator/go"

	strev "github.com/okanoue/strev"
)

// Reader adapts a jsoniter.Iterator to the event protocol.
type Reader struct {
	it *ji.Iterator
}

// NewReader wraps an io.Reader producing JSON text.
func NewReader(r io.Reader) *Reader {
	return &Reader{it: ji.Parse(ji.ConfigDefault, r, 4096)}
}

// NewBytes wraps a byte slice of JSON text.
func NewBytes(b []byte) *Reader {
	return &Reader{it: ji.ParseBytes(ji.ConfigDefault, b)}
}

func (r *Reader) err() error {
	if r.it.Error != nil && r.it.Error != io.EOF {
		return r.it.Error
	}
	return nil
}

// Emit parses the next JSON value and delivers it to dst as exactly one
// structural event.
func (r *Reader) Emit(dst strev.Sink) error {
	switch r.it.WhatIsNext() {
	case ji.NilValue:
		r.it.ReadNil()
		if err := r.err(); err != nil {
			return err
		}
		return dst.Null()
	case ji.BoolValue:
		v := r.it.ReadBool()
		if err := r.err(); err != nil {
			return err
		}
		return dst.Bool(v)
	case ji.NumberValue:
		n := r.it.ReadNumber()
		if err := r.err(); err != nil {
			return err
		}
		return dst.Number(n.String())
	case ji.StringValue:
		s := r.it.ReadString()
		if err := r.err(); err != nil {
			return err
		}
		return dst.String(s)
	case ji.ArrayValue:
		return dst.Array(r.elements)
	case ji.ObjectValue:
		next, err := r.objectFields()
		if err != nil {
			return err
		}
		return dst.Object(next)
	}
	if err := r.err(); err != nil {
		return err
	}
	return fmt.Errorf("jsoniter: unexpected input")
}

func (r *Reader) elements(elem strev.Sink) (bool, error) {
	if !r.it.ReadArray() {
		return false, r.err()
	}
	return true, r.Emit(elem)
}

// objectFields collects the object's pairs before delivery. ReadObject
// reports "" both for end-of-object and for a legitimate empty-string key,
// so pairs are pulled through ReadMapCB and each value replayed from its
// raw bytes.
func (r *Reader) objectFields() (strev.FieldIterator, error) {
	type pair struct {
		key string
		raw []byte
	}
	var pairs []pair
	r.it.ReadMapCB(func(it *ji.Iterator, key string) bool {
		pairs = append(pairs, pair{key: key, raw: it.SkipAndReturnBytes()})
		return it.Error == nil
	})
	if err := r.err(); err != nil {
		return nil, err
	}
	i := 0
	return func(name, value strev.Sink) (bool, error) {
		if i >= len(pairs) {
			return false, nil
		}
		p := pairs[i]
		i++
		if err := name.String(p.key); err != nil {
			return false, err
		}
		return true, NewBytes(p.raw).Emit(value)
	}, nil
}

// Writer renders structural events as compact JSON via jsoniter.Stream.
type Writer struct {
	s       *ji.Stream
	pending bool
}

// NewWriter returns a buffering Writer; collect the output with Bytes.
func NewWriter() *Writer {
	return &Writer{s: ji.NewStream(ji.ConfigDefault, nil, 256)}
}

// Bytes returns the rendered JSON.
func (w *Writer) Bytes() []byte { return w.s.Buffer() }

func (w *Writer) sep() {
	if w.pending {
		w.s.WriteMore()
		w.pending = false
	}
}

func (w *Writer) Null() error {
	w.sep()
	w.s.WriteNil()
	return w.s.Error
}

func (w *Writer) Bool(v bool) error {
	w.sep()
	w.s.WriteBool(v)
	return w.s.Error
}

// Number writes text verbatim; NaN and infinities have no JSON rendition
// and are rejected.
func (w *Writer) Number(text string) error {
	if !strev.ValidNumberText(text) {
		return fmt.Errorf("jsoniter: invalid number text %q", text)
	}
	w.sep()
	w.s.WriteRaw(text)
	return w.s.Error
}

func (w *Writer) String(s string) error {
	w.sep()
	w.s.WriteString(s)
	return w.s.Error
}

func (w *Writer) StringFragments(next strev.FragmentIterator) error {
	s, err := strev.CollectFragments(next)
	if err != nil {
		return err
	}
	return w.String(s)
}

func (w *Writer) Array(next strev.ElementIterator) error {
	w.sep()
	w.s.WriteArrayStart()
	first := true
	for {
		if !first {
			w.pending = true
		}
		ok, err := next(w)
		if err != nil {
			return err
		}
		if !ok {
			w.pending = false
			break
		}
		first = false
	}
	w.s.WriteArrayEnd()
	return w.s.Error
}

func (w *Writer) Object(next strev.FieldIterator) error {
	w.sep()
	w.s.WriteObjectStart()
	first := true
	for {
		kw := &keyWriter{w: w, sep: !first}
		ok, err := next(kw, w)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if !kw.wrote {
			return errors.New("jsoniter: object field delivered without a name")
		}
		first = false
	}
	w.s.WriteObjectEnd()
	return w.s.Error
}

// keyWriter renders one object key; scalar name events are quoted, null and
// container names are rejected.
type keyWriter struct {
	w     *Writer
	sep   bool
	wrote bool
}

func (k *keyWriter) key(text string) error {
	if k.wrote {
		return errors.New("jsoniter: object key already written")
	}
	k.wrote = true
	if k.sep {
		k.w.s.WriteMore()
	}
	k.w.s.WriteObjectField(text)
	return k.w.s.Error
}

func (k *keyWriter) Null() error { return errors.New("jsoniter: object key cannot be null") }

func (k *keyWriter) Bool(v bool) error { return k.key(strconv.FormatBool(v)) }

func (k *keyWriter) Number(t string) error { return k.key(t) }

func (k *keyWriter) String(s string) error { return k.key(s) }

func (k *keyWriter) StringFragments(next strev.FragmentIterator) error {
	s, err := strev.CollectFragments(next)
	if err != nil {
		return err
	}
	return k.key(s)
}

func (k *keyWriter) Array(strev.ElementIterator) error {
	return errors.New("jsoniter: object key must be a scalar")
}

func (k *keyWriter) Object(strev.FieldIterator) error {
	return errors.New("jsoniter: object key must be a scalar")
}
