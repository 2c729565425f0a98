// Package json is the encoding/json-backed format backend for the strev
// event protocol: Reader implements strev.Source, Writer implements
// strev.Sink.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	strev "github.com/okanoue/strev"
)

// Reader adapts a JSON token stream to the event protocol.
type Reader struct {
	dec *json.Decoder
}

// NewReader wraps an io.Reader producing JSON text.
func NewReader(r io.Reader) *Reader {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Reader{dec: dec}
}

// NewBytes wraps a byte slice of JSON text.
func NewBytes(b []byte) *Reader { return NewReader(bytes.NewReader(b)) }

// Emit parses the next JSON value and delivers it to dst as exactly one
// structural event.
func (r *Reader) Emit(dst strev.Sink) error {
	tok, err := r.dec.Token()
	if err != nil {
		return err
	}
	return r.emitValue(tok, dst)
}

func (r *Reader) emitValue(tok json.Token, dst strev.Sink) error {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '[':
			return dst.Array(r.elements)
		case '{':
			return dst.Object(r.fields)
		}
		return fmt.Errorf("json: unexpected delimiter %q", v.String())
	case string:
		return dst.String(v)
	case bool:
		return dst.Bool(v)
	case json.Number:
		return dst.Number(v.String())
	case float64:
		return dst.Number(strconv.FormatFloat(v, 'g', -1, 64))
	case nil:
		return dst.Null()
	}
	return fmt.Errorf("json: unexpected token %v", tok)
}

// elements pulls one array element per call; the closing bracket is consumed
// when the array is exhausted.
func (r *Reader) elements(elem strev.Sink) (bool, error) {
	if !r.dec.More() {
		if _, err := r.dec.Token(); err != nil { // ']'
			return false, err
		}
		return false, nil
	}
	tok, err := r.dec.Token()
	if err != nil {
		return false, err
	}
	return true, r.emitValue(tok, elem)
}

// fields pulls one name/value pair per call, name delivered first.
func (r *Reader) fields(name, value strev.Sink) (bool, error) {
	if !r.dec.More() {
		if _, err := r.dec.Token(); err != nil { // '}'
			return false, err
		}
		return false, nil
	}
	tok, err := r.dec.Token()
	if err != nil {
		return false, err
	}
	key, ok := tok.(string)
	if !ok {
		return false, fmt.Errorf("json: expected object key, got %v", tok)
	}
	if err := name.String(key); err != nil {
		return false, err
	}
	vt, err := r.dec.Token()
	if err != nil {
		return false, err
	}
	return true, r.emitValue(vt, value)
}

// Writer renders structural events as compact JSON.
type Writer struct {
	buf     []byte
	pending byte // separator to flush before the next event, 0 if none
}

// NewWriter returns an empty Writer; drive it with strev.Walk or a Source
// and collect the output with Bytes.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the rendered JSON.
func (w *Writer) Bytes() []byte { return w.buf }

// Reset discards buffered output so the Writer can render another value.
func (w *Writer) Reset() { w.buf = w.buf[:0]; w.pending = 0 }

func (w *Writer) sep() {
	if w.pending != 0 {
		w.buf = append(w.buf, w.pending)
		w.pending = 0
	}
}

func (w *Writer) Null() error {
	w.sep()
	w.buf = append(w.buf, "null"...)
	return nil
}

func (w *Writer) Bool(v bool) error {
	w.sep()
	w.buf = strconv.AppendBool(w.buf, v)
	return nil
}

// Number appends text verbatim; NaN and infinities have no JSON rendition
// and are rejected.
func (w *Writer) Number(text string) error {
	if !strev.ValidNumberText(text) {
		return fmt.Errorf("json: invalid number text %q", text)
	}
	w.sep()
	w.buf = append(w.buf, text...)
	return nil
}

func (w *Writer) String(s string) error {
	w.sep()
	q, err := json.Marshal(s)
	if err != nil {
		return err
	}
	w.buf = append(w.buf, q...)
	return nil
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
	w.buf = append(w.buf, '[')
	first := true
	for {
		if !first {
			w.pending = ','
		}
		ok, err := next(w)
		if err != nil {
			return err
		}
		if !ok {
			w.pending = 0
			break
		}
		first = false
	}
	w.buf = append(w.buf, ']')
	return nil
}

func (w *Writer) Object(next strev.FieldIterator) error {
	w.sep()
	w.buf = append(w.buf, '{')
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
			return errors.New("json: object field delivered without a name")
		}
		first = false
	}
	w.buf = append(w.buf, '}')
	return nil
}

// keyWriter renders one object key. JSON requires string keys, so scalar
// name events are quoted; null and container names are rejected.
type keyWriter struct {
	w     *Writer
	sep   bool
	wrote bool
}

func (k *keyWriter) key(text string) error {
	if k.wrote {
		return errors.New("json: object key already written")
	}
	k.wrote = true
	if k.sep {
		k.w.buf = append(k.w.buf, ',')
	}
	q, err := json.Marshal(text)
	if err != nil {
		return err
	}
	k.w.buf = append(k.w.buf, q...)
	k.w.buf = append(k.w.buf, ':')
	return nil
}

func (k *keyWriter) Null() error { return errors.New("json: object key cannot be null") }

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
	return errors.New("json: object key must be a scalar")
}

func (k *keyWriter) Object(strev.FieldIterator) error {
	return errors.New("json: object key must be a scalar")
}
