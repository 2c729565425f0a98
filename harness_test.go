package strev_test

import (
	"fmt"

	strev "github.com/okanoue/strev"
)

// ev is one flattened protocol event for scripting and recording.
type ev struct {
	kind  string // "null", "bool", "num", "str", "frag", "arr[", "arr]", "obj[", "obj]"
	text  string
	b     bool
	frags []string
}

func null() ev { return ev{kind: "null"} }

func boolean(v bool) ev { return ev{kind: "bool", b: v} }

func num(t string) ev { return ev{kind: "num", text: t} }

func str(s string) ev { return ev{kind: "str", text: s} }

func frag(c ...string) ev { return ev{kind: "frag", frags: c} }

var (
	arrBegin = ev{kind: "arr["}
	arrEnd   = ev{kind: "arr]"}
	objBegin = ev{kind: "obj["}
	objEnd   = ev{kind: "obj]"}
)

// script replays a flattened event list as a strev.Source.
type script struct {
	events []ev
	pos    int
}

func newScript(events ...ev) *script { return &script{events: events} }

func (s *script) next() (ev, error) {
	if s.pos >= len(s.events) {
		return ev{}, fmt.Errorf("script: exhausted at %d", s.pos)
	}
	e := s.events[s.pos]
	s.pos++
	return e, nil
}

func (s *script) peek() string {
	if s.pos >= len(s.events) {
		return ""
	}
	return s.events[s.pos].kind
}

func (s *script) Emit(dst strev.Sink) error {
	e, err := s.next()
	if err != nil {
		return err
	}
	switch e.kind {
	case "null":
		return dst.Null()
	case "bool":
		return dst.Bool(e.b)
	case "num":
		return dst.Number(e.text)
	case "str":
		return dst.String(e.text)
	case "frag":
		i := 0
		return dst.StringFragments(func() (string, bool, error) {
			if i >= len(e.frags) {
				return "", false, nil
			}
			c := e.frags[i]
			i++
			return c, true, nil
		})
	case "arr[":
		return dst.Array(func(elem strev.Sink) (bool, error) {
			if s.peek() == "arr]" {
				s.pos++
				return false, nil
			}
			return true, s.Emit(elem)
		})
	case "obj[":
		return dst.Object(func(name, value strev.Sink) (bool, error) {
			if s.peek() == "obj]" {
				s.pos++
				return false, nil
			}
			if err := s.Emit(name); err != nil {
				return false, err
			}
			return true, s.Emit(value)
		})
	}
	return fmt.Errorf("script: bad event kind %q", e.kind)
}

// recSink flattens delivered events back into a list. Fragmented strings are
// recorded as one whole string, matching their build semantics.
type recSink struct {
	events []ev
}

func (r *recSink) Null() error { r.events = append(r.events, null()); return nil }

func (r *recSink) Bool(v bool) error { r.events = append(r.events, boolean(v)); return nil }

func (r *recSink) Number(t string) error { r.events = append(r.events, num(t)); return nil }

func (r *recSink) String(s string) error { r.events = append(r.events, str(s)); return nil }

func (r *recSink) StringFragments(next strev.FragmentIterator) error {
	s, err := strev.CollectFragments(next)
	if err != nil {
		return err
	}
	return r.String(s)
}

func (r *recSink) Array(next strev.ElementIterator) error {
	r.events = append(r.events, arrBegin)
	for {
		ok, err := next(r)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	r.events = append(r.events, arrEnd)
	return nil
}

func (r *recSink) Object(next strev.FieldIterator) error {
	r.events = append(r.events, objBegin)
	for {
		ok, err := next(r, r)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	r.events = append(r.events, objEnd)
	return nil
}
