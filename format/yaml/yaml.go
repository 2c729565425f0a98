// Package yaml is the yaml.v3-backed format backend. Reader walks a decoded
// yaml.Node tree and replays it as structural events; Writer accumulates
// events into a yaml.Node tree and encodes it.
package yaml

import (
	"errors"
	"strconv"
	"strings"

	y "gopkg.in/yaml.v3"

	strev "github.com/okanoue/strev"
)

// Reader replays one YAML document as structural events.
type Reader struct {
	node *y.Node
}

// NewBytes parses a YAML document; the Reader emits it on demand.
func NewBytes(b []byte) (*Reader, error) {
	var doc y.Node
	if err := y.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return &Reader{node: &doc}, nil
}

// NewNode wraps an already decoded node.
func NewNode(n *y.Node) *Reader { return &Reader{node: n} }

// Emit delivers the document's value to dst as exactly one structural event.
func (r *Reader) Emit(dst strev.Sink) error {
	n := resolve(r.node)
	if n == nil {
		return dst.Null()
	}
	return emitNode(n, dst)
}

// resolve unwraps document and alias nodes.
func resolve(n *y.Node) *y.Node {
	for n != nil {
		switch n.Kind {
		case y.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case y.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func emitNode(n *y.Node, dst strev.Sink) error {
	switch n.Kind {
	case y.ScalarNode:
		return emitScalar(n, dst)
	case y.SequenceNode:
		i := 0
		return dst.Array(func(elem strev.Sink) (bool, error) {
			if i >= len(n.Content) {
				return false, nil
			}
			c := resolve(n.Content[i])
			i++
			if c == nil {
				return true, elem.Null()
			}
			return true, emitNode(c, elem)
		})
	case y.MappingNode:
		i := 0
		return dst.Object(func(name, value strev.Sink) (bool, error) {
			if i+1 >= len(n.Content) {
				return false, nil
			}
			k := resolve(n.Content[i])
			v := resolve(n.Content[i+1])
			i += 2
			if k == nil {
				if err := name.Null(); err != nil {
					return false, err
				}
			} else if err := emitNode(k, name); err != nil {
				return false, err
			}
			if v == nil {
				return true, value.Null()
			}
			return true, emitNode(v, value)
		})
	}
	return errors.New("yaml: unsupported node kind")
}

// emitScalar maps YAML scalar tags onto protocol events; numbers are
// normalized to plain decimal text.
func emitScalar(n *y.Node, dst strev.Sink) error {
	switch n.Tag {
	case "!!null":
		return dst.Null()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return err
		}
		return dst.Bool(b)
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return dst.Number(strconv.FormatInt(i, 10))
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return err
		}
		return dst.Number(strconv.FormatUint(u, 10))
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		return dst.Number(strconv.FormatFloat(f, 'g', -1, 64))
	default:
		return dst.String(n.Value)
	}
}

// Writer accumulates structural events into a yaml.Node tree.
type Writer struct {
	root y.Node
}

// NewWriter returns an empty Writer; drive it with strev.Walk or a Source
// and collect the output with Bytes or Node.
func NewWriter() *Writer { return &Writer{} }

// Node returns the accumulated node tree.
func (w *Writer) Node() *y.Node { return &w.root }

// Bytes encodes the accumulated tree as a YAML document.
func (w *Writer) Bytes() ([]byte, error) {
	if w.root.Kind == 0 {
		return nil, errors.New("yaml: no value written")
	}
	return y.Marshal(&w.root)
}

func (w *Writer) Null() error { return (&nodeSink{n: &w.root}).Null() }

func (w *Writer) Bool(v bool) error { return (&nodeSink{n: &w.root}).Bool(v) }

func (w *Writer) Number(text string) error { return (&nodeSink{n: &w.root}).Number(text) }

func (w *Writer) String(s string) error { return (&nodeSink{n: &w.root}).String(s) }
func (w *Writer) StringFragments(next strev.FragmentIterator) error {
	return (&nodeSink{n: &w.root}).StringFragments(next)
}
func (w *Writer) Array(next strev.ElementIterator) error {
	return (&nodeSink{n: &w.root}).Array(next)
}
func (w *Writer) Object(next strev.FieldIterator) error {
	return (&nodeSink{n: &w.root}).Object(next)
}

// nodeSink fills one yaml.Node from one structural event.
type nodeSink struct {
	n *y.Node
}

func (s *nodeSink) scalar(tag, value string) error {
	s.n.Kind = y.ScalarNode
	s.n.Tag = tag
	s.n.Value = value
	return nil
}

func (s *nodeSink) Null() error { return s.scalar("!!null", "null") }

func (s *nodeSink) Bool(v bool) error { return s.scalar("!!bool", strconv.FormatBool(v)) }

func (s *nodeSink) Number(text string) error {
	if strings.ContainsAny(text, ".eE") {
		return s.scalar("!!float", text)
	}
	return s.scalar("!!int", text)
}

func (s *nodeSink) String(v string) error { return s.scalar("!!str", v) }

func (s *nodeSink) StringFragments(next strev.FragmentIterator) error {
	v, err := strev.CollectFragments(next)
	if err != nil {
		return err
	}
	return s.String(v)
}

func (s *nodeSink) Array(next strev.ElementIterator) error {
	s.n.Kind = y.SequenceNode
	s.n.Tag = "!!seq"
	for {
		child := &y.Node{}
		ok, err := next(&nodeSink{n: child})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if child.Kind == 0 {
			return errors.New("yaml: source delivered no event")
		}
		s.n.Content = append(s.n.Content, child)
	}
}

func (s *nodeSink) Object(next strev.FieldIterator) error {
	s.n.Kind = y.MappingNode
	s.n.Tag = "!!map"
	for {
		key := &y.Node{}
		val := &y.Node{}
		ok, err := next(&keySink{nodeSink{n: key}}, &nodeSink{n: val})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if key.Kind == 0 || val.Kind == 0 {
			return errors.New("yaml: source delivered an incomplete pair")
		}
		s.n.Content = append(s.n.Content, key, val)
	}
}

// keySink fills a mapping-key node. Keys stay in their native scalar kind,
// but a null key is rejected like the other backends do.
type keySink struct {
	nodeSink
}

func (k *keySink) Null() error { return errors.New("yaml: mapping key cannot be null") }
