package strev

import "strings"

// Sink is the consumer side of the structural event protocol. A format
// writer implements Sink to render an outgoing value; the builder implements
// Sink to resolve a destination. Exactly one handler fires per value.
type Sink interface {
	// Null delivers a null value.
	Null() error
	// Bool delivers a boolean value.
	Bool(v bool) error
	// Number delivers a numeric value as exact, locale-free decimal text.
	Number(text string) error
	// String delivers one complete textual value.
	String(s string) error
	// StringFragments delivers one textual value in chunks; the consumer
	// concatenates fragments in delivery order before using the text.
	StringFragments(next FragmentIterator) error
	// Array delivers an ordered sequence; the consumer pulls elements
	// through next until it reports exhaustion.
	Array(next ElementIterator) error
	// Object delivers name/value pairs; the consumer pulls pairs through
	// next until it reports exhaustion.
	Object(next FieldIterator) error
}

// Source is the producer side of the protocol, implemented by format
// readers. For any destination it is handed a Sink and invokes exactly one
// of its handlers based on what it parses next.
type Source interface {
	Emit(dst Sink) error
}

// ElementIterator is invoked by an array consumer to pull the next element.
// When an element remains, the producer drives exactly one event into elem
// and reports true; when the sequence is exhausted it reports false without
// touching elem.
type ElementIterator func(elem Sink) (bool, error)

// FieldIterator is invoked by an object consumer to pull the next name/value
// pair. The producer drives the name sink to completion before the value
// sink, then reports true; at the end of the object it reports false without
// touching either sink.
type FieldIterator func(name, value Sink) (bool, error)

// FragmentIterator yields successive chunks of one textual value. It reports
// false when no chunk remains.
type FragmentIterator func() (string, bool, error)

// CollectFragments concatenates fragments in delivery order into one buffer.
func CollectFragments(next FragmentIterator) (string, error) {
	var b strings.Builder
	for {
		chunk, ok, err := next()
		if err != nil {
			return "", err
		}
		if !ok {
			return b.String(), nil
		}
		b.WriteString(chunk)
	}
}

// Pipe drives src straight into dst, transcoding one value without building
// an intermediate typed representation.
func Pipe(src Source, dst Sink) error { return src.Emit(dst) }

// ValidNumberText reports whether text is well-formed decimal number text
// for the protocol: an optional minus sign, an integer part without leading
// zeros, an optional fraction, an optional exponent. NaN and infinities have
// no decimal rendition and are rejected.
func ValidNumberText(text string) bool {
	s := text
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	if len(s) == 0 || s[0] < '0' || s[0] > '9' {
		return false
	}
	if s[0] == '0' && len(s) > 1 && s[1] >= '0' && s[1] <= '9' {
		return false
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	return i == len(s)
}
