// Package header provides a case-insensitive, order-preserving multi-map
// from name to one-or-more text values, for protocol-style key/value lists.
package header

import "strings"

type entry struct {
	name   string // casing of the first insertion
	values []string
}

// Header preserves the insertion order of names; lookups ignore case. The
// zero value is ready to use.
type Header struct {
	entries []entry
}

func (h *Header) find(name string) int {
	for i := range h.entries {
		if strings.EqualFold(h.entries[i].name, name) {
			return i
		}
	}
	return -1
}

// Add appends value under name, creating the name at the end of the order
// when it is new.
func (h *Header) Add(name, value string) {
	if i := h.find(name); i >= 0 {
		h.entries[i].values = append(h.entries[i].values, value)
		return
	}
	h.entries = append(h.entries, entry{name: name, values: []string{value}})
}

// Set replaces all values under name with value, keeping the name's position
// in the order; a new name goes to the end.
func (h *Header) Set(name, value string) {
	if i := h.find(name); i >= 0 {
		h.entries[i].values = []string{value}
		return
	}
	h.entries = append(h.entries, entry{name: name, values: []string{value}})
}

// Get returns the first value stored under name.
func (h *Header) Get(name string) (string, bool) {
	if i := h.find(name); i >= 0 {
		return h.entries[i].values[0], true
	}
	return "", false
}

// Values returns a copy of all values stored under name, in insertion order.
func (h *Header) Values(name string) []string {
	if i := h.find(name); i >= 0 {
		out := make([]string, len(h.entries[i].values))
		copy(out, h.entries[i].values)
		return out
	}
	return nil
}

// Del removes name and all its values, regardless of casing.
func (h *Header) Del(name string) {
	if i := h.find(name); i >= 0 {
		h.entries = append(h.entries[:i], h.entries[i+1:]...)
	}
}

// Names lists the stored names in insertion order, with the casing of their
// first insertion.
func (h *Header) Names() []string {
	out := make([]string, 0, len(h.entries))
	for i := range h.entries {
		out = append(out, h.entries[i].name)
	}
	return out
}

// Len reports the number of distinct names.
func (h *Header) Len() int { return len(h.entries) }

// Clone returns a deep copy.
func (h *Header) Clone() *Header {
	c := &Header{entries: make([]entry, len(h.entries))}
	for i := range h.entries {
		vs := make([]string, len(h.entries[i].values))
		copy(vs, h.entries[i].values)
		c.entries[i] = entry{name: h.entries[i].name, values: vs}
	}
	return c
}

// Range visits every name/value pair in order and stops early when f
// returns false.
func (h *Header) Range(f func(name, value string) bool) {
	for i := range h.entries {
		for _, v := range h.entries[i].values {
			if !f(h.entries[i].name, v) {
				return
			}
		}
	}
}
