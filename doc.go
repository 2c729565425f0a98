// Package strev is a format-agnostic, bidirectional serialization core.
//
// It maps between statically typed Go values and a stream of structural
// events (null, boolean, numeric text, string, array, object) exchanged with
// a pluggable format backend:
//
//   - Walk traverses a typed value depth-first and emits one event per node
//     into a Sink implemented by a format writer.
//   - Build is driven by a Source implemented by a format reader and
//     reconstructs a typed value from the events it delivers.
//
// Dispatch is resolved once per static type and cached; every unsupported
// type/event combination fails with a defined, catchable Issues error rather
// than undefined behavior.
//
// Design policy:
//   - The core performs no I/O and defines no wire format; concrete formats
//     live under format/ and plug in through the Sink/Source protocol.
//   - A stable error model via Issues (path, code, message).
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	v, err := strev.Build[Config](json.NewBytes(data))
//
//	w := json.NewWriter()
//	err := strev.Walk(v, w)
//	out := w.Bytes()
package strev
