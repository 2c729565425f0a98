package strev

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okanoue/strev/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// CodeTypeMismatch: the destination type cannot represent the delivered
	// event kind. Recoverable by the caller.
	CodeTypeMismatch = "type_mismatch"
	// CodeConversionFailure: numeric text failed to parse into the requested
	// numeric type (non-numeric characters, overflow).
	CodeConversionFailure = "conversion_failure"
	// CodeUnknownField: a record received a field name absent from its
	// declared set. Fatal to the whole build call.
	CodeUnknownField = "unknown_field"
	// CodeUnsupportedType: a type has no dispatch rule; detected when the
	// strategy is compiled, before any value flows.
	CodeUnsupportedType = "unsupported_type"
	// CodeParseError: the event protocol itself was violated.
	CodeParseError = "parse_error"
)

// Issue represents a single failure entry.
type Issue struct {
	Path    string // JSON-Pointer-ish location of the destination (for example: /items/2).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints.
	Cause   error  // Optional: underlying error.
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. type_mismatch at /path: cannot parse int from string
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ---- internal constructors ----

// rootPath renders the destination path, using "/" for the root destination.
func rootPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func issueTypeMismatch(path, typ, kind string) Issues {
	return Issues{{
		Path:    rootPath(path),
		Code:    CodeTypeMismatch,
		Message: i18n.T(CodeTypeMismatch, map[string]string{"type": typ, "kind": kind}),
	}}
}

func issueConversion(path, typ, text string) Issues {
	return Issues{{
		Path:    rootPath(path),
		Code:    CodeConversionFailure,
		Message: i18n.T(CodeConversionFailure, map[string]string{"type": typ, "text": text}),
	}}
}

func issueUnknownField(path, name string) Issues {
	return Issues{{
		Path:    rootPath(path),
		Code:    CodeUnknownField,
		Message: i18n.T(CodeUnknownField, map[string]string{"name": name}),
	}}
}

func issueUnsupported(typ string) Issues {
	return Issues{{
		Path:    "/",
		Code:    CodeUnsupportedType,
		Message: i18n.T(CodeUnsupportedType, map[string]string{"type": typ}),
	}}
}

func issueProtocol(path, detail string) Issues {
	return Issues{{Path: rootPath(path), Code: CodeParseError, Message: detail}}
}
