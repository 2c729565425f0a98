package i18n

import "testing"

type upperTranslator struct{}

func (upperTranslator) Message(code string, data map[string]string) string { return "CODE:" + code }

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	data := map[string]string{"type": "int", "kind": "string"}

	// default is en
	if msg := T("type_mismatch", data); msg != "cannot parse int from string" {
		t.Fatalf("expected english message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("type_mismatch", data); msg == "cannot parse int from string" || msg == "type_mismatch" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeFallsBackToCode(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code passthrough, got %q", msg)
	}
}

func TestSetTranslator(t *testing.T) {
	SetTranslator(upperTranslator{})
	if msg := T("unknown_field", nil); msg != "CODE:unknown_field" {
		t.Fatalf("custom translator not applied, got %q", msg)
	}

	// nil restores the built-in dictionary
	SetTranslator(nil)
	if msg := T("parse_error", nil); msg != "parse error" {
		t.Fatalf("expected built-in message, got %q", msg)
	}
}
