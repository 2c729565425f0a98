package i18n

import "strconv"

// Translator retrieves localized messages for Issue codes.
// data provides metadata to embed in the message (for example, "type",
// "kind", "text" or "name").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "type_mismatch":
			return data["kind"] + " から " + data["type"] + " を解析できません"
		case "conversion_failure":
			return "数値テキスト " + strconv.Quote(data["text"]) + " を " + data["type"] + " に変換できません"
		case "unknown_field":
			return "未知のフィールドです: " + strconv.Quote(data["name"])
		case "unsupported_type":
			return "型 " + data["type"] + " に対する直列化戦略がありません"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "type_mismatch":
			return "cannot parse " + data["type"] + " from " + data["kind"]
		case "conversion_failure":
			return "cannot parse " + data["type"] + " from numeric " + strconv.Quote(data["text"])
		case "unknown_field":
			return "unknown field " + strconv.Quote(data["name"])
		case "unsupported_type":
			return "no serialization strategy for type " + data["type"]
		case "parse_error":
			return "parse error"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
