package i18n

// Translator retrieves localized messages for reason codes. data provides
// optional metadata to embed in the message (for example, "column" or
// "dtype").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "wrong_field_name":
			return "フィールド名が一致しません"
		case "series_contains_nulls":
			return "null 値が含まれています"
		case "series_contains_duplicates":
			return "重複値が含まれています"
		case "wrong_dtype":
			return "dtype が一致しません"
		case "coerce_dtype":
			return "dtype への変換に失敗しました"
		case "dataframe_check":
			return "チェックが失敗しました"
		case "check_error":
			return "チェックの実行中にエラーが発生しました"
		}
	default: // "en"
		switch code {
		case "wrong_field_name":
			return "field name mismatch"
		case "series_contains_nulls":
			return "series contains null values"
		case "series_contains_duplicates":
			return "series contains duplicate values"
		case "wrong_dtype":
			return "dtype mismatch"
		case "coerce_dtype":
			return "could not coerce to declared dtype"
		case "dataframe_check":
			return "check failed"
		case "check_error":
			return "error while executing check"
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
