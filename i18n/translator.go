// Package i18n renders localized messages for validation error kinds.
package i18n

import (
	"fmt"
	"strings"
)

// Translator retrieves localized messages for error kinds. params carries
// structured substitution values (for example "ge" or "max_length"); the
// built-in dictionaries reference them as {name} placeholders.
type Translator interface {
	Message(kind string, params map[string]any) string
}

var enMessages = map[string]string{
	"missing":             "field required",
	"extra_forbidden":     "extra fields not permitted",
	"none_required":       "value must be null",
	"bool_type":           "value must be a valid boolean",
	"bool_parsing":        "value must be a valid boolean, unable to interpret input",
	"int_type":            "value must be a valid integer",
	"int_parsing":         "value must be a valid integer, unable to parse string as an integer",
	"int_from_float":      "value must be a valid integer, got a number with a fractional part",
	"float_type":          "value must be a valid number",
	"float_parsing":       "value must be a valid number, unable to parse string as a number",
	"str_type":            "value must be a valid string",
	"list_type":           "value must be a valid list",
	"set_type":            "value must be a valid set",
	"set_item_not_unique": "set items must be unique",
	"dict_type":           "value must be a valid mapping",
	"recursion_loop":      "recursion limit of {limit} exceeded",
	"json_invalid":        "invalid JSON: {error}",
	"duplicate_key":       "duplicate object key '{key}'",
	"max_bytes_exceeded":  "input exceeds {max_bytes} bytes",
	"greater_than":        "value must be greater than {gt}",
	"greater_than_equal":  "value must be greater than or equal to {ge}",
	"less_than":           "value must be less than {lt}",
	"less_than_equal":     "value must be less than or equal to {le}",
	"too_short":           "too short (minimum {min_length})",
	"too_long":            "too long (maximum {max_length})",
	"pattern_mismatch":    "string does not match pattern {pattern}",
}

var jaMessages = map[string]string{
	"missing":             "必須フィールドが不足しています",
	"extra_forbidden":     "未知のフィールドは許可されていません",
	"none_required":       "null である必要があります",
	"bool_type":           "真偽値である必要があります",
	"bool_parsing":        "真偽値として解釈できません",
	"int_type":            "整数である必要があります",
	"int_parsing":         "文字列を整数として解析できません",
	"int_from_float":      "小数部を持つ数値は整数になりません",
	"float_type":          "数値である必要があります",
	"float_parsing":       "文字列を数値として解析できません",
	"str_type":            "文字列である必要があります",
	"list_type":           "リストである必要があります",
	"set_type":            "集合である必要があります",
	"set_item_not_unique": "集合の要素が重複しています",
	"dict_type":           "マッピングである必要があります",
	"recursion_loop":      "再帰の上限 {limit} を超えました",
	"json_invalid":        "不正な JSON です: {error}",
	"duplicate_key":       "キー '{key}' が重複しています",
	"max_bytes_exceeded":  "入力が {max_bytes} バイトを超えています",
	"greater_than":        "{gt} より大きい必要があります",
	"greater_than_equal":  "{ge} 以上である必要があります",
	"less_than":           "{lt} より小さい必要があります",
	"less_than_equal":     "{le} 以下である必要があります",
	"too_short":           "短すぎます (最小 {min_length})",
	"too_long":            "長すぎます (最大 {max_length})",
	"pattern_mismatch":    "パターン {pattern} に一致しません",
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ dict map[string]string }

func (t dictTranslator) Message(kind string, params map[string]any) string {
	tmpl, ok := t.dict[kind]
	if !ok {
		return kind
	}
	return Render(tmpl, params)
}

// Render substitutes {name} placeholders in tmpl with values from params.
// Unknown placeholders are left as-is.
func Render(tmpl string, params map[string]any) string {
	if len(params) == 0 || !strings.ContainsRune(tmpl, '{') {
		return tmpl
	}
	out := tmpl
	for k, v := range params {
		out = strings.ReplaceAll(out, "{"+k+"}", fmt.Sprint(v))
	}
	return out
}

var currentTranslator Translator = dictTranslator{dict: enMessages}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang == "ja" {
		currentTranslator = dictTranslator{dict: jaMessages}
		return
	}
	currentTranslator = dictTranslator{dict: enMessages}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). Passing nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{dict: enMessages}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given kind using the current Translator.
func T(kind string, params map[string]any) string { return currentTranslator.Message(kind, params) }
