package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLabelLength bounds titles and key points. Summaries are short
// sentences; anything longer is almost certainly a parsing mistake upstream.
const MaxLabelLength = 2000

// ValidateLabel validates a title or key-point text.
// The field argument names the offending location (e.g. "topic 2 title")
// so the message can point the user at it.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only text
//   - Valid UTF-8
//   - No control characters other than newline and tab
//   - Maximum length of MaxLabelLength runes
func ValidateLabel(field, text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidHierarchy, "%s cannot be empty", field)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidHierarchy, "%s is not valid UTF-8", field)
	}
	if n := utf8.RuneCountInString(text); n > MaxLabelLength {
		return New(ErrCodeInvalidHierarchy, "%s too long (%d runes, max %d)", field, n, MaxLabelLength)
	}
	for _, r := range text {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidHierarchy, "%s contains invalid control characters", field)
		}
	}
	return nil
}

// ValidateNodeID validates a diagram node identifier received from a caller
// (CLI flag, HTTP body). It only checks shape; existence is the engine's job.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "node id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid characters")
		}
	}
	return nil
}
