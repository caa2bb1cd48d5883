package render

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const ellipsis = "..."

// AddEllipsis appends "..." unless s already ends a sentence
func AddEllipsis(s string) string {
	if s == "" {
		return s
	}
	switch last, _ := utf8.DecodeLastRuneInString(s); last {
	case '.', '!', '?':
		return s
	}
	return s + ellipsis
}

// Truncate shortens s to at most limit runes, marking the cut with an ellipsis
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit <= len(ellipsis) {
		return string([]rune(s)[:limit])
	}
	cut := strings.TrimRightFunc(string([]rune(s)[:limit-len(ellipsis)]), unicode.IsSpace)
	return cut + ellipsis
}

// InlineCode wraps s in backticks
func InlineCode(s string) string {
	return "`" + s + "`"
}

// UppercaseFirst capitalizes the first letter of s
func UppercaseFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
