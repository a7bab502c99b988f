package util

import "strings"

// markdownSpecials is the Telegram MarkdownV2 character class that must be
// backslash-escaped in regular text, plus backslash itself.
const markdownSpecials = `_*[]()~` + "`" + `>#+-=|{}.!\`

// EscapeMarkdownV2 escapes every MarkdownV2-special character in s. Callers
// must apply it exactly once, on raw user-supplied text.
func EscapeMarkdownV2(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if strings.ContainsRune(markdownSpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UnescapeMarkdownV2 reverses EscapeMarkdownV2.
func UnescapeMarkdownV2(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) && strings.ContainsRune(markdownSpecials, runes[i+1]) {
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

// EscapeLinkURL escapes a URL for the (...) part of a MarkdownV2 inline
// link, where only ')' and '\' are special.
func EscapeLinkURL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `)`, `\)`)
}
