package notes

import (
	"strings"
	"unicode"
)

// Slug turns a title into a file name: lowercase letters and digits joined
// by single dashes, with the .md extension. Titles with nothing usable map to
// "note.md".
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	if b.Len() == 0 {
		return "note" + Ext
	}
	return b.String() + Ext
}

// NewNoteText is the initial content of a note created from a title.
func NewNoteText(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "# " + title + "\n"
}
