package app

import "strings"

// Buffer is the in-memory text of a note open in the editor. Edits are kept
// here until an explicit save.
type Buffer struct {
	text   []rune
	cursor int // rune offset
	saved  string
}

// NewBuffer starts a clean buffer over text with the cursor at the end.
func NewBuffer(text string) *Buffer {
	r := []rune(text)
	return &Buffer{text: r, cursor: len(r), saved: text}
}

// String returns the current text.
func (b *Buffer) String() string { return string(b.text) }

// Dirty reports whether the text differs from what was last saved or loaded.
func (b *Buffer) Dirty() bool { return string(b.text) != b.saved }

// MarkSaved records the current text as persisted.
func (b *Buffer) MarkSaved() { b.saved = string(b.text) }

// Reset replaces the text with freshly loaded content.
func (b *Buffer) Reset(text string) {
	b.text = []rune(text)
	b.saved = text
	if b.cursor > len(b.text) {
		b.cursor = len(b.text)
	}
}

// Insert types r at the cursor.
func (b *Buffer) Insert(r rune) {
	b.text = append(b.text, 0)
	copy(b.text[b.cursor+1:], b.text[b.cursor:])
	b.text[b.cursor] = r
	b.cursor++
}

// InsertString types s at the cursor.
func (b *Buffer) InsertString(s string) {
	for _, r := range s {
		b.Insert(r)
	}
}

// Backspace deletes the rune before the cursor.
func (b *Buffer) Backspace() {
	if b.cursor == 0 {
		return
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
}

// Left moves the cursor one rune back.
func (b *Buffer) Left() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// Right moves the cursor one rune forward.
func (b *Buffer) Right() {
	if b.cursor < len(b.text) {
		b.cursor++
	}
}

// Home moves to the start of the current line.
func (b *Buffer) Home() { b.cursor = b.lineStart(b.cursor) }

// End moves to the end of the current line.
func (b *Buffer) End() { b.cursor = b.lineEnd(b.cursor) }

// Up moves to the previous line, keeping the column where possible.
func (b *Buffer) Up() {
	start := b.lineStart(b.cursor)
	if start == 0 {
		b.cursor = 0
		return
	}
	col := b.cursor - start
	prevStart := b.lineStart(start - 1)
	b.cursor = min(prevStart+col, start-1)
}

// Down moves to the next line, keeping the column where possible.
func (b *Buffer) Down() {
	end := b.lineEnd(b.cursor)
	if end == len(b.text) {
		b.cursor = end
		return
	}
	col := b.cursor - b.lineStart(b.cursor)
	nextStart := end + 1
	b.cursor = min(nextStart+col, b.lineEnd(nextStart))
}

// Position returns the zero-based line and column of the cursor.
func (b *Buffer) Position() (row, col int) {
	for _, r := range b.text[:b.cursor] {
		if r == '\n' {
			row++
		}
	}
	return row, b.cursor - b.lineStart(b.cursor)
}

// Lines splits the text into lines.
func (b *Buffer) Lines() []string {
	return strings.Split(string(b.text), "\n")
}

func (b *Buffer) lineStart(i int) int {
	for i > 0 && b.text[i-1] != '\n' {
		i--
	}
	return i
}

func (b *Buffer) lineEnd(i int) int {
	for i < len(b.text) && b.text[i] != '\n' {
		i++
	}
	return i
}
