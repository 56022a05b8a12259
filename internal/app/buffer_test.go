package app

import "testing"

func TestBufferEditing(t *testing.T) {
	b := NewBuffer("ab\ncd")
	if b.Dirty() {
		t.Fatal("new buffer is dirty")
	}

	b.Insert('!')
	if got := b.String(); got != "ab\ncd!" {
		t.Errorf("after Insert = %q", got)
	}
	if !b.Dirty() {
		t.Error("Dirty() = false after Insert")
	}

	b.Backspace()
	if b.Dirty() {
		t.Error("Dirty() = true after undoing the only edit")
	}

	b.Home()
	b.InsertString("> ")
	if got := b.String(); got != "ab\n> cd" {
		t.Errorf("after Home+InsertString = %q", got)
	}

	b.MarkSaved()
	if b.Dirty() {
		t.Error("Dirty() = true after MarkSaved")
	}
}

func TestBufferCursorMovement(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		moves   func(b *Buffer)
		wantRow int
		wantCol int
	}{
		{"starts at end", "one\ntwo", func(b *Buffer) {}, 1, 3},
		{"up keeps column", "one\ntwo", func(b *Buffer) { b.Up() }, 0, 3},
		{"up clamps to shorter line", "a\nlonger", func(b *Buffer) { b.Up() }, 0, 1},
		{"up on first line goes home", "abc", func(b *Buffer) { b.Up() }, 0, 0},
		{"down clamps", "longer\na", func(b *Buffer) { b.Up(); b.End(); b.Down() }, 1, 1},
		{"left stops at start", "ab", func(b *Buffer) { b.Left(); b.Left(); b.Left() }, 0, 0},
		{"right stops at end", "ab", func(b *Buffer) { b.Right() }, 0, 2},
		{"home and end", "ab\ncd", func(b *Buffer) { b.Home(); b.Right(); b.End() }, 1, 2},
		{"multibyte", "héllo", func(b *Buffer) { b.Left() }, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.text)
			tt.moves(b)
			row, col := b.Position()
			if row != tt.wantRow || col != tt.wantCol {
				t.Errorf("Position() = (%d, %d), want (%d, %d)", row, col, tt.wantRow, tt.wantCol)
			}
		})
	}
}

func TestBufferResetClampsCursor(t *testing.T) {
	b := NewBuffer("a long line")
	b.Reset("ab")
	if row, col := b.Position(); row != 0 || col != 2 {
		t.Errorf("Position() = (%d, %d), want (0, 2)", row, col)
	}
	if b.Dirty() || b.String() != "ab" {
		t.Errorf("after Reset: %q dirty %v", b.String(), b.Dirty())
	}
}

func TestBackspaceAtStart(t *testing.T) {
	b := NewBuffer("ab")
	b.Home()
	b.Backspace()
	if b.String() != "ab" {
		t.Errorf("String() = %q", b.String())
	}
}
