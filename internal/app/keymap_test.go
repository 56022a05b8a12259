package app

import (
	"reflect"
	"testing"

	"github.com/charmbracelet/bubbles/key"

	"ratanotes/internal/config"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"d1", "d2"}},
		{"a", []string{"a"}},
		{"a, b ,c", []string{"a", "b", "c"}},
		{",,", []string{"d1", "d2"}},
		{"space,x", []string{" ", "x"}},
	}
	for _, tt := range tests {
		if got := parseKeys(tt.in, "d1", "d2"); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseKeys(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewKeyMapOverrides(t *testing.T) {
	km := NewKeyMap(&config.KeysConfig{Quit: "Q", Toggle: "space"})

	if !matches(Char('Q'), km.Quit) || matches(Char('q'), km.Quit) {
		t.Error("Quit override not applied")
	}
	if !matches(Char(' '), km.Toggle) {
		t.Error("space binding not applied")
	}
	if !matches(Key("down"), km.Down) {
		t.Error("Down lost its default")
	}
}

func TestMatches(t *testing.T) {
	save := key.NewBinding(key.WithKeys("ctrl+s", "w"))
	tests := []struct {
		name string
		k    KeyPress
		b    key.Binding
		want bool
	}{
		{"first key", Key("ctrl+s"), save, true},
		{"second key", Char('w'), save, true},
		{"other key", Char('s'), save, false},
		{"disabled", Char('w'), key.NewBinding(key.WithKeys("w"), key.WithDisabled()), false},
		{"unbound", Char('w'), key.NewBinding(), false},
	}
	for _, tt := range tests {
		if got := matches(tt.k, tt.b); got != tt.want {
			t.Errorf("%s: matches(%q) = %v, want %v", tt.name, tt.k.Key, got, tt.want)
		}
	}
	if !matches(Char('x'), save, key.NewBinding(key.WithKeys("x"))) {
		t.Error("matches should accept any of several bindings")
	}
}

func TestResolveByMode(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "x"})
	s := f.state

	if got := s.Resolve(Char('j')); got != (MoveDown{}) {
		t.Errorf("normal j = %#v", got)
	}
	if got := s.Resolve(Char('z')); got != nil {
		t.Errorf("normal z = %#v, want nil", got)
	}

	s.Update(Open{})
	s.Update(EnterInsert{})
	if got := s.Resolve(Char('j')); got != (InsertChar{Char: 'j'}) {
		t.Errorf("insert j = %#v", got)
	}
	if got := s.Resolve(Key("enter")); got != (NewLine{}) {
		t.Errorf("insert enter = %#v", got)
	}
	if got := s.Resolve(KeyPress{Key: "[pasted]", Runes: []rune("pasted")}); got != (InsertText{Text: "pasted"}) {
		t.Errorf("insert paste = %#v", got)
	}
	if got := s.Resolve(Key("ctrl+c")); got != (ForceQuit{}) {
		t.Errorf("ctrl+c = %#v", got)
	}

	s.Update(Cancel{})
	s.Update(EnterCommand{})
	s.Update(InsertChar{Char: 'w'})
	if got := s.Resolve(Key("enter")); got != (CommandSubmit{Line: "w"}) {
		t.Errorf("command enter = %#v", got)
	}
}
