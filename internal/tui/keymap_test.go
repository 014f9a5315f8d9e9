package tui

import (
	"slices"
	"testing"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// TestBoardKeyDefaults checks which presses trigger the drag and lookup bindings out of the box.
func TestBoardKeyDefaults(t *testing.T) {
	k := newKeyMap()
	cases := []struct {
		name    string
		binding key.Binding
		press   tea.KeyPressMsg
		want    bool
	}{
		{name: "space picks card", binding: k.pickCard, press: tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}, want: true},
		{name: "m picks column", binding: k.pickColumn, press: keyRune('m'), want: true},
		{name: "M is not pick column", binding: k.pickColumn, press: keyRune('M'), want: false},
		{name: "N adds column", binding: k.addColumn, press: keyRune('N'), want: true},
		{name: "n is not add column", binding: k.addColumn, press: keyRune('n'), want: false},
		{name: "enter drops", binding: k.drop, press: tea.KeyPressMsg{Code: tea.KeyEnter}, want: true},
		{name: "slash searches", binding: k.search, press: keyRune('/'), want: true},
		{name: "g opens activity", binding: k.activityLog, press: keyRune('g'), want: true},
		{name: "y copies title", binding: k.copyTitle, press: keyRune('y'), want: true},
	}
	for _, tc := range cases {
		if got := key.Matches(tc.press, tc.binding); got != tc.want {
			t.Fatalf("%s: Matches(%q) = %v, want %v", tc.name, tc.press.String(), got, tc.want)
		}
	}
}

// TestBoardKeyOverrides checks configured keys replace the defaults they stand in for.
func TestBoardKeyOverrides(t *testing.T) {
	k := newKeyMap()
	k.applyConfig(KeyConfig{
		PickCard:    "x",
		PickColumn:  "M",
		Search:      "ctrl+f",
		ActivityLog: "space",
	})

	if !key.Matches(keyRune('x'), k.pickCard) || key.Matches(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}, k.pickCard) {
		t.Fatalf("expected x to replace space for pick card, keys %#v", k.pickCard.Keys())
	}
	if !slices.Equal(k.pickColumn.Keys(), []string{"M", "shift+m"}) || key.Matches(keyRune('m'), k.pickColumn) {
		t.Fatalf("expected uppercase pick column with shift alias, keys %#v", k.pickColumn.Keys())
	}
	if !key.Matches(tea.KeyPressMsg{Code: 'f', Mod: tea.ModCtrl}, k.search) || key.Matches(keyRune('/'), k.search) {
		t.Fatalf("expected ctrl+f search, keys %#v", k.search.Keys())
	}
	if !slices.Equal(k.activityLog.Keys(), []string{" ", "space"}) || k.activityLog.Help().Key != "space" {
		t.Fatalf("expected space activity log, keys %#v help %#v", k.activityLog.Keys(), k.activityLog.Help())
	}
	if k.copyTitle.Help().Key != "y" || k.copyTitle.Help().Desc != "copy title" {
		t.Fatalf("expected blank override to keep copy title default, help %#v", k.copyTitle.Help())
	}
	if k.pickColumn.Help().Key != "M" || k.pickColumn.Help().Desc != "move column" {
		t.Fatalf("expected help to show configured key, got %#v", k.pickColumn.Help())
	}
}

// TestParseBindingKeysFallbacks covers the blank and multi-rune forms accepted in the keys config.
func TestParseBindingKeysFallbacks(t *testing.T) {
	tests := []struct {
		raw, fallback string
		keys          []string
		help          string
	}{
		{raw: "  ", fallback: "g", keys: []string{"g"}, help: "g"},
		{raw: "", fallback: "space", keys: []string{" ", "space"}, help: "space"},
		{raw: "Ctrl+F", fallback: "/", keys: []string{"ctrl+f"}, help: "Ctrl+F"},
		{raw: "D", fallback: "d", keys: []string{"D", "shift+d"}, help: "D"},
	}
	for _, tc := range tests {
		keys, help := parseBindingKeys(tc.raw, tc.fallback)
		if !slices.Equal(keys, tc.keys) || help != tc.help {
			t.Fatalf("parseBindingKeys(%q, %q) = %#v %q, want %#v %q", tc.raw, tc.fallback, keys, help, tc.keys, tc.help)
		}
	}
}

// TestKeyMapHelpGroups verifies every binding shows up in the full help.
func TestKeyMapHelpGroups(t *testing.T) {
	k := newKeyMap()
	total := 0
	for _, group := range k.FullHelp() {
		total += len(group)
	}
	if total != 21 {
		t.Fatalf("expected 21 bindings in full help, got %d", total)
	}
	if len(k.ShortHelp()) == 0 {
		t.Fatal("expected short help bindings")
	}
}
