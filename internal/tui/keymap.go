package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// KeyConfig overrides selected bindings. Blank fields keep the defaults.
type KeyConfig struct {
	PickCard    string
	PickColumn  string
	Search      string
	ActivityLog string
	CopyTitle   string
}

// keyMap represents key map data used by this package.
type keyMap struct {
	quit         key.Binding
	reload       key.Binding
	toggleHelp   key.Binding
	moveLeft     key.Binding
	moveRight    key.Binding
	moveUp       key.Binding
	moveDown     key.Binding
	pickCard     key.Binding
	pickColumn   key.Binding
	drop         key.Binding
	cancel       key.Binding
	addCard      key.Binding
	addColumn    key.Binding
	renameColumn key.Binding
	editCard     key.Binding
	deleteCard   key.Binding
	deleteColumn key.Binding
	cardInfo     key.Binding
	copyTitle    key.Binding
	search       key.Binding
	activityLog  key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:       key.NewBinding(key.WithKeys("R", "shift+r"), key.WithHelp("R", "reload")),
		toggleHelp:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "card up")),
		moveDown:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "card down")),
		pickCard:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "move card")),
		pickColumn:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move column")),
		drop:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		addCard:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new card")),
		addColumn:    key.NewBinding(key.WithKeys("N", "shift+n"), key.WithHelp("N", "new column")),
		renameColumn: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename column")),
		editCard:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit card")),
		deleteCard:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete card")),
		deleteColumn: key.NewBinding(key.WithKeys("D", "shift+d"), key.WithHelp("D", "delete column")),
		cardInfo:     key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "card info")),
		copyTitle:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy title")),
		search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		activityLog:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "activity log")),
	}
}

// applyConfig applies configured key overrides on top of the defaults.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.pickCard, cfg.PickCard, "space", "move card")
	configureBinding(&k.pickColumn, cfg.PickColumn, "m", "move column")
	configureBinding(&k.search, cfg.Search, "/", "search")
	configureBinding(&k.activityLog, cfg.ActivityLog, "g", "activity log")
	configureBinding(&k.copyTitle, cfg.CopyTitle, "y", "copy title")
}

// configureBinding replaces the keys and help text of one binding.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, helpKey := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(helpKey, desc)
}

// parseBindingKeys maps a configured key name to matcher keys and a help label.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	if strings.EqualFold(raw, "space") || raw == " " {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		if unicode.IsUpper(r) {
			return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw
		}
		return []string{raw}, raw
	}
	return []string{strings.ToLower(raw)}, raw
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.pickCard, k.addCard, k.editCard, k.cardInfo, k.addColumn, k.search, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown, k.pickCard, k.pickColumn, k.drop, k.cancel},
		{k.addCard, k.editCard, k.cardInfo, k.copyTitle, k.deleteCard},
		{k.addColumn, k.renameColumn, k.deleteColumn, k.search, k.activityLog, k.reload, k.toggleHelp, k.quit},
	}
}
