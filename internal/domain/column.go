package domain

import "strings"

// Column represents a named ordered list of cards.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Cards []Card `json:"cards"`
}

// NewColumn constructs an empty column.
func NewColumn(id, title string) (Column, error) {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)
	if id == "" {
		return Column{}, ErrInvalidID
	}
	if title == "" {
		return Column{}, ErrInvalidTitle
	}
	return Column{
		ID:    id,
		Title: title,
		Cards: []Card{},
	}, nil
}

// CardIndex returns the position of a card in the column, or -1.
func (c Column) CardIndex(cardID string) int {
	for i, card := range c.Cards {
		if card.ID == cardID {
			return i
		}
	}
	return -1
}
