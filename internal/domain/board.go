package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Board is the whole kanban document. Column order is the order of Columns.
type Board struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Columns     []Column `json:"columns"`
}

// NewBoard constructs an empty board.
func NewBoard(id, title, description string) (Board, error) {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)
	if id == "" {
		return Board{}, ErrInvalidID
	}
	if title == "" {
		return Board{}, ErrInvalidTitle
	}
	return Board{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(description),
		Columns:     []Column{},
	}, nil
}

// ColumnIndex returns the position of a column, or -1.
func (b Board) ColumnIndex(columnID string) int {
	for i, col := range b.Columns {
		if col.ID == columnID {
			return i
		}
	}
	return -1
}

// FindCard returns the column and card positions holding cardID.
func (b Board) FindCard(cardID string) (colIdx, cardIdx int, ok bool) {
	for i, col := range b.Columns {
		if j := col.CardIndex(cardID); j >= 0 {
			return i, j, true
		}
	}
	return -1, -1, false
}

// Card returns the card with the given id.
func (b Board) Card(cardID string) (Card, bool) {
	i, j, ok := b.FindCard(cardID)
	if !ok {
		return Card{}, false
	}
	return b.Columns[i].Cards[j], true
}

// HasID reports whether any column or card already uses id.
func (b Board) HasID(id string) bool {
	if b.ColumnIndex(id) >= 0 {
		return true
	}
	_, _, ok := b.FindCard(id)
	return ok
}

// CardCount returns the number of cards across all columns.
func (b Board) CardCount() int {
	n := 0
	for _, col := range b.Columns {
		n += len(col.Cards)
	}
	return n
}

// Clone returns a deep copy that shares no slices with b.
func (b Board) Clone() Board {
	out := b
	out.Columns = make([]Column, len(b.Columns))
	for i, col := range b.Columns {
		cards := make([]Card, len(col.Cards))
		for j, card := range col.Cards {
			card.Labels = slices.Clone(card.Labels)
			if card.DueAt != nil {
				due := *card.DueAt
				card.DueAt = &due
			}
			cards[j] = card
		}
		col.Cards = cards
		out.Columns[i] = col
	}
	return out
}

// Equal reports whether two boards hold the same values in the same order.
func (b Board) Equal(other Board) bool {
	if b.ID != other.ID || b.Title != other.Title || b.Description != other.Description {
		return false
	}
	return slices.EqualFunc(b.Columns, other.Columns, func(x, y Column) bool {
		return x.ID == y.ID && x.Title == y.Title && slices.EqualFunc(x.Cards, y.Cards, cardsEqual)
	})
}

func cardsEqual(x, y Card) bool {
	if x.ID != y.ID || x.Title != y.Title || x.Description != y.Description {
		return false
	}
	if !x.CreatedAt.Equal(y.CreatedAt) || !slices.Equal(x.Labels, y.Labels) {
		return false
	}
	switch {
	case x.DueAt == nil && y.DueAt == nil:
		return true
	case x.DueAt == nil || y.DueAt == nil:
		return false
	default:
		return x.DueAt.Equal(*y.DueAt)
	}
}

// Validate reports the first structural problem found on the board.
func (b Board) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("board: %w", ErrInvalidID)
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("board %q: %w", b.ID, ErrInvalidTitle)
	}
	columnIDs := map[string]struct{}{}
	cardIDs := map[string]struct{}{}
	claim := func(seen map[string]struct{}, id string) error {
		if strings.TrimSpace(id) == "" {
			return ErrInvalidID
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		return nil
	}
	for i, col := range b.Columns {
		if err := claim(columnIDs, col.ID); err != nil {
			return fmt.Errorf("columns[%d]: %w", i, err)
		}
		if strings.TrimSpace(col.Title) == "" {
			return fmt.Errorf("columns[%d]: %w", i, ErrInvalidTitle)
		}
		for j, card := range col.Cards {
			if err := claim(cardIDs, card.ID); err != nil {
				return fmt.Errorf("columns[%d].cards[%d]: %w", i, j, err)
			}
			if strings.TrimSpace(card.Title) == "" {
				return fmt.Errorf("columns[%d].cards[%d]: %w", i, j, ErrInvalidTitle)
			}
		}
	}
	return nil
}
