package domain

import (
	"fmt"
	"slices"
	"strings"
)

// ColumnMove relocates the column at From so that it ends up at To.
type ColumnMove struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// IsNoop reports whether the move leaves the column where it is.
func (m ColumnMove) IsNoop() bool {
	return m.From == m.To
}

// CardMove removes the card at FromIndex of FromColumnID and inserts it at ToIndex of ToColumnID.
type CardMove struct {
	FromColumnID string `json:"from_column_id"`
	FromIndex    int    `json:"from_index"`
	ToColumnID   string `json:"to_column_id"`
	ToIndex      int    `json:"to_index"`
}

// IsNoop reports whether source and destination are the same position.
func (m CardMove) IsNoop() bool {
	return m.FromColumnID == m.ToColumnID && m.FromIndex == m.ToIndex
}

// ReorderColumns moves one column. Every other column shifts to keep the sequence dense.
func ReorderColumns(b Board, mv ColumnMove) (Board, error) {
	if mv.IsNoop() {
		return b, nil
	}
	n := len(b.Columns)
	if mv.From < 0 || mv.From >= n || mv.To < 0 || mv.To > n-1 {
		return b, fmt.Errorf("%w: column %d -> %d with %d columns", ErrInvalidIndex, mv.From, mv.To, n)
	}
	cols := slices.Clone(b.Columns)
	moved := cols[mv.From]
	cols = slices.Delete(cols, mv.From, mv.From+1)
	cols = slices.Insert(cols, mv.To, moved)

	out := b
	out.Columns = cols
	return out, nil
}

// MoveCard moves one card within a column or between two columns.
// Indices follow splice semantics: the destination index is measured after removal.
func MoveCard(b Board, mv CardMove) (Board, error) {
	if mv.IsNoop() {
		return b, nil
	}
	src := b.ColumnIndex(mv.FromColumnID)
	if src < 0 {
		return b, fmt.Errorf("%w: %s", ErrColumnNotFound, mv.FromColumnID)
	}
	dst := b.ColumnIndex(mv.ToColumnID)
	if dst < 0 {
		return b, fmt.Errorf("%w: %s", ErrColumnNotFound, mv.ToColumnID)
	}

	srcCards := cloneCards(b.Columns[src].Cards)
	if mv.FromIndex < 0 || mv.FromIndex >= len(srcCards) {
		return b, fmt.Errorf("%w: source %d in column %s of %d cards", ErrInvalidIndex, mv.FromIndex, mv.FromColumnID, len(srcCards))
	}
	moved := srcCards[mv.FromIndex]
	srcCards = slices.Delete(srcCards, mv.FromIndex, mv.FromIndex+1)

	cols := slices.Clone(b.Columns)
	if src == dst {
		if mv.ToIndex < 0 || mv.ToIndex > len(srcCards) {
			return b, fmt.Errorf("%w: destination %d in column %s", ErrInvalidIndex, mv.ToIndex, mv.ToColumnID)
		}
		cols[src].Cards = slices.Insert(srcCards, mv.ToIndex, moved)
	} else {
		dstCards := cloneCards(b.Columns[dst].Cards)
		if mv.ToIndex < 0 || mv.ToIndex > len(dstCards) {
			return b, fmt.Errorf("%w: destination %d in column %s of %d cards", ErrInvalidIndex, mv.ToIndex, mv.ToColumnID, len(dstCards))
		}
		cols[src].Cards = srcCards
		cols[dst].Cards = slices.Insert(dstCards, mv.ToIndex, moved)
	}

	out := b
	out.Columns = cols
	return out, nil
}

// AddColumn appends an empty column to the board. Cards are added with AddCard.
func AddColumn(b Board, col Column) (Board, error) {
	if len(col.Cards) > 0 {
		return b, fmt.Errorf("%w: column %s", ErrColumnNotEmpty, col.ID)
	}
	col, err := NewColumn(col.ID, col.Title)
	if err != nil {
		return b, err
	}
	if b.ColumnIndex(col.ID) >= 0 {
		return b, fmt.Errorf("%w: column %s", ErrDuplicateID, col.ID)
	}
	out := b
	out.Columns = append(slices.Clone(b.Columns), col)
	return out, nil
}

// AddCard appends a card to the end of a column.
func AddCard(b Board, columnID string, card Card) (Board, error) {
	idx := b.ColumnIndex(columnID)
	if idx < 0 {
		return b, fmt.Errorf("%w: %s", ErrColumnNotFound, columnID)
	}
	if strings.TrimSpace(card.ID) == "" {
		return b, ErrInvalidID
	}
	if strings.TrimSpace(card.Title) == "" {
		return b, ErrInvalidTitle
	}
	if _, _, ok := b.FindCard(card.ID); ok {
		return b, fmt.Errorf("%w: card %s", ErrDuplicateID, card.ID)
	}
	cols := slices.Clone(b.Columns)
	cols[idx].Cards = append(cloneCards(b.Columns[idx].Cards), card)

	out := b
	out.Columns = cols
	return out, nil
}

// EditColumn renames a column. Renaming to the current title returns b unchanged.
func EditColumn(b Board, columnID, title string) (Board, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return b, ErrInvalidTitle
	}
	idx := b.ColumnIndex(columnID)
	if idx < 0 {
		return b, fmt.Errorf("%w: %s", ErrColumnNotFound, columnID)
	}
	if b.Columns[idx].Title == title {
		return b, nil
	}
	cols := slices.Clone(b.Columns)
	cols[idx].Title = title

	out := b
	out.Columns = cols
	return out, nil
}

// EditCard applies a patch to one card in place.
func EditCard(b Board, cardID string, patch CardPatch) (Board, error) {
	colIdx, cardIdx, ok := b.FindCard(cardID)
	if !ok {
		return b, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}
	updated, err := b.Columns[colIdx].Cards[cardIdx].Apply(patch)
	if err != nil {
		return b, err
	}
	cards := cloneCards(b.Columns[colIdx].Cards)
	cards[cardIdx] = updated
	cols := slices.Clone(b.Columns)
	cols[colIdx].Cards = cards

	out := b
	out.Columns = cols
	return out, nil
}

// DeleteColumn removes a column together with every card it holds.
func DeleteColumn(b Board, columnID string) (Board, error) {
	idx := b.ColumnIndex(columnID)
	if idx < 0 {
		return b, fmt.Errorf("%w: %s", ErrColumnNotFound, columnID)
	}
	cols := slices.Clone(b.Columns)
	cols = slices.Delete(cols, idx, idx+1)

	out := b
	out.Columns = cols
	return out, nil
}

// DeleteCard removes one card from whichever column holds it.
func DeleteCard(b Board, cardID string) (Board, error) {
	colIdx, cardIdx, ok := b.FindCard(cardID)
	if !ok {
		return b, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}
	cards := cloneCards(b.Columns[colIdx].Cards)
	cards = slices.Delete(cards, cardIdx, cardIdx+1)
	cols := slices.Clone(b.Columns)
	cols[colIdx].Cards = cards

	out := b
	out.Columns = cols
	return out, nil
}

// cloneCards copies a card sequence into a fresh non-nil slice with room for one insert.
func cloneCards(cards []Card) []Card {
	out := make([]Card, 0, len(cards)+1)
	return append(out, cards...)
}
