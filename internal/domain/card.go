package domain

import (
	"slices"
	"strings"
	"time"
)

// Card is a titled work item. Its column and position are implied by where it sits in a board.
type Card struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	Labels      []Label    `json:"labels"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

// CardInput holds the values used to construct a card.
type CardInput struct {
	ID          string
	Title       string
	Description string
	Labels      []Label
	DueAt       *time.Time
}

// CardPatch replaces card fields. Nil fields keep their current value.
type CardPatch struct {
	Title       *string
	Description *string
	Labels      *[]Label
	DueAt       *time.Time
	ClearDueAt  bool
}

// NewCard constructs a card created at now.
func NewCard(in CardInput, now time.Time) (Card, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.ID == "" {
		return Card{}, ErrInvalidID
	}
	if in.Title == "" {
		return Card{}, ErrInvalidTitle
	}
	labels, err := normalizeLabels(in.Labels)
	if err != nil {
		return Card{}, err
	}
	return Card{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   now.UTC(),
		Labels:      labels,
		DueAt:       normalizeDueAt(in.DueAt),
	}, nil
}

// Apply returns a copy of the card with the patch applied. ID and CreatedAt never change.
func (c Card) Apply(p CardPatch) (Card, error) {
	out := c
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return Card{}, ErrInvalidTitle
		}
		out.Title = title
	}
	if p.Description != nil {
		out.Description = strings.TrimSpace(*p.Description)
	}
	if p.Labels != nil {
		labels, err := normalizeLabels(*p.Labels)
		if err != nil {
			return Card{}, err
		}
		out.Labels = labels
	} else {
		out.Labels = slices.Clone(c.Labels)
	}
	switch {
	case p.ClearDueAt:
		out.DueAt = nil
	case p.DueAt != nil:
		out.DueAt = normalizeDueAt(p.DueAt)
	}
	return out, nil
}

// IsEmpty reports whether the patch would leave a card untouched.
func (p CardPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Labels == nil && p.DueAt == nil && !p.ClearDueAt
}

// Overdue reports whether the card has a due date before now.
func (c Card) Overdue(now time.Time) bool {
	return c.DueAt != nil && c.DueAt.Before(now.UTC())
}

func normalizeDueAt(dueAt *time.Time) *time.Time {
	if dueAt == nil {
		return nil
	}
	ts := dueAt.UTC().Truncate(time.Second)
	return &ts
}
