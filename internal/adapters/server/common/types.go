// Package common provides transport-agnostic server contracts used by HTTP and MCP adapters.
package common

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidRequest reports malformed or rejected input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound reports missing transport-visible resources.
var ErrNotFound = errors.New("not found")

// ErrConflict reports a request that collides with existing board state.
var ErrConflict = errors.New("conflict")

// ErrUnavailable reports an optional backing surface that is not configured.
var ErrUnavailable = errors.New("unavailable")

// Label is the transport shape of a card label.
type Label struct {
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	TextColor string `json:"text_color,omitempty"`
}

// Card is the transport shape of a card.
type Card struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	Labels      []Label    `json:"labels"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Overdue     bool       `json:"overdue"`
}

// Column is the transport shape of a column.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Cards []Card `json:"cards"`
}

// Board is the transport shape of the whole board at one revision.
type Board struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Revision    uint64   `json:"revision"`
	Columns     []Column `json:"columns"`
}

// ColumnCount summarizes one column for BoardSummary.
type ColumnCount struct {
	ColumnID string `json:"column_id"`
	Title    string `json:"title"`
	Cards    int    `json:"cards"`
}

// BoardSummary is a compact, hashable view of the board for quick polling.
type BoardSummary struct {
	CapturedAt   time.Time     `json:"captured_at"`
	Revision     uint64        `json:"revision"`
	StateHash    string        `json:"state_hash"`
	TotalCards   int           `json:"total_cards"`
	OverdueCards int           `json:"overdue_cards"`
	Columns      []ColumnCount `json:"columns"`
}

// ChangeEvent is the transport shape of one activity entry.
type ChangeEvent struct {
	ID         int64     `json:"id"`
	Revision   uint64    `json:"revision"`
	Operation  string    `json:"operation"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	Summary    string    `json:"summary"`
	ActorID    string    `json:"actor_id"`
	ActorType  string    `json:"actor_type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CardMatch is one search hit.
type CardMatch struct {
	Card        Card   `json:"card"`
	ColumnID    string `json:"column_id"`
	ColumnTitle string `json:"column_title"`
	Index       int    `json:"index"`
	Score       int    `json:"score"`
}

// Actor identifies the caller of a mutation.
type Actor struct {
	ID   string
	Type string
}

// AddColumnRequest stores transport input for column creation.
type AddColumnRequest struct {
	Title string `json:"title"`
	Actor Actor  `json:"-"`
}

// RenameColumnRequest stores transport input for column renames.
type RenameColumnRequest struct {
	ColumnID string `json:"-"`
	Title    string `json:"title"`
	Actor    Actor  `json:"-"`
}

// AddCardRequest stores transport input for card creation. DueAt accepts RFC 3339 or YYYY-MM-DD.
type AddCardRequest struct {
	ColumnID    string  `json:"-"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Labels      []Label `json:"labels,omitempty"`
	DueAt       string  `json:"due_at,omitempty"`
	Actor       Actor   `json:"-"`
}

// UpdateCardRequest stores transport input for card updates. Nil fields are left unchanged.
type UpdateCardRequest struct {
	CardID      string   `json:"-"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Labels      *[]Label `json:"labels,omitempty"`
	DueAt       *string  `json:"due_at,omitempty"`
	ClearDueAt  bool     `json:"clear_due_at,omitempty"`
	Actor       Actor    `json:"-"`
}

// MoveCardRequest stores transport input for card moves.
type MoveCardRequest struct {
	FromColumnID string `json:"from_column_id"`
	FromIndex    int    `json:"from_index"`
	ToColumnID   string `json:"to_column_id"`
	ToIndex      int    `json:"to_index"`
	Actor        Actor  `json:"-"`
}

// ReorderColumnsRequest stores transport input for column reorders.
type ReorderColumnsRequest struct {
	From  int   `json:"from"`
	To    int   `json:"to"`
	Actor Actor `json:"-"`
}

// BoardService is the board surface shared by HTTP and MCP adapters.
type BoardService interface {
	GetBoard(context.Context) (Board, error)
	BoardSummary(context.Context) (BoardSummary, error)
	AddColumn(context.Context, AddColumnRequest) (Column, error)
	RenameColumn(context.Context, RenameColumnRequest) (Column, error)
	DeleteColumn(context.Context, string, Actor) error
	AddCard(context.Context, AddCardRequest) (Card, error)
	UpdateCard(context.Context, UpdateCardRequest) (Card, error)
	DeleteCard(context.Context, string, Actor) error
	MoveCard(context.Context, MoveCardRequest) (Board, error)
	ReorderColumns(context.Context, ReorderColumnsRequest) (Board, error)
	SearchCards(context.Context, string, int) ([]CardMatch, error)
	ListActivity(context.Context, int) ([]ChangeEvent, error)
}
