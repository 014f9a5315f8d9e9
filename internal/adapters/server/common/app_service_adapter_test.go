package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/osvalOrd/TrelloClone/internal/app"
	"github.com/osvalOrd/TrelloClone/internal/domain"
)

// memoryJournal keeps change events in a slice for adapter tests.
type memoryJournal struct {
	events []domain.ChangeEvent
}

func (m *memoryJournal) RecordChangeEvent(_ context.Context, ev domain.ChangeEvent) (domain.ChangeEvent, error) {
	ev.ID = int64(len(m.events) + 1)
	m.events = append(m.events, ev)
	return ev, nil
}

func (m *memoryJournal) ListChangeEvents(_ context.Context, limit int) ([]domain.ChangeEvent, error) {
	out := make([]domain.ChangeEvent, 0, limit)
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}

var testNow = time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)

func newTestAdapter(t *testing.T) (*AppServiceAdapter, *memoryJournal) {
	t.Helper()
	past := testNow.Add(-24 * time.Hour)
	board := domain.Board{
		ID:    "board-1",
		Title: "Board",
		Columns: []domain.Column{
			{ID: "todo", Title: "To Do", Cards: []domain.Card{
				{ID: "card-1", Title: "Overdue thing", CreatedAt: past, DueAt: &past},
				{ID: "card-2", Title: "Other", CreatedAt: past},
			}},
			{ID: "done", Title: "Done", Cards: []domain.Card{}},
		},
	}
	journal := &memoryJournal{}
	now := func() time.Time { return testNow }
	svc := app.NewService(app.NewStore(board), journal, app.SequenceIDGenerator(), now, app.ServiceConfig{})
	return NewAppServiceAdapter(svc, now), journal
}

func TestAdapterBoardAndSummary(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()
	b, err := a.GetBoard(ctx)
	if err != nil {
		t.Fatalf("GetBoard() error = %v", err)
	}
	if b.Revision != 0 || len(b.Columns) != 2 || !b.Columns[0].Cards[0].Overdue || b.Columns[0].Cards[1].Overdue {
		t.Fatalf("unexpected board %#v", b)
	}

	first, err := a.BoardSummary(ctx)
	if err != nil {
		t.Fatalf("BoardSummary() error = %v", err)
	}
	if first.TotalCards != 2 || first.OverdueCards != 1 || first.StateHash == "" || len(first.Columns) != 2 {
		t.Fatalf("unexpected summary %#v", first)
	}
	again, err := a.BoardSummary(ctx)
	if err != nil {
		t.Fatalf("BoardSummary() error = %v", err)
	}
	if again.StateHash != first.StateHash {
		t.Fatal("expected stable hash for an unchanged board")
	}
	if _, err := a.AddColumn(ctx, AddColumnRequest{Title: "New"}); err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}
	changed, err := a.BoardSummary(ctx)
	if err != nil {
		t.Fatalf("BoardSummary() error = %v", err)
	}
	if changed.StateHash == first.StateHash || changed.Revision != 1 {
		t.Fatalf("expected hash and revision to change, got %#v", changed)
	}
}

func TestAdapterCardCommands(t *testing.T) {
	a, journal := newTestAdapter(t)
	ctx := context.Background()

	card, err := a.AddCard(ctx, AddCardRequest{
		ColumnID: "done",
		Title:    "Ship",
		Labels:   []Label{{Name: "release"}},
		DueAt:    "2026-03-01",
		Actor:    Actor{ID: "bot", Type: "agent"},
	})
	if err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}
	if card.DueAt == nil || !card.DueAt.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) || card.Labels[0].TextColor != "white" {
		t.Fatalf("unexpected card %#v", card)
	}
	if journal.events[0].ActorID != "bot" || journal.events[0].ActorType != domain.ActorTypeAgent {
		t.Fatalf("unexpected actor %#v", journal.events[0])
	}

	empty := ""
	updated, err := a.UpdateCard(ctx, UpdateCardRequest{CardID: card.ID, DueAt: &empty})
	if err != nil {
		t.Fatalf("UpdateCard() error = %v", err)
	}
	if updated.DueAt != nil {
		t.Fatalf("expected blank due_at to clear the date, got %v", updated.DueAt)
	}
	if _, err := a.UpdateCard(ctx, UpdateCardRequest{CardID: card.ID}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty patch, got %v", err)
	}
	bad := "next tuesday"
	if _, err := a.UpdateCard(ctx, UpdateCardRequest{CardID: card.ID, DueAt: &bad}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for bad date, got %v", err)
	}

	b, err := a.MoveCard(ctx, MoveCardRequest{FromColumnID: "done", FromIndex: 0, ToColumnID: "todo", ToIndex: 0})
	if err != nil {
		t.Fatalf("MoveCard() error = %v", err)
	}
	if b.Columns[0].Cards[0].ID != card.ID {
		t.Fatalf("expected moved card first in To Do, got %s", b.Columns[0].Cards[0].ID)
	}
	if err := a.DeleteCard(ctx, card.ID, Actor{}); err != nil {
		t.Fatalf("DeleteCard() error = %v", err)
	}

	events, err := a.ListActivity(ctx, 0)
	if err != nil {
		t.Fatalf("ListActivity() error = %v", err)
	}
	if len(events) != 4 || events[0].Operation != "delete" || events[0].ActorID != "local" {
		t.Fatalf("unexpected activity %#v", events)
	}
}

func TestAdapterMovesReturnCommittedBoard(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	moved, err := a.MoveCard(ctx, MoveCardRequest{FromColumnID: "todo", FromIndex: 0, ToColumnID: "done", ToIndex: 0})
	if err != nil {
		t.Fatalf("MoveCard() error = %v", err)
	}
	if moved.Revision != 1 || moved.Columns[1].Cards[0].ID != "card-1" || !moved.Columns[1].Cards[0].Overdue {
		t.Fatalf("unexpected board after move %#v", moved)
	}

	reordered, err := a.ReorderColumns(ctx, ReorderColumnsRequest{From: 0, To: 1})
	if err != nil {
		t.Fatalf("ReorderColumns() error = %v", err)
	}
	if reordered.Revision != 2 || reordered.Columns[0].ID != "done" || reordered.Columns[1].ID != "todo" {
		t.Fatalf("unexpected board after reorder %#v", reordered)
	}
	if moved.Revision != 1 || moved.Columns[0].ID != "todo" {
		t.Fatal("expected earlier result to keep its own board")
	}

	same, err := a.MoveCard(ctx, MoveCardRequest{FromColumnID: "todo", FromIndex: 0, ToColumnID: "todo", ToIndex: 0})
	if err != nil {
		t.Fatalf("MoveCard() no-op error = %v", err)
	}
	if same.Revision != 2 || same.Columns[0].ID != "done" {
		t.Fatalf("expected no-op move to report the current board, got %#v", same)
	}
}

func TestAdapterErrorMapping(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()
	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "missing column", err: a.DeleteColumn(ctx, "nope", Actor{}), want: ErrNotFound},
		{name: "blank title", err: func() error { _, err := a.AddColumn(ctx, AddColumnRequest{Title: " "}); return err }(), want: ErrInvalidRequest},
		{name: "bad index", err: func() error {
			_, err := a.ReorderColumns(ctx, ReorderColumnsRequest{From: 0, To: 9})
			return err
		}(), want: ErrInvalidRequest},
		{name: "missing card", err: a.DeleteCard(ctx, "nope", Actor{}), want: ErrNotFound},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.want) {
			t.Fatalf("%s: error = %v, want %v", tc.name, tc.err, tc.want)
		}
	}
	if err := mapAppError("add", domain.ErrDuplicateID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	var nilAdapter *AppServiceAdapter
	if _, err := nilAdapter.GetBoard(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestAdapterSearchCards(t *testing.T) {
	a, _ := newTestAdapter(t)
	matches, err := a.SearchCards(context.Background(), "overdue", 5)
	if err != nil {
		t.Fatalf("SearchCards() error = %v", err)
	}
	if len(matches) != 1 || matches[0].Card.ID != "card-1" || matches[0].ColumnTitle != "To Do" || !matches[0].Card.Overdue {
		t.Fatalf("unexpected matches %#v", matches)
	}
}
