package common

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/osvalOrd/TrelloClone/internal/app"
	"github.com/osvalOrd/TrelloClone/internal/domain"
)

// dueDateLayout is accepted for due dates alongside RFC 3339.
const dueDateLayout = "2006-01-02"

// AppServiceAdapter maps transport contracts onto app.Service board commands.
type AppServiceAdapter struct {
	service *app.Service
	now     func() time.Time
}

// NewAppServiceAdapter builds one common adapter over an app.Service instance.
func NewAppServiceAdapter(service *app.Service, now func() time.Time) *AppServiceAdapter {
	if now == nil {
		now = time.Now
	}
	return &AppServiceAdapter{service: service, now: now}
}

// GetBoard returns the current board.
func (a *AppServiceAdapter) GetBoard(_ context.Context) (Board, error) {
	if err := a.ready(); err != nil {
		return Board{}, err
	}
	b, rev := a.service.Board()
	return mapBoard(b, rev, a.now()), nil
}

// BoardSummary returns per-column counts and a content hash of the board.
func (a *AppServiceAdapter) BoardSummary(_ context.Context) (BoardSummary, error) {
	if err := a.ready(); err != nil {
		return BoardSummary{}, err
	}
	b, rev := a.service.Board()
	now := a.now().UTC()
	out := BoardSummary{
		CapturedAt: now,
		Revision:   rev,
		Columns:    make([]ColumnCount, 0, len(b.Columns)),
	}
	for _, col := range b.Columns {
		out.Columns = append(out.Columns, ColumnCount{ColumnID: col.ID, Title: col.Title, Cards: len(col.Cards)})
		out.TotalCards += len(col.Cards)
		for _, card := range col.Cards {
			if card.Overdue(now) {
				out.OverdueCards++
			}
		}
	}
	hash, err := hashBoard(b)
	if err != nil {
		return BoardSummary{}, err
	}
	out.StateHash = hash
	return out, nil
}

// AddColumn appends a column.
func (a *AppServiceAdapter) AddColumn(ctx context.Context, in AddColumnRequest) (Column, error) {
	if err := a.ready(); err != nil {
		return Column{}, err
	}
	col, err := a.service.AddColumn(withActor(ctx, in.Actor), in.Title)
	if err != nil {
		return Column{}, mapAppError("add column", err)
	}
	return mapColumn(col, a.now()), nil
}

// RenameColumn changes a column title.
func (a *AppServiceAdapter) RenameColumn(ctx context.Context, in RenameColumnRequest) (Column, error) {
	if err := a.ready(); err != nil {
		return Column{}, err
	}
	col, err := a.service.RenameColumn(withActor(ctx, in.Actor), strings.TrimSpace(in.ColumnID), in.Title)
	if err != nil {
		return Column{}, mapAppError("rename column", err)
	}
	return mapColumn(col, a.now()), nil
}

// DeleteColumn removes a column with its cards.
func (a *AppServiceAdapter) DeleteColumn(ctx context.Context, columnID string, actor Actor) error {
	if err := a.ready(); err != nil {
		return err
	}
	if err := a.service.DeleteColumn(withActor(ctx, actor), strings.TrimSpace(columnID)); err != nil {
		return mapAppError("delete column", err)
	}
	return nil
}

// AddCard appends a card to a column.
func (a *AppServiceAdapter) AddCard(ctx context.Context, in AddCardRequest) (Card, error) {
	if err := a.ready(); err != nil {
		return Card{}, err
	}
	due, err := parseDueAt(in.DueAt)
	if err != nil {
		return Card{}, err
	}
	card, err := a.service.AddCard(withActor(ctx, in.Actor), app.AddCardInput{
		ColumnID:    strings.TrimSpace(in.ColumnID),
		Title:       in.Title,
		Description: in.Description,
		Labels:      unmapLabels(in.Labels),
		DueAt:       due,
	})
	if err != nil {
		return Card{}, mapAppError("add card", err)
	}
	return mapCard(card, a.now()), nil
}

// UpdateCard patches a card.
func (a *AppServiceAdapter) UpdateCard(ctx context.Context, in UpdateCardRequest) (Card, error) {
	if err := a.ready(); err != nil {
		return Card{}, err
	}
	patch := domain.CardPatch{
		Title:       in.Title,
		Description: in.Description,
		ClearDueAt:  in.ClearDueAt,
	}
	if in.Labels != nil {
		labels := unmapLabels(*in.Labels)
		patch.Labels = &labels
	}
	if in.DueAt != nil && !in.ClearDueAt {
		due, err := parseDueAt(*in.DueAt)
		if err != nil {
			return Card{}, err
		}
		if due == nil {
			patch.ClearDueAt = true
		}
		patch.DueAt = due
	}
	if patch.IsEmpty() {
		return Card{}, fmt.Errorf("update card: no fields to update: %w", ErrInvalidRequest)
	}
	card, err := a.service.UpdateCard(withActor(ctx, in.Actor), strings.TrimSpace(in.CardID), patch)
	if err != nil {
		return Card{}, mapAppError("update card", err)
	}
	return mapCard(card, a.now()), nil
}

// DeleteCard removes a card.
func (a *AppServiceAdapter) DeleteCard(ctx context.Context, cardID string, actor Actor) error {
	if err := a.ready(); err != nil {
		return err
	}
	if err := a.service.DeleteCard(withActor(ctx, actor), strings.TrimSpace(cardID)); err != nil {
		return mapAppError("delete card", err)
	}
	return nil
}

// MoveCard moves a card and returns the resulting board.
func (a *AppServiceAdapter) MoveCard(ctx context.Context, in MoveCardRequest) (Board, error) {
	if err := a.ready(); err != nil {
		return Board{}, err
	}
	board, rev, err := a.service.MoveCard(withActor(ctx, in.Actor), domain.CardMove{
		FromColumnID: strings.TrimSpace(in.FromColumnID),
		FromIndex:    in.FromIndex,
		ToColumnID:   strings.TrimSpace(in.ToColumnID),
		ToIndex:      in.ToIndex,
	})
	if err != nil {
		return Board{}, mapAppError("move card", err)
	}
	return mapBoard(board, rev, a.now()), nil
}

// ReorderColumns moves a column and returns the resulting board.
func (a *AppServiceAdapter) ReorderColumns(ctx context.Context, in ReorderColumnsRequest) (Board, error) {
	if err := a.ready(); err != nil {
		return Board{}, err
	}
	board, rev, err := a.service.ReorderColumns(withActor(ctx, in.Actor), domain.ColumnMove{From: in.From, To: in.To})
	if err != nil {
		return Board{}, mapAppError("reorder columns", err)
	}
	return mapBoard(board, rev, a.now()), nil
}

// SearchCards ranks cards against query.
func (a *AppServiceAdapter) SearchCards(ctx context.Context, query string, limit int) ([]CardMatch, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	matches, err := a.service.SearchCards(ctx, query, limit)
	if err != nil {
		return nil, mapAppError("search cards", err)
	}
	now := a.now()
	out := make([]CardMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, CardMatch{
			Card:        mapCard(m.Card, now),
			ColumnID:    m.ColumnID,
			ColumnTitle: m.ColumnTitle,
			Index:       m.Index,
			Score:       m.Score,
		})
	}
	return out, nil
}

// ListActivity returns recent change events, newest first.
func (a *AppServiceAdapter) ListActivity(ctx context.Context, limit int) ([]ChangeEvent, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	events, err := a.service.ListChangeEvents(ctx, limit)
	if err != nil {
		return nil, mapAppError("list activity", err)
	}
	out := make([]ChangeEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, ChangeEvent{
			ID:         ev.ID,
			Revision:   ev.Revision,
			Operation:  string(ev.Operation),
			TargetType: string(ev.TargetType),
			TargetID:   ev.TargetID,
			Summary:    ev.Summary,
			ActorID:    ev.ActorID,
			ActorType:  string(ev.ActorType),
			OccurredAt: ev.OccurredAt,
		})
	}
	return out, nil
}

// ready reports whether the adapter has a backing service.
func (a *AppServiceAdapter) ready() error {
	if a == nil || a.service == nil {
		return fmt.Errorf("app service adapter is not configured: %w", ErrUnavailable)
	}
	return nil
}

// withActor attaches caller identity when the transport supplied one.
func withActor(ctx context.Context, actor Actor) context.Context {
	if strings.TrimSpace(actor.ID) == "" {
		return ctx
	}
	return app.WithMutationActor(ctx, app.MutationActor{
		ActorID:   actor.ID,
		ActorType: domain.ActorType(actor.Type),
	})
}

// parseDueAt accepts RFC 3339 timestamps or plain dates. Blank input means no due date.
func parseDueAt(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts, nil
	}
	ts, err := time.Parse(dueDateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("due_at %q must be RFC 3339 or YYYY-MM-DD: %w", raw, ErrInvalidRequest)
	}
	return &ts, nil
}

// hashBoard returns a stable sha256 over the board's JSON encoding.
func hashBoard(b domain.Board) (string, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("encode board hash: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func mapBoard(b domain.Board, rev uint64, now time.Time) Board {
	out := Board{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Revision:    rev,
		Columns:     make([]Column, 0, len(b.Columns)),
	}
	for _, col := range b.Columns {
		out.Columns = append(out.Columns, mapColumn(col, now))
	}
	return out
}

func mapColumn(col domain.Column, now time.Time) Column {
	out := Column{ID: col.ID, Title: col.Title, Cards: make([]Card, 0, len(col.Cards))}
	for _, card := range col.Cards {
		out.Cards = append(out.Cards, mapCard(card, now))
	}
	return out
}

func mapCard(card domain.Card, now time.Time) Card {
	labels := make([]Label, 0, len(card.Labels))
	for _, l := range card.Labels {
		labels = append(labels, Label{Name: l.Name, Color: l.Color, TextColor: l.TextColor})
	}
	return Card{
		ID:          card.ID,
		Title:       card.Title,
		Description: card.Description,
		CreatedAt:   card.CreatedAt,
		Labels:      labels,
		DueAt:       card.DueAt,
		Overdue:     card.Overdue(now),
	}
}

func unmapLabels(in []Label) []domain.Label {
	out := make([]domain.Label, 0, len(in))
	for _, l := range in {
		out = append(out, domain.Label{Name: l.Name, Color: l.Color, TextColor: l.TextColor})
	}
	return out
}

// mapAppError maps app and domain failures onto transport error categories.
func mapAppError(operation string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrNotFound, err))
	case errors.Is(err, domain.ErrDuplicateID),
		errors.Is(err, app.ErrIDExhausted):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrConflict, err))
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidLabel),
		errors.Is(err, domain.ErrInvalidIndex),
		errors.Is(err, domain.ErrColumnNotEmpty):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrInvalidRequest, err))
	case errors.Is(err, app.ErrJournalUnavailable):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrUnavailable, err))
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}
