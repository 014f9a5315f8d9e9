package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osvalOrd/TrelloClone/internal/domain"
)

// Default limits applied when callers pass a non-positive limit.
const (
	DefaultSearchLimit   = 20
	DefaultActivityLimit = 50
)

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	SearchLimit   int
	ActivityLimit int
}

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service applies board commands through the store.
type Service struct {
	store         *Store
	journal       Journal
	idGen         IDGenerator
	clock         Clock
	searchLimit   int
	activityLimit int
}

// NewService constructs a new value for this package. A nil journal disables activity recording.
func NewService(store *Store, journal Journal, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = UUIDGenerator()
	}
	if clock == nil {
		clock = time.Now
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = DefaultSearchLimit
	}
	if cfg.ActivityLimit <= 0 {
		cfg.ActivityLimit = DefaultActivityLimit
	}
	return &Service{
		store:         store,
		journal:       journal,
		idGen:         idGen,
		clock:         clock,
		searchLimit:   cfg.SearchLimit,
		activityLimit: cfg.ActivityLimit,
	}
}

// Board returns the current board and its revision.
func (s *Service) Board() (domain.Board, uint64) {
	return s.store.Snapshot()
}

// Subscribe forwards board replacements to fn until the returned func is called.
func (s *Service) Subscribe(fn Listener) func() {
	return s.store.Subscribe(fn)
}

// AddColumn appends a new column with a fresh id.
func (s *Service) AddColumn(ctx context.Context, title string) (domain.Column, error) {
	var created domain.Column
	_, _, err := s.store.Apply(func(cur domain.Board, rev uint64) (domain.Board, bool, error) {
		id, err := s.newID(cur, "column")
		if err != nil {
			return cur, false, err
		}
		col, err := domain.NewColumn(id, title)
		if err != nil {
			return cur, false, err
		}
		next, err := domain.AddColumn(cur, col)
		if err != nil {
			return cur, false, err
		}
		if err := s.record(ctx, rev, domain.ChangeOperationCreate, domain.ChangeTargetColumn, col.ID, fmt.Sprintf("added column %q", col.Title)); err != nil {
			return cur, false, err
		}
		created = col
		return next, true, nil
	})
	if err != nil {
		return domain.Column{}, err
	}
	return created, nil
}

// RenameColumn replaces a column title. Renaming to the current title changes nothing.
func (s *Service) RenameColumn(ctx context.Context, columnID, title string) (domain.Column, error) {
	board, _, err := s.store.Apply(func(cur domain.Board, rev uint64) (domain.Board, bool, error) {
		next, err := domain.EditColumn(cur, columnID, title)
		if err != nil {
			return cur, false, err
		}
		idx := next.ColumnIndex(columnID)
		if cur.Columns[idx].Title == next.Columns[idx].Title {
			return cur, false, nil
		}
		summary := fmt.Sprintf("renamed column %q to %q", cur.Columns[idx].Title, next.Columns[idx].Title)
		if err := s.record(ctx, rev, domain.ChangeOperationUpdate, domain.ChangeTargetColumn, columnID, summary); err != nil {
			return cur, false, err
		}
		return next, true, nil
	})
	if err != nil {
		return domain.Column{}, err
	}
	return board.Columns[board.ColumnIndex(columnID)], nil
}

// DeleteColumn removes a column and every card in it.
func (s *Service) DeleteColumn(ctx context.Context, columnID string) error {
	_, _, err := s.store.Apply(func(cur domain.Board, rev uint64) (domain.Board, bool, error) {
		idx := cur.ColumnIndex(columnID)
		next, err := domain.DeleteColumn(cur, columnID)
		if err != nil {
			return cur, false, err
		}
		col := cur.Columns[idx]
		summary := fmt.Sprintf("deleted column %q with %d cards", col.Title, len(col.Cards))
		if err := s.record(ctx, rev, domain.ChangeOperationDelete, domain.ChangeTargetColumn, columnID, summary); err != nil {
			return cur, false, err
		}
		return next, true, nil
	})
	return err
}

// AddCardInput holds input values for add card operations.
type AddCardInput struct {
	ColumnID    string
	Title       string
	Description string
	Labels      []domain.Label
	DueAt       *time.Time
}

// AddCard appends a new card with a fresh id to the end of a column.
func (s *Service) AddCard(ctx context.Context, in AddCardInput) (domain.Card, error) {
	var created domain.Card
	_, _, err := s.store.Apply(func(cur domain.Board, rev uint64) (domain.Board, bool, error) {
		idx := cur.ColumnIndex(in.ColumnID)
		if idx < 0 {
			return cur, false, fmt.Errorf("%w: %s", domain.ErrColumnNotFound, in.ColumnID)
		}
		id, err := s.newID(cur, "card")
		if err != nil {
			return cur, false, err
		}
		card, err := domain.NewCard(domain.CardInput{
			ID:          id,
			Title:       in.Title,
			Description: in.Description,
			Labels:      in.Labels,
			DueAt:       in.DueAt,
		}, s.clock())
		if err != nil {
			return cur, false, err
		}
		next, err := domain.AddCard(cur, in.ColumnID, card)
		if err != nil {
			return cur, false, err
		}
		summary := fmt.Sprintf("added card %q to %q", card.Title, cur.Columns[idx].Title)
		if err := s.record(ctx, rev, domain.ChangeOperationCreate, domain.ChangeTargetCard, card.ID, summary); err != nil {
			return cur, false, err
		}
		created = card
		return next, true, nil
	})
	if err != nil {
		return domain.Card{}, err
	}
	return created, nil
}

// UpdateCard applies a patch to a card. A patch that changes nothing leaves the board untouched.
func (s *Service) UpdateCard(ctx context.Context, cardID string, patch domain.CardPatch) (domain.Card, error) {
	board, _, err := s.store.Apply(func(cur domain.Board, rev uint64) (domain.Board, bool, error) {
		next, err := domain.EditCard(cur, cardID, patch)
		if err != nil {
			return cur, false, err
		}
		if next.Equal(cur) {
			return cur, false, nil
		}
		card, _ := next.Card(cardID)
		if err := s.record(ctx, rev, domain.ChangeOperationUpdate, domain.ChangeTargetCard, cardID, fmt.Sprintf("updated card %q", card.Title)); err != nil {
			return cur, false, err
		}
		return next, true, nil
	})
	if err != nil {
		return domain.Card{}, err
	}
	card, _ := board.Card(cardID)
	return card, nil
}

// DeleteCard removes a card.
func (s *Service) DeleteCard(ctx context.Context, cardID string) error {
	_, _, err := s.store.Apply(func(cur domain.Board, rev uint64) (domain.Board, bool, error) {
		card, _ := cur.Card(cardID)
		next, err := domain.DeleteCard(cur, cardID)
		if err != nil {
			return cur, false, err
		}
		if err := s.record(ctx, rev, domain.ChangeOperationDelete, domain.ChangeTargetCard, cardID, fmt.Sprintf("deleted card %q", card.Title)); err != nil {
			return cur, false, err
		}
		return next, true, nil
	})
	return err
}

// MoveCard moves a card within or between columns and returns the resulting board and its revision.
func (s *Service) MoveCard(ctx context.Context, mv domain.CardMove) (domain.Board, uint64, error) {
	return s.store.Apply(func(cur domain.Board, rev uint64) (domain.Board, bool, error) {
		if mv.IsNoop() {
			return cur, false, nil
		}
		next, err := domain.MoveCard(cur, mv)
		if err != nil {
			return cur, false, err
		}
		moved := next.Columns[next.ColumnIndex(mv.ToColumnID)].Cards[mv.ToIndex]
		summary := fmt.Sprintf("moved card %q from %q[%d] to %q[%d]",
			moved.Title, mv.FromColumnID, mv.FromIndex, mv.ToColumnID, mv.ToIndex)
		if err := s.record(ctx, rev, domain.ChangeOperationMove, domain.ChangeTargetCard, moved.ID, summary); err != nil {
			return cur, false, err
		}
		return next, true, nil
	})
}

// ReorderColumns moves a column to a new position and returns the resulting board and its revision.
func (s *Service) ReorderColumns(ctx context.Context, mv domain.ColumnMove) (domain.Board, uint64, error) {
	return s.store.Apply(func(cur domain.Board, rev uint64) (domain.Board, bool, error) {
		if mv.IsNoop() {
			return cur, false, nil
		}
		next, err := domain.ReorderColumns(cur, mv)
		if err != nil {
			return cur, false, err
		}
		col := next.Columns[mv.To]
		summary := fmt.Sprintf("moved column %q from %d to %d", col.Title, mv.From, mv.To)
		if err := s.record(ctx, rev, domain.ChangeOperationReorder, domain.ChangeTargetColumn, col.ID, summary); err != nil {
			return cur, false, err
		}
		return next, true, nil
	})
}

// ListChangeEvents returns recent activity, newest first.
func (s *Service) ListChangeEvents(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	if s.journal == nil {
		return nil, ErrJournalUnavailable
	}
	if limit <= 0 {
		limit = s.activityLimit
	}
	return s.journal.ListChangeEvents(ctx, limit)
}

// newID returns "<kind>-<generated>" that no column or card on b uses yet.
func (s *Service) newID(b domain.Board, kind string) (string, error) {
	for range maxIDAttempts {
		raw := strings.TrimSpace(s.idGen())
		if raw == "" {
			continue
		}
		id := kind + "-" + raw
		if !b.HasID(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrIDExhausted, kind)
}

// record journals one applied command. rev is the revision the command starts from.
func (s *Service) record(ctx context.Context, rev uint64, op domain.ChangeOperation, target domain.ChangeTarget, targetID, summary string) error {
	if s.journal == nil {
		return nil
	}
	actor := actorFromContext(ctx)
	_, err := s.journal.RecordChangeEvent(ctx, domain.ChangeEvent{
		Revision:   rev + 1,
		Operation:  op,
		TargetType: target,
		TargetID:   targetID,
		Summary:    summary,
		ActorID:    actor.ActorID,
		ActorType:  actor.ActorType,
		OccurredAt: s.clock().UTC(),
	})
	if err != nil {
		return fmt.Errorf("record %s %s: %w", op, target, err)
	}
	return nil
}
