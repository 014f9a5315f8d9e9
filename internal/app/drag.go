package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/osvalOrd/TrelloClone/internal/domain"
)

// DragKind identifies what a drag gesture carries.
type DragKind string

// DragKind values.
const (
	DragKindCard   DragKind = "card"
	DragKindColumn DragKind = "column"
)

// DragSource records where a gesture picked something up.
// ColumnID is only used for cards; Index is the card or column position.
type DragSource struct {
	Kind     DragKind
	ColumnID string
	Index    int
}

// DropTarget is the position a gesture ends on. ColumnID is ignored for column drags.
type DropTarget struct {
	ColumnID string
	Index    int
}

// Mover applies the single engine call a drop produces.
type Mover interface {
	MoveCard(context.Context, domain.CardMove) (domain.Board, uint64, error)
	ReorderColumns(context.Context, domain.ColumnMove) (domain.Board, uint64, error)
}

// DragSession is a two-phase drag gesture owned by one UI loop. It is not safe for concurrent use.
type DragSession struct {
	active bool
	source DragSource
}

// Start records the dragged card or column.
func (d *DragSession) Start(src DragSource) error {
	if d.active {
		return ErrDragInProgress
	}
	src.ColumnID = strings.TrimSpace(src.ColumnID)
	switch {
	case src.Index < 0:
		return fmt.Errorf("%w: negative index %d", ErrInvalidDragSource, src.Index)
	case src.Kind == DragKindCard && src.ColumnID == "":
		return fmt.Errorf("%w: card drag needs a column", ErrInvalidDragSource)
	case src.Kind != DragKindCard && src.Kind != DragKindColumn:
		return fmt.Errorf("%w: kind %q", ErrInvalidDragSource, src.Kind)
	}
	d.active = true
	d.source = src
	return nil
}

// Active returns the current source while a gesture is in progress.
func (d *DragSession) Active() (DragSource, bool) {
	return d.source, d.active
}

// Cancel ends the gesture without touching the board. It reports whether a gesture was active.
func (d *DragSession) Cancel() bool {
	was := d.active
	d.active = false
	d.source = DragSource{}
	return was
}

// Drop ends the gesture with exactly one engine call. The gesture is over even when the call fails.
func (d *DragSession) Drop(ctx context.Context, m Mover, target DropTarget) (domain.Board, uint64, error) {
	if !d.active {
		return domain.Board{}, 0, ErrNoDrag
	}
	src := d.source
	d.Cancel()
	if src.Kind == DragKindColumn {
		return m.ReorderColumns(ctx, domain.ColumnMove{From: src.Index, To: target.Index})
	}
	return m.MoveCard(ctx, domain.CardMove{
		FromColumnID: src.ColumnID,
		FromIndex:    src.Index,
		ToColumnID:   strings.TrimSpace(target.ColumnID),
		ToIndex:      target.Index,
	})
}
