package app

import (
	"context"

	"github.com/osvalOrd/TrelloClone/internal/domain"
)

// Journal records applied board commands.
type Journal interface {
	RecordChangeEvent(context.Context, domain.ChangeEvent) (domain.ChangeEvent, error)
	ListChangeEvents(context.Context, int) ([]domain.ChangeEvent, error)
}
