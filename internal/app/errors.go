package app

import (
	"errors"

	"github.com/osvalOrd/TrelloClone/internal/domain"
)

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrIDExhausted        = errors.New("could not generate an unused id")
	ErrDragInProgress     = errors.New("drag already in progress")
	ErrNoDrag             = errors.New("no drag in progress")
	ErrInvalidDragSource  = errors.New("invalid drag source")
	ErrJournalUnavailable = errors.New("activity journal unavailable")
)
