package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID    = errors.New("invalid id")
	ErrInvalidTitle = errors.New("invalid title")
	ErrInvalidLabel = errors.New("invalid label")
	ErrInvalidIndex = errors.New("invalid index")
	ErrDuplicateID  = errors.New("duplicate id")

	ErrColumnNotEmpty = errors.New("new column must not carry cards")

	ErrNotFound       = errors.New("not found")
	ErrColumnNotFound = fmt.Errorf("column %w", ErrNotFound)
	ErrCardNotFound   = fmt.Errorf("card %w", ErrNotFound)
)
