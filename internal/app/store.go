package app

import (
	"sync"

	"github.com/osvalOrd/TrelloClone/internal/domain"
)

// Listener receives the board after every replacement. It runs while the store is
// locked and must not call back into the store.
type Listener func(board domain.Board, revision uint64)

// Mutation computes the next board from the current one. Returning changed=false
// leaves the store untouched.
type Mutation func(current domain.Board, revision uint64) (next domain.Board, changed bool, err error)

// Store owns the current board and is the single place it is replaced.
type Store struct {
	mu        sync.RWMutex
	board     domain.Board
	revision  uint64
	nextSub   uint64
	listeners []subscription
}

type subscription struct {
	id uint64
	fn Listener
}

// NewStore constructs a store holding initial at revision 0.
func NewStore(initial domain.Board) *Store {
	return &Store{board: initial.Clone()}
}

// Board returns a copy of the current board.
func (s *Store) Board() domain.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.Clone()
}

// Revision returns the number of replacements applied so far.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Snapshot returns a copy of the current board together with its revision.
func (s *Store) Snapshot() (domain.Board, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.Clone(), s.revision
}

// SetBoard replaces the board and notifies every listener once.
func (s *Store) SetBoard(board domain.Board) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked(board)
	return s.revision
}

// Apply runs fn against the current board and commits its result when it reports a change.
func (s *Store) Apply(fn Mutation) (domain.Board, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, changed, err := fn(s.board, s.revision)
	if err != nil {
		return s.board.Clone(), s.revision, err
	}
	if !changed {
		return s.board.Clone(), s.revision, nil
	}
	s.commitLocked(next)
	return s.board.Clone(), s.revision, nil
}

// Subscribe registers fn for replacement notifications and returns a func that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) commitLocked(board domain.Board) {
	s.board = board.Clone()
	s.revision++
	for _, sub := range s.listeners {
		sub.fn(s.board.Clone(), s.revision)
	}
}
