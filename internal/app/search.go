package app

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/osvalOrd/TrelloClone/internal/domain"
)

// CardMatch is one search hit. Lower scores rank first; zero is a substring hit.
type CardMatch struct {
	Card        domain.Card
	ColumnID    string
	ColumnTitle string
	Index       int
	Score       int
}

// SearchCards ranks cards by substring match, then by edit distance to a title word.
// An empty query lists every card in board order.
func (s *Service) SearchCards(_ context.Context, query string, limit int) ([]CardMatch, error) {
	if limit <= 0 {
		limit = s.searchLimit
	}
	board, _ := s.store.Snapshot()
	return rankCards(board, query, limit), nil
}

func rankCards(b domain.Board, query string, limit int) []CardMatch {
	query = strings.ToLower(strings.TrimSpace(query))
	threshold := max(1, utf8.RuneCountInString(query)/3)

	matches := make([]CardMatch, 0)
	for _, col := range b.Columns {
		for i, card := range col.Cards {
			score, ok := scoreCard(card, query, threshold)
			if !ok {
				continue
			}
			matches = append(matches, CardMatch{
				Card:        card,
				ColumnID:    col.ID,
				ColumnTitle: col.Title,
				Index:       i,
				Score:       score,
			})
		}
	}
	slices.SortStableFunc(matches, func(a, b CardMatch) int {
		return a.Score - b.Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func scoreCard(card domain.Card, query string, threshold int) (int, bool) {
	if query == "" {
		return 0, true
	}
	if strings.Contains(strings.ToLower(card.Title), query) || strings.Contains(strings.ToLower(card.Description), query) {
		return 0, true
	}
	for _, label := range card.Labels {
		if strings.Contains(strings.ToLower(label.Name), query) {
			return 0, true
		}
	}
	best := -1
	for _, word := range strings.Fields(strings.ToLower(card.Title)) {
		d := levenshtein.ComputeDistance(query, word)
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 || best > threshold {
		return 0, false
	}
	return best, true
}
