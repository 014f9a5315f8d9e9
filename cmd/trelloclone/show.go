package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	servercommon "github.com/osvalOrd/TrelloClone/internal/adapters/server/common"
	"github.com/osvalOrd/TrelloClone/internal/app"
	"github.com/osvalOrd/TrelloClone/internal/domain"
	"github.com/osvalOrd/TrelloClone/internal/fixture"
)

// writeBoard renders the current board in one of the show formats.
func writeBoard(ctx context.Context, out io.Writer, svc *app.Service, format string, now time.Time) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		board, _ := svc.Board()
		_, err := fmt.Fprintln(out, renderBoardTable(board, now))
		return err
	case "json":
		board, err := servercommon.NewAppServiceAdapter(svc, func() time.Time { return now }).GetBoard(ctx)
		if err != nil {
			return err
		}
		encoded, err := json.MarshalIndent(board, "", "  ")
		if err != nil {
			return fmt.Errorf("encode board json: %w", err)
		}
		_, err = out.Write(append(encoded, '\n'))
		return err
	case "yaml":
		board, _ := svc.Board()
		encoded, err := fixture.Encode(board)
		if err != nil {
			return err
		}
		_, err = out.Write(encoded)
		return err
	default:
		return fmt.Errorf("unsupported format %q (want table, json, or yaml)", format)
	}
}

// renderBoardTable lays the board out one card per row, grouped by column.
func renderBoardTable(board domain.Board, now time.Time) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers("COLUMN", "#", "CARD", "LABELS", "DUE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, col := range board.Columns {
		if len(col.Cards) == 0 {
			t.Row(col.Title, "-", "(empty)", "", "")
			continue
		}
		for i, card := range col.Cards {
			name := ""
			if i == 0 {
				name = fmt.Sprintf("%s (%d)", col.Title, len(col.Cards))
			}
			t.Row(name, fmt.Sprintf("%d", i+1), card.Title, labelNames(card.Labels), dueText(card, now))
		}
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Render(board.Title)
	return title + "\n" + t.Render()
}

func labelNames(labels []domain.Label) string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return strings.Join(names, ", ")
}

func dueText(card domain.Card, now time.Time) string {
	if card.DueAt == nil {
		return ""
	}
	due := card.DueAt.Format("2006-01-02")
	if card.Overdue(now) {
		return "overdue " + due
	}
	return due
}
