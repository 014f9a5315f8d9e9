// Package fixture builds the board a process starts with.
package fixture

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/osvalOrd/TrelloClone/internal/domain"
	"gopkg.in/yaml.v3"
)

// SeedVersion identifies the seed file format.
const SeedVersion = "trelloclone.seed.v1"

// ErrUnsupportedVersion reports a seed file written for another format.
var ErrUnsupportedVersion = errors.New("unsupported seed version")

// dateLayout is accepted for due dates alongside RFC 3339.
const dateLayout = "2006-01-02"

// SeedFile is the YAML document shape used by Load and Encode.
type SeedFile struct {
	Version string    `yaml:"version"`
	Board   SeedBoard `yaml:"board"`
}

// SeedBoard holds one board in a seed file.
type SeedBoard struct {
	ID          string       `yaml:"id"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description,omitempty"`
	Columns     []SeedColumn `yaml:"columns"`
}

// SeedColumn holds one column in a seed file.
type SeedColumn struct {
	ID    string     `yaml:"id"`
	Title string     `yaml:"title"`
	Cards []SeedCard `yaml:"cards,omitempty"`
}

// SeedCard holds one card in a seed file. Timestamps are strings so hand-written files can use plain dates.
type SeedCard struct {
	ID          string      `yaml:"id"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description,omitempty"`
	CreatedAt   string      `yaml:"created_at,omitempty"`
	DueAt       string      `yaml:"due_at,omitempty"`
	Labels      []SeedLabel `yaml:"labels,omitempty"`
}

// SeedLabel holds one label in a seed file.
type SeedLabel struct {
	Name      string `yaml:"name"`
	Color     string `yaml:"color,omitempty"`
	TextColor string `yaml:"text_color,omitempty"`
}

// Default returns the built-in starter board.
func Default(now time.Time) domain.Board {
	now = now.UTC()
	label := func(name, color string) []domain.Label {
		return []domain.Label{{Name: name, Color: color, TextColor: domain.DefaultLabelTextColor}}
	}
	card := func(id, title, description string, labels []domain.Label) domain.Card {
		return domain.Card{ID: id, Title: title, Description: description, CreatedAt: now, Labels: labels}
	}
	return domain.Board{
		ID:          "board-1",
		Title:       "My Trello Board",
		Description: "A simple project management board",
		Columns: []domain.Column{
			{
				ID:    "column-1",
				Title: "To Do",
				Cards: []domain.Card{
					card("card-1", "Learn React", "Study React fundamentals and hooks", label("Learning", "#3b82f6")),
					card("card-2", "Build Trello Clone", "Create a project management app", label("Project", "#10b981")),
				},
			},
			{
				ID:    "column-2",
				Title: "In Progress",
				Cards: []domain.Card{
					card("card-3", "Design Components", "Create UI components with Tailwind CSS", label("Design", "#f59e0b")),
				},
			},
			{
				ID:    "column-3",
				Title: "Done",
				Cards: []domain.Card{
					card("card-4", "Setup Project", "Initialize React project with Vite", label("Setup", "#8b5cf6")),
				},
			},
		},
	}
}

// Load reads a YAML seed file. An empty path yields Default.
func Load(path string, now time.Time) (domain.Board, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(now), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Board{}, fmt.Errorf("read seed file %q: %w", path, err)
	}
	board, err := Decode(data, now)
	if err != nil {
		return domain.Board{}, fmt.Errorf("seed file %q: %w", path, err)
	}
	return board, nil
}

// Decode parses YAML seed data and validates the resulting board.
// Cards without created_at are stamped with now.
func Decode(data []byte, now time.Time) (domain.Board, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return domain.Board{}, fmt.Errorf("decode yaml: %w", err)
	}
	if v := strings.TrimSpace(seed.Version); v != "" && v != SeedVersion {
		return domain.Board{}, fmt.Errorf("%w: %q", ErrUnsupportedVersion, v)
	}
	return seed.Board.toDomain(now)
}

// Encode renders a board as a YAML seed document that Decode accepts.
func Encode(board domain.Board) ([]byte, error) {
	seed := SeedFile{Version: SeedVersion, Board: seedBoardFromDomain(board)}
	out, err := yaml.Marshal(seed)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return out, nil
}

func (s SeedBoard) toDomain(now time.Time) (domain.Board, error) {
	board, err := domain.NewBoard(s.ID, s.Title, s.Description)
	if err != nil {
		return domain.Board{}, fmt.Errorf("board: %w", err)
	}
	for i, sc := range s.Columns {
		col, err := domain.NewColumn(sc.ID, sc.Title)
		if err != nil {
			return domain.Board{}, fmt.Errorf("columns[%d]: %w", i, err)
		}
		for j, card := range sc.Cards {
			dc, err := card.toDomain(now)
			if err != nil {
				return domain.Board{}, fmt.Errorf("columns[%d].cards[%d]: %w", i, j, err)
			}
			col.Cards = append(col.Cards, dc)
		}
		board.Columns = append(board.Columns, col)
	}
	if err := board.Validate(); err != nil {
		return domain.Board{}, err
	}
	return board, nil
}

func (s SeedCard) toDomain(now time.Time) (domain.Card, error) {
	created := now
	if strings.TrimSpace(s.CreatedAt) != "" {
		ts, err := parseTime(s.CreatedAt)
		if err != nil {
			return domain.Card{}, fmt.Errorf("created_at: %w", err)
		}
		created = ts
	}
	var due *time.Time
	if strings.TrimSpace(s.DueAt) != "" {
		ts, err := parseTime(s.DueAt)
		if err != nil {
			return domain.Card{}, fmt.Errorf("due_at: %w", err)
		}
		due = &ts
	}
	labels := make([]domain.Label, 0, len(s.Labels))
	for _, l := range s.Labels {
		labels = append(labels, domain.Label{Name: l.Name, Color: l.Color, TextColor: l.TextColor})
	}
	return domain.NewCard(domain.CardInput{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Labels:      labels,
		DueAt:       due,
	}, created)
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	return time.Parse(dateLayout, raw)
}

func seedBoardFromDomain(b domain.Board) SeedBoard {
	out := SeedBoard{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Columns:     make([]SeedColumn, 0, len(b.Columns)),
	}
	for _, col := range b.Columns {
		sc := SeedColumn{ID: col.ID, Title: col.Title}
		for _, card := range col.Cards {
			sc.Cards = append(sc.Cards, seedCardFromDomain(card))
		}
		out.Columns = append(out.Columns, sc)
	}
	return out
}

func seedCardFromDomain(c domain.Card) SeedCard {
	out := SeedCard{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
	}
	if !c.CreatedAt.IsZero() {
		out.CreatedAt = c.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	if c.DueAt != nil {
		out.DueAt = c.DueAt.UTC().Format(time.RFC3339)
	}
	for _, l := range c.Labels {
		out.Labels = append(out.Labels, SeedLabel{Name: l.Name, Color: l.Color, TextColor: l.TextColor})
	}
	return out
}
