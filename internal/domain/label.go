package domain

import (
	"slices"
	"strings"
)

// Label defaults applied when a label omits its colors.
const (
	DefaultLabelColor     = "#6b7280"
	DefaultLabelTextColor = "white"
)

// Label is a colored tag attached to a card. Labels have no identity beyond their fields.
type Label struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	TextColor string `json:"text_color"`
}

// NewLabel constructs a label, trimming fields and filling default colors.
func NewLabel(name, color, textColor string) (Label, error) {
	name = strings.TrimSpace(name)
	color = strings.TrimSpace(color)
	textColor = strings.TrimSpace(textColor)
	if name == "" {
		return Label{}, ErrInvalidLabel
	}
	if color == "" {
		color = DefaultLabelColor
	}
	if textColor == "" {
		textColor = DefaultLabelTextColor
	}
	return Label{Name: name, Color: color, TextColor: textColor}, nil
}

// normalizeLabels validates labels and drops exact duplicates while keeping first-seen order.
func normalizeLabels(labels []Label) ([]Label, error) {
	out := make([]Label, 0, len(labels))
	for _, raw := range labels {
		label, err := NewLabel(raw.Name, raw.Color, raw.TextColor)
		if err != nil {
			return nil, err
		}
		if slices.Contains(out, label) {
			continue
		}
		out = append(out, label)
	}
	return out, nil
}

// ParseLabel reads the compact "name[:color[:textColor]]" form used by the TUI and MCP tools.
func ParseLabel(raw string) (Label, error) {
	name, rest, _ := strings.Cut(raw, ":")
	color, textColor, _ := strings.Cut(rest, ":")
	return NewLabel(name, color, textColor)
}

// ParseLabelList reads a comma-separated list of compact labels. Blank entries are skipped.
func ParseLabelList(raw string) ([]Label, error) {
	out := []Label{}
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		label, err := ParseLabel(part)
		if err != nil {
			return nil, err
		}
		out = append(out, label)
	}
	return normalizeLabels(out)
}

// FormatLabelList renders labels in the form ParseLabelList accepts.
func FormatLabelList(labels []Label) string {
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		color := label.Color
		if color == DefaultLabelColor {
			color = ""
		}
		textColor := label.TextColor
		if textColor == DefaultLabelTextColor {
			textColor = ""
		}
		switch {
		case textColor != "":
			parts = append(parts, label.Name+":"+color+":"+textColor)
		case color != "":
			parts = append(parts, label.Name+":"+color)
		default:
			parts = append(parts, label.Name)
		}
	}
	return strings.Join(parts, ", ")
}
