package tui

import "time"

// CardFieldConfig controls which optional card fields show on the board.
type CardFieldConfig struct {
	ShowLabels      bool
	ShowDueDate     bool
	ShowDescription bool
}

// Option configures a Model.
type Option func(*Model)

// DefaultCardFieldConfig returns the default card field visibility.
func DefaultCardFieldConfig() CardFieldConfig {
	return CardFieldConfig{
		ShowLabels:      true,
		ShowDueDate:     true,
		ShowDescription: false,
	}
}

// WithCardFieldConfig sets optional card field visibility.
func WithCardFieldConfig(cfg CardFieldConfig) Option {
	return func(m *Model) {
		m.cardFields = cfg
	}
}

// WithColumnWidth sets the preferred column width. Values below the minimum are ignored.
func WithColumnWidth(width int) Option {
	return func(m *Model) {
		if width >= minColumnWidth {
			m.columnWidth = width
		}
	}
}

// WithSearchLimit caps search results and activity rows.
func WithSearchLimit(search, activity int) Option {
	return func(m *Model) {
		if search > 0 {
			m.searchLimit = search
		}
		if activity > 0 {
			m.activityLimit = activity
		}
	}
}

// WithKeyConfig applies key binding overrides.
func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

// WithClipboard replaces the clipboard writer used by the copy binding.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

// WithClock replaces the clock used for overdue markers.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}
