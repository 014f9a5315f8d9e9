package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders card descriptions as markdown. The glamour renderer
// is rebuilt only when the wrap width changes, and the last result is cached.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer

	lastInput  string
	lastOutput string
}

// render converts markdown into ANSI-styled terminal text wrapped at width.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}
	wrapWidth := max(24, width)

	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
		r.lastInput = ""
	}
	if r.lastInput == markdown && r.lastOutput != "" {
		return r.lastOutput
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	r.lastInput = markdown
	r.lastOutput = strings.Trim(rendered, "\n")
	return r.lastOutput
}
