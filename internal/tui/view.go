package tui

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/osvalOrd/TrelloClone/internal/app"
	"github.com/osvalOrd/TrelloClone/internal/domain"
)

// View handles view.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("trelloclone") + "  " + m.board.Title
	header += statusStyle.Render("  [" + m.modeLabel() + "]")
	header += statusStyle.Render(fmt.Sprintf("  %d cards • rev %d", m.board.CardCount(), m.revision))

	var body string
	if len(m.board.Columns) == 0 {
		body = lipgloss.NewStyle().Foreground(muted).Render("No columns yet. Press N to add one.")
	} else {
		body = m.renderColumns(accent, muted, dim)
	}

	sections := []string{header, "", body}
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	fullContent := content + "\n" + helpLine

	overlay := m.renderModeOverlay(accent, muted, m.width-8)
	if m.help.ShowAll {
		overlay = m.renderHelpOverlay(accent, muted, m.width-8)
	}
	if overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}

	v := tea.NewView(fullContent)
	v.AltScreen = true
	return v
}

// renderColumns renders the board, or the drop preview while a drag is active.
func (m Model) renderColumns(accent, muted, dim color.Color) string {
	board, dragCol, dragCard, dragging := m.previewBoard()
	colWidth := m.columnWidthFor(m.width, len(board.Columns))
	colHeight := m.columnHeight()
	now := m.now()

	baseColStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		MarginRight(1).
		Width(colWidth)
	selColStyle := baseColStyle.BorderForeground(accent)
	dragColStyle := baseColStyle.BorderForeground(lipgloss.Color("212")).BorderStyle(lipgloss.DoubleBorder())
	colTitle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	selectedCardStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dragCardStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(muted)

	src, _ := m.drag.Active()
	columnDrag := dragging && src.Kind == app.DragKindColumn

	views := make([]string, 0, len(board.Columns))
	for colIdx, column := range board.Columns {
		lines := make([]string, 0, max(1, len(column.Cards)*3))
		selectedStart, selectedEnd := -1, -1
		if len(column.Cards) == 0 {
			lines = append(lines, emptyStyle.Render("(empty)"))
		}
		for cardIdx, card := range column.Cards {
			selected := !dragging && colIdx == m.selectedColumn && cardIdx == m.selectedCard
			dragged := dragging && !columnDrag && colIdx == dragCol && cardIdx == dragCard

			prefix := "  "
			switch {
			case dragged:
				prefix = "» "
			case selected:
				prefix = "│ "
			}
			title := prefix + truncate(card.Title, max(1, colWidth-6))
			switch {
			case dragged:
				title = dragCardStyle.Render(title)
			case selected:
				title = selectedCardStyle.Render(title)
			}

			rowStart := len(lines)
			lines = append(lines, title)
			for _, sub := range m.cardSecondary(card, colWidth-6, now) {
				lines = append(lines, "  "+subStyle.Render(sub))
			}
			if cardIdx < len(column.Cards)-1 {
				lines = append(lines, "")
			}
			if selected || dragged {
				selectedStart, selectedEnd = rowStart, len(lines)-1
			}
		}

		header := colTitle.Render(fmt.Sprintf("%s (%d)", truncate(column.Title, max(1, colWidth-8)), len(column.Cards)))
		innerHeight := max(1, colHeight-2)
		window := max(1, innerHeight-2)
		scrollTop := 0
		if selectedStart >= 0 {
			if selectedEnd >= window {
				scrollTop = selectedEnd - window + 1
			}
			if selectedStart < scrollTop {
				scrollTop = selectedStart
			}
		}
		scrollTop = clamp(scrollTop, 0, max(0, len(lines)-window))
		if len(lines) > window {
			lines = lines[scrollTop : scrollTop+window]
		}
		content := fitLines(strings.Join(append([]string{header, ""}, lines...), "\n"), innerHeight)

		switch {
		case columnDrag && colIdx == dragCol:
			views = append(views, dragColStyle.Render(content))
		case (!dragging && colIdx == m.selectedColumn) || (dragging && !columnDrag && colIdx == dragCol):
			views = append(views, selColStyle.Render(content))
		default:
			views = append(views, baseColStyle.Render(content))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

// cardSecondary returns the optional detail rows shown under a card title.
func (m Model) cardSecondary(card domain.Card, width int, now time.Time) []string {
	var out []string
	if m.cardFields.ShowLabels && len(card.Labels) > 0 {
		out = append(out, renderLabels(card.Labels, width))
	}
	if m.cardFields.ShowDueDate && card.DueAt != nil {
		due := "due " + formatDueValue(card.DueAt)
		if card.Overdue(now) {
			due = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")).Render("overdue " + formatDueValue(card.DueAt))
		}
		out = append(out, due)
	}
	if m.cardFields.ShowDescription {
		if first, _, _ := strings.Cut(strings.TrimSpace(card.Description), "\n"); first != "" {
			out = append(out, truncate(first, max(1, width)))
		}
	}
	return out
}

// renderLabels renders label chips in their own colors, truncated to width.
func renderLabels(labels []domain.Label, width int) string {
	chips := make([]string, 0, len(labels))
	used := 0
	for i, label := range labels {
		if used+len(label.Name)+1 > width && i > 0 {
			chips = append(chips, fmt.Sprintf("+%d", len(labels)-i))
			break
		}
		used += len(label.Name) + 1
		chips = append(chips, lipgloss.NewStyle().
			Background(lipgloss.Color(label.Color)).
			Foreground(labelTextColor(label.TextColor)).
			Render(label.Name))
	}
	return strings.Join(chips, " ")
}

// labelTextColor maps a stored label text color to a terminal color.
func labelTextColor(raw string) color.Color {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "white":
		return lipgloss.Color("#ffffff")
	case "black":
		return lipgloss.Color("#000000")
	default:
		return lipgloss.Color(raw)
	}
}

// renderModeOverlay renders the modal for the active mode.
func (m Model) renderModeOverlay(accent, muted color.Color, maxWidth int) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle := lipgloss.NewStyle().Foreground(muted)

	switch m.mode {
	case modeAddCard, modeEditCard:
		if maxWidth > 0 {
			boxStyle = boxStyle.Width(clamp(maxWidth, 40, 80))
		}
		title := "New Card"
		if m.mode == modeEditCard {
			title = "Edit Card"
		}
		names := []string{"title", "description", "labels", "due"}
		lines := []string{titleStyle.Render(title)}
		for i, in := range m.formInputs {
			label := fmt.Sprintf("%-12s", names[i]+":")
			if i == m.formFocus {
				label = titleStyle.Render(label)
			} else {
				label = hintStyle.Render(label)
			}
			lines = append(lines, label+" "+in.View())
		}
		lines = append(lines, "", hintStyle.Render("tab next • shift+tab prev • enter save • esc cancel"))
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeAddColumn, modeRenameColumn, modeSearch:
		if maxWidth > 0 {
			boxStyle = boxStyle.Width(clamp(maxWidth, 32, 64))
		}
		title := map[inputMode]string{
			modeAddColumn:    "New Column",
			modeRenameColumn: "Rename Column",
			modeSearch:       "Search Cards",
		}[m.mode]
		lines := []string{titleStyle.Render(title), m.input.View(), "", hintStyle.Render("enter confirm • esc cancel")}
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeCardInfo:
		card, ok := m.board.Card(m.infoCardID)
		if !ok {
			return ""
		}
		width := 60
		if maxWidth > 0 {
			width = clamp(maxWidth, 30, 80)
			boxStyle = boxStyle.Width(width)
		}
		due := "-"
		if card.DueAt != nil {
			due = formatDueValue(card.DueAt)
		}
		labels := "-"
		if len(card.Labels) > 0 {
			labels = renderLabels(card.Labels, width)
		}
		lines := []string{
			titleStyle.Render(card.Title),
			hintStyle.Render("id: " + card.ID + " • created: " + card.CreatedAt.UTC().Format("2006-01-02 15:04")),
			hintStyle.Render("due: ") + due,
			hintStyle.Render("labels: ") + labels,
		}
		if card.Overdue(m.now()) {
			lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")).Render("overdue"))
		}
		lines = append(lines, "")
		if desc := m.markdown.render(card.Description, width-4); desc != "" {
			lines = append(lines, desc)
		} else {
			lines = append(lines, hintStyle.Render("(no description)"))
		}
		lines = append(lines, "", hintStyle.Render("e edit • y copy title • esc close"))
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeSearchResults:
		if maxWidth > 0 {
			boxStyle = boxStyle.Width(clamp(maxWidth, 40, 80))
		}
		lines := []string{titleStyle.Render(fmt.Sprintf("Search: %q", m.searchQuery))}
		start, end := windowBounds(len(m.searchMatches), m.searchResultIndex, searchResultsViewWindow)
		for idx := start; idx < end; idx++ {
			match := m.searchMatches[idx]
			row := fmt.Sprintf("%s  %s", truncate(match.Card.Title, 40), hintStyle.Render(match.ColumnTitle))
			if idx == m.searchResultIndex {
				row = titleStyle.Render("› ") + row
			} else {
				row = "  " + row
			}
			lines = append(lines, row)
		}
		lines = append(lines, "", hintStyle.Render("j/k select • enter jump • esc close"))
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeConfirmDelete:
		if maxWidth > 0 {
			boxStyle = boxStyle.Width(clamp(maxWidth, 32, 64))
		}
		action := m.pendingConfirm
		lines := []string{
			titleStyle.Render("Delete " + string(action.Kind)),
			truncate(action.Label, 56),
		}
		if action.Kind == domain.ChangeTargetColumn {
			if idx := m.board.ColumnIndex(action.ID); idx >= 0 {
				lines = append(lines, hintStyle.Render(fmt.Sprintf("also deletes %d cards", len(m.board.Columns[idx].Cards))))
			}
		}
		lines = append(lines, "", hintStyle.Render("y/enter delete • n/esc cancel"))
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeActivityLog:
		if maxWidth > 0 {
			boxStyle = boxStyle.Width(clamp(maxWidth, 44, 96))
		}
		lines := []string{titleStyle.Render("Activity Log")}
		if len(m.activity) == 0 {
			lines = append(lines, hintStyle.Render("(no activity yet)"))
		}
		for idx, event := range m.activity {
			if idx >= activityLogViewWindow {
				break
			}
			lines = append(lines, fmt.Sprintf("%s  %s • %s",
				hintStyle.Render(event.OccurredAt.Local().Format("15:04:05")),
				truncate(event.Summary, 48),
				hintStyle.Render(event.ActorID)))
		}
		lines = append(lines, hintStyle.Render("esc close"))
		return boxStyle.Render(strings.Join(lines, "\n"))

	default:
		return ""
	}
}

// renderHelpOverlay renders the full key help.
func (m Model) renderHelpOverlay(accent, muted color.Color, maxWidth int) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	if maxWidth > 0 {
		boxStyle = boxStyle.Width(clamp(maxWidth, 40, 100))
	}
	helpBubble := m.help
	helpBubble.ShowAll = true
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Keys"),
		helpBubble.View(m.keys),
		"",
		lipgloss.NewStyle().Foreground(muted).Render("? or esc close"),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// modeLabel returns the header tag for the active mode.
func (m Model) modeLabel() string {
	if src, ok := m.drag.Active(); ok {
		return "moving " + string(src.Kind)
	}
	switch m.mode {
	case modeAddCard:
		return "new card"
	case modeEditCard:
		return "edit card"
	case modeAddColumn:
		return "new column"
	case modeRenameColumn:
		return "rename column"
	case modeCardInfo:
		return "card info"
	case modeSearch, modeSearchResults:
		return "search"
	case modeConfirmDelete:
		return "confirm"
	case modeActivityLog:
		return "activity"
	default:
		return "board"
	}
}

// columnWidthFor returns the width of one column so that count columns fit in width.
func (m Model) columnWidthFor(width, count int) int {
	preferred := max(minColumnWidth, m.columnWidth)
	if width <= 0 || count <= 0 {
		return preferred
	}
	// border (2) and right margin (1) per column
	fit := width/count - 3
	return clamp(fit, minColumnWidth, preferred)
}

// columnHeight returns the column box height for the current terminal.
func (m Model) columnHeight() int {
	if m.height <= 0 {
		return 20
	}
	// header, spacer, status, help line with border
	return max(6, m.height-6)
}

// windowBounds returns the visible [start,end) slice of total rows around selected.
func windowBounds(total, selected, windowSize int) (int, int) {
	if total <= windowSize {
		return 0, total
	}
	start := clamp(selected-windowSize/2, 0, total-windowSize)
	return start, start + windowSize
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		lines = append(lines, make([]string, maxLines-len(lines))...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centered := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
	overlayLayer := lipgloss.NewLayer(centered).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
