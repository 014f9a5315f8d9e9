package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/osvalOrd/TrelloClone/internal/app"
	"github.com/osvalOrd/TrelloClone/internal/domain"
)

// Service is the board surface driven by the UI. *app.Service satisfies it.
type Service interface {
	Board() (domain.Board, uint64)
	AddColumn(context.Context, string) (domain.Column, error)
	RenameColumn(context.Context, string, string) (domain.Column, error)
	DeleteColumn(context.Context, string) error
	AddCard(context.Context, app.AddCardInput) (domain.Card, error)
	UpdateCard(context.Context, string, domain.CardPatch) (domain.Card, error)
	DeleteCard(context.Context, string) error
	MoveCard(context.Context, domain.CardMove) (domain.Board, uint64, error)
	ReorderColumns(context.Context, domain.ColumnMove) (domain.Board, uint64, error)
	SearchCards(context.Context, string, int) ([]app.CardMatch, error)
	ListChangeEvents(context.Context, int) ([]domain.ChangeEvent, error)
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeAddCard
	modeEditCard
	modeAddColumn
	modeRenameColumn
	modeCardInfo
	modeSearch
	modeSearchResults
	modeConfirmDelete
	modeActivityLog
)

// card-form field indexes in display order.
const (
	cardFieldTitle = iota
	cardFieldDescription
	cardFieldLabels
	cardFieldDue
)

const (
	minColumnWidth          = 16
	defaultColumnWidth      = 30
	activityLogViewWindow   = 14
	searchResultsViewWindow = 10
)

// confirmAction describes a pending delete confirmation.
type confirmAction struct {
	Kind  domain.ChangeTarget
	ID    string
	Label string
}

// Model is the bubbletea model for the board.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int
	status string

	help help.Model
	keys keyMap

	cardFields    CardFieldConfig
	columnWidth   int
	searchLimit   int
	activityLimit int
	now           func() time.Time
	copyText      func(string) error
	markdown      *markdownRenderer

	board          domain.Board
	revision       uint64
	selectedColumn int
	selectedCard   int

	mode           inputMode
	input          textinput.Model
	formInputs     []textinput.Model
	formFocus      int
	formColumnID   string
	editingCardID  string
	editingLabels  string
	infoCardID     string
	pendingConfirm confirmAction

	drag       app.DragSession
	dragItemID string
	dropColumn int
	dropIndex  int

	searchQuery       string
	searchMatches     []app.CardMatch
	searchResultIndex int

	activity []domain.ChangeEvent
}

// loadedMsg carries a board snapshot read from the service.
type loadedMsg struct {
	board    domain.Board
	revision uint64
}

// BoardChangedMsg reports a board replaced outside the UI loop, for example by the HTTP server.
type BoardChangedMsg struct {
	Board    domain.Board
	Revision uint64
}

// actionMsg carries the outcome of one board command.
type actionMsg struct {
	err      error
	status   string
	board    domain.Board
	revision uint64
	focusID  string
}

// searchResultsMsg carries message data through update handling.
type searchResultsMsg struct {
	matches []app.CardMatch
	err     error
}

// activityLoadedMsg carries journal entries for the activity modal.
type activityLoadedMsg struct {
	events []domain.ChangeEvent
	err    error
}

// copiedMsg reports a clipboard write.
type copiedMsg struct {
	title string
	err   error
}

// NewModel constructs a board model.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:           svc,
		status:        "ready",
		help:          h,
		keys:          newKeyMap(),
		cardFields:    DefaultCardFieldConfig(),
		columnWidth:   defaultColumnWidth,
		searchLimit:   app.DefaultSearchLimit,
		activityLimit: app.DefaultActivityLimit,
		now:           time.Now,
		copyText:      clipboard.WriteAll,
		markdown:      &markdownRenderer{},
		input:         newModalInput("", "", "", 120),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init loads the current board.
func (m Model) Init() tea.Cmd {
	return m.loadBoard
}

// Update handles update.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(msg.Width)
		return m, nil

	case loadedMsg:
		m.ready = true
		m.setBoard(msg.board, msg.revision)
		return m, nil

	case BoardChangedMsg:
		if m.ready && msg.Revision <= m.revision {
			return m, nil
		}
		m.ready = true
		m.setBoard(msg.Board, msg.Revision)
		if m.drag.Cancel() {
			m.status = "board changed elsewhere; move cancelled"
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.status = errorStatus(msg.err)
			return m, nil
		}
		if msg.revision >= m.revision {
			m.setBoard(msg.board, msg.revision)
		}
		if msg.focusID != "" {
			m.focusByID(msg.focusID)
		}
		m.status = msg.status
		return m, nil

	case searchResultsMsg:
		if msg.err != nil {
			m.mode = modeNone
			m.status = errorStatus(msg.err)
			return m, nil
		}
		m.searchMatches = msg.matches
		m.searchResultIndex = 0
		if len(m.searchMatches) == 0 {
			m.mode = modeNone
			m.status = "no matches"
			return m, nil
		}
		m.mode = modeSearchResults
		m.status = fmt.Sprintf("%d matches", len(m.searchMatches))
		return m, nil

	case activityLoadedMsg:
		if msg.err != nil {
			if m.mode == modeActivityLog {
				m.mode = modeNone
			}
			m.status = "activity log unavailable: " + msg.err.Error()
			return m, nil
		}
		m.activity = msg.events
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("copied %q", truncate(msg.title, 40))
		return m, nil

	case tea.KeyPressMsg:
		if _, ok := m.drag.Active(); ok {
			return m.handleDragKey(msg)
		}
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	default:
		return m, nil
	}
}

// loadBoard reads the current board snapshot.
func (m Model) loadBoard() tea.Msg {
	board, revision := m.svc.Board()
	return loadedMsg{board: board, revision: revision}
}

// boardAction runs one service call and reports the board it produced.
func (m Model) boardAction(status string, fn func(context.Context) (string, error)) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		focusID, err := fn(context.Background())
		if err != nil {
			return actionMsg{err: err}
		}
		board, revision := svc.Board()
		return actionMsg{status: status, board: board, revision: revision, focusID: focusID}
	}
}

// setBoard replaces the displayed board and keeps selections in range.
func (m *Model) setBoard(board domain.Board, revision uint64) {
	m.board = board
	m.revision = revision
	m.clampSelections()
}

// clampSelections keeps the column and card cursors inside the board.
func (m *Model) clampSelections() {
	m.selectedColumn = clamp(m.selectedColumn, 0, len(m.board.Columns)-1)
	col, ok := m.currentColumn()
	if !ok {
		m.selectedCard = 0
		return
	}
	m.selectedCard = clamp(m.selectedCard, 0, len(col.Cards)-1)
}

// focusByID moves the cursor to a card or column id.
func (m *Model) focusByID(id string) {
	if colIdx, cardIdx, ok := m.board.FindCard(id); ok {
		m.selectedColumn = colIdx
		m.selectedCard = cardIdx
		return
	}
	if colIdx := m.board.ColumnIndex(id); colIdx >= 0 {
		m.selectedColumn = colIdx
		m.selectedCard = 0
	}
}

// currentColumn returns the selected column.
func (m Model) currentColumn() (domain.Column, bool) {
	if len(m.board.Columns) == 0 {
		return domain.Column{}, false
	}
	return m.board.Columns[clamp(m.selectedColumn, 0, len(m.board.Columns)-1)], true
}

// selectedCardInColumn returns the selected card.
func (m Model) selectedCardInColumn() (domain.Card, bool) {
	col, ok := m.currentColumn()
	if !ok || len(col.Cards) == 0 {
		return domain.Card{}, false
	}
	return col.Cards[clamp(m.selectedCard, 0, len(col.Cards)-1)], true
}

// handleNormalModeKey handles board navigation and command keys.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		if m.help.ShowAll {
			m.status = "help"
		} else {
			m.status = "ready"
		}
		return m, nil
	case key.Matches(msg, m.keys.cancel):
		if m.help.ShowAll {
			m.help.ShowAll = false
		}
		m.status = "ready"
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "reloaded"
		return m, m.loadBoard
	case key.Matches(msg, m.keys.moveLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.selectedCard = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		if m.selectedColumn < len(m.board.Columns)-1 {
			m.selectedColumn++
			m.selectedCard = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		if col, ok := m.currentColumn(); ok && m.selectedCard < len(col.Cards)-1 {
			m.selectedCard++
		}
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.selectedCard > 0 {
			m.selectedCard--
		}
		return m, nil
	case key.Matches(msg, m.keys.pickCard):
		return m.startCardDrag()
	case key.Matches(msg, m.keys.pickColumn):
		return m.startColumnDrag()
	case key.Matches(msg, m.keys.addCard):
		col, ok := m.currentColumn()
		if !ok {
			m.status = "add a column first"
			return m, nil
		}
		m.help.ShowAll = false
		return m, m.startCardForm(col.ID, nil)
	case key.Matches(msg, m.keys.editCard):
		card, ok := m.selectedCardInColumn()
		if !ok {
			m.status = "no card selected"
			return m, nil
		}
		m.help.ShowAll = false
		return m, m.startCardForm("", &card)
	case key.Matches(msg, m.keys.addColumn):
		m.help.ShowAll = false
		return m, m.startInputMode(modeAddColumn, "column: ", "column title", "", "new column")
	case key.Matches(msg, m.keys.renameColumn):
		col, ok := m.currentColumn()
		if !ok {
			m.status = "no column selected"
			return m, nil
		}
		m.help.ShowAll = false
		return m, m.startInputMode(modeRenameColumn, "rename: ", "column title", col.Title, "rename column")
	case key.Matches(msg, m.keys.cardInfo):
		card, ok := m.selectedCardInColumn()
		if !ok {
			m.status = "no card selected"
			return m, nil
		}
		m.mode = modeCardInfo
		m.infoCardID = card.ID
		m.status = "card info"
		return m, nil
	case key.Matches(msg, m.keys.deleteCard):
		card, ok := m.selectedCardInColumn()
		if !ok {
			m.status = "no card selected"
			return m, nil
		}
		m.confirm(confirmAction{Kind: domain.ChangeTargetCard, ID: card.ID, Label: card.Title})
		return m, nil
	case key.Matches(msg, m.keys.deleteColumn):
		col, ok := m.currentColumn()
		if !ok {
			m.status = "no column selected"
			return m, nil
		}
		m.confirm(confirmAction{Kind: domain.ChangeTargetColumn, ID: col.ID, Label: col.Title})
		return m, nil
	case key.Matches(msg, m.keys.copyTitle):
		card, ok := m.selectedCardInColumn()
		if !ok {
			m.status = "no card selected"
			return m, nil
		}
		return m, m.copyCardTitle(card)
	case key.Matches(msg, m.keys.search):
		m.help.ShowAll = false
		return m, m.startInputMode(modeSearch, "/ ", "title, description, labels", m.searchQuery, "search")
	case key.Matches(msg, m.keys.activityLog):
		return m, m.openActivityLog()
	default:
		return m, nil
	}
}

// handleInputModeKey dispatches keys while a modal is open.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAddCard, modeEditCard:
		return m.handleCardFormKey(msg)
	case modeAddColumn, modeRenameColumn, modeSearch:
		switch msg.String() {
		case "esc":
			m.closeMode("cancelled")
			return m, nil
		case "enter":
			return m.submitInputMode()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case modeCardInfo:
		card, ok := m.board.Card(m.infoCardID)
		if !ok {
			m.closeMode("card no longer exists")
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.cancel), msg.String() == "i", msg.String() == "q":
			m.closeMode("ready")
			return m, nil
		case key.Matches(msg, m.keys.editCard):
			return m, m.startCardForm("", &card)
		case key.Matches(msg, m.keys.copyTitle):
			return m, m.copyCardTitle(card)
		}
		return m, nil
	case modeSearchResults:
		switch {
		case key.Matches(msg, m.keys.cancel), msg.String() == "q":
			m.closeMode("ready")
		case key.Matches(msg, m.keys.moveDown):
			m.searchResultIndex = clamp(m.searchResultIndex+1, 0, len(m.searchMatches)-1)
		case key.Matches(msg, m.keys.moveUp):
			m.searchResultIndex = clamp(m.searchResultIndex-1, 0, len(m.searchMatches)-1)
		case msg.String() == "enter":
			if len(m.searchMatches) > 0 {
				match := m.searchMatches[clamp(m.searchResultIndex, 0, len(m.searchMatches)-1)]
				m.focusByID(match.Card.ID)
				m.closeMode("selected " + truncate(match.Card.Title, 40))
			}
		}
		return m, nil
	case modeConfirmDelete:
		switch msg.String() {
		case "y", "enter":
			return m.applyConfirmedAction(m.pendingConfirm)
		case "n", "esc":
			m.pendingConfirm = confirmAction{}
			m.closeMode("delete cancelled")
		}
		return m, nil
	case modeActivityLog:
		if key.Matches(msg, m.keys.cancel) || key.Matches(msg, m.keys.activityLog) || msg.String() == "q" {
			m.closeMode("ready")
		}
		return m, nil
	default:
		m.closeMode("ready")
		return m, nil
	}
}

// closeMode returns to the board with a status line.
func (m *Model) closeMode(status string) {
	m.mode = modeNone
	m.input.Blur()
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	m.formInputs = nil
	m.editingCardID = ""
	m.editingLabels = ""
	m.formColumnID = ""
	m.infoCardID = ""
	m.status = status
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// startInputMode opens a single-line input modal.
func (m *Model) startInputMode(mode inputMode, prompt, placeholder, value, status string) tea.Cmd {
	m.mode = mode
	m.input = newModalInput(prompt, placeholder, value, 120)
	m.input.CursorEnd()
	m.status = status
	return m.input.Focus()
}

// submitInputMode applies the single-line input for the active mode.
func (m Model) submitInputMode() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	mode := m.mode
	switch mode {
	case modeSearch:
		m.searchQuery = text
		m.closeMode("searching...")
		return m, m.searchCards(text)
	case modeAddColumn:
		if text == "" {
			m.closeMode("empty title ignored")
			return m, nil
		}
		m.closeMode("adding column...")
		return m, m.boardAction("column added", func(ctx context.Context) (string, error) {
			col, err := m.svc.AddColumn(ctx, text)
			return col.ID, err
		})
	case modeRenameColumn:
		col, ok := m.currentColumn()
		if !ok {
			m.closeMode("no column selected")
			return m, nil
		}
		if text == "" {
			m.closeMode("empty title ignored")
			return m, nil
		}
		m.closeMode("renaming column...")
		return m, m.boardAction("column renamed", func(ctx context.Context) (string, error) {
			renamed, err := m.svc.RenameColumn(ctx, col.ID, text)
			return renamed.ID, err
		})
	default:
		m.closeMode("ready")
		return m, nil
	}
}

// startCardForm opens the card form for a new card in columnID or for editing card.
func (m *Model) startCardForm(columnID string, card *domain.Card) tea.Cmd {
	m.formInputs = []textinput.Model{
		newModalInput("", "card title (required)", "", 120),
		newModalInput("", "description (markdown)", "", 500),
		newModalInput("", "bug, ui:#2563eb", "", 200),
		newModalInput("", "YYYY-MM-DD (blank clears)", "", 32),
	}
	if card != nil {
		m.formInputs[cardFieldTitle].SetValue(card.Title)
		m.formInputs[cardFieldDescription].SetValue(card.Description)
		m.editingLabels = domain.FormatLabelList(card.Labels)
		m.formInputs[cardFieldLabels].SetValue(m.editingLabels)
		m.formInputs[cardFieldDue].SetValue(formatDueValue(card.DueAt))
		m.mode = modeEditCard
		m.editingCardID = card.ID
		m.formColumnID = ""
		m.status = "edit card"
	} else {
		m.mode = modeAddCard
		m.editingCardID = ""
		m.formColumnID = columnID
		m.status = "new card"
	}
	return m.focusCardFormField(cardFieldTitle)
}

// focusCardFormField focuses one card form field.
func (m *Model) focusCardFormField(idx int) tea.Cmd {
	if len(m.formInputs) == 0 {
		return nil
	}
	idx = clamp(idx, 0, len(m.formInputs)-1)
	m.formFocus = idx
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	return m.formInputs[idx].Focus()
}

// handleCardFormKey handles keys inside the card form.
func (m Model) handleCardFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeMode("cancelled")
		return m, nil
	case "tab", "down":
		return m, m.focusCardFormField((m.formFocus + 1) % len(m.formInputs))
	case "shift+tab", "up":
		return m, m.focusCardFormField((m.formFocus - 1 + len(m.formInputs)) % len(m.formInputs))
	case "enter":
		return m.submitCardForm()
	}
	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

// submitCardForm validates the card form and issues an add or update.
func (m Model) submitCardForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.formInputs[cardFieldTitle].Value())
	description := strings.TrimSpace(m.formInputs[cardFieldDescription].Value())
	if title == "" {
		m.closeMode("empty title ignored")
		return m, nil
	}
	labels, err := domain.ParseLabelList(m.formInputs[cardFieldLabels].Value())
	if err != nil {
		m.status = "labels: " + err.Error()
		return m, m.focusCardFormField(cardFieldLabels)
	}
	dueAt, err := parseDueInput(m.formInputs[cardFieldDue].Value())
	if err != nil {
		m.status = err.Error()
		return m, m.focusCardFormField(cardFieldDue)
	}

	if m.mode == modeAddCard {
		in := app.AddCardInput{
			ColumnID:    m.formColumnID,
			Title:       title,
			Description: description,
			Labels:      labels,
			DueAt:       dueAt,
		}
		m.closeMode("adding card...")
		return m, m.boardAction("card added", func(ctx context.Context) (string, error) {
			card, err := m.svc.AddCard(ctx, in)
			return card.ID, err
		})
	}

	cardID := m.editingCardID
	patch := domain.CardPatch{
		Title:       &title,
		Description: &description,
	}
	// Untouched label text keeps the stored labels as they are.
	if strings.TrimSpace(m.formInputs[cardFieldLabels].Value()) != m.editingLabels {
		patch.Labels = &labels
	}
	if dueAt == nil {
		patch.ClearDueAt = true
	} else {
		patch.DueAt = dueAt
	}
	m.closeMode("saving card...")
	return m, m.boardAction("card updated", func(ctx context.Context) (string, error) {
		card, err := m.svc.UpdateCard(ctx, cardID, patch)
		return card.ID, err
	})
}

// parseDueInput parses the due-date field. Blank and "-" clear the due date.
func parseDueInput(raw string) (*time.Time, error) {
	text := strings.TrimSpace(raw)
	if text == "" || text == "-" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, text); err == nil {
			ts := parsed.UTC()
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("due date must be YYYY-MM-DD, RFC3339, or blank")
}

// formatDueValue formats a due date for display and editing.
func formatDueValue(dueAt *time.Time) string {
	if dueAt == nil {
		return ""
	}
	due := dueAt.UTC()
	if due.Hour() == 0 && due.Minute() == 0 && due.Second() == 0 {
		return due.Format("2006-01-02")
	}
	return due.Format(time.RFC3339)
}

// confirm opens the delete confirmation modal.
func (m *Model) confirm(action confirmAction) {
	m.help.ShowAll = false
	m.pendingConfirm = action
	m.mode = modeConfirmDelete
	m.status = fmt.Sprintf("delete %s %q?", action.Kind, truncate(action.Label, 28))
}

// applyConfirmedAction runs a confirmed delete.
func (m Model) applyConfirmedAction(action confirmAction) (tea.Model, tea.Cmd) {
	m.pendingConfirm = confirmAction{}
	m.closeMode("deleting...")
	switch action.Kind {
	case domain.ChangeTargetCard:
		return m, m.boardAction("card deleted", func(ctx context.Context) (string, error) {
			return "", m.svc.DeleteCard(ctx, action.ID)
		})
	case domain.ChangeTargetColumn:
		return m, m.boardAction("column deleted", func(ctx context.Context) (string, error) {
			return "", m.svc.DeleteColumn(ctx, action.ID)
		})
	default:
		m.status = "ready"
		return m, nil
	}
}

// startCardDrag picks up the selected card.
func (m Model) startCardDrag() (tea.Model, tea.Cmd) {
	col, ok := m.currentColumn()
	if !ok {
		m.status = "no column selected"
		return m, nil
	}
	card, ok := m.selectedCardInColumn()
	if !ok {
		m.status = "no card selected"
		return m, nil
	}
	if err := m.drag.Start(app.DragSource{Kind: app.DragKindCard, ColumnID: col.ID, Index: m.selectedCard}); err != nil {
		m.status = errorStatus(err)
		return m, nil
	}
	m.help.ShowAll = false
	m.dragItemID = card.ID
	m.dropColumn = m.selectedColumn
	m.dropIndex = m.selectedCard
	m.status = fmt.Sprintf("moving %q • h/j/k/l choose • enter drop • esc cancel", truncate(card.Title, 28))
	return m, nil
}

// startColumnDrag picks up the selected column.
func (m Model) startColumnDrag() (tea.Model, tea.Cmd) {
	col, ok := m.currentColumn()
	if !ok {
		m.status = "no column selected"
		return m, nil
	}
	if err := m.drag.Start(app.DragSource{Kind: app.DragKindColumn, Index: m.selectedColumn}); err != nil {
		m.status = errorStatus(err)
		return m, nil
	}
	m.help.ShowAll = false
	m.dragItemID = col.ID
	m.dropColumn = m.selectedColumn
	m.dropIndex = m.selectedColumn
	m.status = fmt.Sprintf("moving column %q • h/l choose • enter drop • esc cancel", truncate(col.Title, 28))
	return m, nil
}

// handleDragKey moves the drop marker or ends the gesture.
func (m Model) handleDragKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	src, _ := m.drag.Active()
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.drag.Cancel()
		m.dragItemID = ""
		m.status = "move cancelled"
		return m, nil
	case key.Matches(msg, m.keys.drop), key.Matches(msg, m.keys.pickCard):
		return m.dropDrag()
	case src.Kind == app.DragKindColumn && key.Matches(msg, m.keys.pickColumn):
		return m.dropDrag()
	case key.Matches(msg, m.keys.moveLeft):
		m.shiftDropMarker(src, -1, 0)
	case key.Matches(msg, m.keys.moveRight):
		m.shiftDropMarker(src, 1, 0)
	case key.Matches(msg, m.keys.moveUp):
		m.shiftDropMarker(src, 0, -1)
	case key.Matches(msg, m.keys.moveDown):
		m.shiftDropMarker(src, 0, 1)
	case msg.String() == "ctrl+c":
		m.drag.Cancel()
		return m, tea.Quit
	}
	return m, nil
}

// shiftDropMarker moves the drop marker within the legal destination range.
func (m *Model) shiftDropMarker(src app.DragSource, dCol, dIdx int) {
	if len(m.board.Columns) == 0 {
		return
	}
	if src.Kind == app.DragKindColumn {
		m.dropIndex = clamp(m.dropIndex+dCol, 0, len(m.board.Columns)-1)
		return
	}
	if dCol != 0 {
		m.dropColumn = clamp(m.dropColumn+dCol, 0, len(m.board.Columns)-1)
	}
	m.dropIndex = clamp(m.dropIndex+dIdx, 0, m.maxDropIndex(src))
}

// maxDropIndex returns the last legal card position in the marker column.
// The dragged card is not counted when it stays in its own column.
func (m Model) maxDropIndex(src app.DragSource) int {
	dest := m.board.Columns[clamp(m.dropColumn, 0, len(m.board.Columns)-1)]
	if dest.ID == src.ColumnID {
		return len(dest.Cards) - 1
	}
	return len(dest.Cards)
}

// dropDrag ends the gesture at the marker with one service call.
func (m Model) dropDrag() (tea.Model, tea.Cmd) {
	src, ok := m.drag.Active()
	if !ok {
		return m, nil
	}
	session := m.drag
	m.drag.Cancel()
	focusID := m.dragItemID
	m.dragItemID = ""

	target := app.DropTarget{Index: m.dropIndex}
	status := "column moved"
	noop := src.Index == m.dropIndex
	if src.Kind == app.DragKindCard {
		target.ColumnID = m.board.Columns[clamp(m.dropColumn, 0, len(m.board.Columns)-1)].ID
		status = "card moved"
		noop = domain.CardMove{FromColumnID: src.ColumnID, FromIndex: src.Index, ToColumnID: target.ColumnID, ToIndex: target.Index}.IsNoop()
	}
	if noop {
		m.status = "nothing moved"
		return m, nil
	}
	svc := m.svc
	return m, m.boardAction(status, func(ctx context.Context) (string, error) {
		_, _, err := session.Drop(ctx, svc, target)
		return focusID, err
	})
}

// previewBoard returns the board as it would look after dropping at the marker,
// plus the column and card positions of the dragged item in that board.
func (m Model) previewBoard() (domain.Board, int, int, bool) {
	src, ok := m.drag.Active()
	if !ok || len(m.board.Columns) == 0 {
		return m.board, -1, -1, false
	}
	if src.Kind == app.DragKindColumn {
		preview, err := domain.ReorderColumns(m.board, domain.ColumnMove{From: src.Index, To: m.dropIndex})
		if err != nil {
			return m.board, src.Index, -1, true
		}
		return preview, m.dropIndex, -1, true
	}
	dest := m.board.Columns[clamp(m.dropColumn, 0, len(m.board.Columns)-1)]
	preview, err := domain.MoveCard(m.board, domain.CardMove{
		FromColumnID: src.ColumnID,
		FromIndex:    src.Index,
		ToColumnID:   dest.ID,
		ToIndex:      m.dropIndex,
	})
	if err != nil {
		return m.board, m.board.ColumnIndex(src.ColumnID), src.Index, true
	}
	return preview, m.dropColumn, m.dropIndex, true
}

// searchCards runs a card search.
func (m Model) searchCards(query string) tea.Cmd {
	svc := m.svc
	limit := m.searchLimit
	return func() tea.Msg {
		matches, err := svc.SearchCards(context.Background(), query, limit)
		return searchResultsMsg{matches: matches, err: err}
	}
}

// openActivityLog enters activity-log mode and loads journal entries.
func (m *Model) openActivityLog() tea.Cmd {
	m.help.ShowAll = false
	m.mode = modeActivityLog
	m.activity = nil
	m.status = "activity log"
	svc := m.svc
	limit := m.activityLimit
	return func() tea.Msg {
		events, err := svc.ListChangeEvents(context.Background(), limit)
		return activityLoadedMsg{events: events, err: err}
	}
}

// copyCardTitle copies a card title to the system clipboard.
func (m Model) copyCardTitle(card domain.Card) tea.Cmd {
	write := m.copyText
	title := card.Title
	return func() tea.Msg {
		return copiedMsg{title: title, err: write(title)}
	}
}

// errorStatus maps service errors to a short status line.
func errorStatus(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTitle):
		return "title required"
	case errors.Is(err, domain.ErrInvalidIndex):
		return "can't move there"
	case errors.Is(err, domain.ErrNotFound):
		return "item no longer exists"
	case errors.Is(err, app.ErrJournalUnavailable):
		return "activity log unavailable"
	default:
		return "error: " + err.Error()
	}
}
