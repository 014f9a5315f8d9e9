package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/osvalOrd/TrelloClone/internal/app"
	"github.com/osvalOrd/TrelloClone/internal/domain"
)

type memoryJournal struct {
	events []domain.ChangeEvent
}

func (j *memoryJournal) RecordChangeEvent(_ context.Context, ev domain.ChangeEvent) (domain.ChangeEvent, error) {
	ev.ID = int64(len(j.events) + 1)
	j.events = append(j.events, ev)
	return ev, nil
}

func (j *memoryJournal) ListChangeEvents(_ context.Context, limit int) ([]domain.ChangeEvent, error) {
	out := make([]domain.ChangeEvent, 0, limit)
	for i := len(j.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.events[i])
	}
	return out, nil
}

var testNow = time.Date(2026, 2, 22, 9, 0, 0, 0, time.UTC)

// testBoard builds To Do = [card-1, card-2], Doing = [card-3], Done = [].
func testBoard() domain.Board {
	created := testNow.Add(-24 * time.Hour)
	due := testNow.Add(-time.Hour)
	return domain.Board{
		ID:    "board-1",
		Title: "Test Board",
		Columns: []domain.Column{
			{ID: "todo", Title: "To Do", Cards: []domain.Card{
				{ID: "card-1", Title: "Learn Go", CreatedAt: created, Labels: []domain.Label{{Name: "Learning", Color: "#3b82f6", TextColor: "white"}}},
				{ID: "card-2", Title: "Build board", Description: "kanban in the **terminal**", CreatedAt: created, DueAt: &due},
			}},
			{ID: "doing", Title: "Doing", Cards: []domain.Card{{ID: "card-3", Title: "Design", CreatedAt: created}}},
			{ID: "done", Title: "Done", Cards: []domain.Card{}},
		},
	}
}

func newTestService(t *testing.T, journal app.Journal) *app.Service {
	t.Helper()
	return app.NewService(app.NewStore(testBoard()), journal, app.SequenceIDGenerator(), func() time.Time { return testNow }, app.ServiceConfig{})
}

func newTestModel(t *testing.T, svc Service, opts ...Option) Model {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return loadReadyModel(t, NewModel(svc, opts...))
}

func columnCardIDs(b domain.Board, columnID string) []string {
	idx := b.ColumnIndex(columnID)
	if idx < 0 {
		return nil
	}
	out := make([]string, 0, len(b.Columns[idx].Cards))
	for _, card := range b.Columns[idx].Cards {
		out = append(out, card.ID)
	}
	return out
}

func assertIDs(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func boardText(m Model) string {
	accent, muted := lipgloss.Color("62"), lipgloss.Color("241")
	return m.renderColumns(accent, muted, lipgloss.Color("239")) + "\n" + m.renderModeOverlay(accent, muted, 100)
}

// TestModelLoadAndNavigation verifies initial load and cursor movement.
func TestModelLoadAndNavigation(t *testing.T) {
	m := newTestModel(t, newTestService(t, nil))
	if !m.ready || len(m.board.Columns) != 3 {
		t.Fatalf("expected loaded board, got ready=%v columns=%d", m.ready, len(m.board.Columns))
	}
	m = applyMsg(t, m, keyRune('j'))
	if m.selectedCard != 1 {
		t.Fatalf("expected second card selected, got %d", m.selectedCard)
	}
	m = applyMsg(t, m, keyRune('j'))
	if m.selectedCard != 1 {
		t.Fatalf("expected cursor to stop at last card, got %d", m.selectedCard)
	}
	m = applyMsg(t, m, keyRune('l'))
	if m.selectedColumn != 1 || m.selectedCard != 0 {
		t.Fatalf("expected doing column selected, got col=%d card=%d", m.selectedColumn, m.selectedCard)
	}
	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, keyRune('l'))
	if m.selectedColumn != 2 {
		t.Fatalf("expected cursor to stop at last column, got %d", m.selectedColumn)
	}
	m = applyMsg(t, m, keyRune('h'))
	if m.selectedColumn != 1 {
		t.Fatalf("expected column left, got %d", m.selectedColumn)
	}
	text := boardText(m)
	for _, want := range []string{"To Do (2)", "Doing (1)", "Done (0)", "Learn Go", "(empty)", "Learning"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected board to render %q", want)
		}
	}
}

// TestModelViewStates verifies the loading and ready views.
func TestModelViewStates(t *testing.T) {
	m := NewModel(newTestService(t, nil))
	v := m.View()
	if v.Content == nil || !v.AltScreen {
		t.Fatal("expected loading view in alt screen")
	}
	m = loadReadyModel(t, m)
	v = m.View()
	if v.Content == nil {
		t.Fatal("expected board view content")
	}
	if m.modeLabel() != "board" {
		t.Fatalf("unexpected mode label %q", m.modeLabel())
	}
}

// TestModelQuitKey verifies q returns the quit command.
func TestModelQuitKey(t *testing.T) {
	m := newTestModel(t, newTestService(t, nil))
	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit cmd")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit message")
	}
}

// TestModelCardDragAcrossColumns verifies pick up, marker movement and drop into another column.
func TestModelCardDragAcrossColumns(t *testing.T) {
	svc := newTestService(t, nil)
	m := newTestModel(t, svc)

	m = applyMsg(t, m, keyRune(' '))
	if src, ok := m.drag.Active(); !ok || src.ColumnID != "todo" || src.Index != 0 {
		t.Fatalf("expected active card drag from todo[0], got %#v active=%v", src, ok)
	}
	if m.modeLabel() != "moving card" {
		t.Fatalf("unexpected mode label %q", m.modeLabel())
	}
	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, keyRune('j'))
	if m.dropColumn != 1 || m.dropIndex != 1 {
		t.Fatalf("expected marker clamped to doing[1], got col=%d idx=%d", m.dropColumn, m.dropIndex)
	}

	preview, col, idx, ok := m.previewBoard()
	if !ok || col != 1 || idx != 1 {
		t.Fatalf("unexpected preview position col=%d idx=%d ok=%v", col, idx, ok)
	}
	assertIDs(t, columnCardIDs(preview, "doing"), "card-3", "card-1")
	if board, _ := svc.Board(); len(columnCardIDs(board, "doing")) != 1 {
		t.Fatal("expected preview to leave the stored board untouched")
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := m.drag.Active(); ok {
		t.Fatal("expected drag to end on drop")
	}
	board, _ := svc.Board()
	assertIDs(t, columnCardIDs(board, "todo"), "card-2")
	assertIDs(t, columnCardIDs(board, "doing"), "card-3", "card-1")
	if m.status != "card moved" || m.selectedColumn != 1 || m.selectedCard != 1 {
		t.Fatalf("expected focus on moved card, got status=%q col=%d card=%d", m.status, m.selectedColumn, m.selectedCard)
	}
}

// TestModelCardDragWithinColumn verifies same-column reorder bounds.
func TestModelCardDragWithinColumn(t *testing.T) {
	svc := newTestService(t, nil)
	m := newTestModel(t, svc)

	m = applyMsg(t, m, keyRune(' '))
	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, keyRune('j'))
	if m.dropIndex != 1 {
		t.Fatalf("expected same-column marker to stop at len-1, got %d", m.dropIndex)
	}
	m = applyMsg(t, m, keyRune(' '))
	board, _ := svc.Board()
	assertIDs(t, columnCardIDs(board, "todo"), "card-2", "card-1")
}

// TestModelCardDragIntoEmptyColumn verifies the empty-destination boundary.
func TestModelCardDragIntoEmptyColumn(t *testing.T) {
	svc := newTestService(t, nil)
	m := newTestModel(t, svc)

	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, keyRune(' '))
	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, keyRune('j'))
	if m.dropColumn != 2 || m.dropIndex != 0 {
		t.Fatalf("expected marker at done[0], got col=%d idx=%d", m.dropColumn, m.dropIndex)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	board, _ := svc.Board()
	assertIDs(t, columnCardIDs(board, "doing"))
	assertIDs(t, columnCardIDs(board, "done"), "card-3")
}

// TestModelDragCancelAndNoop verifies esc and same-position drops leave the board alone.
func TestModelDragCancelAndNoop(t *testing.T) {
	svc := newTestService(t, nil)
	m := newTestModel(t, svc)
	_, before := svc.Board()

	m = applyMsg(t, m, keyRune(' '))
	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := m.drag.Active(); ok || m.status != "move cancelled" {
		t.Fatalf("expected cancelled drag, got status %q", m.status)
	}

	m = applyMsg(t, m, keyRune(' '))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.status != "nothing moved" {
		t.Fatalf("expected no-op drop status, got %q", m.status)
	}
	if _, after := svc.Board(); after != before {
		t.Fatalf("expected revision %d unchanged, got %d", before, after)
	}
}

// TestModelColumnDrag verifies column reorder through the drag gesture.
func TestModelColumnDrag(t *testing.T) {
	svc := newTestService(t, nil)
	m := newTestModel(t, svc)

	m = applyMsg(t, m, keyRune('m'))
	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, keyRune('l'))
	if m.dropIndex != 2 {
		t.Fatalf("expected column marker clamped to 2, got %d", m.dropIndex)
	}
	preview, col, _, _ := m.previewBoard()
	if col != 2 || preview.Columns[2].ID != "todo" {
		t.Fatalf("unexpected column preview %#v", preview.Columns)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	board, _ := svc.Board()
	got := []string{board.Columns[0].ID, board.Columns[1].ID, board.Columns[2].ID}
	assertIDs(t, got, "doing", "done", "todo")
	if m.status != "column moved" || m.selectedColumn != 2 {
		t.Fatalf("expected focus on moved column, got status=%q col=%d", m.status, m.selectedColumn)
	}
}

// TestModelAddCardForm verifies the new-card form with labels and due date.
func TestModelAddCardForm(t *testing.T) {
	svc := newTestService(t, nil)
	m := newTestModel(t, svc)

	m = updateOnly(t, m, keyRune('n'))
	if m.mode != modeAddCard || len(m.formInputs) != 4 {
		t.Fatalf("expected add card form, got mode=%d inputs=%d", m.mode, len(m.formInputs))
	}
	m = updateOnly(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.formFocus != cardFieldDescription {
		t.Fatalf("expected tab to focus description, got %d", m.formFocus)
	}
	m.formInputs[cardFieldTitle].SetValue("  Write tests  ")
	m.formInputs[cardFieldDescription].SetValue("cover the drag gesture")
	m.formInputs[cardFieldLabels].SetValue("go, urgent:#ef4444")
	m.formInputs[cardFieldDue].SetValue("2026-03-01")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if m.mode != modeNone || m.status != "card added" {
		t.Fatalf("expected card added, got mode=%d status=%q", m.mode, m.status)
	}
	board, _ := svc.Board()
	cards := board.Columns[0].Cards
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards in todo, got %d", len(cards))
	}
	added := cards[2]
	if added.Title != "Write tests" || len(added.Labels) != 2 || added.Labels[1].Color != "#ef4444" {
		t.Fatalf("unexpected added card %#v", added)
	}
	if added.DueAt == nil || added.DueAt.Format("2006-01-02") != "2026-03-01" {
		t.Fatalf("unexpected due date %v", added.DueAt)
	}
	if m.selectedColumn != 0 || m.selectedCard != 2 {
		t.Fatalf("expected focus on new card, got col=%d card=%d", m.selectedColumn, m.selectedCard)
	}
}

// TestModelAddCardRejectsBadInput verifies empty titles are ignored and bad fields keep the form open.
func TestModelAddCardRejectsBadInput(t *testing.T) {
	svc := newTestService(t, nil)
	m := newTestModel(t, svc)
	_, before := svc.Board()

	m = updateOnly(t, m, keyRune('n'))
	m.formInputs[cardFieldTitle].SetValue("card")
	m.formInputs[cardFieldDue].SetValue("next tuesday")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeAddCard || m.formFocus != cardFieldDue || !strings.Contains(m.status, "due date") {
		t.Fatalf("expected due field error, got mode=%d focus=%d status=%q", m.mode, m.formFocus, m.status)
	}

	m.formInputs[cardFieldDue].SetValue("")
	m.formInputs[cardFieldLabels].SetValue(":#fff")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeAddCard || m.formFocus != cardFieldLabels {
		t.Fatalf("expected labels field error, got mode=%d focus=%d status=%q", m.mode, m.formFocus, m.status)
	}

	m.formInputs[cardFieldTitle].SetValue("   ")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeNone || m.status != "empty title ignored" {
		t.Fatalf("expected empty title to be ignored, got mode=%d status=%q", m.mode, m.status)
	}
	if _, after := svc.Board(); after != before {
		t.Fatalf("expected no board change, revision %d -> %d", before, after)
	}

	m = updateOnly(t, m, keyRune('n'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone || m.formInputs != nil {
		t.Fatal("expected esc to close the form")
	}
}

// TestModelEditCard verifies editing replaces fields and clears the due date.
func TestModelEditCard(t *testing.T) {
	svc := newTestService(t, nil)
	m := newTestModel(t, svc)

	m = applyMsg(t, m, keyRune('j'))
	m = updateOnly(t, m, keyRune('e'))
	if m.mode != modeEditCard || m.editingCardID != "card-2" {
		t.Fatalf("expected edit form for card-2, got mode=%d id=%q", m.mode, m.editingCardID)
	}
	if got := m.formInputs[cardFieldDue].Value(); got != "2026-02-22T08:00:00Z" {
		t.Fatalf("unexpected prefilled due %q", got)
	}
	m.formInputs[cardFieldTitle].SetValue("Build the board")
	m.formInputs[cardFieldLabels].SetValue("ui")
	m.formInputs[cardFieldDue].SetValue("")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	card, ok := func() (domain.Card, bool) {
		board, _ := svc.Board()
		return board.Card("card-2")
	}()
	if !ok || card.Title != "Build the board" || card.DueAt != nil {
		t.Fatalf("unexpected edited card %#v", card)
	}
	if len(card.Labels) != 1 || card.Labels[0].Name != "ui" || card.Description != "kanban in the **terminal**" {
		t.Fatalf("unexpected edited card fields %#v", card)
	}
	if m.status != "card updated" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

// TestModelEditCardKeepsLabelTextColor verifies a title-only edit leaves labels untouched.
func TestModelEditCardKeepsLabelTextColor(t *testing.T) {
	svc := newTestService(t, nil)
	labels := []domain.Label{{Name: "Urgent", Color: "#fde047", TextColor: "black"}}
	if _, err := svc.UpdateCard(context.Background(), "card-1", domain.CardPatch{Labels: &labels}); err != nil {
		t.Fatalf("UpdateCard() error = %v", err)
	}
	m := newTestModel(t, svc)

	m = updateOnly(t, m, keyRune('e'))
	if m.mode != modeEditCard || m.editingCardID != "card-1" {
		t.Fatalf("expected edit form for card-1, got mode=%d id=%q", m.mode, m.editingCardID)
	}
	if got := m.formInputs[cardFieldLabels].Value(); got != "Urgent:#fde047:black" {
		t.Fatalf("unexpected prefilled labels %q", got)
	}
	m.formInputs[cardFieldTitle].SetValue("Learn more Go")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	board, _ := svc.Board()
	card, ok := board.Card("card-1")
	if !ok || card.Title != "Learn more Go" {
		t.Fatalf("unexpected edited card %#v", card)
	}
	if len(card.Labels) != 1 || card.Labels[0] != labels[0] {
		t.Fatalf("expected labels unchanged, got %#v", card.Labels)
	}
}

// TestModelColumnCommands verifies add and rename column inputs.
func TestModelColumnCommands(t *testing.T) {
	svc := newTestService(t, nil)
	m := newTestModel(t, svc)

	m = updateOnly(t, m, keyRune('N'))
	if m.mode != modeAddColumn {
		t.Fatalf("expected add column mode, got %d", m.mode)
	}
	m.input.SetValue("Review")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	board, _ := svc.Board()
	if len(board.Columns) != 4 || board.Columns[3].Title != "Review" {
		t.Fatalf("expected Review column appended, got %#v", board.Columns)
	}
	if m.selectedColumn != 3 {
		t.Fatalf("expected focus on new column, got %d", m.selectedColumn)
	}

	m = updateOnly(t, m, keyRune('r'))
	if m.mode != modeRenameColumn || m.input.Value() != "Review" {
		t.Fatalf("expected rename prefilled with title, got mode=%d value=%q", m.mode, m.input.Value())
	}
	m.input.SetValue("QA")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	board, _ = svc.Board()
	if board.Columns[3].Title != "QA" || m.status != "column renamed" {
		t.Fatalf("expected rename, got title=%q status=%q", board.Columns[3].Title, m.status)
	}

	_, before := svc.Board()
	m = updateOnly(t, m, keyRune('N'))
	m.input.SetValue("   ")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.status != "empty title ignored" {
		t.Fatalf("expected empty column title to be ignored, got %q", m.status)
	}
	if _, after := svc.Board(); after != before {
		t.Fatal("expected no board change for empty column title")
	}
}

// TestModelDeleteConfirmations verifies card and column deletes require confirmation.
func TestModelDeleteConfirmations(t *testing.T) {
	svc := newTestService(t, nil)
	m := newTestModel(t, svc)

	m = applyMsg(t, m, keyRune('d'))
	if m.mode != modeConfirmDelete || m.pendingConfirm.ID != "card-1" {
		t.Fatalf("expected confirm for card-1, got mode=%d %#v", m.mode, m.pendingConfirm)
	}
	m = applyMsg(t, m, keyRune('n'))
	board, _ := svc.Board()
	if board.CardCount() != 3 || m.status != "delete cancelled" {
		t.Fatalf("expected cancelled delete, got cards=%d status=%q", board.CardCount(), m.status)
	}

	m = applyMsg(t, m, keyRune('d'))
	m = applyMsg(t, m, keyRune('y'))
	board, _ = svc.Board()
	assertIDs(t, columnCardIDs(board, "todo"), "card-2")
	if m.status != "card deleted" {
		t.Fatalf("unexpected status %q", m.status)
	}

	m = applyMsg(t, m, keyRune('D'))
	if !strings.Contains(boardText(m), "also deletes 1 cards") {
		t.Fatal("expected cascade hint in confirm overlay")
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	board, _ = svc.Board()
	if len(board.Columns) != 2 || board.CardCount() != 1 {
		t.Fatalf("expected todo column and its cards removed, got columns=%d cards=%d", len(board.Columns), board.CardCount())
	}
	if m.selectedColumn != 0 {
		t.Fatalf("expected selection clamped, got %d", m.selectedColumn)
	}
}

// TestModelSearch verifies search input, results and jump.
func TestModelSearch(t *testing.T) {
	svc := newTestService(t, nil)
	m := newTestModel(t, svc)

	m = updateOnly(t, m, keyRune('/'))
	if m.mode != modeSearch {
		t.Fatalf("expected search mode, got %d", m.mode)
	}
	m.input.SetValue("desgn")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeSearchResults || len(m.searchMatches) != 1 {
		t.Fatalf("expected one fuzzy match, got mode=%d matches=%d", m.mode, len(m.searchMatches))
	}
	if !strings.Contains(boardText(m), "Design") {
		t.Fatal("expected results overlay to list the match")
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeNone || m.selectedColumn != 1 || m.selectedCard != 0 {
		t.Fatalf("expected jump to card-3, got mode=%d col=%d card=%d", m.mode, m.selectedColumn, m.selectedCard)
	}

	m = updateOnly(t, m, keyRune('/'))
	if m.input.Value() != "desgn" {
		t.Fatalf("expected previous query prefilled, got %q", m.input.Value())
	}
	m.input.SetValue("zzzzzz")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeNone || m.status != "no matches" {
		t.Fatalf("expected no matches, got mode=%d status=%q", m.mode, m.status)
	}
}

// TestModelActivityLog verifies journal entries show in the activity modal.
func TestModelActivityLog(t *testing.T) {
	journal := &memoryJournal{}
	svc := newTestService(t, journal)
	m := newTestModel(t, svc)

	m = applyMsg(t, m, keyRune(' '))
	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = applyMsg(t, m, keyRune('g'))
	if m.mode != modeActivityLog || len(m.activity) != 1 {
		t.Fatalf("expected one activity entry, got mode=%d entries=%d", m.mode, len(m.activity))
	}
	if m.activity[0].Operation != domain.ChangeOperationMove {
		t.Fatalf("unexpected activity entry %#v", m.activity[0])
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone {
		t.Fatal("expected esc to close the activity log")
	}

	noJournal := newTestModel(t, newTestService(t, nil))
	noJournal = applyMsg(t, noJournal, keyRune('g'))
	if noJournal.mode != modeNone || !strings.Contains(noJournal.status, "activity log unavailable") {
		t.Fatalf("expected unavailable activity log, got mode=%d status=%q", noJournal.mode, noJournal.status)
	}
}

// TestModelCardInfoAndCopy verifies the info modal and clipboard copy.
func TestModelCardInfoAndCopy(t *testing.T) {
	var copied []string
	m := newTestModel(t, newTestService(t, nil), WithClipboard(func(s string) error {
		copied = append(copied, s)
		return nil
	}))

	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeCardInfo || m.infoCardID != "card-2" {
		t.Fatalf("expected info for card-2, got mode=%d id=%q", m.mode, m.infoCardID)
	}
	text := boardText(m)
	for _, want := range []string{"Build board", "kanban", "overdue"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected info overlay to contain %q", want)
		}
	}
	m = applyMsg(t, m, keyRune('y'))
	if len(copied) != 1 || copied[0] != "Build board" {
		t.Fatalf("unexpected clipboard writes %#v", copied)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone {
		t.Fatal("expected esc to close card info")
	}

	failing := newTestModel(t, newTestService(t, nil), WithClipboard(func(string) error {
		return errors.New("no clipboard")
	}))
	failing = applyMsg(t, failing, keyRune('y'))
	if !strings.Contains(failing.status, "copy failed") {
		t.Fatalf("expected copy failure status, got %q", failing.status)
	}
}

// TestModelBoardChangedMsg verifies remote board replacement handling.
func TestModelBoardChangedMsg(t *testing.T) {
	svc := newTestService(t, nil)
	m := newTestModel(t, svc)
	m = applyMsg(t, m, keyRune(' '))

	stale := testBoard()
	stale.Title = "stale"
	m = applyMsg(t, m, BoardChangedMsg{Board: stale, Revision: m.revision})
	if m.board.Title == "stale" {
		t.Fatal("expected stale revision to be ignored")
	}
	if _, ok := m.drag.Active(); !ok {
		t.Fatal("expected drag to survive a stale notification")
	}

	if err := svc.DeleteCard(context.Background(), "card-1"); err != nil {
		t.Fatal(err)
	}
	board, revision := svc.Board()
	m = applyMsg(t, m, BoardChangedMsg{Board: board, Revision: revision})
	if m.revision != revision || m.board.CardCount() != 2 {
		t.Fatalf("expected remote board applied, got revision=%d cards=%d", m.revision, m.board.CardCount())
	}
	if _, ok := m.drag.Active(); ok || !strings.Contains(m.status, "move cancelled") {
		t.Fatalf("expected remote change to cancel the drag, status %q", m.status)
	}
}

// TestModelActionErrors verifies service errors surface as status hints.
func TestModelActionErrors(t *testing.T) {
	m := newTestModel(t, newTestService(t, nil))
	before := m.revision
	m = applyMsg(t, m, actionMsg{err: domain.ErrInvalidIndex})
	if m.status != "can't move there" || m.revision != before {
		t.Fatalf("unexpected error handling status=%q revision=%d", m.status, m.revision)
	}
	cases := map[error]string{
		domain.ErrInvalidTitle:     "title required",
		domain.ErrCardNotFound:     "item no longer exists",
		app.ErrJournalUnavailable:  "activity log unavailable",
		errors.New("disk on fire"): "error: disk on fire",
	}
	for err, want := range cases {
		if got := errorStatus(err); got != want {
			t.Fatalf("errorStatus(%v) = %q, want %q", err, got, want)
		}
	}
}

// TestCardFieldConfigAffectsRendering verifies optional card fields follow configuration.
func TestCardFieldConfigAffectsRendering(t *testing.T) {
	svc := newTestService(t, nil)
	hidden := newTestModel(t, svc, WithCardFieldConfig(CardFieldConfig{}))
	text := boardText(hidden)
	if strings.Contains(text, "Learning") || strings.Contains(text, "overdue") {
		t.Fatal("expected labels and due dates hidden")
	}

	shown := newTestModel(t, svc, WithCardFieldConfig(CardFieldConfig{ShowLabels: true, ShowDueDate: true, ShowDescription: true}), WithColumnWidth(40))
	text = boardText(shown)
	for _, want := range []string{"Learning", "overdue 2026-02-22T08:00:00Z", "kanban in the"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q rendered", want)
		}
	}
	if shown.columnWidth != 40 {
		t.Fatalf("expected column width option applied, got %d", shown.columnWidth)
	}
}

// TestModelKeyConfigOption verifies key overrides reach the model.
func TestModelKeyConfigOption(t *testing.T) {
	svc := newTestService(t, nil)
	m := newTestModel(t, svc, WithKeyConfig(KeyConfig{PickCard: "x"}))
	m = applyMsg(t, m, keyRune('x'))
	if _, ok := m.drag.Active(); !ok {
		t.Fatal("expected configured pick key to start a drag")
	}
	m = applyMsg(t, m, keyRune('x'))
	if _, ok := m.drag.Active(); ok {
		t.Fatal("expected configured pick key to drop")
	}
}

// TestParseDueInput verifies due-date field parsing.
func TestParseDueInput(t *testing.T) {
	due, err := parseDueInput("2026-03-01")
	if err != nil || due == nil || !due.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date parse %v %v", due, err)
	}
	due, err = parseDueInput("2026-03-01T10:30:00+02:00")
	if err != nil || due == nil || due.Hour() != 8 {
		t.Fatalf("unexpected rfc3339 parse %v %v", due, err)
	}
	for _, raw := range []string{"", " - "} {
		if due, err := parseDueInput(raw); err != nil || due != nil {
			t.Fatalf("expected %q to clear, got %v %v", raw, due, err)
		}
	}
	if _, err := parseDueInput("tomorrow"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if formatDueValue(nil) != "" {
		t.Fatal("expected empty format for nil due")
	}
}

// TestHelpers verifies small layout helpers.
func TestHelpers(t *testing.T) {
	if clamp(5, 0, 3) != 3 || clamp(-1, 0, 3) != 0 || clamp(2, 0, -1) != 0 {
		t.Fatal("unexpected clamp results")
	}
	if truncate("abcdef", 4) != "abc…" || truncate("abc", 4) != "abc" || truncate("abc", 0) != "" {
		t.Fatal("unexpected truncate results")
	}
	if got := fitLines("a\nb\nc", 2); got != "a\n…" {
		t.Fatalf("unexpected fitLines %q", got)
	}
	if got := fitLines("a", 3); got != "a\n\n" {
		t.Fatalf("unexpected fitLines padding %q", got)
	}
	if start, end := windowBounds(30, 29, 10); start != 20 || end != 30 {
		t.Fatalf("unexpected window %d..%d", start, end)
	}
	m := NewModel(nil)
	if got := m.columnWidthFor(60, 3); got != minColumnWidth+1 {
		t.Fatalf("unexpected narrow column width %d", got)
	}
	if got := m.columnWidthFor(0, 3); got != defaultColumnWidth {
		t.Fatalf("unexpected default column width %d", got)
	}
}

func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 120, Height: 40})
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

// updateOnly applies one message and drops the returned command, which for
// modal openers is only the cursor blink.
func updateOnly(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return out
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}
