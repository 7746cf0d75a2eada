package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/gmllt/kanbo/internal/model"
)

// confirmState is the pending delete confirmation. No request is issued
// until the user answers yes.
type confirmState struct {
	cardID string
	title  string
}

// Update reduces one message into the next app state.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case toastClearMsg:
		a.toast.clear(msg)
		return a, nil

	case cardsLoadedMsg:
		// Wholesale replacement: the server response is the only source
		// of truth, whatever the lists looked like before.
		a.cols = model.GroupByColumn(msg.cards)
		a.loaded = true
		a.loading = false
		a.loadErr = nil
		a.grabbed = false
		a.clampCursor()
		return a, nil

	case loadFailedMsg:
		a.loading = false
		a.loadErr = msg.err
		a.log.Error("board load failed", zap.Error(msg.err))
		return a, nil

	case reorderDoneMsg:
		// Reload no matter what: a rejected reorder must never stay on
		// screen.
		a.loading = true
		if msg.err != nil {
			a.log.Error("reorder failed", zap.Error(msg.err))
			return a, tea.Batch(a.toast.show("Reorder failed", toastError), a.loadCmd())
		}
		return a, tea.Batch(a.toast.show("Order saved", toastSuccess), a.loadCmd())

	case createDoneMsg:
		if msg.err != nil {
			a.log.Error("create failed", zap.Error(msg.err))
			if a.modal != nil {
				a.modal.errMsg = "Create failed, check the server"
			}
			return a, a.toast.show("Create failed", toastError)
		}
		a.modal = nil
		a.loading = true
		return a, tea.Batch(a.toast.show("Card created", toastSuccess), a.loadCmd())

	case saveDoneMsg:
		if msg.err != nil {
			a.log.Error("save failed", zap.Error(msg.err))
			if a.modal != nil {
				a.modal.errMsg = "Save failed, check the server"
			}
			return a, a.toast.show("Save failed", toastError)
		}
		a.modal = nil
		a.loading = true
		return a, tea.Batch(a.toast.show("Card saved", toastSuccess), a.loadCmd())

	case deleteDoneMsg:
		if msg.err != nil {
			a.log.Error("delete failed", zap.Error(msg.err))
			return a, a.toast.show("Delete failed", toastError)
		}
		a.loading = true
		return a, tea.Batch(a.toast.show("Card deleted", toastSuccess), a.loadCmd())

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The inline error state replaces the whole board; only retry and
	// quit make sense there.
	if a.loadErr != nil {
		switch {
		case key.Matches(msg, a.keys.Refresh):
			a.loading = true
			a.loadErr = nil
			return a, a.loadCmd()
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		}
		return a, nil
	}

	if a.modal != nil {
		return a.updateModal(msg)
	}
	if a.confirm != nil {
		return a.updateConfirm(msg)
	}
	if a.grabbed {
		return a.updateGrabbed(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil

	case key.Matches(msg, a.keys.Refresh):
		a.loading = true
		return a, a.loadCmd()

	case key.Matches(msg, a.keys.Up):
		if a.cursorRow > 0 {
			a.cursorRow--
		}
		return a, nil

	case key.Matches(msg, a.keys.Down):
		if a.cursorRow < len(a.cols[a.currentColumn()])-1 {
			a.cursorRow++
		}
		return a, nil

	case key.Matches(msg, a.keys.Left):
		if a.cursorCol > 0 {
			a.cursorCol--
			a.clampCursor()
		}
		return a, nil

	case key.Matches(msg, a.keys.Right):
		if a.cursorCol < len(model.Columns)-1 {
			a.cursorCol++
			a.clampCursor()
		}
		return a, nil

	case key.Matches(msg, a.keys.Grab):
		if _, ok := a.cardUnderCursor(); ok {
			a.grabbed = true
		}
		return a, nil

	case key.Matches(msg, a.keys.Edit):
		if card, ok := a.cardUnderCursor(); ok {
			// Opening over an already edited card simply replaces the
			// reference.
			a.modal = newEditModal(card)
		}
		return a, nil

	case key.Matches(msg, a.keys.New):
		a.modal = newCreateModal(a.currentColumn())
		return a, nil

	case key.Matches(msg, a.keys.Delete):
		if card, ok := a.cardUnderCursor(); ok {
			a.confirm = &confirmState{cardID: card.ID, title: card.Title}
		}
		return a, nil
	}

	return a, nil
}

// updateGrabbed handles keys while a card is held: movement edits only the
// in-memory lists, dropping persists them.
func (a App) updateGrabbed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.swapWithinColumn(-1)
		return a, nil

	case key.Matches(msg, a.keys.Down):
		a.swapWithinColumn(1)
		return a, nil

	case key.Matches(msg, a.keys.Left):
		a.moveAcrossColumns(-1)
		return a, nil

	case key.Matches(msg, a.keys.Right):
		a.moveAcrossColumns(1)
		return a, nil

	case key.Matches(msg, a.keys.Grab), key.Matches(msg, a.keys.Edit):
		// Drop. Even a no-op drop submits the full snapshot and reloads;
		// the server answer is the truth, not the local lists.
		a.grabbed = false
		a.loading = true
		snapshot := model.SnapshotOf(a.cols)
		a.log.Info("submitting reorder", zap.Any("orders", snapshot))
		return a, a.reorderCmd(snapshot)

	case key.Matches(msg, a.keys.Cancel):
		// Cancel the gesture; reloading is the cheapest way to restore
		// the server-side order.
		a.grabbed = false
		a.loading = true
		return a, a.loadCmd()

	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	}

	return a, nil
}

// swapWithinColumn moves the grabbed card one slot up or down in its list.
func (a *App) swapWithinColumn(delta int) {
	col := a.currentColumn()
	list := a.cols[col]
	target := a.cursorRow + delta
	if target < 0 || target >= len(list) {
		return
	}
	list[a.cursorRow], list[target] = list[target], list[a.cursorRow]
	a.cursorRow = target
}

// moveAcrossColumns lifts the grabbed card out of its list and inserts it
// into the neighbouring column, keeping the row position when possible.
func (a *App) moveAcrossColumns(delta int) {
	targetCol := a.cursorCol + delta
	if targetCol < 0 || targetCol >= len(model.Columns) {
		return
	}
	fromKey := a.currentColumn()
	toKey := model.Columns[targetCol].Key

	from := a.cols[fromKey]
	card := from[a.cursorRow]
	a.cols[fromKey] = append(from[:a.cursorRow], from[a.cursorRow+1:]...)

	to := a.cols[toKey]
	row := a.cursorRow
	if row > len(to) {
		row = len(to)
	}
	inserted := make([]model.Card, 0, len(to)+1)
	inserted = append(inserted, to[:row]...)
	inserted = append(inserted, card)
	inserted = append(inserted, to[row:]...)
	a.cols[toKey] = inserted

	a.cursorCol = targetCol
	a.cursorRow = row
}

func (a App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := a.confirm.cardID
		a.confirm = nil
		a.loading = true
		return a, a.deleteCmd(id)
	case "n", "N", "esc":
		// Declined: no request, board untouched.
		a.confirm = nil
		return a, nil
	}
	return a, nil
}
