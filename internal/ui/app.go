// Package ui is the interactive terminal board. It follows the usual
// bubbletea split: the App model owns all state, Update reduces messages,
// View renders the whole board from scratch every frame.
//
// The board state lives in per-column card lists. A grab-move-drop gesture
// edits only those lists; on drop the full three-column id ordering is
// submitted in one reorder request and the board is reloaded from the
// server regardless of the outcome, so what is displayed always converges
// to server truth within one round trip.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/gmllt/kanbo/internal/gateway"
	"github.com/gmllt/kanbo/internal/model"
)

// App is the root bubbletea model.
type App struct {
	gw     *gateway.Client
	log    *zap.Logger
	styles Styles
	keys   keyMap
	help   help.Model
	spin   spinner.Model

	// cols holds the working per-column card lists, replaced wholesale by
	// every load. Between a grab and its drop they are the authoritative
	// visual order.
	cols    map[string][]model.Card
	loaded  bool
	loading bool
	loadErr error

	cursorCol int
	cursorRow int

	grabbed bool

	modal   *modalState
	confirm *confirmState
	toast   toastState

	width  int
	height int
}

// NewApp builds the board over the given gateway.
func NewApp(gw *gateway.Client, log *zap.Logger) App {
	if log == nil {
		log = zap.NewNop()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return App{
		gw:     gw,
		log:    log,
		styles: DefaultStyles(),
		keys:   defaultKeyMap(),
		help:   help.New(),
		spin:   sp,
		cols:   emptyColumns(),
	}
}

func emptyColumns() map[string][]model.Card {
	cols := make(map[string][]model.Card, len(model.Columns))
	for _, col := range model.Columns {
		cols[col.Key] = []model.Card{}
	}
	return cols
}

// Init kicks off the first board load.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, a.loadCmd())
}

// Messages produced by gateway commands.
type (
	cardsLoadedMsg struct{ cards []model.Card }
	loadFailedMsg  struct{ err error }

	createDoneMsg  struct{ err error }
	saveDoneMsg    struct{ err error }
	deleteDoneMsg  struct{ err error }
	reorderDoneMsg struct{ err error }
)

func (a App) loadCmd() tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		cards, err := gw.List(context.Background())
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return cardsLoadedMsg{cards: cards}
	}
}

func (a App) createCmd(title, status string) tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		_, err := gw.Create(context.Background(), title, status)
		return createDoneMsg{err: err}
	}
}

func (a App) saveCmd(id string, patch model.CardPatch) tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		return saveDoneMsg{err: gw.Patch(context.Background(), id, patch)}
	}
}

func (a App) deleteCmd(id string) tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		return deleteDoneMsg{err: gw.Remove(context.Background(), id)}
	}
}

func (a App) reorderCmd(orders model.Snapshot) tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		return reorderDoneMsg{err: gw.Reorder(context.Background(), orders)}
	}
}

// currentColumn returns the column key under the cursor.
func (a App) currentColumn() string {
	return model.Columns[a.cursorCol].Key
}

// cardUnderCursor returns the card the cursor points at, if any.
func (a App) cardUnderCursor() (model.Card, bool) {
	list := a.cols[a.currentColumn()]
	if a.cursorRow < 0 || a.cursorRow >= len(list) {
		return model.Card{}, false
	}
	return list[a.cursorRow], true
}

// clampCursor keeps the cursor inside the current column after a reload or
// a move.
func (a *App) clampCursor() {
	if a.cursorCol < 0 {
		a.cursorCol = 0
	}
	if a.cursorCol >= len(model.Columns) {
		a.cursorCol = len(model.Columns) - 1
	}
	list := a.cols[a.currentColumn()]
	if a.cursorRow >= len(list) {
		a.cursorRow = len(list) - 1
	}
	if a.cursorRow < 0 {
		a.cursorRow = 0
	}
}
