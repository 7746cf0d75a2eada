package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastDuration is how long a transient notification stays on screen.
// Variable so tests can shorten the expiry tick.
var toastDuration = 3 * time.Second

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

// toastState is the single transient notification slot. A newer toast
// replaces the current one; the stale expiry tick is ignored by sequence
// number.
type toastState struct {
	text    string
	kind    toastKind
	seq     int
	visible bool
}

type toastClearMsg struct{ seq int }

func (t *toastState) show(text string, kind toastKind) tea.Cmd {
	t.seq++
	t.text = text
	t.kind = kind
	t.visible = true
	seq := t.seq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastClearMsg{seq: seq}
	})
}

func (t *toastState) clear(msg toastClearMsg) {
	if msg.seq == t.seq {
		t.visible = false
	}
}

func (t toastState) render(s Styles) string {
	if !t.visible {
		return ""
	}
	switch t.kind {
	case toastSuccess:
		return s.ToastSuccess.Render(t.text)
	case toastError:
		return s.ToastError.Render(t.text)
	default:
		return s.ToastInfo.Render(t.text)
	}
}
