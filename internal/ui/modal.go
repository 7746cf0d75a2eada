package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gmllt/kanbo/internal/model"
)

// Field order in the edit form.
const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	fieldTags
	fieldDueDate
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Priority", "Tags", "Due date"}

// modalState is the single "currently edited card" reference. cardID is
// empty in create mode, where only the title is asked and the card lands
// in the column the cursor was on.
type modalState struct {
	cardID string
	status string
	inputs []textinput.Model
	focus  int
	errMsg string
}

func newInput(placeholder, value string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.SetValue(value)
	in.CharLimit = 256
	return in
}

// newEditModal binds the form to the card's current values.
func newEditModal(card model.Card) *modalState {
	m := &modalState{
		cardID: card.ID,
		status: card.Status,
		inputs: []textinput.Model{
			newInput("card title", card.Title),
			newInput("details", card.Description),
			newInput("high / medium / low", model.NormalizePriority(card.Priority)),
			newInput("comma,separated", strings.Join(card.Tags, ",")),
			newInput("2026-12-31", card.DueDate),
		},
	}
	m.inputs[fieldTitle].Focus()
	return m
}

// newCreateModal opens an empty title-only form targeting the given column.
func newCreateModal(status string) *modalState {
	m := &modalState{
		status: status,
		inputs: []textinput.Model{newInput("card title", "")},
	}
	m.inputs[fieldTitle].Focus()
	return m
}

func (m *modalState) isCreate() bool { return m.cardID == "" }

func (m *modalState) cycleFocus(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

// patch builds the full-field patch the save submits. Every form field is
// sent, matching what the form currently shows.
func (m *modalState) patch() model.CardPatch {
	title := strings.TrimSpace(m.inputs[fieldTitle].Value())
	description := m.inputs[fieldDescription].Value()
	priority := model.NormalizePriority(m.inputs[fieldPriority].Value())
	tags := parseTags(m.inputs[fieldTags].Value())
	due := strings.TrimSpace(m.inputs[fieldDueDate].Value())
	return model.CardPatch{
		Title:       &title,
		Description: &description,
		Priority:    &priority,
		Tags:        &tags,
		DueDate:     &due,
	}
}

func parseTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// updateModal routes keys to the open modal.
func (a App) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m := a.modal
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.modal = nil
		return a, nil

	case msg.Type == tea.KeyTab, msg.Type == tea.KeyDown:
		m.cycleFocus(1)
		return a, nil

	case msg.Type == tea.KeyShiftTab, msg.Type == tea.KeyUp:
		m.cycleFocus(-1)
		return a, nil

	case msg.Type == tea.KeyEnter:
		title := strings.TrimSpace(m.inputs[fieldTitle].Value())
		if err := model.ValidateTitle(title); err != nil {
			// Caught client-side: nothing is sent.
			m.errMsg = "Title must not be empty"
			return a, nil
		}
		if m.isCreate() {
			return a, a.createCmd(title, m.status)
		}
		return a, a.saveCmd(m.cardID, m.patch())
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.errMsg = ""
	return a, cmd
}
