package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gmllt/kanbo/internal/model"
)

const minColumnWidth = 24

// View renders the whole board from the current state. Full re-render every
// frame; card counts are small.
func (a App) View() string {
	if a.loadErr != nil {
		return a.renderLoadError()
	}
	if !a.loaded {
		return fmt.Sprintf("\n  %s Loading board...\n", a.spin.View())
	}
	if a.modal != nil {
		return a.renderModal()
	}
	if a.confirm != nil {
		return a.renderConfirm()
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderHeader(),
		a.renderColumns(),
		a.renderFooter(),
	)
}

func (a App) renderHeader() string {
	title := a.styles.Header.Render(" kanbo ")
	status := ""
	if a.loading {
		status = a.spin.View() + a.styles.Muted.Render(" syncing")
	} else if a.grabbed {
		status = a.styles.Muted.Render("moving card, space to drop, esc to cancel")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", status)
}

func (a App) columnWidth() int {
	w := (a.width - 6) / len(model.Columns)
	if w < minColumnWidth {
		w = minColumnWidth
	}
	return w
}

func (a App) renderColumns() string {
	width := a.columnWidth()
	rendered := make([]string, 0, len(model.Columns))
	for i, col := range model.Columns {
		rendered = append(rendered, a.renderColumn(i, col, width))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (a App) renderColumn(idx int, col model.Column, width int) string {
	cards := a.cols[col.Key]
	header := a.styles.ColumnHeader.Render(fmt.Sprintf("%s (%d)", col.Title, len(cards)))

	parts := []string{header}
	for row, card := range cards {
		parts = append(parts, a.renderCard(card, width-4, idx == a.cursorCol && row == a.cursorRow))
	}
	if len(cards) == 0 {
		parts = append(parts, a.styles.Muted.Render("empty"))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, parts...)
	style := a.styles.Column
	// Highlight the column a grabbed card currently hovers over.
	if a.grabbed && idx == a.cursorCol {
		style = a.styles.ColumnTarget
	}
	return style.Width(width).Render(body)
}

func (a App) renderCard(card model.Card, width int, underCursor bool) string {
	priority := model.NormalizePriority(card.Priority)
	badge := a.styles.badgeStyle(priority).Render(model.PriorityBadge(priority))

	lines := []string{badge + " " + truncate(card.Title, width-6)}
	if card.DueDate != "" {
		lines = append(lines, a.styles.Due.Render("due "+card.DueDate))
	}
	if len(card.Tags) > 0 {
		lines = append(lines, a.styles.Muted.Render(truncate(strings.Join(card.Tags, " · "), width)))
	}

	style := a.styles.Card
	if underCursor {
		style = a.styles.CardCursor
		if a.grabbed {
			style = a.styles.CardGrabbed
		}
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func (a App) renderFooter() string {
	toast := a.toast.render(a.styles)
	helpView := a.help.View(a.keys)
	if toast == "" {
		return helpView
	}
	return lipgloss.JoinVertical(lipgloss.Left, toast, helpView)
}

func (a App) renderLoadError() string {
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		a.styles.ErrorTitle.Render("Board unavailable"),
		"",
		a.loadErr.Error(),
		"",
		a.styles.Muted.Render("r retry · q quit"),
	)
	return a.styles.ErrorPanel.Render(body)
}

func (a App) renderModal() string {
	m := a.modal
	title := "Edit card"
	if m.isCreate() {
		title = fmt.Sprintf("New card in %s", columnTitle(m.status))
	}

	parts := []string{a.styles.ModalTitle.Render(title)}
	for i, in := range m.inputs {
		parts = append(parts,
			a.styles.ModalFieldLabel.Render(fieldLabels[i]),
			in.View(),
		)
	}
	if m.errMsg != "" {
		parts = append(parts, "", a.styles.ToastError.Render(m.errMsg))
	}
	parts = append(parts, "", a.styles.Muted.Render("enter save · tab next field · esc cancel"))

	return a.styles.ModalBox.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (a App) renderConfirm() string {
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		a.styles.ModalTitle.Render("Delete card?"),
		truncate(a.confirm.title, 60),
		"",
		a.styles.Muted.Render("y delete · n keep"),
	)
	return a.styles.ModalBox.Render(body)
}

func columnTitle(key string) string {
	for _, col := range model.Columns {
		if col.Key == key {
			return col.Title
		}
	}
	return key
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
