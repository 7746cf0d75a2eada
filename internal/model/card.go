// Package model holds the card and column types shared by the server,
// the persistence gateway and the terminal board.
package model

import (
	"errors"
	"sort"
	"strings"
)

// Card statuses. Each status maps 1:1 to a board column.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// Card priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Card is the sole persisted entity.
type Card struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
	DueDate     string   `json:"due_date"`
	OrderIdx    int      `json:"order_idx"`
}

// Column is a fixed board bucket keyed by a card status.
type Column struct {
	Key   string
	Title string
}

// Columns is the board layout, in display order.
var Columns = []Column{
	{Key: StatusTodo, Title: "To Do"},
	{Key: StatusInProgress, Title: "In Progress"},
	{Key: StatusDone, Title: "Done"},
}

// KnownStatus reports whether s maps to a column.
func KnownStatus(s string) bool {
	for _, c := range Columns {
		if c.Key == s {
			return true
		}
	}
	return false
}

// NormalizePriority maps any value that is not exactly "high" or "low"
// (case-insensitive) to "medium".
func NormalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// PriorityBadge returns the short badge label for a priority value.
func PriorityBadge(p string) string {
	switch NormalizePriority(p) {
	case PriorityHigh:
		return "HIGH"
	case PriorityLow:
		return "LOW"
	default:
		return "MED"
	}
}

// ErrEmptyTitle rejects cards whose title is empty or whitespace-only.
var ErrEmptyTitle = errors.New("title must not be empty")

// ValidateTitle enforces the non-empty title rule before any request is sent.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// SortForDisplay orders cards ascending by order_idx. The sort is stable so
// ties keep their fetch order.
func SortForDisplay(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].OrderIdx < cards[j].OrderIdx
	})
}

// GroupByColumn splits cards into per-column slices sorted for display.
// Cards with a status that maps to no column are dropped.
func GroupByColumn(cards []Card) map[string][]Card {
	grouped := make(map[string][]Card, len(Columns))
	for _, col := range Columns {
		grouped[col.Key] = []Card{}
	}
	for _, c := range cards {
		if _, ok := grouped[c.Status]; ok {
			grouped[c.Status] = append(grouped[c.Status], c)
		}
	}
	for key := range grouped {
		SortForDisplay(grouped[key])
	}
	return grouped
}
