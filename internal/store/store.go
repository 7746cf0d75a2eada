// Package store provides board persistence for the server. Every backend
// implements the same Store contract: whole cards in, whole cards out, with
// the server owning id assignment and intra-column positioning.
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gmllt/kanbo/internal/model"
)

var (
	// ErrNotFound is returned when a card id does not exist.
	ErrNotFound = errors.New("card not found")
	// ErrEmptyPatch is returned when a patch changes nothing.
	ErrEmptyPatch = errors.New("nothing to update")
)

// Store is the board persistence contract.
type Store interface {
	// List returns all cards sorted by (status, order_idx).
	List(ctx context.Context) ([]model.Card, error)
	// Get returns one card by id.
	Get(ctx context.Context, id string) (model.Card, error)
	// Create inserts a card, assigning id, created_at and the next
	// order_idx in its column. The stored card is returned.
	Create(ctx context.Context, c model.Card) (model.Card, error)
	// Patch applies a partial update and returns the updated card.
	Patch(ctx context.Context, id string, p model.CardPatch) (model.Card, error)
	// Delete removes one card.
	Delete(ctx context.Context, id string) error
	// Reorder applies a full per-column id ordering. Per column, ids
	// already in that column keep the submitted relative order and are
	// reindexed from 1; ids moved in from elsewhere are appended after
	// them. Cards not mentioned anywhere are left untouched.
	Reorder(ctx context.Context, orders model.Snapshot) error
	// Close releases backend resources.
	Close() error
}

func newCardID() string {
	return uuid.NewString()
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// sortCards orders cards by (status, order_idx), the listing order.
func sortCards(cards []model.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Status != cards[j].Status {
			return cards[i].Status < cards[j].Status
		}
		return cards[i].OrderIdx < cards[j].OrderIdx
	})
}

// maxOrderIdx returns the highest order_idx among cards with the given status.
func maxOrderIdx(cards []model.Card, status string) int {
	max := 0
	for _, c := range cards {
		if c.Status == status && c.OrderIdx > max {
			max = c.OrderIdx
		}
	}
	return max
}

// prepareCreate fills server-assigned fields on a new card.
func prepareCreate(cards []model.Card, c model.Card) model.Card {
	if c.ID == "" {
		c.ID = newCardID()
	}
	if c.Status == "" {
		c.Status = model.StatusTodo
	}
	if c.Priority == "" {
		c.Priority = model.PriorityMedium
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	c.CreatedAt = nowUTC()
	c.OrderIdx = maxOrderIdx(cards, c.Status) + 1
	return c
}

// applyReorder rewrites status and order_idx in place according to the
// submitted snapshot. Membership is classified against the statuses cards
// had before any column is processed, so a card moved between columns in
// one snapshot counts as moved-in exactly once.
func applyReorder(cards []model.Card, orders model.Snapshot) {
	index := make(map[string]int, len(cards))
	before := make(map[string]string, len(cards))
	for i, c := range cards {
		index[c.ID] = i
		before[c.ID] = c.Status
	}

	for _, col := range model.Columns {
		ids, ok := orders[col.Key]
		if !ok {
			continue
		}
		var existing, moved []string
		for _, id := range ids {
			if _, known := index[id]; !known {
				continue
			}
			if before[id] == col.Key {
				existing = append(existing, id)
			} else {
				moved = append(moved, id)
			}
		}

		idx := 1
		for _, id := range existing {
			cards[index[id]].Status = col.Key
			cards[index[id]].OrderIdx = idx
			idx++
		}

		// Moved-in cards go to the end of the column, after both the
		// freshly reindexed cards and anything already sitting there
		// that the snapshot did not mention.
		appendIdx := maxOrderIdx(cards, col.Key) + 1
		if idx > appendIdx {
			appendIdx = idx
		}
		for _, id := range moved {
			cards[index[id]].Status = col.Key
			cards[index[id]].OrderIdx = appendIdx
			appendIdx++
		}
	}
}

// seedCards are inserted into an empty board on first start.
var seedCards = []model.Card{
	{Title: "Finish lab report", Description: "Add graphs and references", Status: model.StatusTodo, Priority: model.PriorityHigh, Tags: []string{"study", "lab"}},
	{Title: "Prepare slides", Description: "Slides for presentation", Status: model.StatusInProgress, Priority: model.PriorityMedium, Tags: []string{"presentation"}},
	{Title: "Submit assignment", Description: "Upload to portal", Status: model.StatusDone, Priority: model.PriorityLow, Tags: []string{"submission"}},
}

// Seed inserts sample cards when the store is empty. It is a no-op on a
// board that already has cards.
func Seed(ctx context.Context, s Store) error {
	cards, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(cards) > 0 {
		return nil
	}
	for _, c := range seedCards {
		if _, err := s.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
