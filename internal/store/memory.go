package store

import (
	"context"
	"sync"

	"github.com/gmllt/kanbo/internal/model"
)

// Memory is an in-process Store. It is the default backend and doubles as
// the test double for the HTTP layer.
type Memory struct {
	mu    sync.Mutex
	cards []model.Card
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{cards: []model.Card{}}
}

func (m *Memory) List(ctx context.Context) ([]model.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Card, len(m.cards))
	copy(out, m.cards)
	sortCards(out)
	return out, nil
}

func (m *Memory) Get(ctx context.Context, id string) (model.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cards {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Card{}, ErrNotFound
}

func (m *Memory) Create(ctx context.Context, c model.Card) (model.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c = prepareCreate(m.cards, c)
	m.cards = append(m.cards, c)
	return c, nil
}

func (m *Memory) Patch(ctx context.Context, id string, p model.CardPatch) (model.Card, error) {
	if p.IsEmpty() {
		return model.Card{}, ErrEmptyPatch
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.cards {
		if m.cards[i].ID == id {
			p.Apply(&m.cards[i])
			return m.cards[i], nil
		}
	}
	return model.Card{}, ErrNotFound
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.cards {
		if m.cards[i].ID == id {
			m.cards = append(m.cards[:i], m.cards[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) Reorder(ctx context.Context, orders model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	applyReorder(m.cards, orders)
	return nil
}

func (m *Memory) Close() error { return nil }
