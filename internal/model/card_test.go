package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePriority(t *testing.T) {
	cases := map[string]string{
		"high":    PriorityHigh,
		"HIGH":    PriorityHigh,
		" High ":  PriorityHigh,
		"low":     PriorityLow,
		"LoW":     PriorityLow,
		"medium":  PriorityMedium,
		"urgent":  PriorityMedium,
		"highest": PriorityMedium,
		"":        PriorityMedium,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePriority(in), "input %q", in)
	}
}

func TestPriorityBadge(t *testing.T) {
	assert.Equal(t, "HIGH", PriorityBadge("high"))
	assert.Equal(t, "LOW", PriorityBadge("low"))
	assert.Equal(t, "MED", PriorityBadge("medium"))
	assert.Equal(t, "MED", PriorityBadge("whatever"))
	assert.Equal(t, "MED", PriorityBadge(""))
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle("fix the build"))
	assert.ErrorIs(t, ValidateTitle(""), ErrEmptyTitle)
	assert.ErrorIs(t, ValidateTitle("   \t "), ErrEmptyTitle)
}

func TestSortForDisplayStable(t *testing.T) {
	cards := []Card{
		{ID: "a", OrderIdx: 2},
		{ID: "b"}, // missing order_idx sorts as 0
		{ID: "c", OrderIdx: 1},
		{ID: "d", OrderIdx: 1}, // tie with c, must keep fetch order
	}
	SortForDisplay(cards)

	got := make([]string, 0, len(cards))
	for _, c := range cards {
		got = append(got, c.ID)
	}
	assert.Equal(t, []string{"b", "c", "d", "a"}, got)
}

func TestGroupByColumn(t *testing.T) {
	cards := []Card{
		{ID: "1", Status: StatusTodo, OrderIdx: 2},
		{ID: "2", Status: StatusDone, OrderIdx: 1},
		{ID: "3", Status: StatusTodo, OrderIdx: 1},
		{ID: "4", Status: "archived"}, // no column for this status
	}
	grouped := GroupByColumn(cards)

	require.Len(t, grouped, 3)
	require.Len(t, grouped[StatusTodo], 2)
	assert.Equal(t, "3", grouped[StatusTodo][0].ID)
	assert.Equal(t, "1", grouped[StatusTodo][1].ID)
	assert.Len(t, grouped[StatusDone], 1)
	assert.Empty(t, grouped[StatusInProgress])
}

func TestSnapshotOfCoversEveryColumn(t *testing.T) {
	grouped := GroupByColumn([]Card{
		{ID: "x", Status: StatusTodo},
		{ID: "y", Status: StatusTodo, OrderIdx: -1},
	})
	snap := SnapshotOf(grouped)

	require.Len(t, snap, 3)
	assert.Equal(t, []string{"y", "x"}, snap[StatusTodo])
	assert.Empty(t, snap[StatusInProgress])
	assert.Empty(t, snap[StatusDone])
}

func TestCardPatch(t *testing.T) {
	assert.True(t, CardPatch{}.IsEmpty())

	title := "new title"
	tags := []string{"a", "b"}
	p := CardPatch{Title: &title, Tags: &tags}
	assert.False(t, p.IsEmpty())

	c := Card{ID: "1", Title: "old", Description: "keep me"}
	p.Apply(&c)
	assert.Equal(t, "new title", c.Title)
	assert.Equal(t, []string{"a", "b"}, c.Tags)
	assert.Equal(t, "keep me", c.Description)
}
