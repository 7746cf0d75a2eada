package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gmllt/kanbo/internal/model"
	"github.com/gmllt/kanbo/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	return New(st, zap.NewNop()), st
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestListCards(t *testing.T) {
	s, st := newTestServer(t)
	_, err := st.Create(context.Background(), model.Card{Title: "one", Status: model.StatusTodo})
	require.NoError(t, err)

	w := doJSON(t, s, http.MethodGet, "/api/cards", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cards []model.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "one", cards[0].Title)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCreateCard(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/card", map[string]any{
		"title": "new card", "status": model.StatusInProgress,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var card model.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.NotEmpty(t, card.ID)
	assert.Equal(t, model.StatusInProgress, card.Status)
	assert.Equal(t, model.PriorityMedium, card.Priority)
	assert.Equal(t, 1, card.OrderIdx)
}

func TestCreateCardUnknownStatusDefaultsToTodo(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/card", map[string]any{
		"title": "strays land in todo", "status": "archived",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var card model.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.Equal(t, model.StatusTodo, card.Status)
}

func TestCreateCardRejectsEmptyTitle(t *testing.T) {
	s, st := newTestServer(t)

	for _, title := range []string{"", "   "} {
		w := doJSON(t, s, http.MethodPost, "/api/card", map[string]any{"title": title})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	cards, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestPatchCard(t *testing.T) {
	s, st := newTestServer(t)
	c, err := st.Create(context.Background(), model.Card{Title: "old"})
	require.NoError(t, err)

	w := doJSON(t, s, http.MethodPatch, "/api/card/"+c.ID, map[string]any{
		"title": "renamed", "priority": "high",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var card model.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.Equal(t, "renamed", card.Title)
	assert.Equal(t, "high", card.Priority)

	w = doJSON(t, s, http.MethodPatch, "/api/card/missing", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, s, http.MethodPatch, "/api/card/"+c.ID, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCard(t *testing.T) {
	s, st := newTestServer(t)
	c, err := st.Create(context.Background(), model.Card{Title: "bye"})
	require.NoError(t, err)

	w := doJSON(t, s, http.MethodDelete, "/api/card/"+c.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted": true}`, w.Body.String())

	w = doJSON(t, s, http.MethodDelete, "/api/card/"+c.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReorder(t *testing.T) {
	s, st := newTestServer(t)
	ctx := context.Background()
	a, _ := st.Create(ctx, model.Card{Title: "a", Status: model.StatusTodo})
	b, _ := st.Create(ctx, model.Card{Title: "b", Status: model.StatusTodo})

	w := doJSON(t, s, http.MethodPost, "/api/reorder", map[string]any{
		"orders": map[string][]string{
			model.StatusTodo:       {a.ID},
			model.StatusInProgress: {b.ID},
			model.StatusDone:       {},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())

	moved, err := st.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, moved.Status)
}

func TestReorderLegacyPayload(t *testing.T) {
	s, st := newTestServer(t)
	ctx := context.Background()
	a, _ := st.Create(ctx, model.Card{Title: "a", Status: model.StatusTodo})
	b, _ := st.Create(ctx, model.Card{Title: "b", Status: model.StatusTodo})

	w := doJSON(t, s, http.MethodPost, "/api/reorder", map[string]any{
		"column": model.StatusTodo,
		"order":  []string{b.ID, a.ID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	cards, err := st.List(ctx)
	require.NoError(t, err)
	grouped := model.GroupByColumn(cards)
	assert.Equal(t, b.ID, grouped[model.StatusTodo][0].ID)
}

func TestReorderInvalidPayload(t *testing.T) {
	s, _ := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/reorder", map[string]any{"bogus": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBoardPageEscapesTitles(t *testing.T) {
	s, st := newTestServer(t)
	_, err := st.Create(context.Background(), model.Card{
		Title: "<b>&x</b>", Status: model.StatusTodo, DueDate: "2026-09-01",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "<b>&x</b>")
	assert.Contains(t, body, "&lt;b&gt;&amp;x&lt;/b&gt;")
	assert.Contains(t, body, "To Do (1)")
	assert.Contains(t, body, "In Progress (0)")
	assert.Contains(t, body, "due 2026-09-01")
	assert.True(t, strings.Contains(body, "MED"), "default priority badge")
}
