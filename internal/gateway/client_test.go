package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmllt/kanbo/internal/model"
)

func TestListDecodesCards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/cards", r.URL.Path)
		json.NewEncoder(w).Encode([]model.Card{{ID: "1", Title: "hello"}})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	cards, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "hello", cards[0].Title)
}

func TestCreateSendsTitleAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/card", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a card", body["title"])
		assert.Equal(t, model.StatusTodo, body["status"])
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.Card{ID: "new", Title: body["title"]})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	card, err := c.Create(context.Background(), "a card", model.StatusTodo)
	require.NoError(t, err)
	assert.Equal(t, "new", card.ID)
}

func TestCreateValidatesTitleBeforeRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Create(context.Background(), "   ", model.StatusTodo)
	assert.ErrorIs(t, err, model.ErrEmptyTitle)
	assert.Zero(t, hits.Load(), "no request may be sent for an invalid title")
}

func TestReorderSubmitsFullSnapshot(t *testing.T) {
	var got map[string]map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reorder", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer srv.Close()

	snap := model.EmptySnapshot()
	snap[model.StatusTodo] = []string{"a"}
	snap[model.StatusInProgress] = []string{"b", "c"}

	c := New(srv.URL, time.Second)
	require.NoError(t, c.Reorder(context.Background(), snap))

	orders := got["orders"]
	require.Len(t, orders, 3, "every column key must be present")
	assert.Equal(t, []string{"a"}, orders[model.StatusTodo])
	assert.Equal(t, []string{"b", "c"}, orders[model.StatusInProgress])
	assert.Empty(t, orders[model.StatusDone])
}

func TestNon2xxBecomesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err))
	assert.False(t, IsTransport(err))

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "boom", se.Body)
}

func TestUnreachableServerBecomesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := New(srv.URL, time.Second)
	err := c.Remove(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.False(t, IsStatus(err))
}

func TestPatchSendsOnlySetFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/card/42", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"title": "renamed"}, body)
		json.NewEncoder(w).Encode(model.Card{ID: "42", Title: "renamed"})
	}))
	defer srv.Close()

	title := "renamed"
	c := New(srv.URL, time.Second)
	require.NoError(t, c.Patch(context.Background(), "42", model.CardPatch{Title: &title}))
}
