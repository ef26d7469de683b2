package chatsession

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(store Store) *chi.Mux {
	h := NewHandler(store, nil)
	r := chi.NewRouter()
	r.Post("/api/chat/sessions/{sessionID}/turns", h.AppendTurn)
	return r
}

func TestAppendTurnEndpoint(t *testing.T) {
	store := NewMemoryStore()
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/api/chat/sessions/sess-1/turns",
		strings.NewReader(`{"turn":"how much is the payroll add-on?"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	turns, err := store.Turns(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"how much is the payroll add-on?"}, turns)
}

func TestAppendTurnRejectsEmptyBody(t *testing.T) {
	router := newTestRouter(NewMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/api/chat/sessions/sess-1/turns",
		strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppendTurnRejectsInvalidJSON(t *testing.T) {
	router := newTestRouter(NewMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/api/chat/sessions/sess-1/turns",
		strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
