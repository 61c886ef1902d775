package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/waffle-wala/models"
)

type suggestionInbox struct {
	Suggestions []models.Suggestion `json:"suggestions"`
	Unread      int                 `json:"unread"`
}

func TestSuggestionFlow(t *testing.T) {
	api := setupAPI(t)

	w, resp := api.do("POST", "/suggestions", map[string]string{"type": "new-item", "text": "Nutella waffle please"})
	require.Equal(t, http.StatusCreated, w.Code)
	sug := decode[models.Suggestion](t, resp.Data)
	assert.Equal(t, "Anonymous", sug.From)
	assert.False(t, sug.Read)

	w, resp = api.do("POST", "/suggestions", map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "text", resp.Field)

	// Inbox hanya untuk admin
	w, _ = api.do("GET", "/admin/suggestions", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	api.login()
	w, resp = api.do("GET", "/admin/suggestions?filter=unread", nil)
	require.Equal(t, http.StatusOK, w.Code)
	inbox := decode[suggestionInbox](t, resp.Data)
	require.Len(t, inbox.Suggestions, 1)
	assert.Equal(t, 1, inbox.Unread)

	w, resp = api.do("PATCH", "/admin/suggestions/"+sug.ID, map[string]bool{"read": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.Suggestion](t, resp.Data).Read)

	w, resp = api.do("GET", "/admin/suggestions?filter=unread", nil)
	require.Equal(t, http.StatusOK, w.Code)
	inbox = decode[suggestionInbox](t, resp.Data)
	assert.Empty(t, inbox.Suggestions)
	assert.Equal(t, 0, inbox.Unread)

	w, _ = api.do("PATCH", "/admin/suggestions/"+sug.ID, json.RawMessage(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do("DELETE", "/admin/suggestions/"+sug.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do("DELETE", "/admin/suggestions/"+sug.ID+"?confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do("PATCH", "/admin/suggestions/missing", map[string]bool{"read": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
