package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ayusman/chitra/internal/store"
)

// defaultLimit caps list responses when the client gives no limit.
const defaultLimit = 100

// SessionsHandler serves the session and event journal.
type SessionsHandler struct {
	store *store.Store
}

// NewSessionsHandler creates a new SessionsHandler with the given store.
func NewSessionsHandler(s *store.Store) *SessionsHandler {
	return &SessionsHandler{store: s}
}

type sessionResponse struct {
	*store.Session
	Events int `json:"events"`
}

// List handles GET /api/sessions, newest first.
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	sessions, err := h.store.Sessions().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := make([]sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		response = append(response, sessionResponse{Session: sess})
	}
	// Counts are filled after the list query has released its connection.
	for i := range response {
		n, err := h.store.Events().CountBySession(response[i].ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to count events")
			return
		}
		response[i].Events = n
	}

	writeJSON(w, http.StatusOK, response)
}

// Get handles GET /api/sessions/{id}.
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	n, err := h.store.Events().CountBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count events")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Session: sess, Events: n})
}

// Events handles GET /api/sessions/{id}/events in journal order.
func (h *SessionsHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	if _, err := h.store.Sessions().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	events, err := h.store.Events().ListBySession(id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}
	if events == nil {
		events = []*store.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return n, true
}
