// Package server provides the HTTP server for the Chitra drawing canvas.
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ayusman/chitra/internal/app"
	"github.com/ayusman/chitra/internal/server/api"
	"github.com/ayusman/chitra/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the Chitra application.
type Server struct {
	config Config
	router *mux.Router
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: mux.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	r := s.router
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	if a := s.config.App; a != nil {
		r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
		r.HandleFunc("/api/state", s.handleUpdateState).Methods(http.MethodPut)
		r.HandleFunc("/api/canvas.png", s.handleCanvas).Methods(http.MethodGet)
		r.HandleFunc("/api/canvas/clear", s.handleClear).Methods(http.MethodPost)
		r.Handle("/api/stream", NewStreamHandler(a)).Methods(http.MethodGet)
		r.Handle("/api/events", NewEventsHandler(a)).Methods(http.MethodGet)

		settings := api.NewSettingsHandler(a)
		r.Handle("/api/settings", settings).Methods(http.MethodGet, http.MethodPut)
	}

	if s.config.Store != nil {
		sessions := api.NewSessionsHandler(s.config.Store)
		r.HandleFunc("/api/sessions", sessions.List).Methods(http.MethodGet)
		r.HandleFunc("/api/sessions/{id}", sessions.Get).Methods(http.MethodGet)
		r.HandleFunc("/api/sessions/{id}/events", sessions.Events).Methods(http.MethodGet)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	writeJSON(w, http.StatusOK, response)
}

// handleState handles GET /api/state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.config.App.Status())
}

type updateStateRequest struct {
	Enabled *bool   `json:"enabled"`
	Color   *string `json:"color"`
}

// handleUpdateState handles PUT /api/state. Absent fields are left unchanged.
func (s *Server) handleUpdateState(w http.ResponseWriter, r *http.Request) {
	var req updateStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	a := s.config.App
	if req.Color != nil {
		if err := a.SelectColor(*req.Color); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Enabled != nil {
		a.SetEnabled(*req.Enabled)
	}

	writeJSON(w, http.StatusOK, a.Status())
}

// handleCanvas handles GET /api/canvas.png with the drawing alone.
func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.config.App.WritePNG(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode canvas")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}

// handleClear handles POST /api/canvas/clear.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.config.App.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return s.HTTPServer(addr).ListenAndServe()
}

// HTTPServer returns an http.Server for addr, for callers that need Shutdown.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
