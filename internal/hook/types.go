// Package hook runs external executables in response to canvas events.
//
// A hook lives in its own directory under the hooks directory, described by a
// hook.json manifest. For every event it subscribes to, the executable is
// started with a JSON Request on stdin and must print a JSON Response.
package hook

import "time"

// Manifest describes a hook and the events it handles.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Events      []string `json:"events"`
}

// Request is written to a hook's stdin.
type Request struct {
	Event   string    `json:"event"`
	Session string    `json:"session,omitempty"`
	From    string    `json:"from"`
	Mode    string    `json:"mode"`
	Color   string    `json:"color"`
	At      time.Time `json:"at"`
}

// Response is read from a hook's stdout.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Handles reports whether the hook subscribes to event. An empty event list
// subscribes to everything.
func (h *Hook) Handles(event string) bool {
	if len(h.Manifest.Events) == 0 {
		return true
	}
	for _, e := range h.Manifest.Events {
		if e == event {
			return true
		}
	}
	return false
}
