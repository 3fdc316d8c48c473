package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/chitra/internal/app"
	"github.com/ayusman/chitra/internal/painter"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventSource is the part of the app the event feed needs.
type EventSource interface {
	Status() app.Status
	Subscribe() (<-chan painter.Event, func())
}

// message is one websocket frame. The first frame on a connection is the
// current state; every later one is an event.
type message struct {
	Type  string         `json:"type"`
	State *app.Status    `json:"state,omitempty"`
	Event *painter.Event `json:"event,omitempty"`
}

// EventsHandler pushes state machine events to websocket clients.
type EventsHandler struct {
	source EventSource
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(source EventSource) *EventsHandler {
	return &EventsHandler{source: source}
}

// ServeHTTP upgrades the connection and forwards events until either side closes.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := h.source.Subscribe()
	defer cancel()

	// Reads only detect the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	st := h.source.Status()
	if err := write(conn, message{Type: "state", State: &st}); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := write(conn, message{Type: "event", Event: &ev}); err != nil {
				return
			}
		}
	}
}

func write(conn *websocket.Conn, msg message) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
