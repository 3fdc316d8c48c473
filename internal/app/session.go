package app

import (
	"log"
	"time"

	"github.com/ayusman/chitra/internal/painter"
	"github.com/ayusman/chitra/internal/store"
)

// Session returns the journal session of the current run, or nil when there
// is no store or the pipeline has not started.
func (a *App) Session() *store.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// beginSession records a new run. Called with a.mu held.
func (a *App) beginSession() {
	if a.config.Store == nil {
		return
	}

	size := a.camera.Size()
	sess := &store.Session{
		Camera:  a.config.CameraID,
		Width:   size.X,
		Height:  size.Y,
		Backend: a.config.Backend,
	}
	if err := a.config.Store.Sessions().Create(sess); err != nil {
		log.Printf("Failed to record session: %v", err)
		return
	}
	a.session = sess
	log.Printf("Session %s started", sess.ID)
}

func (a *App) endSession() {
	a.mu.Lock()
	sess := a.session
	a.session = nil
	a.mu.Unlock()

	if sess == nil || a.config.Store == nil {
		return
	}
	if err := a.config.Store.Sessions().End(sess.ID, time.Now()); err != nil {
		log.Printf("Failed to close session %s: %v", sess.ID, err)
	}
}

// journal appends an event to the current session. It runs inline with
// stateMu held, so the frame that raised the event waits for the insert.
// Events are rare next to frames. Failures are logged and never stop drawing.
func (a *App) journal(ev painter.Event) {
	sess := a.Session()
	if sess == nil {
		return
	}

	rec := &store.Event{
		SessionID: sess.ID,
		Kind:      ev.Kind.String(),
		ModeFrom:  ev.From.String(),
		ModeTo:    ev.To.String(),
		Color:     ev.Color.Name,
		CreatedAt: ev.At,
	}
	if err := a.config.Store.Events().Append(rec); err != nil {
		log.Printf("Failed to journal %s: %v", ev.Kind, err)
	}
}
