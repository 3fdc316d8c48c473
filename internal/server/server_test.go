package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/chitra/internal/app"
	"github.com/ayusman/chitra/internal/painter"
	"github.com/ayusman/chitra/internal/store"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	a := app.New(app.Config{Width: 320, Height: 240, Backend: app.BackendRaster})
	t.Cleanup(a.Close)
	return a
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}

		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	for _, path := range []string{"/api/nonexistent", "/api/state", "/api/sessions"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusNotFound, rec.Code)
		}
	}
}

func TestServer_StaticFiles(t *testing.T) {
	tmpDir := t.TempDir()

	testContent := "<html><body>Hello, World!</body></html>"
	if err := os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte(testContent), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	cssContent := "body { color: red; }"
	if err := os.WriteFile(filepath.Join(tmpDir, "style.css"), []byte(cssContent), 0644); err != nil {
		t.Fatalf("failed to create test CSS file: %v", err)
	}

	s := New(Config{StaticDir: tmpDir})

	t.Run("serves index.html at root path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		if rec.Body.String() != testContent {
			t.Errorf("expected body %q, got %q", testContent, rec.Body.String())
		}
	})

	t.Run("serves static files from configured directory", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/style.css", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		if rec.Body.String() != cssContent {
			t.Errorf("expected body %q, got %q", cssContent, rec.Body.String())
		}
	})

	t.Run("returns 404 for non-existent static files", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nonexistent.html", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("API routes win over static files", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Header().Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON health response, got %s", rec.Header().Get("Content-Type"))
		}
	})
}

func TestServer_NoStaticDir(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestServer_State(t *testing.T) {
	a := newTestApp(t)
	s := New(Config{App: a})

	t.Run("returns start-up state", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response["mode"] != "freehand" {
			t.Errorf("expected mode freehand, got %v", response["mode"])
		}
		if pen, ok := response["pen"].(map[string]interface{}); !ok || pen["down"] != false {
			t.Errorf("expected pen up, got %v", response["pen"])
		}
		if response["enabled"] != true {
			t.Errorf("expected enabled, got %v", response["enabled"])
		}
		if response["backend"] != app.BackendRaster {
			t.Errorf("expected raster backend, got %v", response["backend"])
		}
	})

	t.Run("updates enabled and color", func(t *testing.T) {
		body := bytes.NewBufferString(`{"enabled":false,"color":"yellow"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/state", body)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}
		if a.IsEnabled() {
			t.Error("expected drawing to be paused")
		}
		if got := a.Status().Color.Name; got != "yellow" {
			t.Errorf("expected color yellow, got %s", got)
		}
	})

	t.Run("rejects unknown color", func(t *testing.T) {
		body := bytes.NewBufferString(`{"color":"mauve"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/state", body)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}

func TestServer_Canvas(t *testing.T) {
	a := newTestApp(t)
	s := New(Config{App: a})

	req := httptest.NewRequest(http.MethodGet, "/api/canvas.png", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected Content-Type image/png, got %s", ct)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("expected 320x240 canvas, got %v", b)
	}
}

func TestServer_Clear(t *testing.T) {
	a := newTestApp(t)
	s := New(Config{App: a})

	events, cancel := a.Subscribe()
	defer cancel()

	req := httptest.NewRequest(http.MethodPost, "/api/canvas/clear", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	select {
	case ev := <-events:
		if ev.Kind != painter.CanvasCleared {
			t.Errorf("expected canvas_cleared event, got %s", ev.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("no event after clear")
	}

	t.Run("GET is not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/canvas/clear", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestServer_SettingsAndSessions(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	a := app.New(app.Config{Store: st, Width: 320, Height: 240, Backend: app.BackendRaster})
	t.Cleanup(a.Close)
	s := New(Config{App: a, Store: st})

	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBufferString(`{"eraser_thickness":"40"}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("settings: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if got := a.PainterConfig().EraserThickness; got != 40 {
		t.Errorf("expected eraser thickness 40, got %d", got)
	}

	sess := &store.Session{Width: 320, Height: 240}
	if err := st.Sessions().Create(sess); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID+"/events", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("events: expected status %d, got %d", http.StatusOK, rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/sessions/unknown", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown session: expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

type fakeFrames struct {
	mu    sync.Mutex
	frame []byte
}

func (f *fakeFrames) LatestFrame() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frame
}

func TestStreamHandler(t *testing.T) {
	source := &fakeFrames{frame: []byte("jpeg-bytes")}
	handler := NewStreamHandler(source)
	handler.interval = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Errorf("expected multipart content type, got %s", ct)
	}

	body := rec.Body.String()
	if n := strings.Count(body, "--frame"); n != 1 {
		t.Errorf("expected an unchanged frame to be sent once, got %d parts", n)
	}
	if !strings.Contains(body, "Content-Length: 10\r\n\r\njpeg-bytes\r\n") {
		t.Errorf("unexpected part: %q", body)
	}
}

func TestStreamHandler_NoFrameYet(t *testing.T) {
	handler := NewStreamHandler(&fakeFrames{})
	handler.interval = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Body.Len() != 0 {
		t.Errorf("expected no parts before the first frame, got %q", rec.Body.String())
	}
}

func TestEventsHandler(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(New(Config{App: a}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first map[string]interface{}
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("failed to read state: %v", err)
	}
	if first["type"] != "state" {
		t.Fatalf("expected state message first, got %v", first["type"])
	}

	// The state message is written after subscribing, so this event is delivered.
	if err := a.SelectColor("purple"); err != nil {
		t.Fatalf("SelectColor() error = %v", err)
	}

	var msg struct {
		Type  string `json:"type"`
		Event struct {
			Kind  string `json:"kind"`
			Color struct {
				Name string `json:"name"`
			} `json:"color"`
		} `json:"event"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("failed to read event: %v", err)
	}
	if msg.Type != "event" || msg.Event.Kind != "color_changed" || msg.Event.Color.Name != "purple" {
		t.Errorf("unexpected event message %+v", msg)
	}
}
