package hook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// writeHook creates dir/name with a manifest and returns the hook directory.
func writeHook(t *testing.T, dir string, manifest Manifest) string {
	t.Helper()

	path := filepath.Join(dir, manifest.Name)
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("failed to create hook dir: %v", err)
	}

	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(path, ManifestFile), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestManager_Discover(t *testing.T) {
	dir := t.TempDir()

	path := writeHook(t, dir, Manifest{
		Name:        "notify",
		Version:     "1.0.0",
		Description: "Desktop notifications",
		Executable:  "notify",
		Events:      []string{"mode_changed", "canvas_cleared"},
	})
	writeHook(t, dir, Manifest{Name: "log", Executable: "log.sh"})

	// Skipped: bad JSON, missing executable, stray file.
	bad := filepath.Join(dir, "bad")
	os.MkdirAll(bad, 0755)
	os.WriteFile(filepath.Join(bad, ManifestFile), []byte("{not json"), 0644)
	writeHook(t, dir, Manifest{Name: "incomplete"})
	os.WriteFile(filepath.Join(dir, "README"), []byte("hooks"), 0644)

	m := NewManager(dir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	hooks := m.List()
	if len(hooks) != 2 {
		t.Fatalf("expected 2 hooks, got %d", len(hooks))
	}
	if hooks[0].Manifest.Name != "log" || hooks[1].Manifest.Name != "notify" {
		t.Errorf("expected hooks sorted by name, got %s, %s", hooks[0].Manifest.Name, hooks[1].Manifest.Name)
	}

	h, err := m.Get("notify")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if h.Path != path {
		t.Errorf("expected path %s, got %s", path, h.Path)
	}
	if h.Executable != filepath.Join(path, "notify") {
		t.Errorf("unexpected executable %s", h.Executable)
	}
}

func TestManager_Discover_Rescan(t *testing.T) {
	dir := t.TempDir()
	path := writeHook(t, dir, Manifest{Name: "notify", Executable: "notify"})

	m := NewManager(dir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	os.RemoveAll(path)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if _, err := m.Get("notify"); err != ErrHookNotFound {
		t.Errorf("expected ErrHookNotFound after removal, got %v", err)
	}
}

func TestManager_MissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "absent"))

	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(m.List()) != 0 {
		t.Error("expected no hooks")
	}
	if _, err := m.Get("anything"); err != ErrHookNotFound {
		t.Errorf("expected ErrHookNotFound, got %v", err)
	}
}

func TestManager_For(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, Manifest{Name: "all", Executable: "all"})
	writeHook(t, dir, Manifest{Name: "clears", Executable: "clears", Events: []string{"canvas_cleared"}})
	writeHook(t, dir, Manifest{Name: "modes", Executable: "modes", Events: []string{"mode_changed"}})

	m := NewManager(dir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	tests := []struct {
		event string
		want  []string
	}{
		{"canvas_cleared", []string{"all", "clears"}},
		{"mode_changed", []string{"all", "modes"}},
		{"color_changed", []string{"all"}},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			got := m.For(tt.event)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d hooks, got %d", len(tt.want), len(got))
			}
			for i, h := range got {
				if h.Manifest.Name != tt.want[i] {
					t.Errorf("hook %d: expected %s, got %s", i, tt.want[i], h.Manifest.Name)
				}
			}
		})
	}
}
