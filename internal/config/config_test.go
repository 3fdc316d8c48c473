package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/chitra/internal/painter"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("CHITRA_DATA_DIR", "/tmp/chitra-test")

	cfg := FromEnv()

	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("size = %dx%d, want 1280x720", cfg.Width, cfg.Height)
	}
	if cfg.Canvas != CanvasMat {
		t.Errorf("Canvas = %q, want mat", cfg.Canvas)
	}
	if cfg.Brush != 15 || cfg.Eraser != 50 || cfg.HoldFrames != 5 {
		t.Errorf("unexpected stroke defaults %+v", cfg)
	}
	if cfg.Hold != 0 || cfg.CommitShapes {
		t.Errorf("hold duration and shape commit should default off, got hold=%s commit=%v", cfg.Hold, cfg.CommitShapes)
	}
	if cfg.Text != "HELLO" {
		t.Errorf("Text = %q, want HELLO", cfg.Text)
	}
	if cfg.DBPath() != filepath.Join("/tmp/chitra-test", "chitra.db") {
		t.Errorf("DBPath() = %q", cfg.DBPath())
	}
	if cfg.HookDir() != filepath.Join("/tmp/chitra-test", "hooks") || cfg.HookTimeout != 5*time.Second {
		t.Errorf("unexpected hook defaults %q %s", cfg.HookDir(), cfg.HookTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestHookDir_Override(t *testing.T) {
	t.Setenv("CHITRA_HOOKS_DIR", "/opt/chitra/hooks")

	if got := FromEnv().HookDir(); got != "/opt/chitra/hooks" {
		t.Errorf("HookDir() = %q, want /opt/chitra/hooks", got)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("CHITRA_ADDR", ":9000")
	t.Setenv("CHITRA_CAMERA", "2")
	t.Setenv("CHITRA_CANVAS", "RASTER")
	t.Setenv("CHITRA_WINDOW", "false")
	t.Setenv("CHITRA_TRAY", "1")
	t.Setenv("CHITRA_MOTION_THRESH", "2.5")
	t.Setenv("CHITRA_BRUSH", "8")
	t.Setenv("CHITRA_HOLD_MS", "250")
	t.Setenv("CHITRA_COMMIT_SHAPES", "true")
	t.Setenv("CHITRA_TEXT", "HI")

	cfg := FromEnv()

	if cfg.Addr != ":9000" || cfg.Camera != 2 {
		t.Errorf("Addr/Camera = %q/%d", cfg.Addr, cfg.Camera)
	}
	if cfg.Canvas != CanvasRaster {
		t.Errorf("Canvas = %q, want raster", cfg.Canvas)
	}
	if cfg.Window || !cfg.Tray {
		t.Errorf("Window/Tray = %v/%v", cfg.Window, cfg.Tray)
	}
	if cfg.MotionThresh != 2.5 {
		t.Errorf("MotionThresh = %g", cfg.MotionThresh)
	}
	if cfg.Hold != 250*time.Millisecond {
		t.Errorf("Hold = %s, want 250ms", cfg.Hold)
	}

	p := cfg.Painter()
	if p.BrushThickness != 8 || p.HoldDuration != 250*time.Millisecond || !p.CommitShapes || p.Text != "HI" {
		t.Errorf("Painter() = %+v", p)
	}
	if p.Layout.HeaderHeight != painter.DefaultHeaderHeight {
		t.Errorf("Painter() layout header = %d", p.Layout.HeaderHeight)
	}
}

func TestFromEnv_BadValuesFallBack(t *testing.T) {
	t.Setenv("CHITRA_WIDTH", "wide")
	t.Setenv("CHITRA_WINDOW", "maybe")
	t.Setenv("CHITRA_MOTION_THRESH", "lots")

	cfg := FromEnv()
	if cfg.Width != 1280 || !cfg.Window || cfg.MotionThresh != 0.5 {
		t.Errorf("bad values should fall back to defaults, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }, "listen address"},
		{"zero width", func(c *Config) { c.Width = 0 }, "frame size"},
		{"short frame", func(c *Config) { c.Height = 100 }, "no room"},
		{"bad canvas", func(c *Config) { c.Canvas = "svg" }, "canvas backend"},
		{"zero brush", func(c *Config) { c.Brush = 0 }, "brush"},
		{"zero eraser", func(c *Config) { c.Eraser = 0 }, "eraser"},
		{"negative hold frames", func(c *Config) { c.HoldFrames = -1 }, "hold frames"},
		{"negative motion", func(c *Config) { c.MotionThresh = -1 }, "motion"},
		{"zero hook timeout", func(c *Config) { c.HookTimeout = 0 }, "hook timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FromEnv()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("CHITRA_ERASER=70\nCHITRA_HOLD_FRAMES=3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set.
	t.Setenv("CHITRA_ERASER", "")
	os.Unsetenv("CHITRA_ERASER")
	t.Setenv("CHITRA_HOLD_FRAMES", "9")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Eraser != 70 {
		t.Errorf("Eraser = %d, want 70 from file", cfg.Eraser)
	}
	if cfg.HoldFrames != 9 {
		t.Errorf("HoldFrames = %d, want 9 from the environment", cfg.HoldFrames)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CHITRA_CANVAS", "svg")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Load() should fail validation")
	}
}

func TestEnsureDataDir(t *testing.T) {
	cfg := FromEnv()
	cfg.DataDir = filepath.Join(t.TempDir(), "nested", "data")
	if err := cfg.EnsureDataDir(); err != nil {
		t.Fatalf("EnsureDataDir() error = %v", err)
	}
	if fi, err := os.Stat(cfg.DataDir); err != nil || !fi.IsDir() {
		t.Errorf("data dir not created: %v", err)
	}
}
