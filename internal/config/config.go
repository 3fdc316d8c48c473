// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/ayusman/chitra/internal/painter"
)

// Canvas backends.
const (
	CanvasMat    = "mat"
	CanvasRaster = "raster"
)

// Config is the process configuration. Every field maps to a CHITRA_* variable.
type Config struct {
	Addr    string // CHITRA_ADDR
	DataDir string // CHITRA_DATA_DIR

	Camera int // CHITRA_CAMERA
	Width  int // CHITRA_WIDTH
	Height int // CHITRA_HEIGHT

	Canvas       string  // CHITRA_CANVAS: mat or raster
	Window       bool    // CHITRA_WINDOW
	Tray         bool    // CHITRA_TRAY
	MotionThresh float64 // CHITRA_MOTION_THRESH, percent of pixels

	Brush        int           // CHITRA_BRUSH
	Eraser       int           // CHITRA_ERASER
	HoldFrames   int           // CHITRA_HOLD_FRAMES
	Hold         time.Duration // CHITRA_HOLD_MS
	CommitShapes bool          // CHITRA_COMMIT_SHAPES
	Text         string        // CHITRA_TEXT

	HooksDir    string        // CHITRA_HOOKS_DIR, empty means <data dir>/hooks
	HookTimeout time.Duration // CHITRA_HOOK_TIMEOUT_MS
}

// Load reads .env files when present, then the environment, and validates the result.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("No .env file found, using system environment variables")
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the environment without validating it.
func FromEnv() *Config {
	return &Config{
		Addr:    getEnv("CHITRA_ADDR", "127.0.0.1:8420"),
		DataDir: getEnv("CHITRA_DATA_DIR", defaultDataDir()),

		Camera: getEnvAsInt("CHITRA_CAMERA", 0),
		Width:  getEnvAsInt("CHITRA_WIDTH", 1280),
		Height: getEnvAsInt("CHITRA_HEIGHT", 720),

		Canvas:       strings.ToLower(getEnv("CHITRA_CANVAS", CanvasMat)),
		Window:       getEnvAsBool("CHITRA_WINDOW", true),
		Tray:         getEnvAsBool("CHITRA_TRAY", false),
		MotionThresh: getEnvAsFloat("CHITRA_MOTION_THRESH", 0.5),

		Brush:        getEnvAsInt("CHITRA_BRUSH", painter.DefaultBrushThickness),
		Eraser:       getEnvAsInt("CHITRA_ERASER", painter.DefaultEraserThickness),
		HoldFrames:   getEnvAsInt("CHITRA_HOLD_FRAMES", painter.DefaultHoldFrames),
		Hold:         getEnvAsMillis("CHITRA_HOLD_MS", 0),
		CommitShapes: getEnvAsBool("CHITRA_COMMIT_SHAPES", false),
		Text:         getEnv("CHITRA_TEXT", painter.DefaultText),

		HooksDir:    os.Getenv("CHITRA_HOOKS_DIR"),
		HookTimeout: getEnvAsMillis("CHITRA_HOOK_TIMEOUT_MS", 5*time.Second),
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return errors.New("listen address is empty")
	case c.Width <= 0 || c.Height <= 0:
		return errors.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	case c.Height <= painter.DefaultHeaderHeight:
		return errors.Errorf("frame height %d leaves no room below the %d px menu", c.Height, painter.DefaultHeaderHeight)
	case c.Canvas != CanvasMat && c.Canvas != CanvasRaster:
		return errors.Errorf("unknown canvas backend %q", c.Canvas)
	case c.Brush <= 0:
		return errors.Errorf("brush thickness must be positive, got %d", c.Brush)
	case c.Eraser <= 0:
		return errors.Errorf("eraser thickness must be positive, got %d", c.Eraser)
	case c.HoldFrames < 0:
		return errors.Errorf("hold frames must not be negative, got %d", c.HoldFrames)
	case c.Hold < 0:
		return errors.Errorf("hold duration must not be negative, got %s", c.Hold)
	case c.MotionThresh < 0:
		return errors.Errorf("motion threshold must not be negative, got %g", c.MotionThresh)
	case c.HookTimeout <= 0:
		return errors.Errorf("hook timeout must be positive, got %s", c.HookTimeout)
	}
	return nil
}

// Painter returns the state machine configuration.
func (c *Config) Painter() painter.Config {
	p := painter.DefaultConfig()
	p.BrushThickness = c.Brush
	p.EraserThickness = c.Eraser
	p.HoldFrames = c.HoldFrames
	p.HoldDuration = c.Hold
	p.CommitShapes = c.CommitShapes
	p.Text = c.Text
	return p
}

// DBPath returns the SQLite database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "chitra.db")
}

// HookDir returns where hooks are discovered.
func (c *Config) HookDir() string {
	if c.HooksDir != "" {
		return c.HooksDir
	}
	return filepath.Join(c.DataDir, "hooks")
}

// EnsureDataDir creates the data directory.
func (c *Config) EnsureDataDir() error {
	return errors.Wrapf(os.MkdirAll(c.DataDir, 0755), "create data dir %s", c.DataDir)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chitra"
	}
	return filepath.Join(home, ".chitra")
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Ignoring %s=%q: not an integer", key, value)
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Ignoring %s=%q: not a number", key, value)
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Ignoring %s=%q: not a boolean", key, value)
	}
	return defaultVal
}

func getEnvAsMillis(key string, defaultVal time.Duration) time.Duration {
	if ms := getEnvAsInt(key, -1); ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultVal
}
