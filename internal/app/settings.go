package app

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/ayusman/chitra/internal/painter"
	"github.com/ayusman/chitra/internal/store"
)

// ErrInvalidSetting is returned for setting values that cannot be applied.
var ErrInvalidSetting = errors.New("invalid setting")

// ErrNoStore is returned by operations that need persistence when none is configured.
var ErrNoStore = errors.New("no store configured")

// LoadSettings applies settings persisted in the store on top of the current
// configuration. Bad stored values are logged and skipped.
func (a *App) LoadSettings() error {
	if a.config.Store == nil {
		return nil
	}

	values, err := a.config.Store.Settings().All()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	for k, v := range values {
		if err := a.applySetting(k, v); err != nil {
			log.Printf("Skipping stored setting: %v", err)
		}
	}

	log.Printf("Loaded %d settings from database", len(values))
	return nil
}

// UpdateSettings validates values, applies them, and persists them when a
// store is configured. Nothing is applied if any value is invalid.
func (a *App) UpdateSettings(values map[string]string) error {
	a.stateMu.Lock()
	cfg := a.machine.Config()
	a.stateMu.Unlock()

	for k, v := range values {
		if _, _, err := parseSetting(cfg, k, v); err != nil {
			return err
		}
	}

	for k, v := range values {
		if err := a.applySetting(k, v); err != nil {
			return err
		}
	}

	if a.config.Store == nil {
		return nil
	}
	if err := a.config.Store.Settings().SetAll(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Settings returns the effective value of every known setting.
func (a *App) Settings() map[string]string {
	a.stateMu.Lock()
	cfg := a.machine.Config()
	color := a.machine.State().Color
	a.stateMu.Unlock()

	return map[string]string{
		store.KeyBrushThickness:  strconv.Itoa(cfg.BrushThickness),
		store.KeyEraserThickness: strconv.Itoa(cfg.EraserThickness),
		store.KeyHoldFrames:      strconv.Itoa(cfg.HoldFrames),
		store.KeyHoldMillis:      strconv.FormatInt(cfg.HoldDuration.Milliseconds(), 10),
		store.KeyColor:           color.Name,
		store.KeyText:            cfg.Text,
		store.KeyCommitShapes:    strconv.FormatBool(cfg.CommitShapes),
	}
}

func (a *App) applySetting(key, value string) error {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	cfg, color, err := parseSetting(a.machine.Config(), key, value)
	if err != nil {
		return err
	}
	a.machine.SetConfig(cfg)
	if color != nil {
		a.machine.SetColor(*color, time.Now())
	}
	return nil
}

// parseSetting returns cfg with one setting applied, plus the color to select
// when the key is the color.
func parseSetting(cfg painter.Config, key, value string) (painter.Config, *painter.Swatch, error) {
	positive := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidSetting, key, value)
		}
		return n, nil
	}
	natural := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %s must be a non-negative integer, got %q", ErrInvalidSetting, key, value)
		}
		return n, nil
	}

	switch key {
	case store.KeyBrushThickness:
		n, err := positive()
		if err != nil {
			return cfg, nil, err
		}
		cfg.BrushThickness = n
	case store.KeyEraserThickness:
		n, err := positive()
		if err != nil {
			return cfg, nil, err
		}
		cfg.EraserThickness = n
	case store.KeyHoldFrames:
		n, err := natural()
		if err != nil {
			return cfg, nil, err
		}
		cfg.HoldFrames = n
	case store.KeyHoldMillis:
		n, err := natural()
		if err != nil {
			return cfg, nil, err
		}
		cfg.HoldDuration = time.Duration(n) * time.Millisecond
	case store.KeyCommitShapes:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return cfg, nil, fmt.Errorf("%w: %s must be a boolean, got %q", ErrInvalidSetting, key, value)
		}
		cfg.CommitShapes = b
	case store.KeyText:
		if value == "" {
			return cfg, nil, fmt.Errorf("%w: %s must not be empty", ErrInvalidSetting, key)
		}
		cfg.Text = value
	case store.KeyColor:
		sw, ok := painter.SwatchByName(value)
		if !ok {
			return cfg, nil, fmt.Errorf("%w: unknown color %q", ErrInvalidSetting, value)
		}
		return cfg, &sw, nil
	default:
		return cfg, nil, fmt.Errorf("%w: unknown key %q", ErrInvalidSetting, key)
	}
	return cfg, nil, nil
}
