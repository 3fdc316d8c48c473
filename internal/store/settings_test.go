package store

import (
	"errors"
	"testing"
)

func TestSettingsRepository_GetSet(t *testing.T) {
	repo := newTestStore(t).Settings()

	if _, err := repo.Get(KeyColor); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on empty store = %v, want ErrNotFound", err)
	}

	if err := repo.Set(KeyColor, "blue"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set(KeyColor, "green"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	v, err := repo.Get(KeyColor)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if v != "green" {
		t.Errorf("Get() = %q, want green", v)
	}
}

func TestSettingsRepository_SetAllAndAll(t *testing.T) {
	repo := newTestStore(t).Settings()

	want := map[string]string{
		KeyBrushThickness:  "20",
		KeyEraserThickness: "60",
		KeyHoldFrames:      "3",
		KeyCommitShapes:    "true",
	}
	if err := repo.SetAll(want); err != nil {
		t.Fatalf("SetAll() error = %v", err)
	}

	got, err := repo.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("All() returned %d settings, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("All()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestSettingsRepository_Delete(t *testing.T) {
	repo := newTestStore(t).Settings()

	if err := repo.Delete(KeyText); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() missing = %v, want ErrNotFound", err)
	}

	repo.Set(KeyText, "HELLO")
	if err := repo.Delete(KeyText); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(KeyText); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
}

func TestSettingKeys(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range SettingKeys {
		if seen[k] {
			t.Errorf("duplicate key %q", k)
		}
		seen[k] = true
	}
	if len(SettingKeys) != 7 {
		t.Errorf("expected 7 keys, got %d", len(SettingKeys))
	}
}
