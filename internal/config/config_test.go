package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkersey/subshell/internal/logger"
	"github.com/mkersey/subshell/internal/zoxide"
)

func TestMain(m *testing.M) {
	logger.Disable()
	os.Exit(m.Run())
}

func TestLoadDefaultConfig(t *testing.T) {
	tempDir := t.TempDir()
	homeDir := filepath.Join(tempDir, "home")
	os.Setenv("HOME", homeDir)
	defer os.Unsetenv("HOME")

	cfg := Load()

	if cfg == nil {
		t.Fatal("Load() returned nil")
	}
	if cfg.Zoxide == nil {
		t.Error("Zoxide map not initialized")
	}
	if cfg.SortBy != "natural" {
		t.Errorf("default SortBy = %q, want natural", cfg.SortBy)
	}
	if cfg.SortDirection != "asc" {
		t.Errorf("default SortDirection = %q, want asc", cfg.SortDirection)
	}
	if cfg.MaxLevel != 1 {
		t.Errorf("default MaxLevel = %d, want 1", cfg.MaxLevel)
	}
	if !cfg.SoundEnabled {
		t.Error("sound should default to enabled")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	tempDir := t.TempDir()
	homeDir := filepath.Join(tempDir, "home")
	os.Setenv("HOME", homeDir)
	defer os.Unsetenv("HOME")

	cfg := &Config{
		SoundEnabled:  false,
		ShowHidden:    true,
		SortBy:        "size",
		SortDirection: "desc",
		MaxLevel:      4,
		Zoxide: map[string]zoxide.Entry{
			"/home/guest/workspace": {Count: 7, LastAccess: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)},
		},
	}

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded := Load()
	if loaded.SoundEnabled {
		t.Error("SoundEnabled not persisted")
	}
	if !loaded.ShowHidden {
		t.Error("ShowHidden not persisted")
	}
	if loaded.SortBy != "size" || loaded.SortDirection != "desc" {
		t.Errorf("sort settings not persisted: %q/%q", loaded.SortBy, loaded.SortDirection)
	}
	if loaded.MaxLevel != 4 {
		t.Errorf("MaxLevel = %d, want 4", loaded.MaxLevel)
	}
	entry, ok := loaded.Zoxide["/home/guest/workspace"]
	if !ok {
		t.Fatal("zoxide entry not persisted")
	}
	if entry.Count != 7 {
		t.Errorf("zoxide count = %d, want 7", entry.Count)
	}
}

func TestLoadCorruptConfig(t *testing.T) {
	tempDir := t.TempDir()
	homeDir := filepath.Join(tempDir, "home")
	os.Setenv("HOME", homeDir)
	defer os.Unsetenv("HOME")

	configPath := filepath.Join(homeDir, ".config", "subshell", "config.json")
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(configPath, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Load()
	if cfg == nil {
		t.Fatal("Load() returned nil for corrupt file")
	}
	if cfg.SortBy != "natural" {
		t.Error("corrupt config should fall back to defaults")
	}
}
