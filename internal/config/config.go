package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mkersey/subshell/internal/logger"
	"github.com/mkersey/subshell/internal/zoxide"
)

// Config holds all Subshell configuration and persisted progress.
type Config struct {
	SoundEnabled  bool                     `json:"sound_enabled"`
	ShowHidden    bool                     `json:"show_hidden"`
	SortBy        string                   `json:"sort_by"`
	SortDirection string                   `json:"sort_direction"`
	MaxLevel      int                      `json:"max_level"` // highest stage unlocked
	Zoxide        map[string]zoxide.Entry  `json:"zoxide"`    // display path -> frecency entry
}

// Load reads config from ~/.config/subshell/config.json, writing defaults
// on first run. Load never fails: on any error it returns defaults.
func Load() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		logger.Error("Failed to get home directory: %v", err)
		homeDir = "."
	}
	configDir := filepath.Join(homeDir, ".config", "subshell")
	configPath := filepath.Join(configDir, "config.json")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		logger.Error("Failed to create config directory %s: %v", configDir, err)
	}

	defaultConfig := &Config{
		SoundEnabled:  true,
		ShowHidden:    false,
		SortBy:        "natural",
		SortDirection: "asc",
		MaxLevel:      1,
		Zoxide:        make(map[string]zoxide.Entry),
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if err := Save(defaultConfig); err != nil {
			logger.Warn("Failed to save default config: %v", err)
		}
		return defaultConfig
	}

	config := &Config{}
	if err := json.Unmarshal(data, config); err != nil {
		logger.Warn("Failed to parse config file %s: %v, using defaults", configPath, err)
		return defaultConfig
	}

	if config.Zoxide == nil {
		config.Zoxide = make(map[string]zoxide.Entry)
	}
	if config.SortBy == "" {
		config.SortBy = defaultConfig.SortBy
	}
	if config.SortDirection == "" {
		config.SortDirection = defaultConfig.SortDirection
	}
	if config.MaxLevel < 1 {
		config.MaxLevel = 1
	}

	return config
}

// Save writes config to ~/.config/subshell/config.json
func Save(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		logger.Error("Failed to get home directory: %v", err)
		return fmt.Errorf("cannot get home directory: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		logger.Error("Failed to create config directory: %v", err)
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		logger.Error("Failed to marshal config: %v", err)
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		logger.Error("Failed to write config file %s: %v", configPath, err)
		return fmt.Errorf("cannot write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "subshell", "config.json"), nil
}
