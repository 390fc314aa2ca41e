// Package config loads the daemon's static configuration: wake phrases,
// matching thresholds, app executable paths and the messaging contact
// list. Loaded once at startup, read-only afterwards.
package config

import (
	"encoding/json"
	"fmt"
	log "log/slog"
	"os"
)

type Config struct {
	WakeWord         string            `json:"wake_word"`
	AlternatePhrases []string          `json:"alternate_phrases"`
	Sensitivity      float64           `json:"sensitivity"`
	MatchThreshold   float64           `json:"match_threshold"`
	TimeoutSec       int               `json:"timeout_sec"`
	Voice            string            `json:"voice"`
	AppPaths         map[string]string `json:"app_paths"`
	Contacts         map[string]string `json:"contacts"`
	WorkDir          string            `json:"workdir"`
	StorePath        string            `json:"store_path"`
	ChimePath        string            `json:"chime_path"`
}

func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		WakeWord:         "hey matrix",
		AlternatePhrases: []string{"matrix", "hey metrics", "a matrix"},
		Sensitivity:      0.75,
		MatchThreshold:   0.6,
		TimeoutSec:       15,
		Voice:            "en",
		AppPaths:         map[string]string{},
		Contacts:         map[string]string{},
		WorkDir:          home,
		StorePath:        "matrix.db",
		ChimePath:        "beep.mp3",
	}
}

// Load reads a JSON config file on top of the defaults. A missing file is
// not an error; the defaults carry the daemon.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Warn("Config file not found, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.WakeWord == "" {
		cfg.WakeWord = Default().WakeWord
	}
	if cfg.Sensitivity <= 0 || cfg.Sensitivity > 1 {
		cfg.Sensitivity = Default().Sensitivity
	}
	if cfg.MatchThreshold <= 0 || cfg.MatchThreshold > 1 {
		cfg.MatchThreshold = Default().MatchThreshold
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = Default().TimeoutSec
	}

	return cfg, nil
}
