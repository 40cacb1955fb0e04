package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultSettingsFile = "settings.json"
	defaultPollInterval = time.Millisecond

	envEngine   = "HALITEVIEW_ENGINE"
	envSettings = "HALITEVIEW_SETTINGS"
)

// Settings describes how to launch the engine and a few viewer knobs.
type Settings struct {
	Engine     string   `json:"engine"`
	Bots       []string `json:"bots"`
	Seed       *int64   `json:"seed,omitempty"`
	Size       *int     `json:"size,omitempty"`
	PollMillis int      `json:"pollMillis,omitempty"`
	Discord    bool     `json:"discord,omitempty"`
	Theme      string   `json:"theme,omitempty"`
}

// loadEnv reads an optional .env file from dir. A missing file is not an
// error.
func loadEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// settingsPath picks the settings file: the flag wins, then the
// environment, then settings.json in dir.
func settingsPath(dir, flagPath string) string {
	p := flagPath
	if p == "" {
		p = os.Getenv(envSettings)
	}
	if p == "" {
		return filepath.Join(dir, defaultSettingsFile)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	return p
}

func loadSettings(path string) (Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if e := os.Getenv(envEngine); e != "" {
		s.Engine = e
	}
	return s, nil
}

// pollInterval is how long the decoder waits before re-checking for tokens.
func (s Settings) pollInterval() time.Duration {
	if s.PollMillis > 0 {
		return time.Duration(s.PollMillis) * time.Millisecond
	}
	return defaultPollInterval
}
