package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"
)

const prefsFile = "prefs.json"

// Grid colour-mapping variants.
const (
	gridFlat = iota
	gridLinear
	gridSqrt2048
	gridSqrt1024
	numGridAesthetics
)

var gridAestheticNames = [numGridAesthetics]string{
	"flat",
	"linear",
	"sqrt 2048",
	"sqrt 1024",
}

// Preferences are the render options the user can change while watching.
type Preferences struct {
	GridAesthetic   int  `json:"grid_aesthetic"`
	IntegerBoxSizes bool `json:"integer_box_sizes"`
}

// prefsSaveDelay is the minimum gap between preference writes.
const prefsSaveDelay = 5 * time.Second

var prefs = Preferences{GridAesthetic: gridSqrt1024}

var (
	prefsPath     string
	prefsDirty    bool
	lastPrefsSave time.Time
)

func loadPrefs(path string) bool {
	prefsPath = path
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("load prefs: %v", err)
		return false
	}
	if p.GridAesthetic < 0 || p.GridAesthetic >= numGridAesthetics {
		p.GridAesthetic = gridSqrt1024
	}
	prefs = p
	return true
}

func savePrefs() {
	if prefsPath == "" {
		return
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		log.Printf("save prefs: %v", err)
		return
	}
	if err := os.WriteFile(prefsPath, data, 0644); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

func defaultPrefsPath() string {
	return filepath.Join(baseDir, prefsFile)
}

// setGridAesthetic selects a colour-mapping variant, ignoring unknown ones.
func setGridAesthetic(v int) {
	if v < 0 || v >= numGridAesthetics || v == prefs.GridAesthetic {
		return
	}
	prefs.GridAesthetic = v
	prefsDirty = true
}

func toggleIntegerBoxSizes() {
	prefs.IntegerBoxSizes = !prefs.IntegerBoxSizes
	prefsDirty = true
}

// maybeSavePrefs writes dirty preferences at most every prefsSaveDelay.
func maybeSavePrefs(now time.Time) {
	if now.Sub(lastPrefsSave) < prefsSaveDelay {
		return
	}
	if prefsDirty {
		savePrefs()
		prefsDirty = false
	}
	lastPrefsSave = now
}
