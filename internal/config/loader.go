package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	configDir  = ".config/ordna"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary.
type rawConfig struct {
	DataDir string           `json:"dataDir"`
	Editor  rawEditorConfig  `json:"editor"`
	Trash   rawTrashConfig   `json:"trash"`
	Mirror  rawMirrorConfig  `json:"mirror"`
	Watcher rawWatcherConfig `json:"watcher"`
}

type rawEditorConfig struct {
	IndentStepPx         *int   `json:"indentStepPx"`
	SelectionDelay       string `json:"selectionDelay"`
	PreserveInlineStyles *bool  `json:"preserveInlineStyles"`
}

type rawTrashConfig struct {
	RetentionDays *int   `json:"retentionDays"`
	PurgeSchedule string `json:"purgeSchedule"`
}

type rawMirrorConfig struct {
	Enabled *bool `json:"enabled"`
}

type rawWatcherConfig struct {
	Interval string `json:"interval"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/ordna/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	mergeConfig(cfg, &raw)
	cfg.DataDir = ExpandPath(cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	if raw.DataDir != "" {
		cfg.DataDir = raw.DataDir
	}

	// Editor
	if raw.Editor.IndentStepPx != nil {
		cfg.Editor.IndentStepPx = *raw.Editor.IndentStepPx
	}
	if raw.Editor.SelectionDelay != "" {
		if d, err := time.ParseDuration(raw.Editor.SelectionDelay); err == nil {
			cfg.Editor.SelectionDelay = d
		} else {
			log.Printf("config: invalid editor.selectionDelay %q: %v", raw.Editor.SelectionDelay, err)
		}
	}
	if raw.Editor.PreserveInlineStyles != nil {
		cfg.Editor.PreserveInlineStyles = *raw.Editor.PreserveInlineStyles
	}

	// Trash
	if raw.Trash.RetentionDays != nil {
		cfg.Trash.RetentionDays = *raw.Trash.RetentionDays
	}
	if raw.Trash.PurgeSchedule != "" {
		cfg.Trash.PurgeSchedule = raw.Trash.PurgeSchedule
	}

	if raw.Mirror.Enabled != nil {
		cfg.Mirror.Enabled = *raw.Mirror.Enabled
	}

	if raw.Watcher.Interval != "" {
		if d, err := time.ParseDuration(raw.Watcher.Interval); err == nil {
			cfg.Watcher.Interval = d
		} else {
			log.Printf("config: invalid watcher.interval %q: %v", raw.Watcher.Interval, err)
		}
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}
