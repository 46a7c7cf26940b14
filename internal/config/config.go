package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the application settings.
type Config struct {
	// DataDir holds the SQLite database and the page mirror.
	DataDir string
	Editor  EditorConfig
	Trash   TrashConfig
	Mirror  MirrorConfig
	Watcher WatcherConfig
}

// EditorConfig configures every editing session.
type EditorConfig struct {
	IndentStepPx         int
	SelectionDelay       time.Duration
	PreserveInlineStyles bool
}

// TrashConfig controls the scheduled purge of trashed pages. A zero
// RetentionDays keeps trashed pages until the trash is emptied by hand.
type TrashConfig struct {
	RetentionDays int
	PurgeSchedule string
}

// MirrorConfig controls the on-disk HTML copy of the open page.
type MirrorConfig struct {
	Enabled bool
}

// WatcherConfig controls the poll for changes made by other processes.
type WatcherConfig struct {
	Interval time.Duration
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Editor: EditorConfig{
			IndentStepPx:   20,
			SelectionDelay: 10 * time.Millisecond,
		},
		Trash: TrashConfig{
			RetentionDays: 30,
			PurgeSchedule: "@daily",
		},
		Mirror: MirrorConfig{
			Enabled: true,
		},
		Watcher: WatcherConfig{
			Interval: 2 * time.Second,
		},
	}
}

// DBPath is the location of the page database.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "ordna.db")
}

// MirrorDir is where open pages are mirrored as HTML files.
func (c *Config) MirrorDir() string {
	return filepath.Join(c.DataDir, "pages")
}

// Validate resets out-of-range values to their defaults.
func (c *Config) Validate() error {
	def := Default()
	if c.Editor.IndentStepPx <= 0 {
		c.Editor.IndentStepPx = def.Editor.IndentStepPx
	}
	if c.Editor.SelectionDelay <= 0 {
		c.Editor.SelectionDelay = def.Editor.SelectionDelay
	}
	if c.Trash.RetentionDays < 0 {
		c.Trash.RetentionDays = 0
	}
	if c.Trash.PurgeSchedule == "" {
		c.Trash.PurgeSchedule = def.Trash.PurgeSchedule
	}
	if c.Watcher.Interval < 100*time.Millisecond {
		c.Watcher.Interval = def.Watcher.Interval
	}
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "ordna")
	}
	return filepath.Join(home, ".local", "share", "ordna")
}
