package service

import (
	"strconv"

	"ordna/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Settings persistence
// ─────────────────────────────────────────────────────────────
//
// Window size and the last open page survive restarts as rows in the
// app_settings table.

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SettingsService persists UI state between sessions.
type SettingsService struct {
	store *storage.SettingsStore
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(store *storage.SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	settingLastPage     = "last_page_id"
	defaultWindowWidth  = 1280
	defaultWindowHeight = 800
)

// LoadWindowSize returns the saved window dimensions, or sensible defaults.
func (s *SettingsService) LoadWindowSize() WindowSize {
	w := s.intSetting(settingWindowWidth, defaultWindowWidth)
	h := s.intSetting(settingWindowHeight, defaultWindowHeight)
	if w < 800 {
		w = defaultWindowWidth
	}
	if h < 600 {
		h = defaultWindowHeight
	}
	return WindowSize{Width: w, Height: h}
}

// SaveWindowSize persists the current window dimensions.
func (s *SettingsService) SaveWindowSize(width, height int) error {
	if err := s.store.Set(settingWindowWidth, strconv.Itoa(width)); err != nil {
		return err
	}
	return s.store.Set(settingWindowHeight, strconv.Itoa(height))
}

// LastPageID returns the page that was open when the app last closed.
func (s *SettingsService) LastPageID() string {
	v, _, _ := s.store.Get(settingLastPage)
	return v
}

func (s *SettingsService) SetLastPageID(id string) error {
	return s.store.Set(settingLastPage, id)
}

func (s *SettingsService) intSetting(key string, def int) int {
	v, ok, err := s.store.Get(key)
	if err != nil || !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
