package editor_test

import (
	"testing"

	"ordna/internal/editor"
)

func TestPlaceToolbar(t *testing.T) {
	vp := editor.Size{Width: 1280, Height: 800}
	tests := []struct {
		name string
		sel  editor.Rect
		vp   editor.Size
		want editor.Position
	}{
		{"centred above", editor.Rect{X: 500, Y: 300, Width: 100, Height: 20}, vp, editor.Position{X: 450, Y: 250}},
		{"flipped below near top", editor.Rect{X: 500, Y: 30, Width: 100, Height: 20}, vp, editor.Position{X: 450, Y: 60}},
		{"clamped left", editor.Rect{X: 0, Y: 300, Width: 20, Height: 20}, vp, editor.Position{X: 10, Y: 250}},
		{"clamped right", editor.Rect{X: 550, Y: 300, Width: 40, Height: 20}, editor.Size{Width: 600, Height: 800}, editor.Position{X: 390, Y: 250}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := editor.PlaceToolbar(tt.sel, tt.vp)
			if !ok {
				t.Fatal("expected a placement")
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}

	if _, ok := editor.PlaceToolbar(editor.Rect{X: 10, Y: 10}, vp); ok {
		t.Error("zero sized selection has no placement")
	}
}

func TestPlaceTriggerAndBlockMenu(t *testing.T) {
	block := editor.Rect{X: 400, Y: 100, Width: 400, Height: 24}
	if got := editor.PlaceTrigger(block); got != (editor.Position{X: 365, Y: 100}) {
		t.Errorf("unexpected trigger position %+v", got)
	}
	if got := editor.PlaceBlockMenu(block, editor.Size{Width: 1280, Height: 800}); got != (editor.Position{X: 40, Y: 62}) {
		t.Errorf("unexpected menu position %+v", got)
	}
	narrow := editor.Rect{X: 100, Y: 20, Width: 400, Height: 24}
	if got := editor.PlaceBlockMenu(narrow, editor.Size{Width: 1280, Height: 800}); got != (editor.Position{X: 10, Y: 10}) {
		t.Errorf("expected menu clamped into the viewport, got %+v", got)
	}
}

func TestPlaceMenu(t *testing.T) {
	vp := editor.Size{Width: 1280, Height: 800}
	menu := editor.Size{Width: 200, Height: 150}
	tests := []struct {
		name   string
		button editor.Rect
		want   editor.Position
	}{
		{"left of button", editor.Rect{X: 300, Y: 100, Width: 20, Height: 20}, editor.Position{X: 100, Y: 125}},
		{"right when no room", editor.Rect{X: 50, Y: 100, Width: 20, Height: 20}, editor.Position{X: 75, Y: 125}},
		{"above near bottom", editor.Rect{X: 300, Y: 700, Width: 20, Height: 20}, editor.Position{X: 100, Y: 545}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := editor.PlaceMenu(tt.button, menu, vp); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
