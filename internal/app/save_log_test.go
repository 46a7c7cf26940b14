package app

import (
	"fmt"
	"testing"
)

func TestSaveLog_StaleReadOfOwnSave(t *testing.T) {
	var l saveLog
	l.reset("p1", "<p>v0</p>")
	l.record("p1", "<p>v1</p>")
	// a keystroke lands after the watcher read v1
	l.record("p1", "<p>v2</p>")

	if !l.contains("p1", "<p>v1</p>") {
		t.Error("an older save of ours must not look like an external edit")
	}
	if l.last() != "<p>v2</p>" {
		t.Errorf("expected last save v2, got %s", l.last())
	}
	if l.contains("p1", "<p>from elsewhere</p>") {
		t.Error("unknown content must look external")
	}
}

func TestSaveLog_PageSwitchForgets(t *testing.T) {
	var l saveLog
	l.reset("p1", "<p>a</p>")
	l.record("p2", "<p>b</p>")
	if l.contains("p1", "<p>a</p>") || l.contains("p2", "<p>a</p>") {
		t.Error("saves of the previous page must be forgotten")
	}
	if !l.contains("p2", "<p>b</p>") {
		t.Error("expected the new page's save")
	}
}

func TestSaveLog_Bounded(t *testing.T) {
	var l saveLog
	l.reset("p", "v0")
	for i := 1; i <= saveLogSize+4; i++ {
		l.record("p", fmt.Sprintf("v%d", i))
	}
	if len(l.entries) != saveLogSize {
		t.Fatalf("expected %d entries, got %d", saveLogSize, len(l.entries))
	}
	if l.contains("p", "v0") {
		t.Error("oldest save should have been dropped")
	}
	l.record("p", l.last())
	if len(l.entries) != saveLogSize {
		t.Error("repeating the last save should not grow the log")
	}
}
