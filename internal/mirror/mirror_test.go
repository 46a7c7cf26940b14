package mirror_test

import (
	"os"
	"testing"
	"time"

	"ordna/internal/mirror"
)

type change struct {
	pageID, content string
}

func TestMirror_ReportsExternalEdits(t *testing.T) {
	changes := make(chan change, 4)
	m, err := mirror.New(t.TempDir(), func(id, content string) {
		changes <- change{id, content}
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer m.Close()

	if err := m.Write("page-1", "<p>ours</p>"); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(m.Path("page-1"))
	if err != nil || string(data) != "<p>ours</p>" {
		t.Fatalf("expected mirror file written, got %q (%v)", data, err)
	}

	if err := os.WriteFile(m.Path("page-1"), []byte("<p>theirs</p>\n"), 0644); err != nil {
		t.Fatalf("external write: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.content == "<p>ours</p>" {
				t.Fatal("own write reported as an external edit")
			}
			if c.pageID != "page-1" || c.content != "<p>theirs</p>" {
				t.Fatalf("unexpected change %+v", c)
			}
			return
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
}

func TestMirror_ForgetAndRemove(t *testing.T) {
	changes := make(chan change, 4)
	m, err := mirror.New(t.TempDir(), func(id, content string) {
		changes <- change{id, content}
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer m.Close()

	m.Write("page-2", "<p>x</p>")
	m.Forget("page-2")
	os.WriteFile(m.Path("page-2"), []byte("<p>y</p>"), 0644)

	select {
	case c := <-changes:
		t.Fatalf("forgotten page reported %+v", c)
	case <-time.After(300 * time.Millisecond):
	}

	if err := m.Remove("page-2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(m.Path("page-2")); !os.IsNotExist(err) {
		t.Error("expected mirror file removed")
	}
	if err := m.Remove("page-2"); err != nil {
		t.Errorf("removing a missing mirror should succeed, got %v", err)
	}
}
