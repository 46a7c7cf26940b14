package storage_test

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ordna/internal/domain"
	"ordna/internal/storage"
)

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "ordna.db"), filepath.Join(dir, "pages"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createPage(t *testing.T, s *storage.PageStore, id, title string) *domain.Page {
	t.Helper()
	p := &domain.Page{ID: id, Title: title, Content: "<p>" + title + "</p>", Icon: "📄"}
	if err := s.CreatePage(p); err != nil {
		t.Fatalf("create %s: %v", id, err)
	}
	return p
}

func TestNew_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ordna.db")
	for i := 0; i < 2; i++ {
		db, err := storage.New(path, dir)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		db.Close()
	}
}

func TestPageStore_CreateGetList(t *testing.T) {
	s := storage.NewPageStore(openDB(t))
	a := createPage(t, s, "a", "First")
	b := createPage(t, s, "b", "Second")
	if a.Order != 0 || b.Order != 1 {
		t.Errorf("expected orders 0 and 1, got %d and %d", a.Order, b.Order)
	}

	got, err := s.GetPage("b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Second" || got.Content != "<p>Second</p>" || got.InTrash() {
		t.Errorf("unexpected page %+v", got)
	}

	pages, err := s.ListPages()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pages) != 2 || pages[0].ID != "a" || pages[1].ID != "b" {
		t.Errorf("unexpected page list %+v", pages)
	}

	if _, err := s.GetPage("missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
}

func TestPageStore_UpdateContentAndFavorite(t *testing.T) {
	s := storage.NewPageStore(openDB(t))
	p := createPage(t, s, "a", "First")
	if err := s.UpdateContent("a", "<h1>x</h1>"); err != nil {
		t.Fatalf("update content: %v", err)
	}
	p.IsFavorite = true
	p.Title = "Renamed"
	p.Content = "<h1>x</h1>"
	if err := s.UpdatePage(p); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := s.GetPage("a")
	if got.Content != "<h1>x</h1>" || !got.IsFavorite || got.Title != "Renamed" {
		t.Errorf("unexpected page %+v", got)
	}
	if err := s.UpdateContent("missing", "x"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
}

func TestPageStore_TrashLifecycle(t *testing.T) {
	s := storage.NewPageStore(openDB(t))
	createPage(t, s, "a", "First")
	createPage(t, s, "b", "Second")
	createPage(t, s, "c", "Third")

	if err := s.MoveToTrash("a"); err != nil {
		t.Fatalf("trash: %v", err)
	}
	if err := s.MoveToTrash("a"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected second trash to miss, got %v", err)
	}
	pages, _ := s.ListPages()
	if len(pages) != 2 {
		t.Fatalf("expected 2 live pages, got %d", len(pages))
	}
	items, _ := s.ListTrash()
	if len(items) != 1 || items[0].ID != "a" || items[0].Title != "First" {
		t.Fatalf("unexpected trash %+v", items)
	}

	if err := s.RestorePage("a"); err != nil {
		t.Fatalf("restore: %v", err)
	}
	pages, _ = s.ListPages()
	if len(pages) != 3 || pages[2].ID != "a" {
		t.Errorf("expected restored page appended last, got %+v", pages)
	}

	s.MoveToTrash("b")
	s.MoveToTrash("c")
	n, err := s.EmptyTrash()
	if err != nil || n != 2 {
		t.Errorf("expected 2 purged, got %d (%v)", n, err)
	}
	if _, err := s.GetPage("b"); err == nil {
		t.Error("expected b deleted permanently")
	}
}

func TestPageStore_PurgeTrashedBefore(t *testing.T) {
	s := storage.NewPageStore(openDB(t))
	createPage(t, s, "a", "First")
	createPage(t, s, "b", "Second")
	s.MoveToTrash("a")

	n, err := s.PurgeTrashedBefore(time.Now().Add(-time.Hour))
	if err != nil || n != 0 {
		t.Fatalf("expected nothing purged yet, got %d (%v)", n, err)
	}
	n, err = s.PurgeTrashedBefore(time.Now().Add(time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("expected one purge, got %d (%v)", n, err)
	}
	if _, err := s.GetPage("b"); err != nil {
		t.Errorf("live page must survive the purge: %v", err)
	}
}

func TestSettingsStore(t *testing.T) {
	s := storage.NewSettingsStore(openDB(t))
	if _, ok, err := s.Get("last_page"); ok || err != nil {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	s.Set("last_page", "a")
	s.Set("last_page", "b")
	v, ok, err := s.Get("last_page")
	if err != nil || !ok || v != "b" {
		t.Errorf("expected b, got %q ok=%v err=%v", v, ok, err)
	}
}
