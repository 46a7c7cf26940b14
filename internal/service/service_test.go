package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ordna/internal/document"
	"ordna/internal/domain"
	"ordna/internal/service"
	"ordna/internal/storage"
)

type fixture struct {
	emitter  *service.MockEmitter
	pages    *service.PageService
	trash    *service.TrashService
	settings *service.SettingsService
	store    *storage.PageStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "ordna.db"), filepath.Join(dir, "pages"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	store := storage.NewPageStore(db)
	emitter := &service.MockEmitter{}
	return &fixture{
		emitter:  emitter,
		pages:    service.NewPageService(store, emitter),
		trash:    service.NewTrashService(store, emitter),
		settings: service.NewSettingsService(storage.NewSettingsStore(db)),
		store:    store,
	}
}

func (f *fixture) create(t *testing.T, title string) *domain.Page {
	t.Helper()
	p, err := f.pages.CreatePage(context.Background(), title, "")
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return p
}

// ─────────────────────────────────────────────────────────────
// jobGuard
// ─────────────────────────────────────────────────────────────

func TestJobGuard_TryLock(t *testing.T) {
	var g service.JobGuard

	if !g.TryLock("purge") {
		t.Fatal("expected first TryLock to succeed")
	}
	if g.TryLock("purge") {
		t.Fatal("expected second TryLock for the same job to fail")
	}
	g.Unlock("purge")
	if !g.TryLock("purge") {
		t.Fatal("expected TryLock to succeed after unlock")
	}
	g.Unlock("purge")
}

func TestJobGuard_WaitAll(t *testing.T) {
	var g service.JobGuard
	g.TryLock("purge")

	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		g.WaitAll(ctx)
		close(done)
	}()
	go func() {
		time.Sleep(20 * time.Millisecond)
		g.Unlock("purge")
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitAll timed out")
	}
}

// ─────────────────────────────────────────────────────────────
// PageService
// ─────────────────────────────────────────────────────────────

func TestPageService_EnsureWelcomePage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.pages.EnsureWelcomePage(ctx)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if first.Title != "My First Page" || first.Icon != service.DefaultIcon {
		t.Errorf("unexpected welcome page %+v", first)
	}
	again, _ := f.pages.EnsureWelcomePage(ctx)
	if again.ID != first.ID {
		t.Error("expected the existing page on second call")
	}
	pages, _ := f.pages.ListPages()
	if len(pages) != 1 {
		t.Errorf("expected exactly one page, got %d", len(pages))
	}
}

func TestPageService_CreateDefaultsAndCanonicalContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.create(t, "  ")
	if p.Title != service.UntitledTitle {
		t.Errorf("expected untitled page, got %q", p.Title)
	}
	if p.Content != "<p>Start writing your new page...</p>" {
		t.Errorf("unexpected default content %q", p.Content)
	}

	q, err := f.pages.CreatePage(ctx, "Notes", `<P>one</P><p style="margin-left:40px">two</p>`)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if q.Content != `<p>one</p><p style="margin-left: 40px">two</p>` {
		t.Errorf("expected canonical content, got %q", q.Content)
	}
	if f.emitter.Count("pages:changed") != 2 {
		t.Errorf("expected two pages:changed events, got %d", f.emitter.Count("pages:changed"))
	}
}

func TestPageService_CreateKeepsConfiguredIndentStep(t *testing.T) {
	f := newFixture(t)
	pages := service.NewPageService(f.store, f.emitter, document.WithIndentStep(30))
	p, err := pages.CreatePage(context.Background(), "Wide", `<p style="margin-left: 30px">x</p><p style="margin-left:60px">y</p>`)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := `<p style="margin-left: 30px">x</p><p style="margin-left: 60px">y</p>`
	if p.Content != want {
		t.Errorf("expected %s, got %s", want, p.Content)
	}
}

func TestPageService_RenameIconFavorite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.create(t, "Draft")

	got, err := f.pages.RenamePage(ctx, p.ID, "")
	if err != nil || got.Title != service.UntitledTitle {
		t.Errorf("expected empty rename to reset the title, got %q (%v)", got.Title, err)
	}
	f.pages.RenamePage(ctx, p.ID, "Plans")
	f.pages.SetIcon(ctx, p.ID, "💡")
	f.pages.ToggleFavorite(ctx, p.ID)

	stored, _ := f.pages.GetPage(p.ID)
	if stored.Title != "Plans" || stored.Icon != "💡" || !stored.IsFavorite {
		t.Errorf("unexpected page %+v", stored)
	}
	if _, err := f.pages.RenamePage(ctx, "missing", "x"); !errors.Is(err, service.ErrPageNotFound) {
		t.Errorf("expected ErrPageNotFound, got %v", err)
	}
}

func TestPageService_Duplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.pages.CreatePage(ctx, "Plans", "<h1>Q3</h1>")
	f.pages.SetIcon(ctx, p.ID, "🎯")

	dup, err := f.pages.DuplicatePage(ctx, p.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.ID == p.ID || dup.Title != "Plans (copy)" || dup.Content != "<h1>Q3</h1>" || dup.Icon != "🎯" {
		t.Errorf("unexpected copy %+v", dup)
	}
	pages, _ := f.pages.ListPages()
	if pages[len(pages)-1].ID != dup.ID {
		t.Error("expected the copy at the end of the list")
	}
}

func TestPageService_Search(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Straße Plans")
	f.create(t, "Groceries")
	f.create(t, "STRASSE notes")

	got, err := f.pages.Search("strasse")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected case-folded matches for both spellings, got %+v", got)
	}
	all, _ := f.pages.Search("")
	if len(all) != 3 {
		t.Errorf("expected empty term to match all, got %d", len(all))
	}
}

func TestPageService_UpdateContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.create(t, "A")
	if err := f.pages.UpdateContent(ctx, p.ID, "<h2>x</h2>"); err != nil {
		t.Fatalf("update: %v", err)
	}
	stored, _ := f.pages.GetPage(p.ID)
	if stored.Content != "<h2>x</h2>" {
		t.Errorf("unexpected content %q", stored.Content)
	}
	if f.emitter.Count("page:saved") != 1 {
		t.Error("expected a page:saved event")
	}
	if err := f.pages.UpdateContent(ctx, "missing", "x"); !errors.Is(err, service.ErrPageNotFound) {
		t.Errorf("expected ErrPageNotFound, got %v", err)
	}
}

func TestNextPageAfterDeletion(t *testing.T) {
	pages := []domain.Page{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	tests := []struct {
		index int
		want  string
	}{
		{0, "a"},
		{2, "c"},
		{3, "c"},
		{-1, "a"},
	}
	for _, tt := range tests {
		if got := service.NextPageAfterDeletion(pages, tt.index); got.ID != tt.want {
			t.Errorf("index %d: expected %s, got %s", tt.index, tt.want, got.ID)
		}
	}
	if service.NextPageAfterDeletion(nil, 0) != nil {
		t.Error("expected nil for an empty list")
	}
}

// ─────────────────────────────────────────────────────────────
// TrashService
// ─────────────────────────────────────────────────────────────

func TestTrashService_LastPageProtected(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Only")
	if _, err := f.trash.MoveToTrash(context.Background(), p.ID); !errors.Is(err, service.ErrLastPage) {
		t.Errorf("expected ErrLastPage, got %v", err)
	}
}

func TestTrashService_MoveRestoreDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, "A")
	b := f.create(t, "B")
	c := f.create(t, "C")

	next, err := f.trash.MoveToTrash(ctx, b.ID)
	if err != nil {
		t.Fatalf("trash: %v", err)
	}
	if next.ID != c.ID {
		t.Errorf("expected C to take B's slot, got %s", next.Title)
	}
	next, _ = f.trash.MoveToTrash(ctx, c.ID)
	if next.ID != a.ID {
		t.Errorf("expected A after trashing the last page, got %s", next.Title)
	}
	if n, _ := f.trash.Count(); n != 2 {
		t.Errorf("expected 2 trashed, got %d", n)
	}

	restored, err := f.trash.Restore(ctx, b.ID)
	if err != nil || restored.InTrash() {
		t.Fatalf("restore: %v", err)
	}
	if _, err := f.trash.Restore(ctx, b.ID); !errors.Is(err, service.ErrTrashItemNotFound) {
		t.Errorf("expected ErrTrashItemNotFound, got %v", err)
	}

	if err := f.trash.DeletePermanently(ctx, a.ID); !errors.Is(err, service.ErrTrashItemNotFound) {
		t.Errorf("live pages cannot be deleted permanently, got %v", err)
	}
	if err := f.trash.DeletePermanently(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.pages.GetPage(c.ID); !errors.Is(err, service.ErrPageNotFound) {
		t.Errorf("expected C gone, got %v", err)
	}
}

func TestTrashService_Empty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "A")
	b := f.create(t, "B")
	c := f.create(t, "C")
	f.trash.MoveToTrash(ctx, b.ID)
	f.trash.MoveToTrash(ctx, c.ID)

	n, err := f.trash.Empty(ctx)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 removed, got %d (%v)", n, err)
	}
	items, _ := f.trash.List()
	if len(items) != 0 {
		t.Errorf("expected empty trash, got %+v", items)
	}
}

func TestTrashService_PurgeExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "A")
	b := f.create(t, "B")
	f.trash.MoveToTrash(ctx, b.ID)

	if n, _ := f.trash.PurgeExpired(ctx, 0); n != 0 {
		t.Error("zero retention must keep trashed pages")
	}
	if n, _ := f.trash.PurgeExpired(ctx, 30); n != 0 {
		t.Error("fresh trash must survive a 30 day retention")
	}
	f.trash.SetClock(func() time.Time { return time.Now().Add(31 * 24 * time.Hour) })
	n, err := f.trash.PurgeExpired(ctx, 30)
	if err != nil || n != 1 {
		t.Fatalf("expected one purge, got %d (%v)", n, err)
	}
}

func TestTrashService_StartRetention(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.trash.StartRetention(ctx, 30, "not a schedule"); err == nil {
		t.Error("expected invalid cron expression to fail")
	}
	if err := f.trash.StartRetention(ctx, 30, "@every 1h"); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.trash.StopRetention()
	f.trash.StopRetention()
}

// ─────────────────────────────────────────────────────────────
// SettingsService
// ─────────────────────────────────────────────────────────────

func TestSettingsService(t *testing.T) {
	f := newFixture(t)
	if got := f.settings.LoadWindowSize(); got != (service.WindowSize{Width: 1280, Height: 800}) {
		t.Errorf("unexpected default size %+v", got)
	}
	f.settings.SaveWindowSize(1500, 950)
	if got := f.settings.LoadWindowSize(); got != (service.WindowSize{Width: 1500, Height: 950}) {
		t.Errorf("unexpected saved size %+v", got)
	}
	f.settings.SaveWindowSize(300, 200)
	if got := f.settings.LoadWindowSize(); got != (service.WindowSize{Width: 1280, Height: 800}) {
		t.Errorf("expected tiny sizes to fall back, got %+v", got)
	}

	if f.settings.LastPageID() != "" {
		t.Error("expected no last page")
	}
	f.settings.SetLastPageID("abc")
	if f.settings.LastPageID() != "abc" {
		t.Error("expected last page persisted")
	}
}
