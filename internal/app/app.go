package app

import (
	"context"
	"sync"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"ordna/internal/config"
	"ordna/internal/document"
	"ordna/internal/editor"
	"ordna/internal/mirror"
	"ordna/internal/service"
	"ordna/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context
	cfg *config.Config

	db       *storage.DB
	pages    *service.PageService
	trash    *service.TrashService
	settings *service.SettingsService
	session  *editor.Session
	mirror   *mirror.Mirror
	watcher  *pageWatcher

	// Serializes editor events, page switches and external reloads, so a
	// change always lands on the page the document was loaded from
	editMu sync.Mutex

	// Open page and the contents this process saved for it
	mu     sync.Mutex
	pageID string
	saves  saveLog
}

// New creates a new App.
func New() *App {
	return &App{}
}

// runtimeEmitter sends service events to the frontend.
type runtimeEmitter struct{}

func (runtimeEmitter) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}

// settleScheduler delays caret checks like editor.TimerScheduler and pushes
// the resulting surface state to the frontend.
type settleScheduler struct {
	editor.TimerScheduler
	after func()
}

func (s settleScheduler) After(d time.Duration, fn func()) func() {
	return s.TimerScheduler.After(d, func() {
		fn()
		s.after()
	})
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	cfg, err := config.Load()
	if err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to load config, using defaults: %v", err)
		cfg = config.Default()
	}
	a.cfg = cfg

	db, err := storage.New(cfg.DBPath(), cfg.MirrorDir())
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db

	store := storage.NewPageStore(db)
	emitter := runtimeEmitter{}
	a.pages = service.NewPageService(store, emitter, document.WithIndentStep(cfg.Editor.IndentStepPx))
	a.trash = service.NewTrashService(store, emitter)
	a.settings = service.NewSettingsService(storage.NewSettingsStore(db))

	a.session = editor.NewSession(editor.Options{
		IndentStep:           cfg.Editor.IndentStepPx,
		SelectionDelay:       cfg.Editor.SelectionDelay,
		PreserveInlineStyles: cfg.Editor.PreserveInlineStyles,
	}, settleScheduler{after: a.emitSurface}, a.onContentChanged)

	if cfg.Mirror.Enabled {
		m, err := mirror.New(cfg.MirrorDir(), a.onMirrorEdit)
		if err != nil {
			wailsRuntime.LogErrorf(ctx, "Failed to start page mirror: %v", err)
		}
		a.mirror = m
	}

	if err := a.trash.StartRetention(ctx, cfg.Trash.RetentionDays, cfg.Trash.PurgeSchedule); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to schedule trash purge: %v", err)
	}
	if n, err := a.trash.PurgeExpired(ctx, cfg.Trash.RetentionDays); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to purge trash: %v", err)
	} else if n > 0 {
		wailsRuntime.LogInfof(ctx, "Purged %d expired page(s) from the trash", n)
	}

	a.watcher = newPageWatcher(ctx, a, cfg.Watcher.Interval)
	a.watcher.Start()

	size := a.settings.LoadWindowSize()
	wailsRuntime.WindowSetSize(ctx, size.Width, size.Height)
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.session != nil {
		a.editMu.Lock()
		a.flushOpenPage()
		a.editMu.Unlock()
	}
	if a.settings != nil {
		w, h := wailsRuntime.WindowGetSize(ctx)
		if err := a.settings.SaveWindowSize(w, h); err != nil {
			wailsRuntime.LogErrorf(ctx, "Failed to save window size: %v", err)
		}
	}
	if a.trash != nil {
		a.trash.StopRetention()
	}
	if a.mirror != nil {
		a.mirror.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// ── Content flow ───────────────────────────────────────────

// onContentChanged runs after every session mutation, inside an editor
// binding holding editMu: it persists the serialization and refreshes the
// mirror.
func (a *App) onContentChanged() {
	html := a.session.HTML()

	a.mu.Lock()
	pageID := a.pageID
	if pageID != "" {
		a.saves.record(pageID, html)
	}
	a.mu.Unlock()
	if pageID == "" {
		return
	}

	if err := a.pages.UpdateContent(a.ctx, pageID, html); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "Failed to save page %s: %v", pageID, err)
		return
	}
	if a.mirror != nil {
		if err := a.mirror.Write(pageID, html); err != nil {
			wailsRuntime.LogErrorf(a.ctx, "Failed to mirror page %s: %v", pageID, err)
		}
	}
}

// flushOpenPage saves the open page and clears every control. Callers hold
// editMu.
func (a *App) flushOpenPage() {
	html := a.session.Flush()
	a.mu.Lock()
	pageID := a.pageID
	dirty := pageID != "" && html != a.saves.last()
	if dirty {
		a.saves.record(pageID, html)
	}
	a.mu.Unlock()
	if !dirty {
		return
	}
	if err := a.pages.UpdateContent(a.ctx, pageID, html); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "Failed to save page %s: %v", pageID, err)
	}
}

// reloadOpenPage replaces the open document with content written by
// another process and pushes a fresh frame.
func (a *App) reloadOpenPage(pageID, content string) {
	a.editMu.Lock()
	defer a.editMu.Unlock()

	a.mu.Lock()
	open := a.pageID == pageID && !a.saves.contains(pageID, content)
	if open {
		a.saves.record(pageID, content)
	}
	a.mu.Unlock()
	if !open {
		return
	}
	if err := a.session.Load(content); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "Failed to reload page %s: %v", pageID, err)
		return
	}
	wailsRuntime.EventsEmit(a.ctx, "editor:reloaded", map[string]any{
		"pageId": pageID,
		"frame":  a.session.Frame(),
	})
}

// onMirrorEdit applies an edit made to a mirror file in another program.
func (a *App) onMirrorEdit(pageID, content string) {
	if a.savedRecently(pageID, content) {
		return
	}
	if err := a.pages.UpdateContent(a.ctx, pageID, content); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "Failed to save mirrored edit of %s: %v", pageID, err)
		return
	}
	a.reloadOpenPage(pageID, content)
}

// savedRecently reports whether content is one of this process's recent
// saves of the open page.
func (a *App) savedRecently(pageID, content string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves.contains(pageID, content)
}

func (a *App) emitSurface() {
	wailsRuntime.EventsEmit(a.ctx, "editor:surface", a.session.View())
}
