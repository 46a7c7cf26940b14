package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"ordna/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Trash Service: soft delete, restore and retention purge
// ─────────────────────────────────────────────────────────────

const (
	eventTrashChange = "trash:changed"
	purgeJob         = "trash-purge"
)

// TrashService moves pages in and out of the trash.
type TrashService struct {
	store   domain.PageStore
	emitter EventEmitter
	now     func() time.Time

	// retention purge lifecycle
	mu        sync.Mutex
	cronSched *cron.Cron
	guard     jobGuard
}

// NewTrashService creates a TrashService.
func NewTrashService(store domain.PageStore, emitter EventEmitter) *TrashService {
	return &TrashService{store: store, emitter: emitter, now: time.Now}
}

// MoveToTrash trashes a live page and returns the page to show in its
// place. The last live page cannot be trashed.
func (s *TrashService) MoveToTrash(ctx context.Context, id string) (*domain.Page, error) {
	pages, err := s.store.ListPages()
	if err != nil {
		return nil, fmt.Errorf("move to trash: %w", err)
	}
	index := -1
	for i, p := range pages {
		if p.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrPageNotFound
	}
	if len(pages) < 2 {
		return nil, ErrLastPage
	}
	if err := s.store.MoveToTrash(id); err != nil {
		return nil, fmt.Errorf("move to trash: %w", notFound(err))
	}
	rest := append(pages[:index:index], pages[index+1:]...)
	s.emitter.Emit(ctx, eventTrashChange, nil)
	s.emitter.Emit(ctx, eventPagesChange, nil)
	return NextPageAfterDeletion(rest, index), nil
}

// Restore puts a trashed page back at the end of the page list.
func (s *TrashService) Restore(ctx context.Context, id string) (*domain.Page, error) {
	if err := s.store.RestorePage(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrashItemNotFound
		}
		return nil, fmt.Errorf("restore: %w", err)
	}
	p, err := s.store.GetPage(id)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", notFound(err))
	}
	s.emitter.Emit(ctx, eventTrashChange, nil)
	s.emitter.Emit(ctx, eventPagesChange, nil)
	return p, nil
}

// DeletePermanently removes a trashed page for good.
func (s *TrashService) DeletePermanently(ctx context.Context, id string) error {
	p, err := s.store.GetPage(id)
	if err != nil || !p.InTrash() {
		return ErrTrashItemNotFound
	}
	if err := s.store.DeletePage(id); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	s.emitter.Emit(ctx, eventTrashChange, nil)
	return nil
}

// Empty deletes every trashed page and returns how many were removed.
func (s *TrashService) Empty(ctx context.Context) (int, error) {
	n, err := s.store.EmptyTrash()
	if err != nil {
		return 0, fmt.Errorf("empty trash: %w", err)
	}
	if n > 0 {
		s.emitter.Emit(ctx, eventTrashChange, nil)
	}
	return n, nil
}

func (s *TrashService) List() ([]domain.TrashItem, error) {
	return s.store.ListTrash()
}

func (s *TrashService) Count() (int, error) {
	items, err := s.store.ListTrash()
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// ── Retention (cron) ───────────────────────────────────────

// PurgeExpired deletes pages that have been in the trash for longer than
// retentionDays. Zero keeps everything.
func (s *TrashService) PurgeExpired(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	if !s.guard.TryLock(purgeJob) {
		return 0, nil
	}
	defer s.guard.Unlock(purgeJob)

	cutoff := s.now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	n, err := s.store.PurgeTrashedBefore(cutoff)
	if err != nil {
		return n, err
	}
	if n > 0 {
		s.emitter.Emit(ctx, eventTrashChange, nil)
	}
	return n, nil
}

// StartRetention schedules PurgeExpired with a cron expression, replacing any
// previous schedule.
func (s *TrashService) StartRetention(ctx context.Context, retentionDays int, schedule string) error {
	s.StopRetention()
	if retentionDays <= 0 {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		n, err := s.PurgeExpired(ctx, retentionDays)
		if err != nil {
			log.Printf("trash cron: purge failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("trash cron: purged %d page(s)", n)
		}
	})
	if err != nil {
		return fmt.Errorf("trash cron: invalid expression %q: %w", schedule, err)
	}
	c.Start()

	s.mu.Lock()
	s.cronSched = c
	s.mu.Unlock()
	log.Printf("trash cron: retention %d day(s), schedule %q", retentionDays, schedule)
	return nil
}

// StopRetention stops the schedule and waits for a purge in flight.
func (s *TrashService) StopRetention() {
	s.mu.Lock()
	c := s.cronSched
	s.cronSched = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.guard.WaitAll(ctx)
}

// SetClock replaces the time source used by the retention purge.
func (s *TrashService) SetClock(now func() time.Time) {
	s.now = now
}
