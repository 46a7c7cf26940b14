package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"ordna/internal/domain"
)

const pageColumns = `id, title, content, icon, is_favorite, sort_order, created_at, updated_at, trashed_at`

// PageStore implements domain.PageStore using SQLite.
type PageStore struct {
	db *DB
}

func NewPageStore(db *DB) *PageStore {
	return &PageStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*domain.Page, error) {
	p := &domain.Page{}
	var trashed sql.NullTime
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Icon, &p.IsFavorite, &p.Order, &p.CreatedAt, &p.UpdatedAt, &trashed); err != nil {
		return nil, err
	}
	if trashed.Valid {
		t := trashed.Time
		p.TrashedAt = &t
	}
	return p, nil
}

func (s *PageStore) nextOrder() (int, error) {
	var next int
	err := s.db.conn.QueryRow(
		`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM pages WHERE trashed_at IS NULL`,
	).Scan(&next)
	return next, err
}

// CreatePage inserts p at the end of the page list.
func (s *PageStore) CreatePage(p *domain.Page) error {
	order, err := s.nextOrder()
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	now := time.Now().UTC()
	p.Order = order
	p.CreatedAt = now
	p.UpdatedAt = now
	p.TrashedAt = nil
	_, err = s.db.conn.Exec(
		`INSERT INTO pages (id, title, content, icon, is_favorite, sort_order, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Content, p.Icon, p.IsFavorite, p.Order, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetPage returns a page whether or not it is in the trash.
func (s *PageStore) GetPage(id string) (*domain.Page, error) {
	p, err := scanPage(s.db.conn.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return p, nil
}

// ListPages returns the pages outside the trash in sidebar order.
func (s *PageStore) ListPages() ([]domain.Page, error) {
	rows, err := s.db.conn.Query(
		`SELECT ` + pageColumns + ` FROM pages WHERE trashed_at IS NULL ORDER BY sort_order, created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []domain.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

func (s *PageStore) UpdatePage(p *domain.Page) error {
	p.UpdatedAt = time.Now().UTC()
	_, err := s.db.conn.Exec(
		`UPDATE pages SET title = ?, content = ?, icon = ?, is_favorite = ?, sort_order = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Content, p.Icon, p.IsFavorite, p.Order, p.UpdatedAt, p.ID,
	)
	return err
}

// UpdateContent saves a page's serialized document.
func (s *PageStore) UpdateContent(id, content string) error {
	res, err := s.db.conn.Exec(
		`UPDATE pages SET content = ?, updated_at = ? WHERE id = ?`,
		content, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update content: %w", sql.ErrNoRows)
	}
	return nil
}

func (s *PageStore) DeletePage(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM pages WHERE id = ?`, id)
	return err
}

// ── Trash ──────────────────────────────────────────────────

// ListTrash returns trashed pages, most recently trashed first.
func (s *PageStore) ListTrash() ([]domain.TrashItem, error) {
	rows, err := s.db.conn.Query(
		`SELECT ` + pageColumns + ` FROM pages WHERE trashed_at IS NOT NULL`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.TrashItem
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.TrashItem{ID: p.ID, Title: p.Title, Icon: p.Icon, TrashedAt: *p.TrashedAt})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Stored times are text; order by the parsed value.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TrashedAt.After(items[j].TrashedAt)
	})
	return items, nil
}

func (s *PageStore) MoveToTrash(id string) error {
	res, err := s.db.conn.Exec(
		`UPDATE pages SET trashed_at = ? WHERE id = ? AND trashed_at IS NULL`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("move to trash: %w", sql.ErrNoRows)
	}
	return nil
}

// RestorePage takes a page out of the trash and appends it to the list.
func (s *PageStore) RestorePage(id string) error {
	order, err := s.nextOrder()
	if err != nil {
		return fmt.Errorf("restore page: %w", err)
	}
	res, err := s.db.conn.Exec(
		`UPDATE pages SET trashed_at = NULL, sort_order = ?, updated_at = ? WHERE id = ? AND trashed_at IS NOT NULL`,
		order, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("restore page: %w", sql.ErrNoRows)
	}
	return nil
}

// PurgeTrashedBefore permanently deletes pages trashed before cutoff.
func (s *PageStore) PurgeTrashedBefore(cutoff time.Time) (int, error) {
	items, err := s.ListTrash()
	if err != nil {
		return 0, fmt.Errorf("purge trash: %w", err)
	}
	n := 0
	for _, it := range items {
		if !it.TrashedAt.Before(cutoff) {
			continue
		}
		if err := s.DeletePage(it.ID); err != nil {
			return n, fmt.Errorf("purge trash: %w", err)
		}
		n++
	}
	return n, nil
}

// EmptyTrash permanently deletes every trashed page.
func (s *PageStore) EmptyTrash() (int, error) {
	res, err := s.db.conn.Exec(`DELETE FROM pages WHERE trashed_at IS NOT NULL`)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
