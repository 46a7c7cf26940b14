package domain

import "time"

type Page struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Icon       string     `json:"icon"`
	IsFavorite bool       `json:"isFavorite"`
	Order      int        `json:"order"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	TrashedAt  *time.Time `json:"trashedAt,omitempty"`
}

// InTrash reports whether the page was moved to the trash.
func (p *Page) InTrash() bool {
	return p.TrashedAt != nil
}

// TrashItem is the trash listing view of a page.
type TrashItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Icon      string    `json:"icon"`
	TrashedAt time.Time `json:"trashedAt"`
}

type PageStore interface {
	CreatePage(p *Page) error
	GetPage(id string) (*Page, error)
	ListPages() ([]Page, error)
	UpdatePage(p *Page) error
	UpdateContent(id, content string) error
	DeletePage(id string) error

	ListTrash() ([]TrashItem, error)
	MoveToTrash(id string) error
	RestorePage(id string) error
	PurgeTrashedBefore(cutoff time.Time) (int, error)
	EmptyTrash() (int, error)
}
