package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"ordna/internal/document"
	"ordna/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Page Service: business logic for pages
// ─────────────────────────────────────────────────────────────

const (
	DefaultIcon      = "📄"
	UntitledTitle    = "Untitled page"
	newPageContent   = `<p>Start writing your new page...</p>`
	welcomeTitle     = "My First Page"
	welcomeContent   = `<p>Welcome to Ordna! This is your first page.</p><p>You can:</p><ul><li>Create new pages with "New page"</li><li>Edit the page title by clicking the edit icon</li><li>Write and format your content</li><li>Move between pages in the sidebar</li></ul>`
	copyTitleSuffix  = " (copy)"
	eventPagesChange = "pages:changed"
	eventPageSaved   = "page:saved"
)

// PageIcons is the icon picker's palette.
var PageIcons = []string{
	"📄", "📝", "📖", "📚", "📓", "📔", "📒", "📃", "📋", "📌",
	"💡", "💭", "💬", "💼", "🎯", "🎨", "🎭", "🎪", "🎟️", "🎫",
	"📱", "💻", "🖥️", "⌨️", "🖱️", "📷", "🎥", "📺", "📻", "🎵",
	"🏠", "🏢", "🏭", "🏪", "🏫", "🏥", "🏦", "🏧", "🏨", "🏩",
	"🌍", "🌎", "🌏", "🌐", "🗺️", "🗾", "🌋", "🗻", "🏔️", "⛰️",
	"❤️", "🧡", "💛", "💚", "💙", "💜", "🖤", "🤍", "🤎", "💔",
	"⭐", "🌟", "✨", "⚡", "💫", "🌈", "☀️", "🌤️", "⛅", "🌥️",
}

// PageService manages the page list and page content.
type PageService struct {
	store   domain.PageStore
	emitter EventEmitter
	docOpts []document.Option
}

// NewPageService creates a PageService. docOpts configure how page content
// is parsed, so stored indents use the editor's step.
func NewPageService(store domain.PageStore, emitter EventEmitter, docOpts ...document.Option) *PageService {
	return &PageService{store: store, emitter: emitter, docOpts: docOpts}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPageNotFound
	}
	return err
}

// EnsureWelcomePage creates the first page when the page list is empty and
// returns the first page either way.
func (s *PageService) EnsureWelcomePage(ctx context.Context) (*domain.Page, error) {
	pages, err := s.store.ListPages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	if len(pages) > 0 {
		return &pages[0], nil
	}
	p := &domain.Page{
		ID:      uuid.New().String(),
		Title:   welcomeTitle,
		Content: welcomeContent,
		Icon:    DefaultIcon,
	}
	if err := s.store.CreatePage(p); err != nil {
		return nil, fmt.Errorf("create welcome page: %w", err)
	}
	s.emitter.Emit(ctx, eventPagesChange, nil)
	return p, nil
}

func (s *PageService) ListPages() ([]domain.Page, error) {
	return s.store.ListPages()
}

func (s *PageService) GetPage(id string) (*domain.Page, error) {
	p, err := s.store.GetPage(id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// CreatePage adds a page at the end of the list. An empty title or content
// gets the new-page defaults; content is stored in its canonical form.
func (s *PageService) CreatePage(ctx context.Context, title, content string) (*domain.Page, error) {
	if strings.TrimSpace(title) == "" {
		title = UntitledTitle
	}
	if strings.TrimSpace(content) == "" {
		content = newPageContent
	}
	canonical, err := s.canonicalContent(content)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	p := &domain.Page{
		ID:      uuid.New().String(),
		Title:   title,
		Content: canonical,
		Icon:    DefaultIcon,
	}
	if err := s.store.CreatePage(p); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	s.emitter.Emit(ctx, eventPagesChange, nil)
	return p, nil
}

func (s *PageService) RenamePage(ctx context.Context, id, title string) (*domain.Page, error) {
	return s.modify(ctx, id, func(p *domain.Page) {
		title = strings.TrimSpace(title)
		if title == "" {
			title = UntitledTitle
		}
		p.Title = title
	})
}

func (s *PageService) SetIcon(ctx context.Context, id, icon string) (*domain.Page, error) {
	if strings.TrimSpace(icon) == "" {
		icon = DefaultIcon
	}
	return s.modify(ctx, id, func(p *domain.Page) { p.Icon = icon })
}

func (s *PageService) ToggleFavorite(ctx context.Context, id string) (*domain.Page, error) {
	return s.modify(ctx, id, func(p *domain.Page) { p.IsFavorite = !p.IsFavorite })
}

// DuplicatePage copies title, content and icon into a new page at the end
// of the list.
func (s *PageService) DuplicatePage(ctx context.Context, id string) (*domain.Page, error) {
	orig, err := s.GetPage(id)
	if err != nil {
		return nil, err
	}
	p := &domain.Page{
		ID:      uuid.New().String(),
		Title:   orig.Title + copyTitleSuffix,
		Content: orig.Content,
		Icon:    orig.Icon,
	}
	if err := s.store.CreatePage(p); err != nil {
		return nil, fmt.Errorf("duplicate page: %w", err)
	}
	s.emitter.Emit(ctx, eventPagesChange, nil)
	return p, nil
}

// UpdateContent saves the serialized document of a page.
func (s *PageService) UpdateContent(ctx context.Context, id, content string) error {
	if err := s.store.UpdateContent(id, content); err != nil {
		return fmt.Errorf("update content: %w", notFound(err))
	}
	s.emitter.Emit(ctx, eventPageSaved, map[string]string{"pageId": id})
	return nil
}

// Search returns the live pages whose title contains term, ignoring case.
// An empty term matches every page.
func (s *PageService) Search(term string) ([]domain.Page, error) {
	pages, err := s.store.ListPages()
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(term))
	if needle == "" {
		return pages, nil
	}
	var out []domain.Page
	for _, p := range pages {
		if strings.Contains(fold.String(p.Title), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

// PageState bundles the page with the sidebar lists.
func (s *PageService) PageState(id string) (*domain.PageState, error) {
	p, err := s.GetPage(id)
	if err != nil {
		return nil, err
	}
	pages, err := s.store.ListPages()
	if err != nil {
		return nil, err
	}
	trash, err := s.store.ListTrash()
	if err != nil {
		return nil, err
	}
	return &domain.PageState{Page: *p, Pages: pages, TrashCount: len(trash)}, nil
}

func (s *PageService) modify(ctx context.Context, id string, fn func(p *domain.Page)) (*domain.Page, error) {
	p, err := s.GetPage(id)
	if err != nil {
		return nil, err
	}
	fn(p)
	if err := s.store.UpdatePage(p); err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	s.emitter.Emit(ctx, eventPagesChange, nil)
	return p, nil
}

// NextPageAfterDeletion picks the page to show once the page at index was
// removed from pages: the one that slid into its slot, else the new last.
func NextPageAfterDeletion(pages []domain.Page, index int) *domain.Page {
	if len(pages) == 0 {
		return nil
	}
	if index < 0 {
		index = 0
	}
	if index > len(pages)-1 {
		index = len(pages) - 1
	}
	return &pages[index]
}

func (s *PageService) canonicalContent(src string) (string, error) {
	doc, err := document.Parse(src, s.docOpts...)
	if err != nil {
		return "", err
	}
	return document.Serialize(doc), nil
}
