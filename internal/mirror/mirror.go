package mirror

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ChangedHandler is called with the new markup when a mirrored page file is
// edited outside the app.
type ChangedHandler func(pageID string, content string)

// Mirror keeps an HTML copy of open pages on disk and reports edits made
// to those copies by other programs.
type Mirror struct {
	dir      string
	watcher  *fsnotify.Watcher
	onChange ChangedHandler

	mu       sync.RWMutex
	watching map[string]string // filePath -> pageID
	written  map[string]string // filePath -> last content we wrote
	done     chan struct{}
}

// New creates a mirror rooted at dir and starts watching it.
func New(dir string, onChange ChangedHandler) (*Mirror, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create mirror dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(abs); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch mirror dir: %w", err)
	}

	m := &Mirror{
		dir:      abs,
		watcher:  watcher,
		onChange: onChange,
		watching: make(map[string]string),
		written:  make(map[string]string),
		done:     make(chan struct{}),
	}
	go m.watchLoop()
	return m, nil
}

// Path returns the mirror file of a page.
func (m *Mirror) Path(pageID string) string {
	return filepath.Join(m.dir, pageID+".html")
}

// Write stores content as the page's mirror and starts watching it.
func (m *Mirror) Write(pageID, content string) error {
	path := m.Path(pageID)
	m.mu.Lock()
	m.watching[path] = pageID
	m.written[path] = content
	m.mu.Unlock()

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write mirror: %w", err)
	}
	return nil
}

// Forget stops reporting changes for a page. The file stays on disk.
func (m *Mirror) Forget(pageID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := m.Path(pageID)
	delete(m.watching, path)
	delete(m.written, path)
}

// Remove deletes the page's mirror file.
func (m *Mirror) Remove(pageID string) error {
	m.Forget(pageID)
	err := os.Remove(m.Path(pageID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close stops the watcher.
func (m *Mirror) Close() error {
	err := m.watcher.Close()
	<-m.done
	return err
}

func (m *Mirror) watchLoop() {
	defer close(m.done)
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				m.handle(event.Name)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("mirror: watcher error: %v", err)
		}
	}
}

func (m *Mirror) handle(name string) {
	absPath, err := filepath.Abs(name)
	if err != nil {
		return
	}
	m.mu.RLock()
	pageID, watched := m.watching[absPath]
	m.mu.RUnlock()
	if !watched {
		return
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		log.Printf("mirror: read file %s: %v", absPath, err)
		return
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		// truncated mid-save; the next write event carries the content
		return
	}

	m.mu.Lock()
	last, ok := m.written[absPath]
	self := ok && strings.TrimSpace(last) == content
	if !self {
		m.written[absPath] = content
	}
	m.mu.Unlock()

	if self || m.onChange == nil {
		return
	}
	m.onChange(pageID, content)
}
