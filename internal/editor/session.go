package editor

import (
	"strings"
	"sync"
	"time"

	"ordna/internal/document"
)

// Options configures a Session.
type Options struct {
	IndentStep           int
	SelectionDelay       time.Duration
	PreserveInlineStyles bool
}

// Pointer is a pointer event on the editing surface.
type Pointer struct {
	// Target is the event target's path from the editor element.
	Target document.NodePath `json:"target"`
	// Block is the bounding box of the line element under the pointer.
	Block    Rect `json:"block"`
	Viewport Size `json:"viewport"`
}

// SelectionInput is the display surface's selection. A nil Anchor means
// there is no selection inside the editor.
type SelectionInput struct {
	Anchor       document.NodePath `json:"anchor"`
	AnchorOffset int               `json:"anchorOffset"`
	Focus        document.NodePath `json:"focus"`
	FocusOffset  int               `json:"focusOffset"`
	Bounds       Rect              `json:"bounds"`
	Line         Rect              `json:"line"`
	Viewport     Size              `json:"viewport"`
}

// Key is a keyboard event.
type Key struct {
	Key  string `json:"key"`
	Ctrl bool   `json:"ctrl"`
	Meta bool   `json:"meta"`
}

var shortcutStyles = map[string]document.Style{
	"b": document.Bold,
	"i": document.Italic,
	"u": document.Underline,
}

var caretKeys = map[string]bool{
	"ArrowUp": true, "ArrowDown": true, "ArrowLeft": true, "ArrowRight": true, "Enter": true,
}

// Caret is a selection to restore after the surface re-renders.
type Caret struct {
	Anchor       document.NodePath `json:"anchor"`
	AnchorOffset int               `json:"anchorOffset"`
	Focus        document.NodePath `json:"focus"`
	FocusOffset  int               `json:"focusOffset"`
}

// Frame is what the display surface needs after an event. HTML is set only
// when the model was re-rendered since the previous frame.
type Frame struct {
	HTML  string `json:"html,omitempty"`
	Caret *Caret `json:"caret,omitempty"`
	View
}

// Session is the editing state of one open page. Every entry point takes
// the session lock; the content-changed listener runs after the lock is
// released, once per mutation.
type Session struct {
	mu       sync.Mutex
	opts     Options
	sched    Scheduler
	onChange func()

	doc         *document.Document
	proj        *document.Projection
	surface     *Surface
	tracker     *Tracker
	transformer Transformer
	formatter   Formatter

	rendered     bool
	cancelSettle func()
}

// NewSession returns a session over an empty document. onChange may be nil.
func NewSession(opts Options, sched Scheduler, onChange func()) *Session {
	if opts.SelectionDelay <= 0 {
		opts.SelectionDelay = DefaultSelectionDelay
	}
	if opts.IndentStep <= 0 {
		opts.IndentStep = document.DefaultIndentStep
	}
	if sched == nil {
		sched = TimerScheduler{}
	}
	surface := &Surface{}
	s := &Session{
		opts:        opts,
		sched:       sched,
		onChange:    onChange,
		surface:     surface,
		tracker:     NewTracker(surface),
		transformer: Transformer{PreserveInlineStyles: opts.PreserveInlineStyles},
	}
	s.doc = document.New(document.WithIndentStep(opts.IndentStep))
	s.proj = document.Project(s.doc)
	return s
}

// OnChange replaces the content-changed listener.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// run executes fn under the lock. When fn reports a mutation the model is
// re-projected and the listener is notified.
func (s *Session) run(fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	if changed {
		s.proj = document.Project(s.doc)
		s.rendered = true
	}
	listener := s.onChange
	s.mu.Unlock()
	if changed && listener != nil {
		listener()
	}
	return changed
}

// Load replaces the document with persisted HTML. It does not signal a
// content change.
func (s *Session) Load(src string) error {
	doc, err := document.Parse(src, document.WithIndentStep(s.opts.IndentStep))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSettle()
	s.doc = doc
	s.proj = document.Project(doc)
	s.rendered = true
	s.tracker.Reset()
	return nil
}

// Input re-reads the surface's markup after the user typed. The parsed tree
// becomes the projection, so the surface keeps its DOM.
func (s *Session) Input(src string) error {
	doc, proj, err := document.ParseProjection(src, document.WithIndentStep(s.opts.IndentStep))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.rendered = false
	match := blockMatcher(s.proj, proj, doc)
	s.doc, s.proj = doc, proj
	s.tracker.Remap(match)
	listener := s.onChange
	s.mu.Unlock()
	if listener != nil {
		listener()
	}
	return nil
}

// HTML returns the current serialization.
func (s *Session) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return document.Serialize(s.doc)
}

// Flush returns the serialization and closes every control, ready for the
// session to be reloaded with another page.
func (s *Session) Flush() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSettle()
	s.tracker.Reset()
	return document.Serialize(s.doc)
}

// PointerEnter marks the block under the pointer as the hover candidate.
func (s *Session) PointerEnter(p Pointer) {
	s.run(func() bool {
		s.tracker.PointerEnter(s.proj.LocatePath(p.Target), p.Block)
		return false
	})
}

func (s *Session) PointerLeave(p Pointer) {
	s.run(func() bool {
		s.tracker.PointerLeave(s.proj.LocatePath(p.Target))
		return false
	})
}

// Click shows the trigger for the clicked line and toggles a to-do item
// when the item element itself was hit.
func (s *Session) Click(p Pointer) bool {
	return s.run(func() bool {
		node := s.proj.Resolve(p.Target)
		if node == nil {
			return false
		}
		b := s.proj.Locate(node)
		if b == nil {
			return false
		}
		s.tracker.PointerEnter(b, p.Block)
		s.scheduleSettle()
		if b.Kind == document.KindTodoItem && s.proj.NodeOf(b) == node {
			return s.transformer.ToggleTodo(s.doc, b)
		}
		return false
	})
}

// KeyDown handles the format shortcuts. It reports whether the key was
// consumed.
func (s *Session) KeyDown(k Key) bool {
	if !k.Ctrl && !k.Meta {
		return false
	}
	style, ok := shortcutStyles[strings.ToLower(k.Key)]
	if !ok {
		return false
	}
	s.run(func() bool { return s.toggle(style) })
	return true
}

// KeyUp schedules a caret check after navigation keys.
func (s *Session) KeyUp(k Key) {
	if !caretKeys[k.Key] {
		return
	}
	s.mu.Lock()
	s.scheduleSettle()
	s.mu.Unlock()
}

// SelectionChanged feeds the surface's selection to the tracker.
func (s *Session) SelectionChanged(in SelectionInput) {
	s.run(func() bool {
		if s.tracker.SelectionChanged(s.resolve(in)) {
			s.scheduleSettle()
		}
		return false
	})
}

// TriggerClicked opens the block-kind menu for the trigger's block.
func (s *Session) TriggerClicked(vp Size) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.OpenMenu(vp)
}

// MenuAction applies a block-kind menu action to the menu's block, or to
// the tracked block when no menu is open. The menu closes either way.
func (s *Session) MenuAction(name string) bool {
	return s.run(func() bool {
		a, ok := ParseAction(name)
		target := s.surface.MenuTarget()
		if target == nil {
			target = s.tracker.Block()
		}
		s.surface.CloseMenu()
		if !ok || target == nil {
			return false
		}
		nb, changed := s.transformer.Apply(s.doc, target, a)
		if changed && nb != target {
			s.tracker.Retarget(target, nb)
		}
		return changed
	})
}

// Format toggles an inline style over the current range selection.
func (s *Session) Format(style string) bool {
	st, ok := document.ParseStyle(style)
	if !ok {
		return false
	}
	return s.run(func() bool { return s.toggle(st) })
}

// PointerDownOutside hides every control.
func (s *Session) PointerDownOutside() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSettle()
	s.tracker.Reset()
}

// State returns the tracker state and its block.
func (s *Session) State() (TrackerState, *document.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.State(), s.tracker.Block()
}

// Document returns the live document. Callers must not mutate it.
func (s *Session) Document() *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// View returns the surface state without consuming a pending render.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.View(s.proj)
}

// Frame returns the surface state and, when the model was re-rendered
// since the last frame, the new markup and the selection to restore.
func (s *Session) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := Frame{View: s.surface.View(s.proj)}
	if !s.rendered {
		return f
	}
	s.rendered = false
	f.HTML = s.proj.HTML()
	if sel := s.tracker.Selection(); sel.Kind != SelectionEmpty {
		a, ao, ok1 := s.proj.Locus(sel.Range.Start)
		b, bo, ok2 := s.proj.Locus(sel.Range.End)
		if ok1 && ok2 {
			f.Caret = &Caret{Anchor: a, AnchorOffset: ao, Focus: b, FocusOffset: bo}
		}
	}
	return f
}

// blockMatcher pairs blocks of the previous projection with blocks of a
// re-read document. The data-block tag decides first; a surface that split
// a line copies the tag, so equal text breaks the tie. Untagged blocks
// match on text when exactly one new block has it.
func blockMatcher(prev, next *document.Projection, doc *document.Document) func(*document.Block) *document.Block {
	byTag := map[int][]*document.Block{}
	byText := map[string][]*document.Block{}
	for _, b := range doc.Leaves() {
		if tag, ok := next.Tag(b); ok {
			byTag[tag] = append(byTag[tag], b)
		}
		byText[b.Text()] = append(byText[b.Text()], b)
	}
	return func(old *document.Block) *document.Block {
		text := old.Text()
		if tag, ok := prev.Tag(old); ok {
			if cands := byTag[tag]; len(cands) > 0 {
				for _, c := range cands {
					if c.Text() == text {
						return c
					}
				}
				return cands[0]
			}
		}
		if cands := byText[text]; len(cands) == 1 {
			return cands[0]
		}
		return nil
	}
}

func (s *Session) toggle(style document.Style) bool {
	sel := s.tracker.Selection()
	if sel.Kind != SelectionRange {
		return false
	}
	if !s.formatter.Toggle(s.doc, sel.Range, style) {
		return false
	}
	sel.Active = s.formatter.ActiveStyles(s.doc, sel.Range)
	s.tracker.sel = sel
	s.surface.SetActive(sel.Active)
	return true
}

func (s *Session) resolve(in SelectionInput) SelectionState {
	st := SelectionState{Bounds: in.Bounds, Line: in.Line, Viewport: in.Viewport}
	if in.Anchor == nil || in.Focus == nil {
		return st
	}
	a, ok1 := s.proj.Point(in.Anchor, in.AnchorOffset)
	f, ok2 := s.proj.Point(in.Focus, in.FocusOffset)
	if !ok1 || !ok2 {
		return st
	}
	r := OrderedRange(s.doc, a, f)
	st.Range, st.Block = r, r.Start.Block
	if r.Collapsed() {
		st.Kind = SelectionCaret
		return st
	}
	st.Kind = SelectionRange
	st.Text = RangeText(s.doc, r)
	st.Active = s.formatter.ActiveStyles(s.doc, r)
	return st
}

// scheduleSettle replaces any pending caret check. Callers hold s.mu.
func (s *Session) scheduleSettle() {
	s.stopSettle()
	s.cancelSettle = s.sched.After(s.opts.SelectionDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cancelSettle = nil
		s.tracker.Settle()
	})
}

func (s *Session) stopSettle() {
	if s.cancelSettle != nil {
		s.cancelSettle()
		s.cancelSettle = nil
	}
}
