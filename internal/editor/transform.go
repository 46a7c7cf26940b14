package editor

import (
	"strconv"

	"golang.org/x/net/html"

	"ordna/internal/document"
)

// Action names a block-kind menu entry.
type Action string

const (
	ActionIndent    Action = "indent"
	ActionOutdent   Action = "outdent"
	ActionHeading1  Action = "h1"
	ActionHeading2  Action = "h2"
	ActionHeading3  Action = "h3"
	ActionHeading4  Action = "h4"
	ActionParagraph Action = "paragraph"
	ActionUnordered Action = "ul"
	ActionOrdered   Action = "ol"
	ActionTodo      Action = "todo"
	ActionQuote     Action = "quote"
	ActionDivider   Action = "divider"
	ActionTable     Action = "table"
)

// MenuItem is one entry of the block-kind menu.
type MenuItem struct {
	Action Action `json:"action"`
	Label  string `json:"label"`
}

// MenuItems is the block-kind menu, in display order.
var MenuItems = []MenuItem{
	{ActionIndent, "Indent"},
	{ActionOutdent, "Outdent"},
	{ActionHeading1, "Heading 1"},
	{ActionHeading2, "Heading 2"},
	{ActionHeading3, "Heading 3"},
	{ActionHeading4, "Heading 4"},
	{ActionParagraph, "Text"},
	{ActionUnordered, "Bulleted list"},
	{ActionOrdered, "Numbered list"},
	{ActionTodo, "To-do list"},
	{ActionQuote, "Quote"},
	{ActionDivider, "Divider"},
	{ActionTable, "Table"},
}

var kindActions = map[Action]document.Kind{
	ActionHeading1:  document.KindHeading1,
	ActionHeading2:  document.KindHeading2,
	ActionHeading3:  document.KindHeading3,
	ActionHeading4:  document.KindHeading4,
	ActionParagraph: document.KindParagraph,
	ActionQuote:     document.KindQuote,
	ActionDivider:   document.KindDivider,
	ActionTable:     document.KindTable,
}

var listActions = map[Action]document.Kind{
	ActionUnordered: document.KindUnorderedList,
	ActionOrdered:   document.KindOrderedList,
	ActionTodo:      document.KindTodoList,
}

// ParseAction validates a menu action name.
func ParseAction(s string) (Action, bool) {
	a := Action(s)
	if _, ok := kindActions[a]; ok {
		return a, true
	}
	if _, ok := listActions[a]; ok {
		return a, true
	}
	return a, a == ActionIndent || a == ActionOutdent
}

// TableColumns is the width of a fresh table skeleton.
const TableColumns = 3

// Transformer converts blocks between kinds. Every method takes the target
// block explicitly and reports whether the document changed; a target that
// is not in doc is a no-op.
type Transformer struct {
	// PreserveInlineStyles keeps inline runs when converting to headings,
	// paragraphs and quotes. Off, only the plain text survives.
	PreserveInlineStyles bool
}

// Apply runs a menu action on target and returns the block that now holds
// its content.
func (t *Transformer) Apply(doc *document.Document, target *document.Block, a Action) (*document.Block, bool) {
	if !doc.Contains(target) || target.Kind.IsContainer() {
		return nil, false
	}
	switch a {
	case ActionIndent:
		return target, t.Indent(doc, target, 1)
	case ActionOutdent:
		return target, t.Indent(doc, target, -1)
	}
	if k, ok := kindActions[a]; ok {
		return t.SetKind(doc, target, k)
	}
	if k, ok := listActions[a]; ok {
		return t.WrapList(doc, target, k)
	}
	return nil, false
}

// SetKind replaces target with a block of kind k carrying its text and
// indent. Other attributes are dropped. An item is first lifted out of its
// list.
func (t *Transformer) SetKind(doc *document.Document, target *document.Block, k document.Kind) (*document.Block, bool) {
	if !doc.Contains(target) || target.Kind.IsContainer() || k.IsContainer() || k.IsItem() || k == document.KindRaw {
		return nil, false
	}
	nb := &document.Block{Kind: k, Indent: target.Indent}
	switch {
	case k == document.KindDivider:
	case k == document.KindTable:
		nb.Table = TableSkeleton()
	case t.PreserveInlineStyles && target.Kind.HasText():
		nb.Runs = document.CloneRuns(target.Runs)
	default:
		if text := target.Text(); text != "" {
			nb.Runs = []document.Run{{Text: text}}
		}
	}
	if target.Parent() != nil {
		doc.LiftItem(target)
	}
	if !doc.ReplaceBlock(target, nb) {
		return nil, false
	}
	return nb, true
}

// WrapList moves target into a list container of kind ck, reusing the
// preceding sibling when it is already such a container. Items are left
// alone, except that a plain list item may become a to-do.
func (t *Transformer) WrapList(doc *document.Document, target *document.Block, ck document.Kind) (*document.Block, bool) {
	if !doc.Contains(target) || target.Kind.IsContainer() || !ck.IsContainer() {
		return nil, false
	}
	if target.Kind.IsItem() {
		if ck != document.KindTodoList || target.Kind == document.KindTodoItem {
			return nil, false
		}
		doc.LiftItem(target)
	}

	item := &document.Block{
		Kind:     ck.ItemKind(),
		Indent:   target.Indent,
		Attrs:    classOnly(target.Attrs),
		Trailing: target.Trailing,
	}
	if target.Kind.HasText() {
		item.Runs = document.CloneRuns(target.Runs)
	} else if text := target.Text(); text != "" {
		item.Runs = []document.Run{{Text: text}}
	}

	container := target.PrevSibling()
	if container == nil || container.Kind != ck {
		container = document.NewBlock(ck)
		if !doc.InsertContainerBefore(target, container) {
			return nil, false
		}
	}
	doc.RemoveBlock(target)
	doc.AppendItem(container, item)
	return item, true
}

// ToggleTodo flips the completed flag of a to-do item.
func (t *Transformer) ToggleTodo(doc *document.Document, item *document.Block) bool {
	if !doc.Contains(item) || item.Kind != document.KindTodoItem {
		return false
	}
	item.Completed = !item.Completed
	return true
}

// Indent shifts target by delta levels, never below zero.
func (t *Transformer) Indent(doc *document.Document, target *document.Block, delta int) bool {
	if !doc.Contains(target) {
		return false
	}
	n := max(target.Indent+delta, 0)
	if n == target.Indent {
		return false
	}
	target.Indent = n
	return true
}

// TableSkeleton returns a table with one header row and one body row of
// placeholder cells.
func TableSkeleton() *document.Table {
	head := make([]document.Cell, TableColumns)
	body := make([]document.Cell, TableColumns)
	for i := range TableColumns {
		n := strconv.Itoa(i + 1)
		head[i] = document.Cell{Header: true, Runs: []document.Run{{Text: "Column " + n}}}
		body[i] = document.Cell{Runs: []document.Run{{Text: "Cell " + n}}}
	}
	return &document.Table{Head: [][]document.Cell{head}, Body: [][]document.Cell{body}}
}

func classOnly(attrs []html.Attribute) []html.Attribute {
	for _, a := range attrs {
		if a.Namespace == "" && a.Key == "class" {
			return []html.Attribute{a}
		}
	}
	return nil
}
