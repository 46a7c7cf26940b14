package document

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// Kind identifies what a block is: a text block, an atomic block, a list
// container, or an item inside one.
type Kind int

const (
	KindParagraph Kind = iota
	KindGeneric        // bare <div> line, as produced by contenteditable
	KindHeading1
	KindHeading2
	KindHeading3
	KindHeading4
	KindHeading5
	KindHeading6
	KindQuote
	KindDivider
	KindTable
	KindListItem
	KindTodoItem
	KindUnorderedList
	KindOrderedList
	KindTodoList
	KindRaw // markup the editor does not model, kept verbatim
)

var kindNames = map[Kind]string{
	KindParagraph:     "paragraph",
	KindGeneric:       "generic",
	KindHeading1:      "h1",
	KindHeading2:      "h2",
	KindHeading3:      "h3",
	KindHeading4:      "h4",
	KindHeading5:      "h5",
	KindHeading6:      "h6",
	KindQuote:         "quote",
	KindDivider:       "divider",
	KindTable:         "table",
	KindListItem:      "list-item",
	KindTodoItem:      "todo-item",
	KindUnorderedList: "unordered-list",
	KindOrderedList:   "ordered-list",
	KindTodoList:      "todo-list",
	KindRaw:           "raw",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// HeadingKind returns the heading kind for level 1..6.
func HeadingKind(level int) (Kind, bool) {
	if level < 1 || level > 6 {
		return 0, false
	}
	return KindHeading1 + Kind(level-1), true
}

// HeadingLevel returns 1..6 for heading kinds and 0 otherwise.
func (k Kind) HeadingLevel() int {
	if k >= KindHeading1 && k <= KindHeading6 {
		return int(k-KindHeading1) + 1
	}
	return 0
}

// IsContainer reports whether blocks of this kind hold list or todo items.
func (k Kind) IsContainer() bool {
	return k == KindUnorderedList || k == KindOrderedList || k == KindTodoList
}

// IsItem reports whether the kind lives inside a container.
func (k Kind) IsItem() bool {
	return k == KindListItem || k == KindTodoItem
}

// HasText reports whether blocks of this kind carry inline runs.
func (k Kind) HasText() bool {
	switch k {
	case KindDivider, KindTable, KindRaw, KindUnorderedList, KindOrderedList, KindTodoList:
		return false
	}
	return true
}

// ItemKind returns the item kind a container of kind k holds.
func (k Kind) ItemKind() Kind {
	if k == KindTodoList {
		return KindTodoItem
	}
	return KindListItem
}

func (k Kind) atom() atom.Atom {
	switch k {
	case KindParagraph:
		return atom.P
	case KindGeneric:
		return atom.Div
	case KindHeading1:
		return atom.H1
	case KindHeading2:
		return atom.H2
	case KindHeading3:
		return atom.H3
	case KindHeading4:
		return atom.H4
	case KindHeading5:
		return atom.H5
	case KindHeading6:
		return atom.H6
	case KindQuote:
		return atom.Blockquote
	case KindDivider:
		return atom.Hr
	case KindTable:
		return atom.Table
	case KindListItem, KindTodoItem:
		return atom.Li
	case KindUnorderedList, KindTodoList:
		return atom.Ul
	case KindOrderedList:
		return atom.Ol
	}
	return 0
}
