package app

import (
	"ordna/internal/domain"
	"ordna/internal/editor"
)

// PageView is returned whenever the open page changes: the sidebar state
// plus the first frame of the editor.
type PageView struct {
	State *domain.PageState `json:"state"`
	Frame editor.Frame      `json:"frame"`
}

// KeyResult tells the frontend whether to suppress the browser's default
// handling of a key.
type KeyResult struct {
	Handled bool         `json:"handled"`
	Frame   editor.Frame `json:"frame"`
}
