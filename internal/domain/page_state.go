package domain

// PageState is everything the sidebar needs after a page-level change:
// the active page, the live page list and the trash size.
type PageState struct {
	Page       Page   `json:"page"`
	Pages      []Page `json:"pages"`
	TrashCount int    `json:"trashCount"`
}
