package service

import "errors"

var (
	ErrPageNotFound      = errors.New("page not found")
	ErrLastPage          = errors.New("the last page cannot be moved to the trash")
	ErrTrashItemNotFound = errors.New("trash item not found")
)
