package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry indicates a unique constraint violation.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

var (
	ErrUserNotFound = ErrNotFound
	ErrRoomNotFound = ErrNotFound
	ErrChatNotFound = ErrNotFound
)
