package service

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username or email already exists")
	ErrSlugTaken            = errors.New("room name already taken")
	ErrInvalidShareCode     = errors.New("invalid share code")
	ErrNotRoomAdmin         = errors.New("only the room admin may do this")
	ErrAdminCannotLeave     = errors.New("the admin cannot leave their own room")
	ErrInvalidPayload       = errors.New("invalid payload data")
	ErrInternalServer       = errors.New("internal server error")
)
