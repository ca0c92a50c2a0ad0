package repository

import (
	"context"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
)

// RoomRepository defines room and participant storage.
type RoomRepository interface {
	// Save creates or updates a room. Returns ErrDuplicateEntry when the
	// slug or share code collides.
	Save(ctx context.Context, room *domain.Room) error

	// FindByID returns a room by primary key, ErrRoomNotFound if absent.
	FindByID(ctx context.Context, id uint) (*domain.Room, error)

	// FindBySlug returns a room by its unique slug.
	FindBySlug(ctx context.Context, slug string) (*domain.Room, error)

	// FindByShareCode returns the room a share code grants access to.
	FindByShareCode(ctx context.Context, code string) (*domain.Room, error)

	// IsShareCodeTaken reports whether a share code is already in use.
	IsShareCodeTaken(ctx context.Context, code string) (bool, error)

	// Delete removes the room and its participant records.
	Delete(ctx context.Context, id uint) error

	// AddParticipant records a user joining a room. Adding an existing
	// participant is a no-op.
	AddParticipant(ctx context.Context, roomID, userID uint) error

	// RemoveParticipant removes a join record; removing a non-member is a
	// no-op.
	RemoveParticipant(ctx context.Context, roomID, userID uint) error

	// IsParticipant reports whether the user joined the room via share code.
	IsParticipant(ctx context.Context, roomID, userID uint) (bool, error)

	// ListForUser returns every room the user administers or joined.
	ListForUser(ctx context.Context, userID uint) ([]domain.Room, error)
}
