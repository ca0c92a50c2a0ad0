package repository

import (
	"context"
	"time"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
)

// ChatRepository defines the append-only chat log storage plus the two
// retention mutations reserved for the background sweep.
type ChatRepository interface {
	// Save appends one chat record.
	Save(ctx context.Context, chat *domain.Chat) error

	// ListByRoom returns the room's chat log ordered by insertion.
	ListByRoom(ctx context.Context, roomID uint) ([]domain.Chat, error)

	// ListRoomIDs returns the distinct room ids present in the log.
	ListRoomIDs(ctx context.Context) ([]uint, error)

	// MarkErased soft-deletes the given records.
	MarkErased(ctx context.Context, ids []uint) error

	// DeleteErasedBefore hard-deletes erased records whose last update is
	// older than cutoff. Returns the number of rows removed.
	DeleteErasedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
