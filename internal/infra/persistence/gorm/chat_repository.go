package gormpersistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
)

// GormChatRepository is the GORM implementation of ChatRepository.
type GormChatRepository struct {
	db *gorm.DB
}

func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	if db == nil {
		panic("database connection cannot be nil for GormChatRepository")
	}
	return &GormChatRepository{db: db}
}

func (r *GormChatRepository) Save(ctx context.Context, chat *domain.Chat) error {
	err := r.db.WithContext(ctx).Create(chat).Error
	if err != nil {
		return fmt.Errorf("gorm: save chat (room %d, user %d): %w", chat.RoomID, chat.UserID, err)
	}
	return nil
}

func (r *GormChatRepository) ListByRoom(ctx context.Context, roomID uint) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id ASC").
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list chats for room %d: %w", roomID, err)
	}
	return chats, nil
}

func (r *GormChatRepository) ListRoomIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.Chat{}).
		Distinct("room_id").
		Pluck("room_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list chat room ids: %w", err)
	}
	return ids, nil
}

func (r *GormChatRepository) MarkErased(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&domain.Chat{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"erased":     true,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("gorm: mark %d chats erased: %w", len(ids), err)
	}
	return nil
}

func (r *GormChatRepository) DeleteErasedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("erased = ? AND updated_at < ?", true, cutoff).
		Delete(&domain.Chat{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: reap erased chats before %v: %w", cutoff, result.Error)
	}
	return result.RowsAffected, nil
}
