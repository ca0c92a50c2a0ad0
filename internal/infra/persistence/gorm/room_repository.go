package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
	"github.com/alpranjal28/mspaint-sub000/internal/repository"
)

// GormRoomRepository is the GORM implementation of RoomRepository.
type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoomRepository")
	}
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) Save(ctx context.Context, room *domain.Room) error {
	err := r.db.WithContext(ctx).Save(room).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save room (slug: %s): %w", room.Slug, err)
	}
	return nil
}

func (r *GormRoomRepository) FindByID(ctx context.Context, id uint) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by id %d: %w", id, err)
	}
	return &room, nil
}

func (r *GormRoomRepository) FindBySlug(ctx context.Context, slug string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by slug '%s': %w", slug, err)
	}
	return &room, nil
}

func (r *GormRoomRepository) FindByShareCode(ctx context.Context, code string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).Where("share_code = ?", code).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by share code: %w", err)
	}
	return &room, nil
}

func (r *GormRoomRepository) IsShareCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Room{}).Where("share_code = ?", code).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: count rooms by share code: %w", err)
	}
	return count > 0, nil
}

func (r *GormRoomRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&domain.RoomParticipant{}).Error; err != nil {
			return fmt.Errorf("gorm: delete participants of room %d: %w", id, err)
		}
		if err := tx.Delete(&domain.Room{}, id).Error; err != nil {
			return fmt.Errorf("gorm: delete room %d: %w", id, err)
		}
		return nil
	})
}

func (r *GormRoomRepository) AddParticipant(ctx context.Context, roomID, userID uint) error {
	participant := domain.RoomParticipant{RoomID: roomID, UserID: userID}
	// joining twice is a no-op, not an error
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&participant).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return nil
		}
		return fmt.Errorf("gorm: add participant (room %d, user %d): %w", roomID, userID, err)
	}
	return nil
}

func (r *GormRoomRepository) RemoveParticipant(ctx context.Context, roomID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&domain.RoomParticipant{}).Error
	if err != nil {
		return fmt.Errorf("gorm: remove participant (room %d, user %d): %w", roomID, userID, err)
	}
	return nil
}

func (r *GormRoomRepository) IsParticipant(ctx context.Context, roomID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RoomParticipant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: count participants (room %d, user %d): %w", roomID, userID, err)
	}
	return count > 0, nil
}

func (r *GormRoomRepository) ListForUser(ctx context.Context, userID uint) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Distinct("rooms.*").
		Joins("LEFT JOIN room_participants ON room_participants.room_id = rooms.id").
		Where("rooms.admin_id = ? OR room_participants.user_id = ?", userID, userID).
		Order("rooms.id ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list rooms for user %d: %w", userID, err)
	}
	return rooms, nil
}
