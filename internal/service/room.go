package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
	"github.com/alpranjal28/mspaint-sub000/internal/repository"
)

// RoomService handles room lifecycle and membership.
type RoomService struct {
	roomRepo repository.RoomRepository
}

func NewRoomService(roomRepo repository.RoomRepository) *RoomService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for RoomService")
	}
	return &RoomService{roomRepo: roomRepo}
}

// Create creates a room owned by adminID with a fresh share code.
func (s *RoomService) Create(ctx context.Context, adminID uint, slug string) (*domain.Room, error) {
	logCtx := logrus.WithFields(logrus.Fields{"admin_id": adminID, "slug": slug})

	if slug == "" {
		return nil, fmt.Errorf("room slug is required")
	}

	shareCode, err := s.generateUniqueShareCode(ctx)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate unique share code")
		return nil, ErrInternalServer
	}

	room := &domain.Room{
		Slug:      slug,
		AdminID:   adminID,
		ShareCode: shareCode,
	}

	if err := s.roomRepo.Save(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Room creation failed: slug already taken")
			return nil, ErrSlugTaken
		}
		logCtx.WithError(err).Error("Failed to save new room")
		return nil, ErrInternalServer
	}

	logCtx.WithField("room_id", room.ID).Info("Room created")
	return room, nil
}

// JoinByShareCode redeems a share code and records the user as participant.
// The admin redeeming their own code is a no-op success.
func (s *RoomService) JoinByShareCode(ctx context.Context, userID uint, shareCode string) (*domain.Room, error) {
	logCtx := logrus.WithField("user_id", userID)

	room, err := s.roomRepo.FindByShareCode(ctx, shareCode)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			logCtx.Warn("Join failed: share code not found")
			return nil, ErrInvalidShareCode
		}
		logCtx.WithError(err).Error("Failed to look up share code")
		return nil, ErrInternalServer
	}
	logCtx = logCtx.WithField("room_id", room.ID)

	if room.AdminID != userID {
		if err := s.roomRepo.AddParticipant(ctx, room.ID, userID); err != nil {
			logCtx.WithError(err).Error("Failed to add participant")
			return nil, ErrInternalServer
		}
	}

	logCtx.Info("User joined room")
	return room, nil
}

// Leave removes the user's participant record. The admin cannot leave their
// own room; they delete it instead.
func (s *RoomService) Leave(ctx context.Context, userID, roomID uint) error {
	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.AdminID == userID {
		return ErrAdminCannotLeave
	}
	if err := s.roomRepo.RemoveParticipant(ctx, roomID, userID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).
			Error("Failed to remove participant")
		return ErrInternalServer
	}
	return nil
}

// Delete removes a room. Admin only.
func (s *RoomService) Delete(ctx context.Context, userID, roomID uint) error {
	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.AdminID != userID {
		return ErrNotRoomAdmin
	}
	if err := s.roomRepo.Delete(ctx, roomID); err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Error("Failed to delete room")
		return ErrInternalServer
	}
	logrus.WithFields(logrus.Fields{"room_id": roomID, "admin_id": userID}).Info("Room deleted")
	return nil
}

// ListForUser returns every room the user administers or joined.
func (s *RoomService) ListForUser(ctx context.Context, userID uint) ([]domain.Room, error) {
	rooms, err := s.roomRepo.ListForUser(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to list rooms")
		return nil, ErrInternalServer
	}
	return rooms, nil
}

// CanAccess reports whether the user is the room's admin or a participant.
func (s *RoomService) CanAccess(ctx context.Context, userID, roomID uint) (bool, error) {
	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	if room.AdminID == userID {
		return true, nil
	}
	joined, err := s.roomRepo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).
			Error("Failed to check participation")
		return false, ErrInternalServer
	}
	return joined, nil
}

// FindByID returns a room, mapping repository errors to service errors.
func (s *RoomService) FindByID(ctx context.Context, roomID uint) (*domain.Room, error) {
	return s.findRoom(ctx, roomID)
}

func (s *RoomService) findRoom(ctx context.Context, roomID uint) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		logrus.WithError(err).WithField("room_id", roomID).Error("Failed to find room")
		return nil, ErrInternalServer
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// generateUniqueShareCode draws codes from a large random space and retries
// on the rare collision; the persistence layer's unique index is the final
// arbiter.
func (s *RoomService) generateUniqueShareCode(ctx context.Context) (string, error) {
	const letters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	const codeLength = 16
	const maxAttempts = 10

	b := make([]byte, codeLength)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		for i := range b {
			b[i] = letters[int(b[i])%len(letters)]
		}
		code := string(b)

		taken, err := s.roomRepo.IsShareCodeTaken(ctx, code)
		if err != nil {
			return "", fmt.Errorf("database error checking share code: %w", err)
		}
		if !taken {
			return code, nil
		}
		logrus.Warnf("Generated share code already exists, retrying (attempt %d)", attempt+1)
	}
	return "", fmt.Errorf("failed to generate a unique share code after %d attempts", maxAttempts)
}
