package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
	"github.com/alpranjal28/mspaint-sub000/internal/repository"
)

// ChatService is the persistence capability behind the room gateway: it
// validates and appends payload messages, and serves the room history the
// client-side loader fetches on mount.
type ChatService struct {
	chatRepo repository.ChatRepository
}

func NewChatService(chatRepo repository.ChatRepository) *ChatService {
	if chatRepo == nil {
		panic("ChatRepository cannot be nil for ChatService")
	}
	return &ChatService{chatRepo: chatRepo}
}

// PersistPayload validates message as a Payload and appends it to the room
// log under the authenticated user's id. The caller never passes a
// client-supplied user id here.
func (s *ChatService) PersistPayload(ctx context.Context, roomID, userID uint, message string) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID})

	if _, err := domain.ParsePayload([]byte(message)); err != nil {
		logCtx.WithError(err).Warn("Rejecting malformed payload message")
		return ErrInvalidPayload
	}

	chat := &domain.Chat{
		RoomID:  roomID,
		UserID:  userID,
		Message: message,
	}
	if err := s.chatRepo.Save(ctx, chat); err != nil {
		logCtx.WithError(err).Error("Failed to persist chat message")
		return ErrInternalServer
	}
	return nil
}

// History returns the room's chat log in insertion order, erased flags
// included; filtering is the loader's concern.
func (s *ChatService) History(ctx context.Context, roomID uint) ([]domain.Chat, error) {
	chats, err := s.chatRepo.ListByRoom(ctx, roomID)
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Error("Failed to load chat history")
		return nil, ErrInternalServer
	}
	return chats, nil
}
