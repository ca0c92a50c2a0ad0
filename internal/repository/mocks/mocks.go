// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
)

// UserRepository mocks repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Save(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// RoomRepository mocks repository.RoomRepository.
type RoomRepository struct {
	mock.Mock
}

func (m *RoomRepository) Save(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *RoomRepository) FindByID(ctx context.Context, id uint) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*domain.Room); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoomRepository) FindBySlug(ctx context.Context, slug string) (*domain.Room, error) {
	args := m.Called(ctx, slug)
	if r, ok := args.Get(0).(*domain.Room); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoomRepository) FindByShareCode(ctx context.Context, code string) (*domain.Room, error) {
	args := m.Called(ctx, code)
	if r, ok := args.Get(0).(*domain.Room); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoomRepository) IsShareCodeTaken(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *RoomRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RoomRepository) AddParticipant(ctx context.Context, roomID, userID uint) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *RoomRepository) RemoveParticipant(ctx context.Context, roomID, userID uint) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *RoomRepository) IsParticipant(ctx context.Context, roomID, userID uint) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *RoomRepository) ListForUser(ctx context.Context, userID uint) ([]domain.Room, error) {
	args := m.Called(ctx, userID)
	if r, ok := args.Get(0).([]domain.Room); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// ChatRepository mocks repository.ChatRepository.
type ChatRepository struct {
	mock.Mock
}

func (m *ChatRepository) Save(ctx context.Context, chat *domain.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *ChatRepository) ListByRoom(ctx context.Context, roomID uint) ([]domain.Chat, error) {
	args := m.Called(ctx, roomID)
	if c, ok := args.Get(0).([]domain.Chat); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChatRepository) ListRoomIDs(ctx context.Context) ([]uint, error) {
	args := m.Called(ctx)
	if ids, ok := args.Get(0).([]uint); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChatRepository) MarkErased(ctx context.Context, ids []uint) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *ChatRepository) DeleteErasedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
