package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
	"github.com/alpranjal28/mspaint-sub000/internal/repository"
	"github.com/alpranjal28/mspaint-sub000/internal/repository/mocks"
	"github.com/alpranjal28/mspaint-sub000/internal/service"
)

func TestRoomService_Create_Success(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()

	mockRoomRepo.On("IsShareCodeTaken", ctx, mock.AnythingOfType("string")).
		Return(false, nil).
		Once()
	mockRoomRepo.On("Save", ctx, mock.MatchedBy(func(room *domain.Room) bool {
		assert.Equal(t, "standup-board", room.Slug)
		assert.Equal(t, uint(3), room.AdminID)
		assert.Len(t, room.ShareCode, 16)
		return true
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Room).ID = 7
		}).
		Return(nil).
		Once()

	room, err := roomService.Create(ctx, 3, "standup-board")

	require.NoError(t, err)
	assert.Equal(t, uint(7), room.ID)
	assert.NotEmpty(t, room.ShareCode)
	mockRoomRepo.AssertExpectations(t)
}

func TestRoomService_Create_SlugTaken(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()

	mockRoomRepo.On("IsShareCodeTaken", ctx, mock.AnythingOfType("string")).Return(false, nil)
	mockRoomRepo.On("Save", ctx, mock.AnythingOfType("*domain.Room")).
		Return(repository.ErrDuplicateEntry).
		Once()

	_, err := roomService.Create(ctx, 3, "taken")

	assert.ErrorIs(t, err, service.ErrSlugTaken)
}

func TestRoomService_Create_RetriesShareCodeCollision(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()

	mockRoomRepo.On("IsShareCodeTaken", ctx, mock.AnythingOfType("string")).Return(true, nil).Once()
	mockRoomRepo.On("IsShareCodeTaken", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	mockRoomRepo.On("Save", ctx, mock.AnythingOfType("*domain.Room")).Return(nil).Once()

	_, err := roomService.Create(ctx, 3, "board")

	require.NoError(t, err)
	mockRoomRepo.AssertExpectations(t)
}

func TestRoomService_JoinByShareCode_AddsParticipant(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()
	room := &domain.Room{ID: 7, AdminID: 1, ShareCode: "CODE"}

	mockRoomRepo.On("FindByShareCode", ctx, "CODE").Return(room, nil).Once()
	mockRoomRepo.On("AddParticipant", ctx, uint(7), uint(2)).Return(nil).Once()

	joined, err := roomService.JoinByShareCode(ctx, 2, "CODE")

	require.NoError(t, err)
	assert.Equal(t, uint(7), joined.ID)
	mockRoomRepo.AssertExpectations(t)
}

func TestRoomService_JoinByShareCode_AdminSelfJoinIsNoOp(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()
	room := &domain.Room{ID: 7, AdminID: 1, ShareCode: "CODE"}

	mockRoomRepo.On("FindByShareCode", ctx, "CODE").Return(room, nil).Once()

	_, err := roomService.JoinByShareCode(ctx, 1, "CODE")

	require.NoError(t, err)
	mockRoomRepo.AssertNotCalled(t, "AddParticipant")
}

func TestRoomService_JoinByShareCode_InvalidCode(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()

	mockRoomRepo.On("FindByShareCode", ctx, "NOPE").
		Return(nil, repository.ErrRoomNotFound).
		Once()

	_, err := roomService.JoinByShareCode(ctx, 2, "NOPE")

	assert.ErrorIs(t, err, service.ErrInvalidShareCode)
}

func TestRoomService_Leave_AdminRefused(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()

	mockRoomRepo.On("FindByID", ctx, uint(7)).
		Return(&domain.Room{ID: 7, AdminID: 1}, nil).
		Once()

	err := roomService.Leave(ctx, 1, 7)

	assert.ErrorIs(t, err, service.ErrAdminCannotLeave)
	mockRoomRepo.AssertNotCalled(t, "RemoveParticipant")
}

func TestRoomService_Leave_ParticipantRemoved(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()

	mockRoomRepo.On("FindByID", ctx, uint(7)).
		Return(&domain.Room{ID: 7, AdminID: 1}, nil).
		Once()
	mockRoomRepo.On("RemoveParticipant", ctx, uint(7), uint(2)).Return(nil).Once()

	err := roomService.Leave(ctx, 2, 7)

	require.NoError(t, err)
	mockRoomRepo.AssertExpectations(t)
}

func TestRoomService_Delete_OnlyAdmin(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()

	mockRoomRepo.On("FindByID", ctx, uint(7)).
		Return(&domain.Room{ID: 7, AdminID: 1}, nil).
		Twice()
	mockRoomRepo.On("Delete", ctx, uint(7)).Return(nil).Once()

	assert.ErrorIs(t, roomService.Delete(ctx, 2, 7), service.ErrNotRoomAdmin)
	assert.NoError(t, roomService.Delete(ctx, 1, 7))
	mockRoomRepo.AssertExpectations(t)
}

func TestRoomService_CanAccess(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()
	room := &domain.Room{ID: 7, AdminID: 1}

	mockRoomRepo.On("FindByID", ctx, uint(7)).Return(room, nil)
	mockRoomRepo.On("IsParticipant", ctx, uint(7), uint(2)).Return(true, nil).Once()
	mockRoomRepo.On("IsParticipant", ctx, uint(7), uint(3)).Return(false, nil).Once()

	admin, err := roomService.CanAccess(ctx, 1, 7)
	require.NoError(t, err)
	assert.True(t, admin)

	participant, err := roomService.CanAccess(ctx, 2, 7)
	require.NoError(t, err)
	assert.True(t, participant)

	stranger, err := roomService.CanAccess(ctx, 3, 7)
	require.NoError(t, err)
	assert.False(t, stranger)
}

func TestRoomService_FindByID_NotFound(t *testing.T) {
	mockRoomRepo := new(mocks.RoomRepository)
	roomService := service.NewRoomService(mockRoomRepo)
	ctx := context.Background()

	mockRoomRepo.On("FindByID", ctx, uint(99)).
		Return(nil, repository.ErrRoomNotFound).
		Once()

	_, err := roomService.FindByID(ctx, 99)

	assert.ErrorIs(t, err, service.ErrRoomNotFound)
}
