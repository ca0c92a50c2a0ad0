package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
	"github.com/alpranjal28/mspaint-sub000/internal/repository"
	"github.com/alpranjal28/mspaint-sub000/internal/repository/mocks"
	"github.com/alpranjal28/mspaint-sub000/internal/service"
)

const testSecret = "very-secret-key"

func newAuthService(t *testing.T, repo repository.UserRepository) *service.AuthService {
	t.Helper()
	svc, err := service.NewAuthService(repo, testSecret, 1)
	require.NoError(t, err)
	return svc
}

func TestAuthService_Register_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()
	password := "StrongPass123"

	mockUserRepo.On("Save", ctx, mock.MatchedBy(func(user *domain.User) bool {
		assert.Equal(t, "newbie", user.Username)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)))
		return true
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 5
		}).
		Return(nil).
		Once()

	// Act
	user, err := authService.Register(ctx, "newbie", password, "newbie@example.com")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, uint(5), user.ID)
	assert.Empty(t, user.Password, "hash must not leak out of Register")
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("Save", ctx, mock.AnythingOfType("*domain.User")).
		Return(repository.ErrDuplicateEntry).
		Once()

	user, err := authService.Register(ctx, "taken", "pass123", "")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, service.ErrRegistrationFailed)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_RequiresCredentials(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)

	_, err := authService.Register(context.Background(), "", "pass", "")
	assert.Error(t, err)

	_, err = authService.Register(context.Background(), "user", "", "")
	assert.Error(t, err)

	mockUserRepo.AssertNotCalled(t, "Save")
}

func TestAuthService_Login_Success(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()
	password := "correct-horse"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	mockUserRepo.On("FindByUsername", ctx, "alice").
		Return(&domain.User{ID: 9, Username: "alice", Password: string(hash)}, nil).
		Once()

	token, err := authService.Login(ctx, "alice", password)

	require.NoError(t, err)
	require.NotEmpty(t, token)

	// The token must verify back to the same user.
	userID, err := authService.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(9), userID)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)

	mockUserRepo.On("FindByUsername", ctx, "alice").
		Return(&domain.User{ID: 9, Password: string(hash)}, nil).
		Once()

	token, err := authService.Login(ctx, "alice", "wrong")

	assert.Empty(t, token)
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, "ghost").
		Return(nil, repository.ErrUserNotFound).
		Once()

	_, err := authService.Login(ctx, "ghost", "whatever")

	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestAuthService_VerifyToken_FailureModesCollapse(t *testing.T) {
	authService := newAuthService(t, new(mocks.UserRepository))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredStr, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	wrongKeyStr, err := wrongKey.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	noClaim := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noClaimStr, err := noClaim.SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":         "",
		"garbage":       "not.a.jwt",
		"expired":       expiredStr,
		"bad signature": wrongKeyStr,
		"missing claim": noClaimStr,
	} {
		userID, err := authService.VerifyToken(token)
		assert.ErrorIs(t, err, service.ErrAuthenticationFailed, name)
		assert.Zero(t, userID, name)
	}
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := service.NewAuthService(new(mocks.UserRepository), "", 1)
	assert.Error(t, err)
}

func TestAuthService_Register_InternalErrorOnSaveFailure(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("Save", ctx, mock.AnythingOfType("*domain.User")).
		Return(errors.New("connection reset")).
		Once()

	_, err := authService.Register(ctx, "bob", "pass123", "")

	assert.ErrorIs(t, err, service.ErrInternalServer)
}
