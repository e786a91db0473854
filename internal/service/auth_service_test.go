package service

import (
	"context"
	"io"
	"testing"
	"time"

	"servicefinder/internal/auth"
	"servicefinder/internal/config"
	"servicefinder/internal/models"
	"servicefinder/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:       "access-secret",
		RefreshSecret:      "refresh-secret",
		AccessExpiry:       15 * time.Minute,
		RefreshExpiry:      7 * 24 * time.Hour,
		Issuer:             "servicefinder",
		BcryptCost:         bcrypt.MinCost,
		LoginAttempts:      3,
		LoginAttemptWindow: time.Minute,
	}
}

func newAuthService(t *testing.T, cfg config.AuthConfig) (*AuthService, *mockRepo) {
	t.Helper()
	tokens, err := auth.NewTokenManager(cfg)
	require.NoError(t, err)
	repo := new(mockRepo)
	logger := zerolog.New(io.Discard)
	svc := NewAuthService(repo, tokens, auth.NewHasher(cfg.BcryptCost), repository.NewMemoryTokenStore(), cfg, &logger)
	return svc, repo
}

func storedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := auth.NewHasher(bcrypt.MinCost).Hash(password)
	require.NoError(t, err)
	return &models.User{
		ID:       11,
		Email:    "jane@example.com",
		Password: hash,
		Role:     models.RoleProvider,
		Status:   models.UserApproved,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	input := RegisterInput{
		FirstName: "Jane",
		Email:     " jane@example.com ",
		Password:  "Secret#123",
	}

	t.Run("Success", func(t *testing.T) {
		svc, repo := newAuthService(t, testAuthConfig())
		repo.On("GetUserByEmail", ctx, "jane@example.com").Return(nil, errNotFound)
		repo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Role == models.RoleCustomer &&
				u.Status == models.UserApproved &&
				u.Password != "Secret#123" &&
				bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("Secret#123")) == nil
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 1
		}).Return(nil)

		u, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		assert.Equal(t, "jane@example.com", u.Email)
		assert.Empty(t, u.Password)
		repo.AssertExpectations(t)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		svc, repo := newAuthService(t, testAuthConfig())
		repo.On("GetUserByEmail", ctx, "jane@example.com").Return(&models.User{ID: 1}, nil)

		_, err := svc.Register(ctx, input)
		assert.ErrorIs(t, err, ErrEmailExists)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("AdminSignupDisabled", func(t *testing.T) {
		svc, repo := newAuthService(t, testAuthConfig())
		in := input
		in.Role = models.RoleAdmin

		_, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, ErrAdminSignup)
		repo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	})

	t.Run("AdminSignupEnabled", func(t *testing.T) {
		cfg := testAuthConfig()
		cfg.AllowAdminSignup = true
		svc, repo := newAuthService(t, cfg)
		repo.On("GetUserByEmail", ctx, mock.Anything).Return(nil, errNotFound)
		repo.On("CreateUser", ctx, mock.Anything).Return(nil)

		in := input
		in.Role = models.RoleAdmin
		u, err := svc.Register(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, u.Role)
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		svc, repo := newAuthService(t, testAuthConfig())
		repo.On("GetUserByEmail", ctx, mock.Anything).Return(nil, errNotFound)
		repo.On("GetCategory", ctx, int64(4)).Return(nil, errNotFound)

		in := input
		categoryID := int64(4)
		in.CategoryID = &categoryID
		_, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, repo := newAuthService(t, testAuthConfig())
		repo.On("GetUserByEmail", ctx, "jane@example.com").Return(storedUser(t, "Secret#123"), nil)

		res, err := svc.Login(ctx, "jane@example.com", "Secret#123")
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
		assert.NotEmpty(t, res.RefreshToken)
		assert.Empty(t, res.User.Password)

		actor, err := svc.Authenticate(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, Actor{UserID: 11, Role: models.RoleProvider}, actor)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		svc, repo := newAuthService(t, testAuthConfig())
		repo.On("GetUserByEmail", ctx, mock.Anything).Return(nil, errNotFound)

		_, err := svc.Login(ctx, "nobody@example.com", "Secret#123")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc, repo := newAuthService(t, testAuthConfig())
		repo.On("GetUserByEmail", ctx, mock.Anything).Return(storedUser(t, "Secret#123"), nil)

		_, err := svc.Login(ctx, "jane@example.com", "Wrong#123")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("Blocked", func(t *testing.T) {
		svc, repo := newAuthService(t, testAuthConfig())
		u := storedUser(t, "Secret#123")
		u.Status = models.UserBlocked
		repo.On("GetUserByEmail", ctx, mock.Anything).Return(u, nil)

		_, err := svc.Login(ctx, "jane@example.com", "Secret#123")
		assert.ErrorIs(t, err, ErrAccountBlocked)
	})

	t.Run("RateLimited", func(t *testing.T) {
		svc, repo := newAuthService(t, testAuthConfig())
		repo.On("GetUserByEmail", ctx, mock.Anything).Return(storedUser(t, "Secret#123"), nil)

		for i := 0; i < 3; i++ {
			_, err := svc.Login(ctx, "jane@example.com", "Wrong#123")
			require.ErrorIs(t, err, ErrInvalidPassword)
		}
		_, err := svc.Login(ctx, "JANE@example.com", "Secret#123")
		assert.ErrorIs(t, err, ErrTooManyAttempts)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	svc, repo := newAuthService(t, testAuthConfig())
	user := storedUser(t, "Secret#123")
	repo.On("GetUserByEmail", ctx, mock.Anything).Return(user, nil)
	repo.On("GetUserByID", ctx, int64(11)).Return(user, nil)

	login, err := svc.Login(ctx, "jane@example.com", "Secret#123")
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, login.RefreshToken, pair.RefreshToken)

	// the presented token is revoked by rotation
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrMissingRefreshToken)

	_, err = svc.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	assert.NoError(t, svc.Logout(ctx, "garbage"))
}
