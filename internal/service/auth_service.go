package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"servicefinder/internal/auth"
	"servicefinder/internal/config"
	"servicefinder/internal/database"
	"servicefinder/internal/domain"
	"servicefinder/internal/metrics"
	"servicefinder/internal/models"

	"github.com/rs/zerolog"
)

type RegisterInput struct {
	FirstName  string            `json:"firstName" validate:"required,min=2,max=255"`
	LastName   string            `json:"lastName" validate:"omitempty,min=2,max=255"`
	Email      string            `json:"email" validate:"required,email"`
	Password   string            `json:"password" validate:"required,password"`
	Phone      string            `json:"phone" validate:"omitempty,max=50"`
	Address    string            `json:"address" validate:"omitempty,max=255"`
	About      string            `json:"about"`
	Role       models.Role       `json:"role" validate:"omitempty,oneof=CUSTOMER PROVIDER ADMIN"`
	SignUpType models.SignUpType `json:"signUpType" validate:"omitempty,oneof=EMAIL GOOGLE FACEBOOK"`
	CategoryID *int64            `json:"categoryId" validate:"omitempty,gt=0"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user"`
}

// TokenPair is returned by Refresh. The refresh token is rotated on every call.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"`
}

type AuthService struct {
	repo   domain.Repository
	tokens *auth.TokenManager
	hasher *auth.Hasher
	store  domain.TokenStore
	cfg    config.AuthConfig
	logger *zerolog.Logger
	now    func() time.Time
}

func NewAuthService(
	repo domain.Repository,
	tokens *auth.TokenManager,
	hasher *auth.Hasher,
	store domain.TokenStore,
	cfg config.AuthConfig,
	logger *zerolog.Logger,
) *AuthService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Register creates an account and returns it without the password hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)

	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	if in.Role == models.RoleAdmin && !s.cfg.AllowAdminSignup {
		return nil, ErrAdminSignup
	}
	if in.SignUpType == "" {
		in.SignUpType = models.SignUpEmail
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	if in.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *in.CategoryID); err != nil {
			return nil, translate(err, ErrCategoryNotFound)
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		Phone:        in.Phone,
		Password:     hash,
		Address:      in.Address,
		About:        in.About,
		Role:         in.Role,
		SignUpType:   in.SignUpType,
		Status:       models.UserApproved,
		CategoryID:   in.CategoryID,
		ActiveStatus: true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, translate(err, ErrCategoryNotFound)
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	user.Password = ""
	return user, nil
}

// Login verifies credentials and issues an access and refresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)

	if s.store != nil && s.cfg.LoginAttempts > 0 {
		allowed, err := s.store.CheckRateLimit(ctx, "login:"+strings.ToLower(email), s.cfg.LoginAttempts, s.cfg.LoginAttemptWindow)
		if err != nil {
			s.logger.Warn().Err(err).Msg("login rate limit unavailable")
		} else if !allowed {
			metrics.IncLoginFailure("rate_limited")
			return nil, ErrTooManyAttempts
		}
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			metrics.IncLoginFailure("unknown_email")
		}
		return nil, translate(err, ErrUserNotFound)
	}
	if err := s.hasher.Compare(user.Password, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			metrics.IncLoginFailure("bad_password")
			return nil, ErrInvalidPassword
		}
		return nil, err
	}
	if user.Status == models.UserBlocked {
		metrics.IncLoginFailure("blocked")
		return nil, ErrAccountBlocked
	}

	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(user)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh exchanges a valid refresh token for a new access token and a
// rotated refresh token. The presented refresh token is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrMissingRefreshToken
	}
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken.Wrap(err)
	}

	if s.store != nil {
		revoked, err := s.store.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidRefreshToken
		}
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidRefreshToken.Wrap(err)
		}
		return nil, err
	}
	if user.Status == models.UserBlocked {
		return nil, ErrAccountBlocked
	}

	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	rotated, err := s.tokens.IssueRefresh(user)
	if err != nil {
		return nil, err
	}
	s.revoke(ctx, claims)

	return &TokenPair{AccessToken: access, RefreshToken: rotated}, nil
}

// Logout revokes the refresh token. Missing or invalid tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil
	}
	s.revoke(ctx, claims)
	return nil
}

func (s *AuthService) revoke(ctx context.Context, claims *auth.Claims) {
	if s.store == nil {
		return
	}
	if err := s.store.RevokeToken(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		s.logger.Error().Err(err).Int64("user_id", claims.UserID).Msg("failed to revoke refresh token")
	}
}

// Authenticate resolves a bearer access token to its caller.
func (s *AuthService) Authenticate(accessToken string) (Actor, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return Actor{}, err
	}
	return Actor{UserID: claims.UserID, Role: claims.Role}, nil
}
