// Package auth issues and verifies the access and refresh tokens and hashes
// account passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"servicefinder/internal/config"
	"servicefinder/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers malformed, tampered and expired tokens alike.
var ErrInvalidToken = errors.New("invalid token")

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Claims is the payload of both token kinds.
type Claims struct {
	UserID int64       `json:"uid"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	Kind   TokenKind   `json:"kind"`
	jwt.RegisteredClaims
}

// Remaining returns how long the token stays valid after now.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// TokenManager signs tokens with HS256, one secret per token kind.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

func NewTokenManager(cfg config.AuthConfig) (*TokenManager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("access and refresh secrets are required")
	}
	return &TokenManager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessExpiry,
		refreshTTL:    cfg.RefreshExpiry,
		issuer:        cfg.Issuer,
		now:           time.Now,
	}, nil
}

func (m *TokenManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

func (m *TokenManager) IssueAccess(u *models.User) (string, error) {
	return m.issue(u, AccessToken)
}

func (m *TokenManager) IssueRefresh(u *models.User) (string, error) {
	return m.issue(u, RefreshToken)
}

func (m *TokenManager) issue(u *models.User, kind TokenKind) (string, error) {
	secret, ttl := m.keyFor(kind)
	now := m.now()
	claims := &Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   fmt.Sprint(u.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m *TokenManager) VerifyAccess(token string) (*Claims, error) {
	return m.verify(token, AccessToken)
}

func (m *TokenManager) VerifyRefresh(token string) (*Claims, error) {
	return m.verify(token, RefreshToken)
}

func (m *TokenManager) verify(tokenString string, kind TokenKind) (*Claims, error) {
	secret, _ := m.keyFor(kind)
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Kind != kind || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *TokenManager) keyFor(kind TokenKind) ([]byte, time.Duration) {
	if kind == RefreshToken {
		return m.refreshSecret, m.refreshTTL
	}
	return m.accessSecret, m.accessTTL
}
