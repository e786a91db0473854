package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"servicefinder/internal/auth"
	"servicefinder/internal/config"
	"servicefinder/internal/database"
	"servicefinder/internal/events"
	"servicefinder/internal/export"
	"servicefinder/internal/models"
	"servicefinder/internal/repository"
	"servicefinder/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "servicefinder", Environment: config.EnvDevelopment, Version: "test"},
		HTTP: config.HTTPConfig{
			BasePath:       "/api/v1",
			AllowedOrigins: []string{"http://localhost:5173"},
			RateLimit:      config.RateLimitConfig{RPS: 1000, Burst: 1000},
			AuthRateLimit:  config.AuthRateConfig{Requests: 1000, Window: time.Minute},
		},
		Auth: config.AuthConfig{
			AccessSecret:       "access-secret",
			RefreshSecret:      "refresh-secret",
			AccessExpiry:       15 * time.Minute,
			RefreshExpiry:      7 * 24 * time.Hour,
			Issuer:             "servicefinder",
			BcryptCost:         bcrypt.MinCost,
			RefreshCookieName:  "refreshToken",
			LoginAttempts:      10,
			LoginAttemptWindow: time.Minute,
		},
	}
}

type testEnv struct {
	server *httptest.Server
	db     *database.DB
	cfg    *config.Config
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)

	db, err := database.NewDB(filepath.Join(t.TempDir(), "api.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenManager(cfg.Auth)
	require.NoError(t, err)

	bus := events.NewEventBus(&logger)
	bookings := service.NewBookingService(db, bus, &logger)
	svc := Services{
		Auth:           service.NewAuthService(db, tokens, auth.NewHasher(cfg.Auth.BcryptCost), repository.NewMemoryTokenStore(), cfg.Auth, &logger),
		Users:          service.NewUserService(db, &logger),
		Bookings:       bookings,
		Categories:     service.NewCategoryService(db),
		Packages:       service.NewPackageService(db),
		Portfolios:     service.NewPortfolioService(db),
		Certifications: service.NewCertificationService(db),
		Reviews:        service.NewReviewService(db),
		Exporter:       export.NewExporter(bookings, &logger),
	}

	h := NewHandler(cfg, svc, map[string]ReadyCheck{"database": db.Ping}, &logger)
	ts := httptest.NewServer(NewRouter(h))
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, db: db, cfg: cfg}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	Stack string `json:"stack"`
}

// do sends body as JSON with an optional bearer token and decodes the envelope.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), "data: %s", env.Data)
	return out
}

func (e *testEnv) createPackage(t *testing.T, token string) models.Package {
	t.Helper()
	resp, env := e.do(t, http.MethodPost, "/api/v1/service/createPackage", token, map[string]any{
		"name":        "Handyman hour",
		"description": "One hour of general repairs",
		"price":       "40",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	return decodeData[models.Package](t, env)
}

type registered struct {
	ID    int64
	Token string
}

func (e *testEnv) registerAndLogin(t *testing.T, email, role string) registered {
	t.Helper()
	resp, env := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"firstName": "Test",
		"lastName":  "User",
		"email":     email,
		"password":  "Secret#123",
		"role":      role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	user := decodeData[struct {
		ID int64 `json:"id"`
	}](t, env)

	resp, env = e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": "Secret#123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	login := decodeData[struct {
		AccessToken string `json:"accessToken"`
	}](t, env)

	return registered{ID: user.ID, Token: login.AccessToken}
}
