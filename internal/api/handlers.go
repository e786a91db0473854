package api

import (
	"context"
	"net/http"
	"time"

	"servicefinder/internal/config"
	"servicefinder/internal/export"
	"servicefinder/internal/service"

	"github.com/rs/zerolog"
)

// Services bundles the domain services the HTTP layer dispatches to.
type Services struct {
	Auth           *service.AuthService
	Users          *service.UserService
	Bookings       *service.BookingService
	Categories     *service.CategoryService
	Packages       *service.PackageService
	Portfolios     *service.PortfolioService
	Certifications *service.CertificationService
	Reviews        *service.ReviewService
	Exporter       *export.Exporter
}

// ReadyCheck reports whether a backing dependency can serve requests.
type ReadyCheck func(ctx context.Context) error

type Handler struct {
	svc         Services
	cfg         *config.Config
	production  bool
	limiter     *rateLimiter
	readyChecks map[string]ReadyCheck
	logger      *zerolog.Logger
}

func NewHandler(cfg *config.Config, svc Services, readyChecks map[string]ReadyCheck, logger *zerolog.Logger) *Handler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Handler{
		svc:         svc,
		cfg:         cfg,
		production:  cfg.App.IsProduction(),
		limiter:     newRateLimiter(cfg.HTTP.RateLimit),
		readyChecks: readyChecks,
		logger:      logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	h.writeSuccess(w, http.StatusOK, "ok", map[string]string{
		"name":    h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

// Readyz pings every registered dependency and reports 503 when any fails.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.readyChecks))
	ready := true
	for name, check := range h.readyChecks {
		if err := check(ctx); err != nil {
			h.logger.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			status[name] = "down"
			ready = false
			continue
		}
		status[name] = "up"
	}

	if !ready {
		writeJSON(w, http.StatusServiceUnavailable, errorEnvelope{Message: "Service unavailable"})
		return
	}
	h.writeSuccess(w, http.StatusOK, "ready", status)
}
