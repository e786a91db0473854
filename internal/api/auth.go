package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"

	"servicefinder/internal/apperr"
	"servicefinder/internal/service"
)

type ctxKey int

const actorKey ctxKey = iota

var (
	errUnauthorized = apperr.Unauthorized("Unauthorized: invalid or missing token")
	errRateLimited  = apperr.TooManyRequests("Too many requests, slow down")
)

func withActor(ctx context.Context, actor service.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// actorFrom returns the authenticated caller, or the anonymous actor.
func actorFrom(ctx context.Context) service.Actor {
	actor, _ := ctx.Value(actorKey).(service.Actor)
	return actor
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

// RequireAuth rejects requests without a valid access token and applies the
// per-user rate limit.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, present := bearerToken(r)
		if !present || token == "" {
			h.writeError(w, r, errUnauthorized)
			return
		}
		actor, err := h.svc.Auth.Authenticate(token)
		if err != nil {
			h.writeError(w, r, errUnauthorized.Wrap(err))
			return
		}
		if !h.limiter.allow("user:" + strconv.FormatInt(actor.UserID, 10)) {
			h.writeError(w, r, errRateLimited)
			return
		}
		next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
	})
}

// OptionalAuth resolves a bearer token when one is sent. A malformed or
// expired token is still rejected.
func (h *Handler) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := bearerToken(r)
		if !present {
			if !h.limiter.allow("ip:" + clientIP(r)) {
				h.writeError(w, r, errRateLimited)
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		h.RequireAuth(next).ServeHTTP(w, r)
	})
}

// clientIP prefers the address set by chi's RealIP middleware.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
