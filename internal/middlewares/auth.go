package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/messagely/internal/apperr"
	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/models"
	"github.com/sbilibin2017/messagely/internal/policy"
)

// Tokener defines the minimal interface needed by the middleware
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	Verify(ctx context.Context, tokenString string) (*models.PublicUser, error)
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the authenticated user.
func WithIdentity(ctx context.Context, user models.PublicUser) context.Context {
	return context.WithValue(ctx, identityKey{}, user)
}

// IdentityFromContext returns the user attached by AuthMiddleware.
func IdentityFromContext(ctx context.Context) (models.PublicUser, bool) {
	user, ok := ctx.Value(identityKey{}).(models.PublicUser)
	return user, ok
}

// AuthMiddleware verifies the bearer token and attaches the identity it
// carries to the request context. Requests without a valid token get 401.
func AuthMiddleware(tokener Tokener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Warnw("authorization failed", "err", err)
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			user, err := tokener.Verify(ctx, tokenString)
			if err != nil {
				logger.Log.Warnw("authorization failed", "err", err)
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, *user)))
		})
	}
}

// EnsureCorrectUser lets the request through only when the authenticated
// user matches the URL parameter param. Must run after AuthMiddleware.
func EnsureCorrectUser(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			username := chi.URLParam(r, param)
			if err := policy.CanAccessUser(identity, username); err != nil {
				logger.Log.Warnw("access denied", "username", identity.Username, "target", username)
				writeError(w, http.StatusForbidden, apperr.MessageOf(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
