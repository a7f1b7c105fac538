// Package auth guards organizer endpoints with bearer-token validation.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"rollcall/internal/jwttoken"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	Validate(tokenString string) (*jwttoken.Claims, error)
}

// OptionalOrganizer stores the organizer subject when a valid bearer token
// is present but never rejects. Routes open to kiosks use it so handlers
// can still distinguish organizer-initiated calls.
func OptionalOrganizer(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				if claims, err := validator.Validate(token); err == nil {
					r = r.WithContext(requestcontext.WithOrganizer(r.Context(), claims.Organizer))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOrganizer rejects requests without a valid organizer token and
// stores the organizer subject in the request context.
func RequireOrganizer(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access, missing bearer token",
					"request_id", requestcontext.RequestID(ctx))
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access, invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx))
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithOrganizer(ctx, claims.Organizer)))
		})
	}
}
