package http

import (
	"context"
	"net/http"
	"strings"

	"landregistry/internal/domain"
	"landregistry/internal/service"
)

type actorKey struct{}

// RequireAuth validates the bearer token and attaches the authenticated
// actor to the request context. Missing token yields 401, a token that
// fails verification yields 403.
func RequireAuth(tokens service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
				fail(w, http.StatusUnauthorized, "access token required")
				return
			}
			tok := strings.TrimSpace(raw[len("Bearer "):])

			actor, err := tokens.Verify(r.Context(), tok)
			if err != nil {
				fail(w, http.StatusForbidden, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), actorKey{}, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func actorFrom(ctx context.Context) (*domain.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(*domain.Actor)
	return a, ok
}
