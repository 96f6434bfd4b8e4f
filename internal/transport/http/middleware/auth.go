package middleware

import (
	"context"
	"net/http"
	"strings"

	"ems/internal/domain/auth"
	"ems/internal/domain/rbac"
)

type ctxKey string

const ctxKeyActor ctxKey = "actor"

// Auth decodes a bearer token into the request's actor. An absent or invalid
// token just leaves the request anonymous; RequireAuth decides whether that
// is acceptable.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyActor, rbac.Actor{
				ID:        claims.UserID,
				Role:      claims.Role,
				CompanyID: claims.CompanyID,
				BranchID:  claims.BranchID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetActor(ctx context.Context) (rbac.Actor, bool) {
	actor, ok := ctx.Value(ctxKeyActor).(rbac.Actor)
	return actor, ok
}

func WithActor(ctx context.Context, actor rbac.Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, actor)
}
