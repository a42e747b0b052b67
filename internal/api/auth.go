package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/alexmed/clinic-booking/internal/directory"
)

const actorKey contextKey = "actor"

// Actor is the authenticated caller extracted from a bearer token. ProfileID
// is the patient or doctor profile the user acts through; it is Nil for
// admins.
type Actor struct {
	UserID    uuid.UUID
	ProfileID uuid.UUID
	Role      directory.Role
}

type actorClaims struct {
	Role      string `json:"role"`
	ProfileID string `json:"profile_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies the HS256 bearer token and puts the actor on the
// request context. Token issuance lives in a separate service; this layer
// only verifies.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	keyFunc := func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			claims := &actorClaims{}
			token, err := jwt.ParseWithClaims(
				strings.TrimPrefix(header, "Bearer "),
				claims,
				keyFunc,
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			)
			if err != nil || !token.Valid {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid subject claim")
				return
			}

			role, ok := directory.ParseRole(claims.Role)
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid role claim")
				return
			}

			actor := Actor{UserID: userID, Role: role}
			if claims.ProfileID != "" {
				profileID, err := uuid.Parse(claims.ProfileID)
				if err != nil {
					writeError(w, http.StatusUnauthorized, "unauthorized", "invalid profile claim")
					return
				}
				actor.ProfileID = profileID
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok
}

// RequireRole rejects callers whose role is not in the allow list.
func RequireRole(roles ...directory.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "forbidden", "your role cannot access this resource")
		})
	}
}
