package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/hostel_pg_finder/backend/apperrors"
	"github.com/dcode-github/hostel_pg_finder/backend/logger"
	"github.com/dcode-github/hostel_pg_finder/backend/models"
	"github.com/dcode-github/hostel_pg_finder/backend/utils"
)

const TokenCookie = "jwt"

type contextKey string

const userKey = contextKey("user")

type UserLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the caller attached by Protect.
func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// Protect authenticates the caller from the jwt cookie or a Bearer token and
// attaches the stored user to the request context.
func Protect(jwtKey []byte, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				logger.Ctx(r.Context()).Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("Missing token")
				utils.WriteError(w, r, apperrors.Unauthorized("Not authorized, no token"))
				return
			}

			claims, err := utils.ValidateJWT(jwtKey, token)
			if err != nil {
				logger.Ctx(r.Context()).Debug().Err(err).Msg("Invalid or expired token")
				utils.WriteError(w, r, apperrors.Unauthorized("Not authorized, token failed"))
				return
			}

			id, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				utils.WriteError(w, r, apperrors.Unauthorized("Not authorized, token failed"))
				return
			}

			user, err := users.GetByID(r.Context(), id)
			if err != nil {
				logger.Ctx(r.Context()).Debug().Err(err).Str("user_id", claims.UserID).Msg("Token user lookup failed")
				utils.WriteError(w, r, apperrors.Unauthorized("Not authorized, token failed"))
				return
			}

			ctx := WithUser(r.Context(), user)
			l := logger.Ctx(ctx).With().Str("user_id", user.ID.Hex()).Logger()
			next.ServeHTTP(w, r.WithContext(logger.WithContext(ctx, l)))
		})
	}
}

// IsOwner admits only callers with the owner capability. It must run after
// Protect.
func IsOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			utils.WriteError(w, r, apperrors.Unauthorized("Not authorized, no token"))
			return
		}
		if !user.IsOwner {
			utils.WriteError(w, r, apperrors.Forbidden("Not authorized as an owner"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
