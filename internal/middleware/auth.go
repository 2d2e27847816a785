package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/barberqueue/barberqueue-api/internal/pkg/jwt"
	"github.com/barberqueue/barberqueue-api/internal/pkg/response"
	"github.com/barberqueue/barberqueue-api/internal/pkg/revocation"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	RoleKey     contextKey = "role"
	TokenJTIKey contextKey = "token_jti"
)

// Auth returns middleware that validates the bearer JWT and rejects revoked
// tokens. The revocation check runs after signature validation so only
// well-formed tokens hit the store.
func Auth(jwtService *jwt.Service, revoked revocation.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := jwtService.ValidateAccessToken(parts[1])
			if err != nil {
				if err == jwt.ErrExpiredToken {
					response.Unauthorized(w, "Token expired")
				} else {
					response.Unauthorized(w, "Invalid token")
				}
				return
			}

			isRevoked, err := revoked.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				response.InternalError(w)
				return
			}
			if isRevoked {
				response.Unauthorized(w, "Token has been revoked")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			ctx = context.WithValue(ctx, TokenJTIKey, claims.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(UserIDKey).(int64); ok {
		return id
	}
	return 0
}

// GetRole extracts role from context
func GetRole(ctx context.Context) string {
	if role, ok := ctx.Value(RoleKey).(string); ok {
		return role
	}
	return ""
}

// GetTokenJTI extracts the access token ID from context
func GetTokenJTI(ctx context.Context) string {
	if jti, ok := ctx.Value(TokenJTIKey).(string); ok {
		return jti
	}
	return ""
}

// RequireRole returns middleware that checks user role
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetRole(r.Context())

			for _, role := range roles {
				if userRole == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "Insufficient permissions")
		})
	}
}

// RequireClient requires the client role
func RequireClient() func(http.Handler) http.Handler {
	return RequireRole("client")
}

// RequireStaff requires staff or owner role
func RequireStaff() func(http.Handler) http.Handler {
	return RequireRole("staff", "owner")
}

// RequireOwner requires the owner role
func RequireOwner() func(http.Handler) http.Handler {
	return RequireRole("owner")
}
