package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
)

type contextKey string

const (
	ContextUserID    contextKey = "user_id"
	ContextLecturer  contextKey = "is_lecturer"
	ContextSuperuser contextKey = "is_superuser"
)

// UserID extracts the authenticated user id from a request context.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(ContextUserID).(uint)
	return id, ok
}

// IsPrivileged reports whether the request comes from a lecturer or a
// superuser.
func IsPrivileged(ctx context.Context) bool {
	lecturer, _ := ctx.Value(ContextLecturer).(bool)
	superuser, _ := ctx.Value(ContextSuperuser).(bool)
	return lecturer || superuser
}

func IsSuperuser(ctx context.Context) bool {
	superuser, _ := ctx.Value(ContextSuperuser).(bool)
	return superuser
}

func JWTMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			bearerToken := strings.Split(authHeader, " ")
			if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
				http.Error(w, "Invalid token format", http.StatusUnauthorized)
				return
			}

			token, err := jwt.ParseWithClaims(bearerToken[1], &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})

			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(*jwt.MapClaims)
			if !ok || !token.Valid {
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			userID, ok := (*claims)["user_id"].(float64)
			if !ok {
				http.Error(w, "Invalid user ID in token", http.StatusUnauthorized)
				return
			}

			lecturer, _ := (*claims)["is_lecturer"].(bool)
			superuser, _ := (*claims)["is_superuser"].(bool)

			ctx := context.WithValue(r.Context(), ContextUserID, uint(userID))
			ctx = context.WithValue(ctx, ContextLecturer, lecturer)
			ctx = context.WithValue(ctx, ContextSuperuser, superuser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLecturer gates marking and dashboard routes to lecturers and
// superusers.
func RequireLecturer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !IsPrivileged(r.Context()) {
			http.Error(w, "Lecturer access required", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
