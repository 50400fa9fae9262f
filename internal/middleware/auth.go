package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

func parseBearerToken(r *http.Request, jwtSecret string) (userID, role string, errMessage string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", "", "no token provided, authorization required"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "", "invalid authorization header format"
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", "token expired"
		}
		return "", "", "invalid token"
	}

	if !token.Valid {
		return "", "", "invalid token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", "invalid token claims"
	}

	userID, ok = claims["user_id"].(string)
	if !ok {
		return "", "", "invalid token claims"
	}
	role, ok = claims["role"].(string)
	if !ok {
		return "", "", "invalid token claims"
	}

	return userID, role, ""
}

// AuthMiddleware validates bearer tokens and puts user claims into the
// request context. An empty signing secret means the identity provider is
// not configured; protected routes then answer 401 with a distinct message
// rather than accepting anything.
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if jwtSecret == "" {
				logger.Warn("Rejecting request: authentication not configured")
				RespondError(w, http.StatusUnauthorized, "authentication not configured")
				return
			}

			userID, role, errMessage := parseBearerToken(r, jwtSecret)
			if errMessage != "" {
				logger.Debug("Token validation failed", zap.String("reason", errMessage))
				RespondError(w, http.StatusUnauthorized, errMessage)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, UserRoleKey, role)

			logger.Debug("User authenticated",
				zap.String("user_id", userID),
				zap.String("role", role),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware attaches user claims when a valid bearer token is
// present and otherwise lets the request through anonymously. Used by
// endpoints that personalize for authenticated users but work without one.
func OptionalAuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if jwtSecret == "" || r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, role, errMessage := parseBearerToken(r, jwtSecret)
			if errMessage != "" {
				logger.Debug("Ignoring invalid optional token", zap.String("reason", errMessage))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, UserRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts user ID from request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserRole extracts user role from request context
func GetUserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}
