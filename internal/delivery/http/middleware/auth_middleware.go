package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"health-concierge/internal/domain/entity"
	"health-concierge/internal/usecase"
	"health-concierge/pkg/response"
)

type contextKey string

const (
	ActorKey    contextKey = "actor"
	TokenIDKey  contextKey = "token_id"
	DeviceIDKey contextKey = "device_id"
)

type AuthMiddleware struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthMiddleware(authUsecase usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{
		authUsecase: authUsecase,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.authUsecase.ValidateToken(r.Context(), parts[1])
		switch {
		case errors.Is(err, usecase.ErrTokenRevoked):
			response.Unauthorized(w, "Token has been revoked")
			return
		case errors.Is(err, usecase.ErrInvalidToken):
			response.Unauthorized(w, "Invalid or expired token")
			return
		case err != nil:
			response.InternalServerError(w, "Failed to validate token")
			return
		}

		actor := usecase.Actor{Role: entity.UserRole(claims.Role), ID: claims.SubjectID}
		ctx := context.WithValue(r.Context(), ActorKey, actor)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext extracts the token holder set by Authenticate
func ActorFromContext(ctx context.Context) (usecase.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(usecase.Actor)
	return actor, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// DeviceIDFromContext extracts the device id set by DeviceMiddleware
func DeviceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(DeviceIDKey).(string)
	return id, ok && id != ""
}
