package middleware

import (
	"net/http"

	"health-concierge/internal/domain/entity"
	"health-concierge/pkg/response"
)

// RequireRole creates a middleware that checks if the token holder has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowed ...entity.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			for _, role := range allowed {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, "You don't have permission to access this resource")
		})
	}
}

// RequireStaff admits the roles that may move requests along
func RequireStaff(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAssistant, entity.RoleFulfillment)(next)
}
