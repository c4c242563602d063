package middleware

import (
	"net/http"

	"github.com/cinetrack/attendance-backend-go/internal/domain/auth"
	"github.com/cinetrack/attendance-backend-go/internal/domain/user"
	"github.com/cinetrack/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// ManagerOnly guards endpoints that mutate other people's records: manual
// corrections, TIL decisions, employee administration and settings.
func ManagerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || !user.Role(role).Elevated() {
			response.HandleError(w, user.ErrManagerPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// EditorID extracts the acting user's ID from the JWT claims for audit rows.
func EditorID(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	id, _ := claims["user_id"].(string)
	return id
}
