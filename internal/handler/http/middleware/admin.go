package middleware

import (
	"net/http"

	"github.com/busops/transit-backend-go/internal/domain/user"
	"github.com/busops/transit-backend-go/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromRequest(r)
		if !ok || identity.Role != user.RoleAdmin {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
