package middleware

import (
	"net/http"

	"github.com/busops/transit-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// Identity is the caller as described by a verified access token.
type Identity struct {
	UserID string
	Email  string
	Role   user.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == user.RoleAdmin
}

// IdentityFromRequest returns false for anonymous requests.
func IdentityFromRequest(r *http.Request) (Identity, bool) {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return Identity{}, false
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, false
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return Identity{UserID: userID, Email: email, Role: user.Role(role)}, true
}
