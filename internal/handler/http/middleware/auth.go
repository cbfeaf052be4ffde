package middleware

import (
	"net/http"

	"github.com/busops/transit-backend-go/internal/domain/auth"
	"github.com/busops/transit-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a valid access token. It runs after
// jwtauth.Verifier, which only records the verification result.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if tokenType != "access" || !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hfn)
}

// OptionalAuth lets anonymous requests through but still rejects a token that
// was sent and failed verification.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if jwtauth.TokenFromHeader(r) == "" {
			next.ServeHTTP(w, r)
			return
		}
		AuthRequired(next).ServeHTTP(w, r)
	})
}
