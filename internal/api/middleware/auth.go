package middleware

import (
	"net/http"
	"strings"

	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/utils"
)

// SessionCookie is the cookie a browser client may carry the token in
const SessionCookie = "mxcloud_session"

// TokenValidator accepts or rejects a session token
type TokenValidator interface {
	ValidateToken(token string) error
}

// SessionAuth rejects requests without a token from the current unlocked session
func SessionAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				utils.WriteError(w, errors.Unauthorized("Missing session token"))
				return
			}

			if err := validator.ValidateToken(tokenStr); err != nil {
				if appErr, ok := errors.As(err); ok {
					utils.WriteError(w, appErr)
					return
				}
				utils.WriteError(w, errors.Unauthorized("Invalid or expired session token"))
				return
			}

			AddLogField(w, "session", "valid")
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken reads the Authorization header, falling back to the session cookie
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
