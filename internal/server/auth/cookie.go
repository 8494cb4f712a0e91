package auth

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/motordesk/internal/common"
)

// SessionCookie wraps a session token in the admin cookie: http-only,
// same-site lax, scoped to the whole site, secure outside local development.
// validity must be the same duration the token was signed with, so the
// cookie expires together with the token.
func SessionCookie(token string, secure bool, validity time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(validity.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie produces the cookie that removes the session on logout.
// Logout only clears the client-held cookie; there is no server-side
// revocation list.
func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// TokenFromRequest extracts the session token from the request cookie, or
// returns the empty string when the cookie is absent.
func TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
