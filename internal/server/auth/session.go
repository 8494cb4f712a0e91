// Package auth issues and verifies the signed, time-boxed admin session
// token carried in an http-only cookie.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims embeds the standard registered claims and duplicates the
// expiry as a custom claim. Expiry is checked twice on purpose: once by the
// JWT library against RegisteredClaims.ExpiresAt, and once by us against
// ExpiresAtMs. Either check failing invalidates the session.
type SessionClaims struct {
	jwt.RegisteredClaims
	Authenticated bool  `json:"authenticated"`
	ExpiresAtMs   int64 `json:"expiresAt"`
}

// nowFn is a test seam for clock-dependent checks.
var nowFn = time.Now

// CreateSessionToken produces a signed HS256 token asserting admin
// authentication for the given validity window.
func CreateSessionToken(secret []byte, validity time.Duration) (string, error) {
	expires := nowFn().Add(validity)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Authenticated: true,
		ExpiresAtMs:   expires.UnixMilli(),
	})

	return token.SignedString(secret)
}

// VerifySessionToken reports whether tokenString is a currently valid admin
// session. It returns false for a missing token, a bad or mismatched
// signature, a malformed token, a passed expiry (either the library-level one
// or the custom claim), or an authenticated claim that is not exactly true.
func VerifySessionToken(tokenString string, secret []byte) bool {
	if tokenString == "" {
		return false
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return false
	}

	if claims.ExpiresAtMs <= nowFn().UnixMilli() {
		return false
	}

	return claims.Authenticated
}
