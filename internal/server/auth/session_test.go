package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestCreateAndVerify_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := CreateSessionToken(secret, time.Hour)
	if err != nil {
		t.Fatalf("CreateSessionToken error: %v", err)
	}

	if !VerifySessionToken(tok, secret) {
		t.Fatalf("freshly created token must verify")
	}
}

func TestVerify_ExpiredCustomClaim(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	// Structurally valid signature and a future library-level expiry, but the
	// custom claim already lies in the past. Verification must still fail.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Authenticated: true,
		ExpiresAtMs:   time.Now().Add(-time.Minute).UnixMilli(),
	})
	tok, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("signing error: %v", err)
	}

	if VerifySessionToken(tok, secret) {
		t.Fatalf("token with expired custom claim must not verify")
	}
}

func TestVerify_ExpiredRegisteredClaim(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := CreateSessionToken(secret, -time.Minute)
	if err != nil {
		t.Fatalf("CreateSessionToken error: %v", err)
	}

	if VerifySessionToken(tok, secret) {
		t.Fatalf("expired token must not verify")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := CreateSessionToken([]byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("CreateSessionToken error: %v", err)
	}

	if VerifySessionToken(tok, []byte("wrong-secret")) {
		t.Fatalf("token signed with a different key must not verify")
	}
}

func TestVerify_MissingOrMalformed(t *testing.T) {
	t.Parallel()

	if VerifySessionToken("", []byte("k")) {
		t.Fatalf("empty token must not verify")
	}
	if VerifySessionToken("not.a.jwt", []byte("k")) {
		t.Fatalf("malformed token must not verify")
	}
}

func TestVerify_AuthenticatedClaimMustBeTrue(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	expires := time.Now().Add(time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Authenticated: false,
		ExpiresAtMs:   expires.UnixMilli(),
	})
	tok, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("signing error: %v", err)
	}

	if VerifySessionToken(tok, secret) {
		t.Fatalf("token without authenticated=true must not verify")
	}
}
