package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTStrategy_IssueAndParse(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(77)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	id, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if id != 77 {
		t.Fatalf("expected 77, got %d", id)
	}
	if strategy.Name() != "jwt" {
		t.Fatalf("unexpected name %q", strategy.Name())
	}
}

func TestJWTStrategy_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-time.Hour)
	strategy := NewJWTStrategy("secret", Options{TTL: time.Minute})
	strategy.now = fixedClock(issuedAt)
	token, err := strategy.IssueToken(1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	strategy.now = time.Now
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTStrategy_RejectsTampering(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	foreign, _ := NewJWTStrategy("other", Options{}).IssueToken(1)
	if _, err := strategy.ParseToken(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign secret, got %v", err)
	}
	if _, err := strategy.ParseToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestJWTStrategy_RejectsUnexpectedClaims(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	sign := func(claims jwt.RegisteredClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return token
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Minute))

	cases := map[string]string{
		"wrong issuer":   sign(jwt.RegisteredClaims{Issuer: "other", Subject: "1", ExpiresAt: exp}),
		"no expiry":      sign(jwt.RegisteredClaims{Issuer: jwtIssuer, Subject: "1"}),
		"non numeric id": sign(jwt.RegisteredClaims{Issuer: jwtIssuer, Subject: "abc", ExpiresAt: exp}),
		"negative id":    sign(jwt.RegisteredClaims{Issuer: jwtIssuer, Subject: "-4", ExpiresAt: exp}),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Issuer: jwtIssuer, Subject: "1", ExpiresAt: exp}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := strategy.ParseToken(none); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected alg none to be rejected, got %v", err)
	}
}
