package test

import (
	"fmt"
	"strings"

	pkgAuth "github.com/polkiloo/marketplace/internal/pkg/auth"
)

const hashPrefix = "hash:"

// HasherStub stores passwords behind a readable prefix instead of bcrypt.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash prefixes the password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return hashPrefix + password, nil
}

// Compare fails with pkgAuth.ErrPasswordMismatch like the bcrypt hasher.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if !strings.HasPrefix(hash, hashPrefix) || hash[len(hashPrefix):] != password {
		return pkgAuth.ErrPasswordMismatch
	}
	return nil
}

// StrategyStub issues "token-<user id>" strings and parses them back, so a
// principal resolved from a token is the user it was issued for.
type StrategyStub struct {
	IssueFn func(int64) (string, error)
	ParseFn func(string) (int64, error)
	NameVal string
}

func (s StrategyStub) IssueToken(userID int64) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(userID)
	}
	return fmt.Sprintf("token-%d", userID), nil
}

// ParseToken rejects anything it did not issue with pkgAuth.ErrInvalidToken.
func (s StrategyStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	var id int64
	if _, err := fmt.Sscanf(token, "token-%d", &id); err != nil || id <= 0 {
		return 0, pkgAuth.ErrInvalidToken
	}
	return id, nil
}

func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

var (
	_ pkgAuth.PasswordHasher = HasherStub{}
	_ pkgAuth.Strategy       = StrategyStub{}
)
