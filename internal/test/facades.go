package test

import (
	"context"
	"sync/atomic"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// PrincipalResolverStub maps tokens to principals for middleware tests.
type PrincipalResolverStub struct {
	Principals map[string]model.Principal
	Err        error

	calls atomic.Int32
}

// ResolvePrincipal returns Err when set, otherwise the principal registered for token.
// Unknown tokens resolve to the zero principal.
func (s *PrincipalResolverStub) ResolvePrincipal(_ context.Context, token string) (model.Principal, error) {
	s.calls.Add(1)
	if s.Err != nil {
		return model.Principal{}, s.Err
	}
	return s.Principals[token], nil
}

// Calls reports how many tokens were resolved.
func (s *PrincipalResolverStub) Calls() int {
	return int(s.calls.Load())
}
