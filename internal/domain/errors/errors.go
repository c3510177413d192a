package errors

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrConflict           = errors.New("concurrent modification")
	ErrService            = errors.New("service error")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is inactive")
)

// Validation builds an ErrValidation carrying a human readable reason.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// TransitionError reports a status change rejected by the transition policy.
type TransitionError struct {
	From string
	To   string
	Role string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q for role %q", e.From, e.To, e.Role)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// IsDomain reports whether err belongs to the closed set of domain failures.
func IsDomain(err error) bool {
	for _, target := range []error{
		ErrUnauthenticated,
		ErrForbidden,
		ErrValidation,
		ErrNotFound,
		ErrInvalidTransition,
		ErrConflict,
		ErrService,
		ErrAlreadyExists,
		ErrInvalidCredentials,
		ErrInactiveAccount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Service wraps infrastructure failures so callers see a single generic kind.
// Domain errors and context cancellation pass through untouched.
func Service(err error) error {
	if err == nil || IsDomain(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrService, err)
}
