package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
	pkgAuth "github.com/polkiloo/marketplace/internal/pkg/auth"
)

// RegisterInput carries self-registration data.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
	logger *slog.Logger
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, logger *slog.Logger) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy, logger: logger}
}

// Register creates an active buyer or seller account and returns an auth token.
// Administrators are provisioned out of band.
func (u *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	if name == "" {
		return nil, "", domainErrors.Validation("name is required")
	}
	if !ValidateEmail(email) {
		return nil, "", domainErrors.Validation("email %q is malformed", in.Email)
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", domainErrors.Validation("password must be at least %d characters", minPasswordLength)
	}

	role := model.RoleBuyer
	if in.Role != "" {
		parsed, ok := model.ParseRole(strings.ToLower(strings.TrimSpace(in.Role)))
		if !ok || parsed == model.RoleAdmin {
			return nil, "", domainErrors.Validation("role must be buyer or seller")
		}
		role = parsed
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", domainErrors.Service(err)
	}

	usr, err := u.users.Create(ctx, &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	})
	if err != nil {
		return nil, "", domainErrors.Service(err)
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", domainErrors.Service(err)
	}

	u.logger.InfoContext(ctx, "user registered", "user_id", usr.ID, "role", usr.Role)
	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", domainErrors.Service(err)
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if !usr.Active {
		return nil, "", domainErrors.ErrInactiveAccount
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", domainErrors.Service(err)
	}

	return usr, token, nil
}

// ResolvePrincipal turns a bearer token into the acting identity.
// Unknown tokens and users yield ErrUnauthenticated; deactivated accounts yield ErrInactiveAccount.
func (u *AuthUseCase) ResolvePrincipal(ctx context.Context, token string) (model.Principal, error) {
	if token == "" {
		return model.Principal{}, domainErrors.ErrUnauthenticated
	}

	id, err := u.tokens.ParseToken(token)
	if err != nil {
		return model.Principal{}, domainErrors.ErrUnauthenticated
	}

	usr, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return model.Principal{}, domainErrors.ErrUnauthenticated
		}
		return model.Principal{}, domainErrors.Service(err)
	}
	if !usr.Active {
		return model.Principal{}, domainErrors.ErrInactiveAccount
	}

	return usr.Principal(), nil
}

// requirePrincipal rejects anonymous or deactivated actors.
func requirePrincipal(p model.Principal) error {
	if p.ID <= 0 {
		return domainErrors.ErrUnauthenticated
	}
	if !p.Active {
		return domainErrors.ErrInactiveAccount
	}
	return nil
}

func requireRole(p model.Principal, roles ...model.Role) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return domainErrors.ErrForbidden
}
