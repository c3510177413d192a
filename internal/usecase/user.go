package usecase

import (
	"context"
	"log/slog"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

// UserUseCase exposes account administration to admins.
type UserUseCase struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserUseCase constructs UserUseCase.
func NewUserUseCase(users repository.UserRepository, logger *slog.Logger) *UserUseCase {
	return &UserUseCase{users: users, logger: logger}
}

func (u *UserUseCase) List(ctx context.Context, actor model.Principal) ([]model.User, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, domainErrors.Service(err)
	}
	return users, nil
}

func (u *UserUseCase) Get(ctx context.Context, actor model.Principal, id int64) (*model.User, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, domainErrors.ErrNotFound
	}
	usr, err := u.users.GetByID(ctx, id)
	if err != nil {
		return nil, domainErrors.Service(err)
	}
	return usr, nil
}

// SetActive toggles account status. Admins cannot deactivate themselves.
func (u *UserUseCase) SetActive(ctx context.Context, actor model.Principal, id int64, active bool) (*model.User, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, domainErrors.ErrNotFound
	}
	if id == actor.ID && !active {
		return nil, domainErrors.Validation("cannot deactivate own account")
	}

	usr, err := u.users.SetActive(ctx, id, active)
	if err != nil {
		return nil, domainErrors.Service(err)
	}

	u.logger.InfoContext(ctx, "user status changed", "user_id", id, "active", active, "admin_id", actor.ID)
	return usr, nil
}
