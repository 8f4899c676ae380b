package team

import (
	"context"

	"go.uber.org/zap"

	"github.com/teamtask/backend/domain"
	"github.com/teamtask/backend/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

// ListMembers returns the whole team roster.
func (uc *UseCase) ListMembers(ctx context.Context, actorID string) ([]domain.User, error) {
	if _, err := uc.users.GetByID(ctx, actorID); err != nil {
		return nil, err
	}
	return uc.users.List(ctx)
}

// UpdateRole changes a member's role. Admins only.
func (uc *UseCase) UpdateRole(ctx context.Context, actorID, targetID, rawRole string) error {
	actor, err := uc.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != domain.RoleAdmin {
		return domain.NewError(domain.ErrCodeForbidden, "only admins can change roles")
	}

	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return err
	}
	if err := uc.users.UpdateRole(ctx, targetID, role); err != nil {
		return err
	}
	uc.logger.Info("role updated",
		zap.String("actor_id", actorID),
		zap.String("user_id", targetID),
		zap.String("role", rawRole))
	return nil
}
