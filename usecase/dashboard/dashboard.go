package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/teamtask/backend/domain"
	"github.com/teamtask/backend/repository"
)

// Summary is the per-user dashboard payload: headline counts, the actor's
// active tasks, and (for admins) tasks awaiting a decision.
type Summary struct {
	Stats      Stats         `json:"stats"`
	Tasks      []domain.Task `json:"tasks"`
	Approvals  []domain.Task `json:"approvals,omitempty"`
	CanApprove bool          `json:"can_approve"`
}

type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

type UseCase struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		users:  users,
		logger: logger,
	}
}

const recentLimit = 5

// Summarize builds the dashboard for the actor. Resolved tasks (approved,
// rejected, completed) are excluded from the active list; approved tasks
// count with completed in the headline stats. Admins additionally see recent
// pending submissions from other users, since nobody decides their own task.
func (uc *UseCase) Summarize(ctx context.Context, actorID string) (*Summary, error) {
	actor, err := uc.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	counts, err := uc.tasks.CountByStatus(ctx, actorID)
	if err != nil {
		return nil, err
	}

	all, err := uc.tasks.List(ctx, repository.TaskFilter{UserID: actorID})
	if err != nil {
		return nil, err
	}
	active := make([]domain.Task, 0, recentLimit)
	for _, t := range all {
		if t.Status.IsResolved() {
			continue
		}
		active = append(active, t)
		if len(active) == recentLimit {
			break
		}
	}

	summary := &Summary{
		Stats: Stats{
			Total:      counts.Total(),
			Pending:    counts[domain.StatusPending],
			InProgress: counts[domain.StatusInProgress],
			Completed:  counts[domain.StatusCompleted] + counts[domain.StatusApproved],
		},
		Tasks:      active,
		CanApprove: actor.Role == domain.RoleAdmin,
	}

	if actor.Role == domain.RoleAdmin {
		approvals, err := uc.tasks.ListPendingApproval(ctx, actorID, recentLimit)
		if err != nil {
			return nil, err
		}
		summary.Approvals = approvals
	}

	return summary, nil
}
