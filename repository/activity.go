package repository

import (
	"context"

	"github.com/teamtask/backend/domain"
)

// ActivityRepository persists the append-only audit trail. Entries are never
// updated or deleted individually; they go away only with their task.
type ActivityRepository interface {
	Append(ctx context.Context, activity *domain.Activity) error
	ListByTask(ctx context.Context, taskID string) ([]domain.Activity, error)
}
