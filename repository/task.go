package repository

import (
	"context"
	"time"

	"github.com/teamtask/backend/domain"
)

// TaskFilter narrows task listings. UserID restricts to tasks the user
// created or is assigned to.
type TaskFilter struct {
	UserID string
	Status domain.Status
	Search string
	Limit  int
	Offset int
}

// StatusChange is a compare-and-swap transition write. The update applies
// only while the task still sits in From; a concurrent transition that moved
// it elsewhere surfaces as ErrStaleTask instead of silently winning.
type StatusChange struct {
	From            domain.Status
	To              domain.Status
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	ClearApproval   bool
}

// StatusCounts aggregates a user's tasks per status for the dashboard.
type StatusCounts map[domain.Status]int

func (c StatusCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	ListPendingApproval(ctx context.Context, excludeCreatorID string, limit int) ([]domain.Task, error)
	ListDueBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	UpdateStatus(ctx context.Context, id string, change StatusChange) error
	SetAssignees(ctx context.Context, taskID string, assigneeIDs []string) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, userID string) (StatusCounts, error)
}
