package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/teamtask/backend/domain"
	"github.com/teamtask/backend/repository"
)

type stubTaskRepo struct {
	tasks []domain.Task
}

func (r *stubTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return &r.tasks[i], nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (r *stubTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range r.tasks {
		if t.IsCreator(filter.UserID) || t.IsAssignee(filter.UserID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTaskRepo) ListPendingApproval(_ context.Context, excludeCreatorID string, limit int) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range r.tasks {
		if t.Status != domain.StatusPending || t.CreatorID == excludeCreatorID {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubTaskRepo) ListDueBetween(context.Context, string, time.Time, time.Time) ([]domain.Task, error) {
	return nil, nil
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	return task, nil
}

func (r *stubTaskRepo) Update(context.Context, *domain.Task) error { return nil }

func (r *stubTaskRepo) UpdateStatus(context.Context, string, repository.StatusChange) error {
	return nil
}

func (r *stubTaskRepo) SetAssignees(context.Context, string, []string) error { return nil }

func (r *stubTaskRepo) Delete(context.Context, string) error { return nil }

func (r *stubTaskRepo) CountByStatus(_ context.Context, userID string) (repository.StatusCounts, error) {
	counts := repository.StatusCounts{}
	for _, t := range r.tasks {
		if t.IsCreator(userID) || t.IsAssignee(userID) {
			counts[t.Status]++
		}
	}
	return counts, nil
}

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(context.Context) ([]domain.User, error) { return nil, nil }

func (r *stubUserRepo) Upsert(context.Context, *domain.User) error { return nil }

func (r *stubUserRepo) UpdateRole(context.Context, string, domain.Role) error { return nil }

func fixtureTasks() []domain.Task {
	return []domain.Task{
		{ID: "t1", CreatorID: "bob", Status: domain.StatusDraft},
		{ID: "t2", CreatorID: "bob", Status: domain.StatusInProgress},
		{ID: "t3", CreatorID: "bob", Status: domain.StatusPending},
		{ID: "t4", CreatorID: "bob", Status: domain.StatusCompleted},
		{ID: "t5", CreatorID: "bob", Status: domain.StatusApproved},
		{ID: "t6", CreatorID: "bob", Status: domain.StatusRejected},
		{ID: "t7", CreatorID: "alice", Status: domain.StatusPending},
		{ID: "t8", CreatorID: "carol", Status: domain.StatusPending, AssigneeIDs: []string{"bob"}},
	}
}

func newUseCase() *UseCase {
	users := &stubUserRepo{users: map[string]*domain.User{
		"alice": {ID: "alice", Role: domain.RoleAdmin},
		"bob":   {ID: "bob", Role: domain.RoleMember},
	}}
	return New(&stubTaskRepo{tasks: fixtureTasks()}, users, nil)
}

func TestSummarize_MemberStats(t *testing.T) {
	uc := newUseCase()
	summary, err := uc.Summarize(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Stats.Total != 7 {
		t.Fatalf("expected total 7, got %d", summary.Stats.Total)
	}
	if summary.Stats.Pending != 2 {
		t.Fatalf("expected 2 pending, got %d", summary.Stats.Pending)
	}
	if summary.Stats.InProgress != 1 {
		t.Fatalf("expected 1 in progress, got %d", summary.Stats.InProgress)
	}
	// Approved counts with completed in the headline number.
	if summary.Stats.Completed != 2 {
		t.Fatalf("expected 2 completed, got %d", summary.Stats.Completed)
	}

	// Resolved tasks stay out of the active list.
	for _, task := range summary.Tasks {
		if task.Status.IsResolved() {
			t.Fatalf("resolved task %s leaked into active list", task.ID)
		}
	}
	if summary.CanApprove {
		t.Fatalf("member must not see approval affordance")
	}
	if summary.Approvals != nil {
		t.Fatalf("member must not receive an approvals queue")
	}
}

func TestSummarize_AdminApprovalsExcludeOwn(t *testing.T) {
	uc := newUseCase()
	summary, err := uc.Summarize(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.CanApprove {
		t.Fatalf("admin should see approval affordance")
	}
	for _, task := range summary.Approvals {
		if task.CreatorID == "alice" {
			t.Fatalf("own submission %s must not appear in approvals", task.ID)
		}
		if task.Status != domain.StatusPending {
			t.Fatalf("non-pending task %s in approvals", task.ID)
		}
	}
	if len(summary.Approvals) != 2 {
		t.Fatalf("expected 2 approvals, got %d", len(summary.Approvals))
	}
}

func TestSummarize_UnknownUser(t *testing.T) {
	uc := newUseCase()
	if _, err := uc.Summarize(context.Background(), "ghost"); err == nil {
		t.Fatalf("expected error")
	}
}
