package team

import (
	"context"
	"testing"

	"github.com/teamtask/backend/domain"
)

type memUserRepo struct {
	users map[string]*domain.User
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) List(context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUserRepo) Upsert(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func newTeam() (*UseCase, *memUserRepo) {
	repo := &memUserRepo{users: map[string]*domain.User{
		"alice": {ID: "alice", Role: domain.RoleAdmin},
		"bob":   {ID: "bob", Role: domain.RoleMember},
	}}
	return New(repo, nil), repo
}

func TestListMembers(t *testing.T) {
	uc, _ := newTeam()
	members, err := uc.ListMembers(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if _, err := uc.ListMembers(context.Background(), "ghost"); err == nil {
		t.Fatalf("expected error for unknown actor")
	}
}

func TestUpdateRole_AdminOnly(t *testing.T) {
	uc, repo := newTeam()
	ctx := context.Background()

	err := uc.UpdateRole(ctx, "bob", "alice", "member")
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}

	err = uc.UpdateRole(ctx, "alice", "bob", "approver")
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected INVALID for retired role, got %v", err)
	}

	if err := uc.UpdateRole(ctx, "alice", "bob", "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.users["bob"].Role != domain.RoleAdmin {
		t.Fatalf("role not applied")
	}
}
