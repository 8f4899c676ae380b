package domain

import (
	"errors"
	"testing"
)

func TestTransition_SubmitPaths(t *testing.T) {
	cases := []struct {
		name       string
		current    Status
		isCreator  bool
		isAssignee bool
	}{
		{"creator submits draft", StatusDraft, true, false},
		{"assignee submits assigned", StatusAssigned, false, true},
		{"assignee submits in-progress", StatusInProgress, false, true},
		{"creator resubmits rejected", StatusRejected, true, false},
		{"assignee resubmits rejected", StatusRejected, false, true},
	}
	for _, tc := range cases {
		next, activity, err := Transition(tc.current, ActionSubmit, RoleMember, tc.isCreator, tc.isAssignee)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if next != StatusPending {
			t.Fatalf("%s: expected pending, got %s", tc.name, next)
		}
		if activity != ActivitySubmitted {
			t.Fatalf("%s: expected submitted activity, got %s", tc.name, activity)
		}
	}
}

func TestTransition_SubmitForbidden(t *testing.T) {
	cases := []struct {
		name       string
		current    Status
		role       Role
		isCreator  bool
		isAssignee bool
	}{
		{"bystander cannot submit draft", StatusDraft, RoleMember, false, false},
		{"assignee cannot submit someone else's draft", StatusDraft, RoleMember, false, true},
		{"creator cannot submit assigned without being assignee", StatusAssigned, RoleMember, true, false},
		{"cannot submit pending twice", StatusPending, RoleMember, true, false},
		{"cannot submit approved", StatusApproved, RoleMember, true, true},
		{"admin role alone grants nothing", StatusDraft, RoleAdmin, false, false},
	}
	for _, tc := range cases {
		_, _, err := Transition(tc.current, ActionSubmit, tc.role, tc.isCreator, tc.isAssignee)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		var derr *Error
		if !errors.As(err, &derr) || derr.Code != ErrCodeForbidden {
			t.Fatalf("%s: expected FORBIDDEN, got %v", tc.name, err)
		}
	}
}

func TestTransition_StartWork(t *testing.T) {
	next, activity, err := Transition(StatusAssigned, ActionStartWork, RoleMember, false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StatusInProgress || activity != ActivityStarted {
		t.Fatalf("expected in-progress/started, got %s/%s", next, activity)
	}

	// Only an assignee on an assigned task may start work.
	if _, _, err := Transition(StatusAssigned, ActionStartWork, RoleAdmin, true, false); err == nil {
		t.Fatalf("expected error for non-assignee")
	}
	if _, _, err := Transition(StatusInProgress, ActionStartWork, RoleMember, false, true); err == nil {
		t.Fatalf("expected error for repeated start")
	}
	if _, _, err := Transition(StatusDraft, ActionStartWork, RoleMember, false, true); err == nil {
		t.Fatalf("expected error for draft")
	}
}

func TestTransition_ApproveAndReject(t *testing.T) {
	next, activity, err := Transition(StatusPending, ActionApprove, RoleAdmin, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StatusApproved || activity != ActivityApproved {
		t.Fatalf("expected approved, got %s/%s", next, activity)
	}

	next, activity, err = Transition(StatusPending, ActionReject, RoleAdmin, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StatusRejected || activity != ActivityRejected {
		t.Fatalf("expected rejected, got %s/%s", next, activity)
	}
}

func TestTransition_SelfApprovalForbidden(t *testing.T) {
	if _, _, err := Transition(StatusPending, ActionApprove, RoleAdmin, true, false); err == nil {
		t.Fatalf("expected error for self-approval")
	}
	if _, _, err := Transition(StatusPending, ActionReject, RoleAdmin, true, false); err == nil {
		t.Fatalf("expected error for self-rejection")
	}
}

func TestTransition_MemberCannotApprove(t *testing.T) {
	if _, _, err := Transition(StatusPending, ActionApprove, RoleMember, false, true); err == nil {
		t.Fatalf("expected error")
	}
	if _, _, err := Transition(StatusPending, ActionReject, RoleMember, false, true); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTransition_ApproveRequiresPending(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusAssigned, StatusInProgress, StatusCompleted, StatusApproved, StatusRejected} {
		if _, _, err := Transition(s, ActionApprove, RoleAdmin, false, false); err == nil {
			t.Fatalf("expected error approving from %s", s)
		}
	}
}

func TestTransition_UnknownAction(t *testing.T) {
	_, _, err := Transition(StatusDraft, Action("archive"), RoleAdmin, true, false)
	if err == nil {
		t.Fatalf("expected error")
	}
	var derr *Error
	if !errors.As(err, &derr) || derr.Code != ErrCodeInvalid {
		t.Fatalf("expected INVALID, got %v", err)
	}
}

func TestParseCreateAction(t *testing.T) {
	for raw, want := range map[string]CreateAction{
		"":       CreateDraft,
		"draft":  CreateDraft,
		"submit": CreateSubmit,
		"assign": CreateAssign,
	} {
		got, err := ParseCreateAction(raw)
		if err != nil {
			t.Fatalf("ParseCreateAction(%q): unexpected error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseCreateAction(%q) = %s, want %s", raw, got, want)
		}
	}
	if _, err := ParseCreateAction("publish"); err == nil {
		t.Fatalf("expected error")
	}
}
