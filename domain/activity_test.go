package domain

import "testing"

func TestActivityFormattedDescription(t *testing.T) {
	for activity, want := range map[ActivityType]string{
		ActivityCreated:   "created this task",
		ActivityStarted:   "started working on this task",
		ActivitySubmitted: "submitted for approval",
		ActivityRejected:  "rejected this task",
	} {
		a := &Activity{Type: activity}
		if got := a.FormattedDescription(); got != want {
			t.Fatalf("%s: got %q, want %q", activity, got, want)
		}
	}
}

func TestActivityFormattedDescription_Comment(t *testing.T) {
	text := "looks good, shipping it"
	a := &Activity{Type: ActivityComment, Description: &text}
	if got := a.FormattedDescription(); got != text {
		t.Fatalf("got %q, want comment body", got)
	}

	// Unknown type with no body falls back to a generic line.
	b := &Activity{Type: ActivityType("mystery")}
	if got := b.FormattedDescription(); got != "performed an action" {
		t.Fatalf("got %q", got)
	}
}

func TestStatusIsResolved(t *testing.T) {
	for _, s := range []Status{StatusApproved, StatusRejected, StatusCompleted} {
		if !s.IsResolved() {
			t.Fatalf("%s should be resolved", s)
		}
	}
	for _, s := range []Status{StatusDraft, StatusAssigned, StatusPending, StatusInProgress} {
		if s.IsResolved() {
			t.Fatalf("%s should not be resolved", s)
		}
	}
}
