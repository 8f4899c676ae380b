package domain

import "time"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusAssigned   Status = "assigned"
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
)

// ParseStatus validates a raw status string against the enum.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusDraft, StatusAssigned, StatusPending, StatusInProgress,
		StatusCompleted, StatusApproved, StatusRejected:
		return Status(raw), nil
	default:
		return "", NewValidationError("invalid status", map[string]string{
			"status": "invalid status value",
		})
	}
}

// IsResolved reports whether the status counts as resolved: such tasks are
// excluded from "my active tasks" views.
func (s Status) IsResolved() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCompleted:
		return true
	default:
		return false
	}
}

// Priority ranks a task's urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a raw priority string against the enum.
func ParsePriority(raw string) (Priority, error) {
	switch Priority(raw) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(raw), nil
	default:
		return "", NewValidationError("invalid priority", map[string]string{
			"priority": "priority must be low, medium, or high",
		})
	}
}

// Task is the unit of work tracked by the system.
//
// ApprovedBy and ApprovedAt are both nil or both set, and only while the task
// sits in approved or rejected; resubmission clears them. RejectionReason
// survives resubmission so the prior cycle's feedback stays readable on the
// record until the next reject overwrites it.
type Task struct {
	ID              string     `json:"id"`
	CreatorID       string     `json:"creator_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Status          Status     `json:"status"`
	Priority        Priority   `json:"priority"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	AssigneeIDs     []string   `json:"assignee_ids,omitempty"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsCreator reports whether the user created this task.
func (t *Task) IsCreator(userID string) bool {
	return t != nil && userID != "" && t.CreatorID == userID
}

// IsAssignee reports whether the user is assigned to this task.
func (t *Task) IsAssignee(userID string) bool {
	if t == nil || userID == "" {
		return false
	}
	for _, id := range t.AssigneeIDs {
		if id == userID {
			return true
		}
	}
	return false
}
