package domain

import "time"

// ActivityType names one kind of audit entry on a task's timeline.
type ActivityType string

const (
	ActivityCreated   ActivityType = "created"
	ActivityAssigned  ActivityType = "assigned"
	ActivityStarted   ActivityType = "started"
	ActivitySubmitted ActivityType = "submitted"
	ActivityApproved  ActivityType = "approved"
	ActivityRejected  ActivityType = "rejected"
	ActivityUpdated   ActivityType = "updated"
	ActivityComment   ActivityType = "comment"
)

// Activity is one immutable audit entry recording a lifecycle transition or
// comment on a task. A nil ActorID means the entry was produced by the system.
// Entries are never edited or deleted individually; they disappear only when
// the owning task is deleted.
type Activity struct {
	ID          string       `json:"id"`
	TaskID      string       `json:"task_id"`
	ActorID     *string      `json:"actor_id,omitempty"`
	Type        ActivityType `json:"type"`
	Description *string      `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

var activityDescriptions = map[ActivityType]string{
	ActivityCreated:   "created this task",
	ActivityAssigned:  "assigned this task",
	ActivityStarted:   "started working on this task",
	ActivitySubmitted: "submitted for approval",
	ActivityApproved:  "approved this task",
	ActivityRejected:  "rejected this task",
	ActivityUpdated:   "updated this task",
}

// FormattedDescription renders the human-readable timeline text. Fixed-form
// types resolve through a lookup table; free-text types (comment) fall back
// to the stored description.
func (a *Activity) FormattedDescription() string {
	if a == nil {
		return ""
	}
	if text, ok := activityDescriptions[a.Type]; ok {
		return text
	}
	if a.Description != nil && *a.Description != "" {
		return *a.Description
	}
	return "performed an action"
}
