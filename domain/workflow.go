package domain

// Action is a lifecycle operation requested against a task.
type Action string

const (
	ActionSubmit    Action = "submit"
	ActionStartWork Action = "start_work"
	ActionApprove   Action = "approve"
	ActionReject    Action = "reject"
)

// CreateAction selects how a new task enters the lifecycle.
type CreateAction string

const (
	CreateDraft  CreateAction = "draft"
	CreateSubmit CreateAction = "submit"
	CreateAssign CreateAction = "assign"
)

// ParseCreateAction validates a raw creation action.
func ParseCreateAction(raw string) (CreateAction, error) {
	switch CreateAction(raw) {
	case CreateDraft, CreateSubmit, CreateAssign:
		return CreateAction(raw), nil
	case "":
		return CreateDraft, nil
	default:
		return "", NewValidationError("invalid action", map[string]string{
			"action": "action must be draft, submit, or assign",
		})
	}
}

// Transition is the task lifecycle state machine. It decides, from the current
// status and the requesting actor's relation to the task, whether the action
// is permitted, and if so which status the task moves to and which activity
// type records the move. It holds no state: every decision derives from the
// four inputs.
//
// The workflow is hybrid: admins may directly assign work (tasks start in
// assigned, skipping member-initiated drafting), while members self-originate
// drafts that require approval. Approved and rejected are terminal for edits;
// a rejected task re-enters pending via submit rather than reopening as a
// draft.
func Transition(current Status, action Action, role Role, isCreator, isAssignee bool) (Status, ActivityType, error) {
	switch action {
	case ActionSubmit:
		switch {
		case current == StatusDraft && isCreator:
			return StatusPending, ActivitySubmitted, nil
		case current == StatusAssigned && isAssignee:
			return StatusPending, ActivitySubmitted, nil
		case current == StatusInProgress && isAssignee:
			return StatusPending, ActivitySubmitted, nil
		case current == StatusRejected && (isCreator || isAssignee):
			return StatusPending, ActivitySubmitted, nil
		}
		return "", "", NewAuthorizationError("submit")

	case ActionStartWork:
		if current == StatusAssigned && isAssignee {
			return StatusInProgress, ActivityStarted, nil
		}
		return "", "", NewAuthorizationError("start work on")

	case ActionApprove:
		if current == StatusPending && role == RoleAdmin && !isCreator {
			return StatusApproved, ActivityApproved, nil
		}
		return "", "", NewAuthorizationError("approve")

	case ActionReject:
		if current == StatusPending && role == RoleAdmin && !isCreator {
			return StatusRejected, ActivityRejected, nil
		}
		return "", "", NewAuthorizationError("reject")

	default:
		return "", "", NewValidationError("unknown action", map[string]string{
			"action": "unknown lifecycle action",
		})
	}
}
