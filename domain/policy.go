package domain

// Authorization predicates for the task workflow. Each predicate is a pure
// function over the actor and a task snapshot; callers must evaluate them
// server-side on every mutating request from freshly loaded records, never
// from client-supplied flags.

// CanView allows the creator, any assignee, and any admin.
func CanView(actor *User, task *Task) bool {
	if actor == nil || task == nil {
		return false
	}
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleMember:
		return task.IsCreator(actor.ID) || task.IsAssignee(actor.ID)
	default:
		return false
	}
}

// CanCreate allows every authenticated user.
func CanCreate(actor *User) bool {
	return actor != nil
}

// CanUpdate allows the creator or an assignee while the task has not been
// submitted or resolved.
func CanUpdate(actor *User, task *Task) bool {
	if actor == nil || task == nil {
		return false
	}
	switch task.Status {
	case StatusApproved, StatusRejected, StatusPending:
		return false
	}
	return task.IsCreator(actor.ID) || task.IsAssignee(actor.ID)
}

// CanDelete allows only the creator, and only before work has started or been
// submitted. Later deletion is blocked to preserve audit continuity.
func CanDelete(actor *User, task *Task) bool {
	if actor == nil || task == nil {
		return false
	}
	return task.IsCreator(actor.ID) &&
		(task.Status == StatusDraft || task.Status == StatusAssigned)
}

// CanStartWork allows an assignee on an assigned task.
func CanStartWork(actor *User, task *Task) bool {
	if actor == nil || task == nil {
		return false
	}
	return task.IsAssignee(actor.ID) && task.Status == StatusAssigned
}

// CanSubmit mirrors the submit arm of the state machine: the creator may
// submit a draft or a rejected task, an assignee may submit from assigned,
// in-progress, or rejected.
func CanSubmit(actor *User, task *Task) bool {
	if actor == nil || task == nil {
		return false
	}
	if task.IsCreator(actor.ID) {
		if task.Status == StatusDraft || task.Status == StatusRejected {
			return true
		}
	}
	if task.IsAssignee(actor.ID) {
		switch task.Status {
		case StatusAssigned, StatusInProgress, StatusRejected:
			return true
		}
	}
	return false
}

// CanApprove allows an admin on a pending task they did not create.
// Self-approval is forbidden regardless of role.
func CanApprove(actor *User, task *Task) bool {
	if actor == nil || task == nil {
		return false
	}
	switch actor.Role {
	case RoleAdmin:
		return task.Status == StatusPending && !task.IsCreator(actor.ID)
	default:
		return false
	}
}

// CanReject shares approval's preconditions.
func CanReject(actor *User, task *Task) bool {
	return CanApprove(actor, task)
}
