package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teamtask/backend/domain"
	"github.com/teamtask/backend/repository"
	"github.com/teamtask/backend/usecase"
)

// UseCase drives the task lifecycle. Every operation takes an explicit actor
// id and re-derives the actor's role and relation to the task from storage;
// nothing is trusted from the transport layer.
type UseCase struct {
	tasks      repository.TaskRepository
	users      repository.UserRepository
	activities repository.ActivityRepository
	spool      usecase.ActivitySpool
	logger     *zap.Logger
	now        func() time.Time
}

func New(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	activities repository.ActivityRepository,
	spool usecase.ActivitySpool,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:      tasks,
		users:      users,
		activities: activities,
		spool:      spool,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateInput carries the fields accepted when a task is created.
type CreateInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	AssigneeIDs []string
	Action      string
}

// UpdateInput carries partial field edits. Nil pointers leave the field
// unchanged; a nil AssigneeIDs slice leaves assignments alone.
type UpdateInput struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	DueDate     *time.Time
	AssigneeIDs []string
	Action      string
}

// ListFilter narrows ListTasks output.
type ListFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

// CreateTask builds a new task for the actor. The creation action decides the
// entry point: draft keeps it private, submit sends it straight to pending,
// and assign (admins only, at least one assignee) hands it out as assigned.
func (uc *UseCase) CreateTask(ctx context.Context, actorID string, input CreateInput) (*domain.Task, error) {
	actor, err := uc.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !domain.CanCreate(actor) {
		return nil, domain.NewAuthorizationError("create")
	}

	action, err := domain.ParseCreateAction(input.Action)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		fields["title"] = "a task title is required"
	} else if len(title) > 255 {
		fields["title"] = "the task title cannot exceed 255 characters"
	}
	priority, perr := domain.ParsePriority(input.Priority)
	if perr != nil {
		fields["priority"] = "priority must be low, medium, or high"
	}
	if input.DueDate != nil && !input.DueDate.After(uc.today()) {
		fields["due_date"] = "the due date must be in the future"
	}
	if action == domain.CreateAssign && len(input.AssigneeIDs) == 0 {
		fields["assignee_ids"] = "assigning a task requires at least one assignee"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError("invalid task", fields)
	}

	if action == domain.CreateAssign && actor.Role != domain.RoleAdmin {
		return nil, domain.NewAuthorizationError("assign")
	}

	for _, assigneeID := range input.AssigneeIDs {
		if _, err := uc.users.GetByID(ctx, assigneeID); err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				return nil, domain.NewValidationError("invalid task", map[string]string{
					"assignee_ids": "one or more selected team members do not exist",
				})
			}
			return nil, err
		}
	}

	status := domain.StatusDraft
	switch action {
	case domain.CreateSubmit:
		status = domain.StatusPending
	case domain.CreateAssign:
		status = domain.StatusAssigned
	}

	task := &domain.Task{
		CreatorID:   actorID,
		Title:       title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     input.DueDate,
		AssigneeIDs: input.AssigneeIDs,
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	switch action {
	case domain.CreateSubmit:
		uc.record(ctx, created.ID, &actorID, domain.ActivitySubmitted, nil)
	case domain.CreateAssign:
		uc.record(ctx, created.ID, &actorID, domain.ActivityCreated, nil)
		uc.record(ctx, created.ID, &actorID, domain.ActivityAssigned, nil)
	default:
		uc.record(ctx, created.ID, &actorID, domain.ActivityCreated, nil)
	}

	return created, nil
}

// UpdateTask applies field edits. When the input carries action=submit and the
// actor may submit from the task's current status, the task also moves to
// pending; otherwise a plain updated entry is logged.
func (uc *UseCase) UpdateTask(ctx context.Context, taskID, actorID string, input UpdateInput) (*domain.Task, error) {
	actor, task, err := uc.load(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}
	if !domain.CanUpdate(actor, task) {
		return nil, domain.NewAuthorizationError("update")
	}

	fields := map[string]string{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			fields["title"] = "a task title is required"
		} else if len(title) > 255 {
			fields["title"] = "the task title cannot exceed 255 characters"
		} else {
			task.Title = title
		}
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		priority, err := domain.ParsePriority(*input.Priority)
		if err != nil {
			fields["priority"] = "priority must be low, medium, or high"
		} else {
			task.Priority = priority
		}
	}
	if input.Status != nil {
		status, err := domain.ParseStatus(*input.Status)
		if err != nil || !directStatusEditAllowed(status) {
			fields["status"] = "invalid status value"
		} else {
			task.Status = status
		}
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError("invalid task", fields)
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	if input.AssigneeIDs != nil {
		if err := uc.tasks.SetAssignees(ctx, task.ID, input.AssigneeIDs); err != nil {
			return nil, err
		}
		task.AssigneeIDs = input.AssigneeIDs
	}

	if input.Action == string(domain.ActionSubmit) && domain.CanSubmit(actor, task) {
		if err := uc.transition(ctx, actor, task, domain.ActionSubmit, nil); err != nil {
			return nil, err
		}
		return task, nil
	}

	uc.record(ctx, task.ID, &actorID, domain.ActivityUpdated, nil)
	return task, nil
}

// DeleteTask removes a task with its assignees and activities. Only the
// creator may delete, and only while the task is draft or assigned.
func (uc *UseCase) DeleteTask(ctx context.Context, taskID, actorID string) error {
	actor, task, err := uc.load(ctx, taskID, actorID)
	if err != nil {
		return err
	}
	if !domain.CanDelete(actor, task) {
		return domain.NewAuthorizationError("delete")
	}
	return uc.tasks.Delete(ctx, task.ID)
}

// StartWork moves an assigned task to in-progress.
func (uc *UseCase) StartWork(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	actor, task, err := uc.load(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}
	if err := uc.transition(ctx, actor, task, domain.ActionStartWork, nil); err != nil {
		return nil, err
	}
	return task, nil
}

// SubmitTask sends a task to pending for approval. Resubmitting a rejected
// task clears the previous approval stamp; the rejection reason stays on the
// record until the next reject overwrites it.
func (uc *UseCase) SubmitTask(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	actor, task, err := uc.load(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}
	if err := uc.transition(ctx, actor, task, domain.ActionSubmit, nil); err != nil {
		return nil, err
	}
	return task, nil
}

// ApproveTask marks a pending task approved. An admin cannot approve their
// own task; a second approve after the first lands fails on the pending
// precondition and logs nothing.
func (uc *UseCase) ApproveTask(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	actor, task, err := uc.load(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}
	if err := uc.transition(ctx, actor, task, domain.ActionApprove, nil); err != nil {
		return nil, err
	}
	return task, nil
}

// RejectTask marks a pending task rejected with a mandatory reason.
func (uc *UseCase) RejectTask(ctx context.Context, taskID, actorID, reason string) (*domain.Task, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidationError("invalid rejection", map[string]string{
			"rejection_reason": "a rejection reason is required",
		})
	}
	actor, task, err := uc.load(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}
	if err := uc.transition(ctx, actor, task, domain.ActionReject, &reason); err != nil {
		return nil, err
	}
	return task, nil
}

// AddComment appends a free-text activity to the task timeline.
func (uc *UseCase) AddComment(ctx context.Context, taskID, actorID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.NewValidationError("invalid comment", map[string]string{
			"comment": "a comment cannot be empty",
		})
	}
	actor, task, err := uc.load(ctx, taskID, actorID)
	if err != nil {
		return err
	}
	if !domain.CanView(actor, task) {
		return domain.NewAuthorizationError("comment on")
	}
	uc.record(ctx, task.ID, &actorID, domain.ActivityComment, &text)
	return nil
}

// GetTask returns a task with its timeline, newest entries first.
func (uc *UseCase) GetTask(ctx context.Context, taskID, actorID string) (*domain.Task, []domain.Activity, error) {
	actor, task, err := uc.load(ctx, taskID, actorID)
	if err != nil {
		return nil, nil, err
	}
	if !domain.CanView(actor, task) {
		return nil, nil, domain.NewAuthorizationError("view")
	}
	activities, err := uc.activities.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, nil, err
	}
	return task, activities, nil
}

// ListTasks returns tasks the actor created or is assigned to.
func (uc *UseCase) ListTasks(ctx context.Context, actorID string, filter ListFilter) ([]domain.Task, error) {
	repoFilter := repository.TaskFilter{
		UserID: actorID,
		Search: filter.Search,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	if filter.Status != "" {
		status, err := domain.ParseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		repoFilter.Status = status
	}
	return uc.tasks.List(ctx, repoFilter)
}

// CalendarTasks returns the actor's tasks due within the inclusive range,
// ordered by due date.
func (uc *UseCase) CalendarTasks(ctx context.Context, actorID string, from, to time.Time) ([]domain.Task, error) {
	if to.Before(from) {
		return nil, domain.NewValidationError("invalid range", map[string]string{
			"to": "range end precedes range start",
		})
	}
	return uc.tasks.ListDueBetween(ctx, actorID, from, to)
}

// transition runs the state machine, writes the status change as a CAS
// against the loaded status, and records the resulting activity. The task is
// mutated in place on success.
func (uc *UseCase) transition(ctx context.Context, actor *domain.User, task *domain.Task, action domain.Action, reason *string) error {
	next, activity, err := domain.Transition(
		task.Status, action, actor.Role,
		task.IsCreator(actor.ID), task.IsAssignee(actor.ID),
	)
	if err != nil {
		return err
	}

	change := repository.StatusChange{From: task.Status, To: next}
	switch action {
	case domain.ActionApprove, domain.ActionReject:
		now := uc.now()
		change.ApprovedBy = &actor.ID
		change.ApprovedAt = &now
		change.RejectionReason = reason
		task.ApprovedBy = &actor.ID
		task.ApprovedAt = &now
		if reason != nil {
			task.RejectionReason = reason
		}
	case domain.ActionSubmit:
		// Resubmission re-enters pending: the approval stamp comes off while
		// the previous rejection reason stays readable.
		change.ClearApproval = true
		task.ApprovedBy = nil
		task.ApprovedAt = nil
	}

	if err := uc.tasks.UpdateStatus(ctx, task.ID, change); err != nil {
		return err
	}
	task.Status = next

	uc.record(ctx, task.ID, &actor.ID, activity, reason)
	return nil
}

// record appends an audit entry, falling back to the durable spool when the
// primary store rejects the write. Transitions have already committed at this
// point, so the entry must not be lost.
func (uc *UseCase) record(ctx context.Context, taskID string, actorID *string, kind domain.ActivityType, description *string) {
	entry := &domain.Activity{
		TaskID:      taskID,
		ActorID:     actorID,
		Type:        kind,
		Description: description,
		CreatedAt:   uc.now(),
	}
	if err := uc.activities.Append(ctx, entry); err == nil {
		return
	} else if uc.spool == nil {
		uc.logger.Error("activity lost: append failed and no spool configured",
			zap.String("task_id", taskID), zap.String("type", string(kind)), zap.Error(err))
		return
	}
	if err := uc.spool.SpoolActivity(ctx, entry); err != nil {
		uc.logger.Error("failed to spool activity",
			zap.String("task_id", taskID), zap.String("type", string(kind)), zap.Error(err))
		return
	}
	uc.logger.Warn("activity spooled for later replay",
		zap.String("task_id", taskID), zap.String("type", string(kind)))
}

func (uc *UseCase) load(ctx context.Context, taskID, actorID string) (*domain.User, *domain.Task, error) {
	actor, err := uc.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	return actor, task, nil
}

func (uc *UseCase) today() time.Time {
	now := uc.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// directStatusEditAllowed limits which statuses a field edit may set
// outright; workflow statuses (assigned, approved, rejected) are reachable
// only through their dedicated actions.
func directStatusEditAllowed(status domain.Status) bool {
	switch status {
	case domain.StatusDraft, domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted:
		return true
	default:
		return false
	}
}
