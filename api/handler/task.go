package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/teamtask/backend/api/transport"
	"github.com/teamtask/backend/domain"
	"github.com/teamtask/backend/pkg/httpcontext"
	taskUC "github.com/teamtask/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List my tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == "" {
		return
	}

	filter := taskUC.ListFilter{
		Status: string(ctx.QueryArgs().Peek("status")),
		Search: string(ctx.QueryArgs().Peek("search")),
		Limit:  parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset: parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, actorID, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == "" {
		return
	}

	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	due, ok := h.parseDueDate(ctx, req.DueDate)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, actorID, taskUC.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     due,
		AssigneeIDs: req.AssigneeIDs,
		Action:      req.Action,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Get task with timeline
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == "" {
		return
	}
	taskID := h.taskID(ctx)
	if taskID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, activities, err := h.uc.GetTask(stdCtx, taskID, actorID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	timeline := make([]transport.ActivityView, 0, len(activities))
	for i := range activities {
		entry := &activities[i]
		view := transport.ActivityView{
			ID:          entry.ID,
			Type:        string(entry.Type),
			Description: entry.FormattedDescription(),
			CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
		}
		if entry.ActorID != nil {
			view.ActorID = *entry.ActorID
		}
		timeline = append(timeline, view)
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"task":       task,
		"activities": timeline,
	})
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == "" {
		return
	}
	taskID := h.taskID(ctx)
	if taskID == "" {
		return
	}

	var req transport.TaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	input := taskUC.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		AssigneeIDs: req.AssigneeIDs,
		Action:      req.Action,
	}
	if req.DueDate != nil {
		due, ok := h.parseDueDate(ctx, *req.DueDate)
		if !ok {
			return
		}
		input.DueDate = due
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, taskID, actorID, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == "" {
		return
	}
	taskID := h.taskID(ctx)
	if taskID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, taskID, actorID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Start work on an assigned task
// @Tags tasks
// @Router /api/v1/tasks/{id}/start-work [post]
func (h *TaskHandler) StartWork(ctx *fasthttp.RequestCtx) {
	h.lifecycle(ctx, h.uc.StartWork)
}

// @Summary Submit task for approval
// @Tags tasks
// @Router /api/v1/tasks/{id}/submit [post]
func (h *TaskHandler) SubmitTask(ctx *fasthttp.RequestCtx) {
	h.lifecycle(ctx, h.uc.SubmitTask)
}

// @Summary Approve pending task
// @Tags tasks
// @Router /api/v1/tasks/{id}/approve [post]
func (h *TaskHandler) ApproveTask(ctx *fasthttp.RequestCtx) {
	h.lifecycle(ctx, h.uc.ApproveTask)
}

// lifecycle runs a transition operation of the shape (taskID, actorID) → task.
func (h *TaskHandler) lifecycle(ctx *fasthttp.RequestCtx, op func(context.Context, string, string) (*domain.Task, error)) {
	actorID := h.actorID(ctx)
	if actorID == "" {
		return
	}
	taskID := h.taskID(ctx)
	if taskID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := op(stdCtx, taskID, actorID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Reject pending task
// @Tags tasks
// @Router /api/v1/tasks/{id}/reject [post]
func (h *TaskHandler) RejectTask(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == "" {
		return
	}
	taskID := h.taskID(ctx)
	if taskID == "" {
		return
	}

	var req transport.RejectRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.RejectTask(stdCtx, taskID, actorID, req.Reason)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Comment on a task
// @Tags tasks
// @Router /api/v1/tasks/{id}/comments [post]
func (h *TaskHandler) AddComment(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == "" {
		return
	}
	taskID := h.taskID(ctx)
	if taskID == "" {
		return
	}

	var req transport.CommentRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.AddComment(stdCtx, taskID, actorID, req.Text); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, nil)
}

// @Summary Tasks due in a date range
// @Tags tasks
// @Router /api/v1/calendar [get]
func (h *TaskHandler) Calendar(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == "" {
		return
	}

	from, err := time.Parse("2006-01-02", string(ctx.QueryArgs().Peek("from")))
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid from date", nil))
		return
	}
	to, err := time.Parse("2006-01-02", string(ctx.QueryArgs().Peek("to")))
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid to date", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.CalendarTasks(stdCtx, actorID, from, to)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id", nil))
	}
	return id
}

func (h *TaskHandler) parseDueDate(ctx *fasthttp.RequestCtx, raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		if parsed, err = time.Parse(time.RFC3339, raw); err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid due date", nil))
			return nil, false
		}
	}
	return &parsed, true
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
