package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamtask/backend/domain"
	"github.com/teamtask/backend/repository"
)

const taskColumns = `
	t.id, t.user_id, t.title, t.description, t.status, t.priority, t.due_date,
	t.approved_by, t.approved_at, t.rejection_reason, t.created_at, t.updated_at,
	COALESCE(array_agg(ta.user_id) FILTER (WHERE ta.user_id IS NOT NULL), '{}')
`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks t
	LEFT JOIN task_assignees ta ON ta.task_id = t.id
	WHERE t.id = $1
	GROUP BY t.id
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks t
	LEFT JOIN task_assignees ta ON ta.task_id = t.id
	WHERE ($1 = '' OR t.user_id = $1 OR EXISTS (
		SELECT 1 FROM task_assignees mine WHERE mine.task_id = t.id AND mine.user_id = $1
	))
	  AND ($2 = '' OR t.status = $2)
	  AND ($3 = '' OR t.title ILIKE '%' || $3 || '%')
	GROUP BY t.id
	ORDER BY t.created_at DESC
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID, string(filter.Status), filter.Search,
		clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) ListPendingApproval(ctx context.Context, excludeCreatorID string, limit int) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks t
	LEFT JOIN task_assignees ta ON ta.task_id = t.id
	WHERE t.status = 'pending'
	  AND ($1 = '' OR t.user_id <> $1)
	GROUP BY t.id
	ORDER BY t.created_at DESC
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, excludeCreatorID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) ListDueBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks t
	LEFT JOIN task_assignees ta ON ta.task_id = t.id
	WHERE (t.user_id = $1 OR EXISTS (
		SELECT 1 FROM task_assignees mine WHERE mine.task_id = t.id AND mine.user_id = $1
	))
	  AND t.due_date IS NOT NULL
	  AND t.due_date >= $2 AND t.due_date <= $3
	GROUP BY t.id
	ORDER BY t.due_date ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, status, priority, due_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at
	`

	var due interface{}
	if task.DueDate != nil {
		due = *task.DueDate
	}

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.CreatorID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		due,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, mapConstraint(err)
	}

	if len(task.AssigneeIDs) > 0 {
		if err := r.SetAssignees(ctx, task.ID, task.AssigneeIDs); err != nil {
			return nil, err
		}
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		status = $4,
		priority = $5,
		due_date = $6,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	var due interface{}
	if task.DueDate != nil {
		due = *task.DueDate
	}

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		due,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return mapConstraint(err)
	}

	return nil
}

// UpdateStatus performs the transition write as a compare-and-swap on the
// status column. Zero rows affected means the task either vanished or was
// transitioned concurrently; the caller has just loaded it, so stale wins.
func (r *taskRepository) UpdateStatus(ctx context.Context, id string, change repository.StatusChange) error {
	const query = `
	UPDATE tasks
	SET status = $3,
		approved_by = CASE WHEN $4 THEN NULL ELSE COALESCE($5, approved_by) END,
		approved_at = CASE WHEN $4 THEN NULL ELSE COALESCE($6, approved_at) END,
		rejection_reason = COALESCE($7, rejection_reason),
		updated_at = NOW()
	WHERE id = $1 AND status = $2
	`
	tag, err := r.pool.Exec(ctx, query,
		id,
		string(change.From),
		string(change.To),
		change.ClearApproval,
		change.ApprovedBy,
		change.ApprovedAt,
		change.RejectionReason,
	)
	if err != nil {
		return mapConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaleTask
	}
	return nil
}

func (r *taskRepository) SetAssignees(ctx context.Context, taskID string, assigneeIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, taskID); err != nil {
		return err
	}
	for _, userID := range assigneeIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO task_assignees (task_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			taskID, userID); err != nil {
			return mapConstraint(err)
		}
	}
	return tx.Commit(ctx)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	// Assignee rows and activities go with the task via ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) CountByStatus(ctx context.Context, userID string) (repository.StatusCounts, error) {
	const query = `
	SELECT t.status, COUNT(*)
	FROM tasks t
	WHERE t.user_id = $1 OR EXISTS (
		SELECT 1 FROM task_assignees mine WHERE mine.task_id = t.id AND mine.user_id = $1
	)
	GROUP BY t.status
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(repository.StatusCounts)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[domain.Status(status)] = count
	}
	return counts, rows.Err()
}

func collectTasks(rows pgx.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		status   string
		priority string
		due      *time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.CreatorID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&due,
		&task.ApprovedBy,
		&task.ApprovedAt,
		&task.RejectionReason,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.AssigneeIDs,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Status = domain.Status(status)
	task.Priority = domain.Priority(priority)
	task.DueDate = due

	return &task, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
