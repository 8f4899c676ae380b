package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamtask/backend/domain"
	"github.com/teamtask/backend/repository"
)

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository returns a Postgres-backed ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Append(ctx context.Context, activity *domain.Activity) error {
	if activity == nil || activity.TaskID == "" {
		return domain.ErrInvalidPayload
	}
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	const query = `
	INSERT INTO task_activities (id, task_id, user_id, type, description, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		activity.ID,
		activity.TaskID,
		activity.ActorID,
		string(activity.Type),
		activity.Description,
		activity.CreatedAt,
	)
	return mapConstraint(err)
}

// ListByTask returns the timeline newest-first.
func (r *activityRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Activity, error) {
	const query = `
	SELECT id, task_id, user_id, type, description, created_at
	FROM task_activities
	WHERE task_id = $1
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var entry domain.Activity
		var kind string
		if err := rows.Scan(
			&entry.ID,
			&entry.TaskID,
			&entry.ActorID,
			&kind,
			&entry.Description,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry.Type = domain.ActivityType(kind)
		activities = append(activities, entry)
	}
	return activities, rows.Err()
}
