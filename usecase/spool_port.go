package usecase

import (
	"context"

	"github.com/teamtask/backend/domain"
)

// ActivitySpool abstracts the durable audit spool so use cases stay
// storage-agnostic. Entries handed to the spool are replayed into primary
// storage later; activity records are append-only, so replay is safe.
type ActivitySpool interface {
	SpoolActivity(ctx context.Context, activity *domain.Activity) error
}
