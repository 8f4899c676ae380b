package services

import (
	"context"
	"encoding/json"

	"github.com/teamtask/backend/domain"
	"github.com/teamtask/backend/internal/infrastructure/spool"
	"github.com/teamtask/backend/usecase"
)

// SpoolBridge adapts the processor to the use-case spool port.
type SpoolBridge struct {
	processor *SpoolProcessor
}

func NewSpoolBridge(processor *SpoolProcessor) *SpoolBridge {
	return &SpoolBridge{processor: processor}
}

func (b *SpoolBridge) SpoolActivity(ctx context.Context, activity *domain.Activity) error {
	if b.processor == nil || activity == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(activity)
	if err != nil {
		return err
	}
	entry := spool.Entry{
		ID:        activity.ID,
		TaskID:    activity.TaskID,
		Payload:   payload,
		Timestamp: activity.CreatedAt,
	}
	return b.processor.Spool(entry)
}

var _ usecase.ActivitySpool = (*SpoolBridge)(nil)
