package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/teamtask/backend/domain"
	"github.com/teamtask/backend/internal/infrastructure/spool"
	"github.com/teamtask/backend/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the spool is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// SpoolProcessor replays spooled audit entries into the activity store once
// it is reachable again. Activities are append-only, so replay never
// conflicts with live writes.
type SpoolProcessor struct {
	store      *spool.Store
	monitor    ConnectionHealth
	activities repository.ActivityRepository
	logger     *zap.Logger
	cron       *cron.Cron
	cfg        ProcessorConfig
}

func NewSpoolProcessor(
	store *spool.Store,
	monitor ConnectionHealth,
	activities repository.ActivityRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *SpoolProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sp := &SpoolProcessor{
		store:      store,
		monitor:    monitor,
		activities: activities,
		logger:     logger,
		cfg:        cfg,
		cron:       cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = sp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := sp.Drain(ctx); err != nil {
			sp.logger.Error("spool drain failed", zap.Error(err))
		}
	})
	_, _ = sp.cron.AddFunc("@hourly", func() {
		if err := sp.store.Cleanup(time.Now().Add(-cfg.Retention)); err != nil {
			sp.logger.Error("spool cleanup failed", zap.Error(err))
		}
	})

	return sp
}

// Start launches the cron scheduler.
func (sp *SpoolProcessor) Start() {
	if sp == nil || sp.cron == nil {
		return
	}
	sp.cron.Start()
	sp.logger.Info("spool processor started")
}

// Stop gracefully stops the scheduler.
func (sp *SpoolProcessor) Stop(ctx context.Context) {
	if sp == nil || sp.cron == nil {
		return
	}
	stopCtx := sp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	sp.logger.Info("spool processor stopped")
}

// Drain replays spooled entries synchronously.
func (sp *SpoolProcessor) Drain(ctx context.Context) error {
	if sp == nil || sp.store == nil {
		return nil
	}
	if sp.monitor != nil && !sp.monitor.IsOnline() {
		sp.logger.Debug("skipping spool drain (offline)")
		return nil
	}

	entries, err := sp.store.GetBatch(sp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := sp.replay(ctx, entry); err != nil {
			sp.logger.Error("failed to replay spooled activity",
				zap.String("entry_id", entry.ID),
				zap.String("task_id", entry.TaskID),
				zap.Error(err))

			entry.Retries++
			if entry.Retries >= sp.cfg.MaxRetries {
				sp.logger.Warn("dropping spooled activity (max retries reached)", zap.String("entry_id", entry.ID))
				_ = sp.store.Remove(entry)
				continue
			}

			if err := sp.store.Remove(entry); err != nil {
				sp.logger.Warn("failed to remove spooled activity", zap.Error(err))
			}
			if err := sp.store.Requeue(entry); err != nil {
				sp.logger.Error("failed to requeue spooled activity", zap.Error(err))
			}
			continue
		}

		if err := sp.store.Remove(entry); err != nil {
			sp.logger.Warn("failed to purge replayed activity", zap.Error(err))
		}
	}
	return nil
}

// Spool persists an entry for later replay.
func (sp *SpoolProcessor) Spool(entry spool.Entry) error {
	if sp == nil || sp.store == nil {
		return fmt.Errorf("spool processor not configured")
	}
	return sp.store.Enqueue(entry)
}

// Size returns the number of spooled entries.
func (sp *SpoolProcessor) Size() int {
	if sp == nil || sp.store == nil {
		return 0
	}
	size, err := sp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (sp *SpoolProcessor) replay(ctx context.Context, entry spool.Entry) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var activity domain.Activity
	if err := json.Unmarshal(entry.Payload, &activity); err != nil {
		return err
	}
	// Stale replays keep their original timestamp so the timeline order holds.
	return sp.activities.Append(ctx, &activity)
}
