package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/teamtask/backend/internal/infrastructure/spool"
)

// Monitor polls the primary stores and the local spool. Its online verdict
// gates spool replay: entries are only drained back into Postgres while the
// database answers pings.
type Monitor struct {
	pg    *pgxpool.Pool
	redis *redislib.Client
	spool *spool.Store

	interval time.Duration
	logger   *zap.Logger
	stopCh   chan struct{}

	mu     sync.RWMutex
	status Status
}

func New(pg *pgxpool.Pool, redis *redislib.Client, spoolStore *spool.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pg:       pg,
		redis:    redis,
		spool:    spoolStore,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

func (m *Monitor) Start() {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.refresh()
		for {
			select {
			case <-ticker.C:
				m.refresh()
			case <-m.stopCh:
				return
			}
		}
	}()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

// IsOnline reports whether both primary stores answered the last check.
func (m *Monitor) IsOnline() bool {
	status := m.GetStatus()
	return status.PostgreSQL && status.Redis
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) refresh() {
	spoolOK, spoolSize := m.checkSpool()
	next := Status{
		PostgreSQL: ping(3*time.Second, func(ctx context.Context) error {
			if m.pg == nil {
				return context.Canceled
			}
			return m.pg.Ping(ctx)
		}),
		Redis: ping(2*time.Second, func(ctx context.Context) error {
			if m.redis == nil {
				return context.Canceled
			}
			return m.redis.Ping(ctx).Err()
		}),
		Spool:     spoolOK,
		SpoolSize: spoolSize,
		LastCheck: time.Now(),
	}

	m.mu.Lock()
	prev := m.status
	m.status = next
	m.mu.Unlock()

	wasOnline := prev.PostgreSQL && prev.Redis
	isOnline := next.PostgreSQL && next.Redis
	if wasOnline && !isOnline {
		m.logger.Warn("primary stores unreachable, audit writes will spool",
			zap.Bool("postgres", next.PostgreSQL), zap.Bool("redis", next.Redis))
	}
	if !wasOnline && isOnline && !prev.LastCheck.IsZero() {
		m.logger.Info("primary stores reachable again",
			zap.Int("spool_backlog", spoolSize))
	}
}

func (m *Monitor) checkSpool() (bool, int) {
	if m.spool == nil {
		return false, 0
	}
	size, err := m.spool.Size()
	if err != nil {
		m.logger.Warn("spool size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}

func ping(timeout time.Duration, fn func(ctx context.Context) error) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return fn(ctx) == nil
}
