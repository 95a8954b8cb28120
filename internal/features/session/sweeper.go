package session

import (
	"context"
	"fmt"
	"time"

	"go-bighil/internal/config"
	"go-bighil/internal/database"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	sweepAttempts  = 3
	sweepBaseDelay = time.Second
)

// Store reports whether the backing database is reachable.
type Store interface {
	IsConnected(ctx context.Context) bool
}

type expirer interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper periodically deletes expired sessions. It owns its scheduler; the
// application lifecycle starts and stops it.
type Sweeper struct {
	repo      expirer
	store     Store
	interval  time.Duration
	baseDelay time.Duration
	scheduler *cron.Cron
	logger    *zap.Logger
	now       func() time.Time
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSweeper(lc fx.Lifecycle, cfg *config.Config, repo SessionRepository, db *database.MongodbDB, logger *zap.Logger) *Sweeper {
	s := newSweeper(repo, db, cfg.SessionSweepInterval, logger)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
	return s
}

func newSweeper(repo expirer, store Store, interval time.Duration, logger *zap.Logger) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		repo:      repo,
		store:     store,
		interval:  interval,
		baseDelay: sweepBaseDelay,
		scheduler: cron.New(),
		logger:    logger,
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *Sweeper) Start() error {
	schedule := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.scheduler.AddFunc(schedule, func() { s.Sweep(s.ctx) }); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	s.scheduler.Start()
	s.logger.Info("session sweeper started", zap.Duration("interval", s.interval))
	return nil
}

// Stop cancels a sweep in progress and waits for it to return.
func (s *Sweeper) Stop(ctx context.Context) error {
	s.cancel()
	done := s.scheduler.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sweep runs one pass. It is a no-op while the store is unreachable and
// otherwise retries with exponential backoff before giving up until the next tick.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	if !s.store.IsConnected(ctx) {
		s.logger.Debug("session sweep skipped, store not connected")
		return 0, nil
	}

	var err error
	for attempt := 0; attempt < sweepAttempts; attempt++ {
		if attempt > 0 {
			delay := s.baseDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}

		var removed int64
		removed, err = s.repo.DeleteExpired(ctx, s.now())
		if err == nil {
			if removed > 0 {
				s.logger.Info("expired sessions removed", zap.Int64("count", removed))
			}
			return removed, nil
		}
		s.logger.Warn("session sweep failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	s.logger.Error("session sweep gave up", zap.Int("attempts", sweepAttempts), zap.Error(err))
	return 0, err
}
