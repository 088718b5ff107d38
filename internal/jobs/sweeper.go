package jobs

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultBatch = 200

// Expirer cancels appointments that were never approved before their start time.
type Expirer interface {
	ExpireStale(ctx context.Context, limit int) (int, error)
}

type Sweeper struct {
	expirer Expirer
	spec    string
	batch   int
	log     *zap.Logger

	mu      sync.Mutex
	running bool
}

func NewSweeper(expirer Expirer, spec string, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{
		expirer: expirer,
		spec:    spec,
		batch:   defaultBatch,
		log:     log.Named("sweeper"),
	}
}

// RunOnce drains every expired request in batches and returns how many were cancelled.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := s.expirer.ExpireStale(ctx, s.batch)
		total += n
		if err != nil {
			return total, err
		}
		if n < s.batch {
			return total, nil
		}
	}
}

// tick skips when the previous run is still going.
func (s *Sweeper) tick(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn("previous sweep still running, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	n, err := s.RunOnce(ctx)
	if err != nil {
		s.log.Error("sweep failed", zap.Int("expired", n), zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("expired stale appointments", zap.Int("expired", n))
	}
}

// Start schedules the sweep and blocks until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.spec, func() { s.tick(ctx) }); err != nil {
		return err
	}

	c.Start()
	s.log.Info("sweeper started", zap.String("spec", s.spec))

	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info("sweeper stopped")
	return nil
}
