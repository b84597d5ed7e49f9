package maintenance

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/worker"
)

const WorkerName = "session-sweeper"

// Task removes expired state and returns how many entries it dropped.
type Task struct {
	Name string
	Run  func(ctx context.Context) int
}

// Sweeper runs its tasks on a fixed interval until stopped.
type Sweeper struct {
	*worker.BaseWorker
	interval time.Duration
	tasks    []Task
}

func NewSweeper(interval time.Duration, logger *zap.Logger, tasks ...Task) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		BaseWorker: worker.NewBaseWorker(WorkerName, logger),
		interval:   interval,
		tasks:      tasks,
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	s.Logger().Info("Starting sweeper",
		zap.Duration("interval", s.interval),
		zap.Int("tasks", len(s.tasks)))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.StopChan():
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs every task once.
func (s *Sweeper) Sweep(ctx context.Context) {
	for _, task := range s.tasks {
		if n := task.Run(ctx); n > 0 {
			s.Logger().Info("Evicted expired entries",
				zap.String("task", task.Name),
				zap.Int("count", n))
		}
	}
}
