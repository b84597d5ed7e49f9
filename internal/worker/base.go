package worker

import (
	"sync"

	"go.uber.org/zap"
)

// BaseWorker carries the stop signal and logger shared by every worker.
type BaseWorker struct {
	name     string
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewBaseWorker(name string, logger *zap.Logger) *BaseWorker {
	return &BaseWorker{
		name:     name,
		logger:   logger.With(zap.String("worker", name)),
		stopChan: make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

// Stop is idempotent.
func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker")
		close(w.stopChan)
	})
	return nil
}

func (w *BaseWorker) IsStopped() bool {
	select {
	case <-w.stopChan:
		return true
	default:
		return false
	}
}

func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}
