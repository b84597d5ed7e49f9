package maintenance_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/worker"
	"github.com/Vishrutha-23/SafeWalk/internal/worker/maintenance"
)

func TestSweeper_SweepRunsEveryTask(t *testing.T) {
	var trips, emergencies int32
	s := maintenance.NewSweeper(time.Minute, zap.NewNop(),
		maintenance.Task{Name: "trips", Run: func(context.Context) int { atomic.AddInt32(&trips, 1); return 2 }},
		maintenance.Task{Name: "emergency", Run: func(context.Context) int { atomic.AddInt32(&emergencies, 1); return 0 }},
	)

	s.Sweep(context.Background())

	assert.Equal(t, int32(1), atomic.LoadInt32(&trips))
	assert.Equal(t, int32(1), atomic.LoadInt32(&emergencies))
}

func TestSweeper_RunsOnIntervalUnderManager(t *testing.T) {
	var runs int32
	s := maintenance.NewSweeper(5*time.Millisecond, zap.NewNop(),
		maintenance.Task{Name: "count", Run: func(context.Context) int { atomic.AddInt32(&runs, 1); return 1 }},
	)

	manager := worker.NewWorkerManager(zap.NewNop(), time.Second)
	manager.Register(s)
	assert.NoError(t, manager.Start(context.Background()))

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, manager.Stop())
	assert.True(t, s.IsStopped())
}

func TestWorkerManager_StartWithoutWorkers(t *testing.T) {
	manager := worker.NewWorkerManager(zap.NewNop(), 0)
	assert.Error(t, manager.Start(context.Background()))
}
