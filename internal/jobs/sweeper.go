package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"tapify/internal/crash"
	"tapify/internal/logger"
)

// Sweeper eagerly finalizes rounds that crashed but were never polled
// again. Settlement stays correct without it; this is bookkeeping so
// abandoned rounds don't sit running forever.
type Sweeper struct {
	engine     *crash.Engine
	interval   time.Duration
	staleAfter time.Duration
}

func NewSweeper(engine *crash.Engine, interval, staleAfter time.Duration) *Sweeper {
	return &Sweeper{engine: engine, interval: interval, staleAfter: staleAfter}
}

func (s *Sweeper) Start(ctx context.Context) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		logger.Log.Error("sweeper scheduler init failed", zap.Error(err))
		return
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			s.engine.Sweep(time.Now().Add(-s.staleAfter))
		}),
	)
	if err != nil {
		logger.Log.Error("sweeper job registration failed", zap.Error(err))
		return
	}

	sched.Start()

	<-ctx.Done()
	sched.Shutdown()
}
