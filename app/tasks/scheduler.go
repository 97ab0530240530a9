package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultInterval = 60 * time.Second

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler checks every tracked prod in order, one at a time, then sleeps
// for the interval before the next cycle. Cycles never overlap.
type Scheduler struct {
	checker  Checker
	prodIDs  []string
	interval time.Duration
	status   *StatusBoard
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewScheduler(checker Checker, prodIDs []string, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Scheduler{
		checker:  checker,
		prodIDs:  prodIDs,
		interval: interval,
		status:   NewStatusBoard(prodIDs),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-timer.C:
				s.RunCycle(s.ctx)
				timer.Reset(s.interval)
				slog.Debug("Sleeping until next cycle", "interval", s.interval.String())
			}
		}
	}()
}

// Stop cancels the running cycle and the sleep between cycles, then waits
// for the loop goroutine to exit.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) Status() *StatusBoard {
	return s.status
}

// RunCycle checks each prod once. A failure is logged and only affects that
// prod; the remaining prods are still checked.
func (s *Scheduler) RunCycle(ctx context.Context) {
	s.status.BeginCycle()
	completed := false
	defer func() { s.status.EndCycle(completed) }()

	failed := 0
	for _, id := range s.prodIDs {
		if ctx.Err() != nil {
			slog.Debug("Scheduler stopped, abandoning cycle", "prod", id)
			return
		}

		task := NewCheckProdTask(id, s.checker, s.status)
		if err := s.executeTask(ctx, task); err != nil {
			failed++
		}
	}

	completed = true
	slog.Debug("Cycle finished", "prods", len(s.prodIDs), "failed", failed)
}

func (s *Scheduler) executeTask(ctx context.Context, task TaskInterface) error {
	task.Start()

	err := task.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			slog.Debug("Task interrupted by shutdown", "type", string(task.GetType()), "prod", task.GetProdID())
			return err
		}
		slog.Error("Task execution failed", "type", string(task.GetType()), "id", task.GetID(), "prod", task.GetProdID(), "duration", task.GetDuration(), "error", err)
	}

	return err
}
