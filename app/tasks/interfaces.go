package tasks

import (
	"context"

	"github.com/lysyi3m/prodwatch/app/watch"
)

// TaskSchedulerInterface is what main and the status API need from the
// polling loop.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	Status() *StatusBoard
}

// Checker runs one detection cycle for a single prod.
type Checker interface {
	Check(ctx context.Context, id string) (*watch.Result, error)
}

var _ Checker = (*watch.Watcher)(nil)
