package tasks

import (
	"sync"
	"time"

	"github.com/lysyi3m/prodwatch/app/watch"
)

// ProdStatus is the outcome of the last check of one prod.
type ProdStatus struct {
	ID        string     `json:"id"`
	Name      string     `json:"name,omitempty"`
	Outcome   string     `json:"outcome,omitempty"`
	Delta     int        `json:"delta"`
	Comments  int        `json:"comments"`
	Error     string     `json:"error,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
	Checks    int        `json:"checks"`
	Failures  int        `json:"failures"`
}

type CycleStats struct {
	Cycles        int        `json:"cycles"`
	Notifications int        `json:"notifications"`
	Failures      int        `json:"failures"`
	Running       bool       `json:"running"`
	LastStartedAt *time.Time `json:"last_started_at,omitempty"`
	LastEndedAt   *time.Time `json:"last_ended_at,omitempty"`
}

// StatusBoard collects per-prod outcomes written by the polling loop and
// read by the status API.
type StatusBoard struct {
	mu    sync.RWMutex
	order []string
	prods map[string]*ProdStatus
	stats CycleStats
}

func NewStatusBoard(prodIDs []string) *StatusBoard {
	b := &StatusBoard{
		order: append([]string(nil), prodIDs...),
		prods: make(map[string]*ProdStatus, len(prodIDs)),
	}
	for _, id := range prodIDs {
		b.prods[id] = &ProdStatus{ID: id}
	}
	return b
}

func (b *StatusBoard) BeginCycle() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.stats.Running = true
	b.stats.LastStartedAt = &now
}

// EndCycle marks the loop idle. Only completed cycles are counted.
func (b *StatusBoard) EndCycle(completed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.Running = false
	if !completed {
		return
	}

	now := time.Now()
	b.stats.Cycles++
	b.stats.LastEndedAt = &now
}

func (b *StatusBoard) Record(id string, result *watch.Result, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	status, ok := b.prods[id]
	if !ok {
		status = &ProdStatus{ID: id}
		b.prods[id] = status
		b.order = append(b.order, id)
	}

	now := time.Now()
	status.CheckedAt = &now
	status.Checks++

	if err != nil {
		status.Error = err.Error()
		status.Failures++
		b.stats.Failures++
		return
	}

	status.Error = ""
	status.Name = result.Name
	status.Outcome = result.Outcome.Kind.String()
	status.Delta = result.Outcome.Delta
	status.Comments = result.Comments
	if result.Outcome.Kind == watch.Changed {
		b.stats.Notifications++
	}
}

// Get returns a copy of the status of one prod.
func (b *StatusBoard) Get(id string) (ProdStatus, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	status, ok := b.prods[id]
	if !ok {
		return ProdStatus{}, false
	}
	return *status, true
}

// List returns copies of every prod status in tracking order.
func (b *StatusBoard) List() []ProdStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()

	list := make([]ProdStatus, 0, len(b.order))
	for _, id := range b.order {
		list = append(list, *b.prods[id])
	}
	return list
}

func (b *StatusBoard) Stats() CycleStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.stats
}
