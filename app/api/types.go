package api

import (
	"github.com/lysyi3m/prodwatch/app/prod"
	"github.com/lysyi3m/prodwatch/app/tasks"
)

// SnapshotReader is the read side of the snapshot store.
type SnapshotReader interface {
	Load(id string) (*prod.Response, error)
}

type Handler struct {
	snapshots SnapshotReader
	status    *tasks.StatusBoard
	link      func(id string) string
	sinks     []string
	version   string
}
