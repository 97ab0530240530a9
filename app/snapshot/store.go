package snapshot

import "github.com/lysyi3m/prodwatch/app/prod"

// Store is implemented by every snapshot backend.
type Store interface {
	Load(id string) (*prod.Response, error)
	Save(id string, resp *prod.Response) error
	IDs() ([]string, error)
	Close() error
}

var _ Store = (*FileStore)(nil)
