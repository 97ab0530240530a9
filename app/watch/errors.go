package watch

import "fmt"

// FetchError reports a transport, status or decoding failure from one of
// the pouet.net fetchers.
type FetchError struct {
	Op  string // "prod" or "comments"
	ID  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s for prod %s: %v", e.Op, e.ID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PersistenceError reports a snapshot read or write failure.
type PersistenceError struct {
	Op  string // "load", "save" or "clear"
	ID  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("failed to %s snapshots: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s snapshot for prod %s: %v", e.Op, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DeliveryError reports a notification sink failure.
type DeliveryError struct {
	Sink string
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver notification via %s: %v", e.Sink, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
