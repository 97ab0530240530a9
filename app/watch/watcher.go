package watch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lysyi3m/prodwatch/app/prod"
)

type ProdFetcher interface {
	GetProd(ctx context.Context, id string) (*prod.Response, error)
}

type CommentFetcher interface {
	GetComments(ctx context.Context, id string) ([]prod.Comment, error)
}

// SnapshotStore keeps the last processed response per prod id. Load
// returns nil and no error when no snapshot exists.
type SnapshotStore interface {
	Load(id string) (*prod.Response, error)
	Save(id string, resp *prod.Response) error
}

type Sink interface {
	Deliver(ctx context.Context, message string) error
}

// Result describes one processed prod.
type Result struct {
	ID       string
	Name     string
	Outcome  Outcome
	Comments int
	Message  string
}

type Watcher struct {
	prods    ProdFetcher
	comments CommentFetcher
	store    SnapshotStore
	sink     Sink
	link     func(id string) string
}

func NewWatcher(prods ProdFetcher, comments CommentFetcher, store SnapshotStore, sink Sink, link func(id string) string) *Watcher {
	return &Watcher{
		prods:    prods,
		comments: comments,
		store:    store,
		sink:     sink,
		link:     link,
	}
}

// Check runs one detection cycle for a prod. Any error leaves the snapshot
// untouched so the next cycle sees the same delta again.
func (w *Watcher) Check(ctx context.Context, id string) (*Result, error) {
	resp, err := w.prods.GetProd(ctx, id)
	if err != nil {
		return nil, &FetchError{Op: "prod", ID: id, Err: err}
	}

	cached, err := w.store.Load(id)
	if err != nil {
		return nil, &PersistenceError{Op: "load", ID: id, Err: err}
	}

	var snapshot *prod.Prod
	if cached != nil {
		snapshot = &cached.Prod
	}

	outcome := Detect(resp.Prod, snapshot)
	result := &Result{ID: id, Name: resp.Prod.Name, Outcome: outcome}

	switch outcome.Kind {
	case FirstSeen:
		slog.Info("Prod seen for the first time, caching", "prod", id, "name", resp.Prod.Name, "votes", resp.Prod.VoteString())

	case Unchanged:
		slog.Info("Prod has no difference between pouet and cache, skipping notification", "prod", id, "name", resp.Prod.Name)

	case Changed:
		var comments []prod.Comment
		if n := outcome.CommentCount(); n > 0 {
			feed, err := w.comments.GetComments(ctx, id)
			if err != nil {
				return nil, &FetchError{Op: "comments", ID: id, Err: err}
			}
			comments = Correlate(feed, n)
			if len(comments) < n {
				slog.Debug("Comment feed shorter than vote delta", "prod", id, "delta", n, "comments", len(comments))
			}
		}

		result.Comments = len(comments)
		result.Message = Compose(w.link(id), resp.Prod, snapshot, comments)

		if err := w.sink.Deliver(ctx, result.Message); err != nil {
			var deliveryErr *DeliveryError
			if errors.As(err, &deliveryErr) {
				return nil, err
			}
			return nil, &DeliveryError{Sink: "sink", Err: err}
		}
	}

	if err := w.store.Save(id, resp); err != nil {
		return nil, &PersistenceError{Op: "save", ID: id, Err: err}
	}

	return result, nil
}
