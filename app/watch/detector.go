package watch

import "github.com/lysyi3m/prodwatch/app/prod"

type Kind int

const (
	FirstSeen Kind = iota
	Unchanged
	Changed
)

func (k Kind) String() string {
	switch k {
	case FirstSeen:
		return "first_seen"
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// Outcome is the result of comparing a fetched prod with its snapshot.
// Delta is only meaningful for Changed.
type Outcome struct {
	Kind  Kind
	Delta int
}

// CommentCount is the number of feed items correlated with the delta.
// A vote total that went down correlates with no comments.
func (o Outcome) CommentCount() int {
	if o.Kind != Changed || o.Delta < 0 {
		return 0
	}
	return o.Delta
}

// Detect compares the current prod against the last snapshot. A nil
// snapshot means the prod has never been seen.
func Detect(current prod.Prod, snapshot *prod.Prod) Outcome {
	if snapshot == nil {
		return Outcome{Kind: FirstSeen}
	}

	delta := current.Votes().Total() - snapshot.Votes().Total()
	if delta == 0 {
		return Outcome{Kind: Unchanged}
	}

	return Outcome{Kind: Changed, Delta: delta}
}
