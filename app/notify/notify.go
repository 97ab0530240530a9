package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/lysyi3m/prodwatch/app/watch"
)

type Sink interface {
	Name() string
	Deliver(ctx context.Context, message string) error
}

var (
	_ Sink       = (*Console)(nil)
	_ Sink       = (*Webhook)(nil)
	_ Sink       = (*Telegram)(nil)
	_ watch.Sink = (*Multi)(nil)
)

// Multi prints every notification to the console and then forwards it to
// each configured remote sink. With no remote sinks it is console only.
type Multi struct {
	console Sink
	remotes []Sink
}

func NewMulti(console Sink, remotes ...Sink) *Multi {
	return &Multi{console: console, remotes: remotes}
}

// Deliver tries every remote sink even when one fails, then reports all
// failures as a single DeliveryError.
func (m *Multi) Deliver(ctx context.Context, message string) error {
	if err := m.console.Deliver(ctx, message); err != nil {
		return &watch.DeliveryError{Sink: m.console.Name(), Err: err}
	}

	var failed []string
	var errs []error
	for _, sink := range m.remotes {
		if err := sink.Deliver(ctx, message); err != nil {
			slog.Error("Notification delivery failed", "sink", sink.Name(), "error", err)
			failed = append(failed, sink.Name())
			errs = append(errs, err)
			continue
		}
		slog.Info("Delivered notification", "sink", sink.Name())
	}

	if len(errs) > 0 {
		return &watch.DeliveryError{Sink: strings.Join(failed, ","), Err: errors.Join(errs...)}
	}
	return nil
}

func (m *Multi) SinkNames() []string {
	names := []string{m.console.Name()}
	for _, sink := range m.remotes {
		names = append(names, sink.Name())
	}
	return names
}
