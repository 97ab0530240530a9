package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// Console prints notifications to a writer, stdout by default.
type Console struct {
	out io.Writer
	mu  sync.Mutex
}

func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

func (c *Console) Name() string {
	return "console"
}

func (c *Console) Deliver(ctx context.Context, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintln(c.out, message); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}
