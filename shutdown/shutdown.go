// Package shutdown turns termination signals into context cancellation.
package shutdown

import (
	"context"
	"os"
	"os/signal"
)

// Context returns a child of parent that is cancelled on the first
// interrupt or terminate signal.
func Context(parent context.Context) (context.Context, context.CancelFunc) {
	ch := make(chan os.Signal, 1)
	Notify(ch)
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()
	return ctx, cancel
}
