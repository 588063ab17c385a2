package planner

import (
	"context"
	"time"
)

// DoneEvent terminates every progress stream once the session completes.
const DoneEvent = "DONE"

// DefaultPollInterval bounds the latency of the progress stream.
const DefaultPollInterval = 500 * time.Millisecond

// StreamSteps returns a channel emitting each completed stage name exactly
// once, in pipeline order, followed by DoneEvent. The second return value
// is false for an unknown session. The feed polls the registry at the
// given interval; because CompletedSteps is append-only and ordered, a
// cursor over it is enough to de-duplicate. Cancelling ctx closes the
// channel and stops the feed, so an abandoned subscriber cannot strand
// the goroutine on a send.
func (r *Registry) StreamSteps(ctx context.Context, sessionID string, interval time.Duration) (<-chan string, bool) {
	if _, ok := r.Snapshot(sessionID); !ok {
		return nil, false
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	events := make(chan string)
	go func() {
		defer close(events)
		sent := 0
		for {
			snap, ok := r.Snapshot(sessionID)
			if !ok {
				return
			}
			for _, step := range snap.CompletedSteps[sent:] {
				select {
				case events <- step:
					sent++
				case <-ctx.Done():
					return
				}
			}
			if snap.Complete {
				select {
				case events <- DoneEvent:
				case <-ctx.Done():
				}
				return
			}
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, true
}
