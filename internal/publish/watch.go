package publish

import (
	"context"
	"time"
)

// Watch publishes once, then again on every tick of interval until ctx is
// done. Each run's outcome is passed to report, which may be nil.
func (p *Publisher) Watch(ctx context.Context, interval time.Duration, report func(*Result, error)) error {
	if report == nil {
		report = func(*Result, error) {}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial publish
	report(p.Publish(ctx))

	for {
		select {
		case <-ticker.C:
			report(p.Publish(ctx))
		case <-ctx.Done():
			p.log.Info("watch stopping")
			return ctx.Err()
		}
	}
}
