package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"pomo/internal/service"
	"pomo/internal/store"
)

// Aggregator computes Stats from the store on demand. It holds no state of
// its own besides configuration.
type Aggregator struct {
	store store.Store
	clock clockwork.Clock
	opts  Options
}

// NewAggregator creates an Aggregator reading from s.
func NewAggregator(s store.Store, clock clockwork.Clock, opts Options) *Aggregator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Aggregator{store: s, clock: clock, opts: opts}
}

// Stats reads all sessions and tasks and computes the current statistics.
func (a *Aggregator) Stats(ctx context.Context) service.Stats {
	sessions := store.ParseOrDefault(ctx, a.store, store.KeySessions, []service.Session(nil))
	tasks := store.ParseOrDefault(ctx, a.store, store.KeyTasks, []service.Task(nil))
	return Compute(sessions, tasks, a.clock.Now(), a.opts)
}

// Clear deletes the whole session collection. It cannot be undone.
func (a *Aggregator) Clear(ctx context.Context) (service.Stats, error) {
	if err := a.store.Delete(ctx, store.KeySessions); err != nil {
		return service.Stats{}, fmt.Errorf("clear sessions: %w", err)
	}
	slog.Info("Sessions cleared")
	return Empty(a.clock.Now(), a.opts), nil
}
