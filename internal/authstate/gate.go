package authstate

import (
	"context"
	"errors"
	"time"
)

// ErrAwaitTimeout is returned when the gate's max wait elapses before the
// state reaches a terminal value.
var ErrAwaitTimeout = errors.New("timed out waiting for auth state to resolve")

// Gate blocks callers until the store's state settles on a terminal value.
// Each Await installs its own watcher, so concurrent Awaits resolve
// independently on the first terminal transition each one observes.
type Gate struct {
	store   *Store
	maxWait time.Duration
}

// NewGate creates a gate over store. maxWait bounds each Await; zero means
// wait until the context is done.
func NewGate(store *Store, maxWait time.Duration) *Gate {
	return &Gate{store: store, maxWait: maxWait}
}

// Await returns the first terminal state observed, including a state that
// is already terminal at call time. It returns ErrAwaitTimeout when the
// gate's max wait elapses first and ctx.Err() when the context is done
// first. The watcher is removed exactly once on every path.
func (g *Gate) Await(ctx context.Context) (State, error) {
	id, ch, current := g.store.Watch()
	defer g.store.Unwatch(id)

	if current.IsTerminal() {
		return current, nil
	}

	var timeout <-chan time.Time
	if g.maxWait > 0 {
		timer := time.NewTimer(g.maxWait)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		select {
		case state := <-ch:
			if state.IsTerminal() {
				return state, nil
			}
		case <-timeout:
			return StateUnknown, ErrAwaitTimeout
		case <-ctx.Done():
			return StateUnknown, ctx.Err()
		}
	}
}
