package realtime

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/gateway"
)

// ReloadFunc is invoked whenever the watched table changes. Implementations
// re-read the authoritative store and swap the cached view.
type ReloadFunc func(ctx context.Context)

// Syncer keeps in-memory views in sync with the database by watching change
// streams and triggering full reloads. Individual change payloads are ignored
// on purpose: a reload reads the whole current state, so a coalesced signal
// is all that is needed.
type Syncer struct {
	notifier   gateway.Notifier
	retryDelay time.Duration

	mu      sync.Mutex
	reloads map[string][]ReloadFunc
}

// NewSyncer creates a Syncer that waits retryDelay between failed
// subscription attempts.
func NewSyncer(notifier gateway.Notifier, retryDelay time.Duration) *Syncer {
	return &Syncer{
		notifier:   notifier,
		retryDelay: retryDelay,
		reloads:    make(map[string][]ReloadFunc),
	}
}

// OnChange registers a reload for a table. Multiple reloads per table are
// allowed; they run sequentially in registration order.
func (s *Syncer) OnChange(table string, reload ReloadFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloads[table] = append(s.reloads[table], reload)
}

// Run watches every registered table until ctx is canceled. Each table gets
// its own subscription loop; a dropped stream is resubscribed after the retry
// delay, indefinitely.
func (s *Syncer) Run(ctx context.Context, wg *sync.WaitGroup) {
	s.mu.Lock()
	tables := make([]string, 0, len(s.reloads))
	for table := range s.reloads {
		tables = append(tables, table)
	}
	s.mu.Unlock()

	for _, table := range tables {
		wg.Add(1)
		go func(table string) {
			defer wg.Done()
			s.watch(ctx, table)
		}(table)
	}
}

func (s *Syncer) watch(ctx context.Context, table string) {
	for {
		events, err := s.notifier.Subscribe(ctx, table)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("realtime: subscribe to %s failed, retrying in %s: %v", table, s.retryDelay, err)
			if !s.sleep(ctx) {
				return
			}
			continue
		}
		log.Printf("realtime: watching %s", table)

		// An initial reload covers anything that changed while we were
		// not subscribed.
		s.fire(ctx, table)

		if !s.pump(ctx, table, events) {
			return
		}
		// Stream died. Resubscribe after the usual delay.
		if !s.sleep(ctx) {
			return
		}
	}
}

// pump forwards change signals to the reloads until the stream closes (true)
// or ctx is canceled (false).
func (s *Syncer) pump(ctx context.Context, table string, events <-chan gateway.ChangeEvent) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-events:
			if !ok {
				return true
			}
			s.fire(ctx, table)
		}
	}
}

func (s *Syncer) fire(ctx context.Context, table string) {
	s.mu.Lock()
	reloads := make([]ReloadFunc, len(s.reloads[table]))
	copy(reloads, s.reloads[table])
	s.mu.Unlock()

	for _, reload := range reloads {
		reload(ctx)
	}
}

func (s *Syncer) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(s.retryDelay):
		return true
	}
}
