package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/arthur-debert/dispatchgrid/internal/validation"
	"github.com/arthur-debert/dispatchgrid/types"
)

// AsyncOptions configures an Async writer
type AsyncOptions struct {
	// Logger receives save failures at warn level. nil uses slog.Default.
	Logger *slog.Logger

	// OnError is called after a failed background save
	OnError func(key string, err error)

	// WriteTimeout bounds every background save; 0 means 5s
	WriteTimeout time.Duration
}

// Async wraps a Store so Save returns immediately. Saves for the same key
// are coalesced: only the newest pending state is written. Load sees
// pending states before they reach the inner store.
type Async struct {
	inner   Store
	logger  *slog.Logger
	onError func(string, error)
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]types.LayoutState
	writing map[string]types.LayoutState
	queue   []string
	closed  bool

	wake  chan struct{}
	flush chan chan struct{}
	stop  chan struct{}
	done  chan struct{}
}

// NewAsync starts the background writer for inner
func NewAsync(inner Store, opts AsyncOptions) *Async {
	a := &Async{
		inner:   inner,
		logger:  opts.Logger,
		onError: opts.OnError,
		timeout: opts.WriteTimeout,
		pending: make(map[string]types.LayoutState),
		writing: make(map[string]types.LayoutState),
		wake:    make(chan struct{}, 1),
		flush:   make(chan chan struct{}),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.timeout <= 0 {
		a.timeout = 5 * time.Second
	}
	go a.run()
	return a
}

// Load implements Store.Load
func (a *Async) Load(ctx context.Context, key string) (*types.LayoutState, error) {
	if err := validation.ValidateStorageKey(key); err != nil {
		return nil, err
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, ErrClosed
	}
	st, ok := a.pending[key]
	if !ok {
		st, ok = a.writing[key]
	}
	if ok {
		a.mu.Unlock()
		out := st.Clone()
		return &out, nil
	}
	a.mu.Unlock()
	return a.inner.Load(ctx, key)
}

// Save queues state for key and returns without waiting for the write
func (a *Async) Save(_ context.Context, key string, state types.LayoutState) error {
	if err := validation.ValidateStorageKey(key); err != nil {
		return err
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	if _, queued := a.pending[key]; !queued {
		a.queue = append(a.queue, key)
	}
	a.pending[key] = state.Clone()
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
	return nil
}

// Pending returns the number of keys waiting to be written
func (a *Async) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// Flush blocks until every save queued before the call has been attempted
func (a *Async) Flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case a.flush <- ack:
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes what is pending, stops the writer and closes the inner store
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	close(a.stop)
	<-a.done
	return a.inner.Close()
}

func (a *Async) run() {
	defer close(a.done)
	for {
		select {
		case <-a.wake:
			a.drain()
		case ack := <-a.flush:
			a.drain()
			close(ack)
		case <-a.stop:
			a.drain()
			return
		}
	}
}

func (a *Async) drain() {
	for {
		a.mu.Lock()
		if len(a.queue) == 0 {
			a.mu.Unlock()
			return
		}
		key := a.queue[0]
		a.queue = a.queue[1:]
		state := a.pending[key]
		delete(a.pending, key)
		// Loads keep seeing the state until the inner store has it
		a.writing[key] = state
		a.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		err := a.inner.Save(ctx, key, state)
		cancel()

		a.mu.Lock()
		delete(a.writing, key)
		a.mu.Unlock()
		if err != nil {
			a.logger.Warn("background layout save failed", "key", key, "error", err)
			if a.onError != nil {
				a.onError(key, err)
			}
		}
	}
}
