package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/kerbaras/yomu/pkg/data"
)

const defaultHostTimeout = 2 * time.Second

type subscriber struct {
	id int
	fn func(AppState)
}

// delivery is one queued snapshot and the subscribers registered when it
// was queued.
type delivery struct {
	state AppState
	subs  []subscriber
}

// Store owns the canonical AppState. Every action computes the next snapshot
// from the current one under a lock and publishes it to subscribers in
// publication order. A subscriber may dispatch actions from its callback;
// the new snapshot is delivered after the current round of notifications.
type Store struct {
	mu        sync.Mutex
	state     AppState
	subs      []subscriber
	nextID    int
	queue     []delivery
	notifying bool

	host        Fullscreen
	hostMu      sync.Mutex
	hostTimeout time.Duration
	pending     sync.WaitGroup
	logger      *log.Logger
}

type Option func(*Store)

// WithFullscreen sets the host used to engage real fullscreen. Without one
// fullscreen is a UI-only flag.
func WithFullscreen(host Fullscreen) Option {
	return func(s *Store) { s.host = host }
}

// WithPreferences seeds the initial preferences.
func WithPreferences(prefs data.Preferences) Option {
	return func(s *Store) { s.state.Preferences = prefs }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithHostTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.hostTimeout = d
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		state:       DefaultState(),
		hostTimeout: defaultHostTimeout,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current snapshot.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe calls fn with the current snapshot and then with every
// published one until the returned function is called. The initial snapshot
// goes through the same queue as published ones, so fn never sees an older
// snapshot after a newer one. Called from inside a subscriber, the initial
// call happens after the current round of notifications.
func (s *Store) Subscribe(fn func(AppState)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	sub := subscriber{id: id, fn: fn}
	s.subs = append(s.subs, sub)
	s.queue = append(s.queue, delivery{state: s.state.clone(), subs: []subscriber{sub}})
	s.drain()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// update swaps in transition(current) atomically and publishes the result.
func (s *Store) update(transition func(AppState) AppState) AppState {
	s.mu.Lock()
	next := transition(s.state)
	s.state = next
	s.queue = append(s.queue, delivery{state: next, subs: append([]subscriber(nil), s.subs...)})
	s.drain()
	return next.clone()
}

// drain delivers queued snapshots in order. It must be called with s.mu held
// and releases it. Only one caller drains at a time; everyone else just
// queues.
func (s *Store) drain() {
	if s.notifying {
		s.mu.Unlock()
		return
	}
	s.notifying = true
	for len(s.queue) > 0 {
		d := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		for _, sub := range d.subs {
			sub.fn(d.state.clone())
		}

		s.mu.Lock()
	}
	s.notifying = false
	s.mu.Unlock()
}

// Wait blocks until every pending host fullscreen call has finished.
func (s *Store) Wait() {
	s.pending.Wait()
}

// syncHost moves the host towards the latest IsFullscreen value. Calls are
// serialized, so rapid toggles converge on the final state.
func (s *Store) syncHost() {
	if s.host == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Printf("fullscreen host panicked, using UI-only fullscreen: %v", r)
			}
		}()

		s.hostMu.Lock()
		defer s.hostMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.hostTimeout)
		defer cancel()

		want := s.State().IsFullscreen
		switch {
		case want && !s.host.Active():
			if err := s.host.Enter(ctx); err != nil {
				s.logger.Printf("Fullscreen API not available, using UI-only fullscreen: %v", err)
			}
		case !want && s.host.Active():
			if err := s.host.Exit(ctx); err != nil {
				s.logger.Printf("Exit fullscreen failed, using UI-only mode: %v", err)
			}
		}
	}()
}
