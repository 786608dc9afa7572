package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chazuruo/chaosq/internal/resource"
)

// DefaultDebounce is the quiet window a query must survive before a cycle
// starts.
const DefaultDebounce = 500 * time.Millisecond

// Timer is a pending debounce timer.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc is the default.
type AfterFunc func(d time.Duration, f func()) Timer

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDebounce sets the quiet window. Zero starts a cycle on every change.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) { s.window = d }
}

// WithAfterFunc replaces the timer source, mostly for tests.
func WithAfterFunc(fn AfterFunc) SessionOption {
	return func(s *Session) { s.afterFunc = fn }
}

// WithSessionLogger sets the structured logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// Session drives debounced search cycles for one search box. It owns the
// State: presenters read it through State or Subscribe and change it only
// through OnQueryChange, OnSelect and Close.
//
// Each cycle gets its own context. Starting a cycle cancels the previous
// one, and results from any cycle but the latest are discarded.
type Session struct {
	querier   Querier
	window    time.Duration
	afterFunc AfterFunc
	logger    *slog.Logger

	base       context.Context
	baseCancel context.CancelFunc

	mu        sync.Mutex
	state     State
	timer     Timer
	timerGen  uint64
	cycle     uint64
	cancel    context.CancelFunc
	subs      map[int]func(State)
	nextSubID int
	closed    bool

	// notifyMu keeps subscriber calls in transition order.
	notifyMu sync.Mutex
}

// NewSession creates a Session that runs cycles with q.
func NewSession(q Querier, opts ...SessionOption) *Session {
	s := &Session{
		querier: q,
		window:  DefaultDebounce,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		logger: slog.Default(),
		subs:   map[int]func(State){},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.base, s.baseCancel = context.WithCancel(context.Background())
	return s
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive every state transition, in order.
// fn must not call OnQueryChange, OnSelect or Close synchronously.
// The returned function unsubscribes.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// OnQueryChange records new input. A non-empty query (re)arms the debounce
// timer; an empty one stops the timer, cancels any cycle and resets the
// state.
func (s *Session) OnQueryChange(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.stopTimerLocked()
	if text == "" {
		s.cancelCycleLocked()
		s.dispatchLocked(QueryChanged{Query: text})
		return
	}

	gen := s.timerGen
	s.timer = s.afterFunc(s.window, func() { s.fire(gen, text) })
	s.dispatchLocked(QueryChanged{Query: text})
}

// OnSelect closes the result list and returns the dashboard path of r.
func (s *Session) OnSelect(r resource.Resource) string {
	link := r.Link()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return link
	}
	s.stopTimerLocked()
	s.cancelCycleLocked()
	s.dispatchLocked(Closed{})

	return link
}

// Close stops the session. Pending and in-flight cycles are canceled and
// no further transitions are delivered.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopTimerLocked()
	s.cancelCycleLocked()
	s.baseCancel()
	s.state = Reduce(s.state, Closed{})
	s.closed = true
	s.subs = map[int]func(State){}
	s.mu.Unlock()
}

// fire starts a cycle for query unless a later change re-armed the timer.
func (s *Session) fire(gen uint64, query string) {
	s.mu.Lock()
	if s.closed || gen != s.timerGen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.cancelCycleLocked()

	s.cycle++
	id := s.cycle
	ctx, cancel := context.WithCancel(s.base)
	s.cancel = cancel

	s.logger.Debug("search cycle started", slog.Uint64("cycle", id), slog.String("query", query))
	s.dispatchLocked(CycleStarted{Cycle: id, Query: query})

	go s.run(ctx, cancel, id, query)
}

func (s *Session) run(ctx context.Context, cancel context.CancelFunc, id uint64, query string) {
	defer cancel()

	rs, err := s.querier.Search(ctx, query)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if id != s.state.Cycle {
		s.logger.Debug("search cycle discarded", slog.Uint64("cycle", id))
	} else if err != nil {
		s.logger.Warn("search cycle failed", slog.Uint64("cycle", id), slog.Any("error", err))
	}
	if err != nil {
		s.dispatchLocked(CycleFailed{Cycle: id, Err: err})
		return
	}
	s.dispatchLocked(CycleSucceeded{Cycle: id, Results: rs})
}

// dispatchLocked reduces a, releases s.mu and notifies subscribers. Stale
// completions are dropped without a notification. s.mu must be held on
// entry.
func (s *Session) dispatchLocked(a Action) {
	if stale(s.state, a) {
		s.mu.Unlock()
		return
	}
	next := Reduce(s.state, a)
	s.state = next

	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

func (s *Session) stopTimerLocked() {
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) cancelCycleLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// stale reports whether a completes a cycle other than the one shown.
func stale(s State, a Action) bool {
	switch a := a.(type) {
	case CycleSucceeded:
		return a.Cycle == 0 || a.Cycle != s.Cycle
	case CycleFailed:
		return a.Cycle == 0 || a.Cycle != s.Cycle
	}
	return false
}
