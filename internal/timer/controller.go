// Package timer implements the state machine governing a time-boxed
// attempt. Remaining time is always computed from the persisted wall-clock
// deadline, never from counting ticks, so correctness holds even when
// ticks are delayed or dropped.
package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type State string

const (
	StateNotApplicable State = "not_applicable" // assignment has no time limit
	StateNotStarted    State = "not_started"
	StateRunning       State = "running"
	StateExpired       State = "expired"
	StateFinalized     State = "finalized"
)

// DeadlineStore persists the absolute deadline keyed by assignment and
// student so a reload resumes the same countdown. Read returns found=false
// when no deadline is persisted.
type DeadlineStore interface {
	Read(ctx context.Context, key string) (deadline time.Time, found bool, err error)
	Write(ctx context.Context, key string, deadline time.Time) error
	Clear(ctx context.Context, key string) error
}

// Clock abstracts wall-clock time for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// Controller drives one attempt's countdown. Store failures degrade to
// in-memory-only timing: the attempt stays usable, resume-after-reload is
// lost for the session.
type Controller struct {
	key    string
	limit  time.Duration
	store  DeadlineStore
	clock  Clock
	logger *slog.Logger

	// onExpire fires exactly once when the deadline passes.
	onExpire func(context.Context)

	mu       sync.Mutex
	state    State
	deadline time.Time
	expired  bool
}

func NewController(key string, limit time.Duration, store DeadlineStore, clock Clock, logger *slog.Logger, onExpire func(context.Context)) *Controller {
	state := StateNotStarted
	if limit <= 0 {
		state = StateNotApplicable
	}
	return &Controller{
		key:      key,
		limit:    limit,
		store:    store,
		clock:    clock,
		logger:   logger,
		onExpire: onExpire,
		state:    state,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Deadline returns the active deadline, if any.
func (c *Controller) Deadline() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRunning || c.state == StateExpired {
		return c.deadline, true
	}
	return time.Time{}, false
}

// Restore resumes a persisted deadline after a reload. A future deadline
// moves straight to Running; a past one clamps remaining time to zero and
// proceeds to Expired, firing the auto-submit callback once. A store read
// failure degrades silently: the controller stays NotStarted.
func (c *Controller) Restore(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateNotStarted {
		c.mu.Unlock()
		return
	}

	deadline, found, err := c.store.Read(ctx, c.key)
	if err != nil {
		c.logger.Warn("deadline store unavailable, timing is in-memory only",
			"key", c.key, "error", err)
		c.mu.Unlock()
		return
	}
	if !found {
		c.mu.Unlock()
		return
	}

	c.deadline = deadline
	if c.clock.Now().Before(deadline) {
		c.state = StateRunning
		c.mu.Unlock()
		return
	}
	c.expireLocked(ctx)
}

// Start begins the countdown on the first learner interaction, computing
// deadline = now + limit and persisting it. Already-running, expired or
// finalized controllers are left alone.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateNotStarted {
		return
	}

	c.deadline = c.clock.Now().Add(c.limit)
	c.state = StateRunning

	if err := c.store.Write(ctx, c.key, c.deadline); err != nil {
		c.logger.Warn("failed to persist deadline, timing is in-memory only",
			"key", c.key, "error", err)
	}
}

// Remaining returns the seconds left, clamped to zero, recomputed from the
// deadline on every call. Reaching zero while Running transitions to
// Expired and fires the auto-submit callback exactly once.
func (c *Controller) Remaining(ctx context.Context) time.Duration {
	c.mu.Lock()
	switch c.state {
	case StateRunning:
	case StateExpired, StateFinalized:
		c.mu.Unlock()
		return 0
	default:
		c.mu.Unlock()
		return c.limit
	}

	remaining := c.deadline.Sub(c.clock.Now())
	if remaining > 0 {
		c.mu.Unlock()
		return remaining
	}
	c.expireLocked(ctx)
	return 0
}

// Tick is the once-per-second driver. It exists so repeated zero-ticks are
// provably idempotent: only the first transition fires the callback.
func (c *Controller) Tick(ctx context.Context) {
	c.Remaining(ctx)
}

// Run ticks until the attempt stops running or the context is cancelled.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick(ctx)
			if s := c.State(); s != StateRunning && s != StateNotStarted {
				return
			}
		}
	}
}

// Finalize records a completed submission: the persisted deadline is
// cleared unconditionally and no further ticking happens.
func (c *Controller) Finalize(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateFinalized {
		return
	}
	c.state = StateFinalized

	if err := c.store.Clear(ctx, c.key); err != nil {
		c.logger.Warn("failed to clear persisted deadline", "key", c.key, "error", err)
	}
}

// expireLocked transitions to Expired and fires the callback once. Called
// with c.mu held; the callback runs unlocked so it may call back into the
// controller.
func (c *Controller) expireLocked(ctx context.Context) {
	if c.expired {
		c.mu.Unlock()
		return
	}
	c.expired = true
	c.state = StateExpired
	onExpire := c.onExpire
	c.mu.Unlock()

	if onExpire != nil {
		onExpire(ctx)
	}
}
