package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Listener receives dispatches from a polling cycle. OnProgressUpdate
// fires on every significant change; OnLevelUp and OnAccuracyUpdate are
// additional, narrower notifications. OnError receives transient poll
// failures without ending the cycle. Any callback may be nil.
type Listener struct {
	OnProgressUpdate func(Update)
	OnLevelUp        func(LevelUp)
	OnAccuracyUpdate func(Accuracy)
	OnError          func(error)
}

// Outcome is how a polling cycle ended.
type Outcome int

const (
	// OutcomeCompleted: a significant change was detected and dispatched.
	OutcomeCompleted Outcome = iota
	// OutcomeTimedOut: the cycle hit MaxPollDuration without a change.
	OutcomeTimedOut
	// OutcomeStopped: StopListening was called, or a newer StartListening
	// for the same user replaced this cycle.
	OutcomeStopped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeTimedOut:
		return "timed out"
	default:
		return "stopped"
	}
}

// Handle identifies one polling cycle. A stale handle's late result is a
// no-op by construction: dispatch requires the handle's token to still be
// the registered one.
type Handle struct {
	UserID string

	token uuid.UUID
	done  chan Outcome
}

// Done reports how the cycle ended. The channel receives exactly one
// value.
func (h *Handle) Done() <-chan Outcome {
	return h.done
}

type registration struct {
	handle    *Handle
	listener  Listener
	startedAt time.Time
	cancel    context.CancelFunc
	finish    sync.Once
}

func (r *registration) end(o Outcome) {
	r.finish.Do(func() {
		r.handle.done <- o
		r.cancel()
	})
}

// Engine runs at most one bounded polling cycle per user id. Each cycle
// waits InitialPollDelay, then polls every PollInterval with a forced
// cache refresh, dispatching to the listener and self-terminating on the
// first significant change, or timing out after MaxPollDuration. This is
// a "wait for the one backend-triggered update" pattern, not continuous
// syncing.
//
// The engine is an explicit injectable object, not package state, so
// independent instances can coexist in tests.
type Engine struct {
	mu        sync.Mutex
	regs      map[string]*registration
	lastKnown map[string]*Update

	cache   *Cache
	clock   clockwork.Clock
	timings Timings
}

// NewEngine creates an Engine over the given cache.
func NewEngine(cache *Cache, clock clockwork.Clock, timings Timings) *Engine {
	return &Engine{
		regs:      make(map[string]*registration),
		lastKnown: make(map[string]*Update),
		cache:     cache,
		clock:     clock,
		timings:   timings,
	}
}

// StartListening begins a polling cycle for userID. A cycle already
// running for the same user is cancelled and replaced; its listener gets
// no final notification. The cache is invalidated so the first poll hits
// the network.
func (e *Engine) StartListening(userID string, l Listener) *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	reg := &registration{
		handle: &Handle{
			UserID: userID,
			token:  uuid.New(),
			done:   make(chan Outcome, 1),
		},
		listener:  l,
		startedAt: e.clock.Now(),
		cancel:    cancel,
	}

	e.mu.Lock()
	if old := e.regs[userID]; old != nil {
		old.end(OutcomeStopped)
	}
	e.regs[userID] = reg
	e.mu.Unlock()

	e.cache.Invalidate()
	go e.run(ctx, reg)
	return reg.handle
}

// StopListening cancels the active cycle for userID, if any, and discards
// the last known update. A subsequent start treats its first poll as a
// change. Valid in any state.
func (e *Engine) StopListening(userID string) {
	e.mu.Lock()
	reg := e.regs[userID]
	delete(e.regs, userID)
	delete(e.lastKnown, userID)
	e.mu.Unlock()

	if reg != nil {
		reg.end(OutcomeStopped)
	}
}

// Listening reports whether a cycle is active for userID.
func (e *Engine) Listening(userID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.regs[userID] != nil
}

func (e *Engine) run(ctx context.Context, reg *registration) {
	timer := e.clock.NewTimer(e.timings.InitialPollDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.Chan():
	}

	if e.poll(ctx, reg) {
		return
	}

	ticker := e.clock.NewTicker(e.timings.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if e.poll(ctx, reg) {
				return
			}
		}
	}
}

// poll runs one tick and reports whether the cycle is over.
func (e *Engine) poll(ctx context.Context, reg *registration) bool {
	userID := reg.handle.UserID

	snap, err := e.cache.Realtime(ctx, true)
	now := e.clock.Now()
	if err != nil {
		// Transient-error tolerant: report and keep polling. A failure
		// arriving after StopListening or replacement is discarded
		// silently, same as a late success.
		if !e.current(reg) {
			return true
		}
		if reg.listener.OnError != nil {
			reg.listener.OnError(err)
		}
		return e.expire(reg, now)
	}

	e.mu.Lock()
	prev := e.lastKnown[userID]
	e.mu.Unlock()

	update := buildUpdate(snap, prev, now)
	if !HasChanged(prev, update) {
		return e.expire(reg, now)
	}

	// Dispatch only if this registration is still the current one; a
	// result arriving after StopListening or replacement is discarded
	// silently.
	e.mu.Lock()
	cur := e.regs[userID]
	if cur == nil || cur.handle.token != reg.handle.token {
		e.mu.Unlock()
		return true
	}
	e.lastKnown[userID] = &update
	delete(e.regs, userID)
	e.mu.Unlock()

	if reg.listener.OnProgressUpdate != nil {
		reg.listener.OnProgressUpdate(update)
	}
	if update.LeveledUp && reg.listener.OnLevelUp != nil {
		oldLevel := 0
		if prev != nil {
			oldLevel = prev.Level.CurrentLevel
		}
		reg.listener.OnLevelUp(LevelUp{
			NewLevel: update.Level.CurrentLevel,
			OldLevel: oldLevel,
			XPGained: update.Gained,
		})
	}
	if reg.listener.OnAccuracyUpdate != nil && AccuracyChanged(prev, update) {
		reg.listener.OnAccuracyUpdate(update.Accuracy)
	}

	reg.end(OutcomeCompleted)
	return true
}

// current reports whether reg is still the registered cycle for its user.
func (e *Engine) current(reg *registration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur := e.regs[reg.handle.UserID]
	return cur != nil && cur.handle.token == reg.handle.token
}

// expire times the cycle out once MaxPollDuration has elapsed. The last
// known update survives a timeout; only StopListening discards it.
func (e *Engine) expire(reg *registration, now time.Time) bool {
	if now.Sub(reg.startedAt) < e.timings.MaxPollDuration {
		return false
	}

	userID := reg.handle.UserID
	e.mu.Lock()
	if cur := e.regs[userID]; cur != nil && cur.handle.token == reg.handle.token {
		delete(e.regs, userID)
	}
	e.mu.Unlock()

	reg.end(OutcomeTimedOut)
	return true
}

// buildUpdate normalizes a snapshot into an Update and computes the delta
// fields against the previous known update.
func buildUpdate(snap *Snapshot, prev *Update, now time.Time) Update {
	level := NormalizeXP(snap.XP)
	gained := 0
	leveledUp := false
	if prev != nil {
		gained = level.Total - prev.Level.Total
		leveledUp = level.CurrentLevel > prev.Level.CurrentLevel
	}
	return Update{
		Streak:    snap.Streak.Current,
		Accuracy:  snap.Accuracy,
		Level:     level,
		Stats:     snap.Stats,
		Gained:    gained,
		LeveledUp: leveledUp,
		Timestamp: now,
	}
}
