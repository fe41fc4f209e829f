// Package countdown implements the restartable auction countdown with
// urgency-tier notifications and a single expiry event.
package countdown

import (
	"errors"
	"sync"
	"time"
)

// Tier buckets remaining time for escalating notification emphasis.
type Tier int

const (
	TierNormal Tier = iota
	TierWarning
	TierCritical
)

func (t Tier) String() string {
	switch t {
	case TierWarning:
		return "warning"
	case TierCritical:
		return "critical"
	default:
		return "normal"
	}
}

// EventKind discriminates countdown events.
type EventKind int

const (
	// TierChanged fires at most once per tier transition, not every tick.
	TierChanged EventKind = iota
	// Expired fires exactly once when the countdown reaches zero while
	// neither paused nor cancelled.
	Expired
)

// Event is one countdown notification.
type Event struct {
	SessionID string
	Kind      EventKind
	Tier      Tier
	Remaining time.Duration
}

var (
	ErrNotRunning     = errors.New("countdown is not running")
	ErrAlreadyStarted = errors.New("countdown already started")
	ErrNotPaused      = errors.New("countdown is not paused")
)

// Timer is a cancellable countdown for one session. One goroutine drives
// ticks from Start until expiry or Cancel; Reset moves the deadline without
// restarting the goroutine. The events channel is closed when the goroutine
// exits, so consumers can range over it.
type Timer struct {
	mu         sync.Mutex
	sessionID  string
	warnAt     time.Duration
	criticalAt time.Duration
	tick       time.Duration

	events chan Event

	started   bool
	done      bool
	paused    bool
	deadline  time.Time
	remaining time.Duration // frozen remaining while paused
	lastTier  Tier
	cancelCh  chan struct{}
}

// New creates a countdown for sessionID with the given urgency thresholds.
// tick is the classification interval; production uses one second.
func New(sessionID string, warnAt, criticalAt, tick time.Duration) *Timer {
	return &Timer{
		sessionID:  sessionID,
		warnAt:     warnAt,
		criticalAt: criticalAt,
		tick:       tick,
		events:     make(chan Event, 16),
		cancelCh:   make(chan struct{}),
	}
}

// Events returns the notification stream. Closed after expiry or Cancel.
func (t *Timer) Events() <-chan Event {
	return t.events
}

func (t *Timer) classify(remaining time.Duration) Tier {
	switch {
	case remaining <= t.criticalAt:
		return TierCritical
	case remaining <= t.warnAt:
		return TierWarning
	default:
		return TierNormal
	}
}

// Start arms the countdown for the given duration.
func (t *Timer) Start(d time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return ErrAlreadyStarted
	}
	if t.done {
		return ErrNotRunning
	}
	t.started = true
	t.deadline = time.Now().Add(d)
	t.lastTier = t.classify(d)

	go t.run()
	return nil
}

func (t *Timer) run() {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()
	defer close(t.events)

	for {
		select {
		case <-ticker.C:
			if expired, ev := t.onTick(); expired {
				t.events <- ev
				return
			} else if ev.Kind == TierChanged {
				// Tier notifications are advisory; drop rather than
				// stall the tick loop on a slow consumer.
				select {
				case t.events <- ev:
				default:
				}
			}
		case <-t.cancelCh:
			return
		}
	}
}

// onTick classifies the remaining time under the lock and reports whether
// the countdown expired. The zero Event (Kind TierChanged, Tier matching
// lastTier) is returned when nothing changed.
func (t *Timer) onTick() (bool, Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done || t.paused {
		return false, Event{SessionID: t.sessionID, Kind: TierChanged, Tier: t.lastTier}
	}

	remaining := time.Until(t.deadline)
	if remaining <= 0 {
		t.done = true
		return true, Event{SessionID: t.sessionID, Kind: Expired}
	}

	tier := t.classify(remaining)
	if tier != t.lastTier {
		t.lastTier = tier
		return false, Event{SessionID: t.sessionID, Kind: TierChanged, Tier: tier, Remaining: remaining}
	}
	return false, Event{SessionID: t.sessionID, Kind: TierChanged, Tier: t.lastTier}
}

// Reset moves the deadline to d from now. The next tick reports any tier
// change resulting from the jump.
func (t *Timer) Reset(d time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started || t.done {
		return ErrNotRunning
	}
	if t.paused {
		t.remaining = d
		return nil
	}
	t.deadline = time.Now().Add(d)
	return nil
}

// Pause freezes the countdown and returns the remaining time.
func (t *Timer) Pause() (time.Duration, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started || t.done {
		return 0, ErrNotRunning
	}
	if t.paused {
		return t.remaining, nil
	}
	t.paused = true
	t.remaining = time.Until(t.deadline)
	if t.remaining < 0 {
		t.remaining = 0
	}
	return t.remaining, nil
}

// Resume restores the countdown with the remaining time unchanged.
func (t *Timer) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started || t.done {
		return ErrNotRunning
	}
	if !t.paused {
		return ErrNotPaused
	}
	t.paused = false
	t.deadline = time.Now().Add(t.remaining)
	return nil
}

// Cancel stops the countdown permanently. No expiry event fires after
// Cancel, regardless of how close the deadline was.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return
	}
	t.done = true
	if t.started {
		close(t.cancelCh)
	}
}

// Remaining returns the time left on the countdown.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started || t.done {
		return 0
	}
	if t.paused {
		return t.remaining
	}
	remaining := time.Until(t.deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}
