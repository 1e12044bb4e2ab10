package snapfit

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultFeedbackDuration = 2 * time.Second
	DefaultHintDuration     = 3 * time.Second
)

type FeedbackKind int

const (
	FeedbackSnapped FeedbackKind = iota
	FeedbackWrongSocket
	FeedbackMiss
	FeedbackNotReady
)

func (k FeedbackKind) String() string {
	switch k {
	case FeedbackSnapped:
		return "snapped"
	case FeedbackWrongSocket:
		return "wrong-socket"
	case FeedbackNotReady:
		return "not-ready"
	default:
		return "miss"
	}
}

// Feedback is the player-facing result of the last snap attempt.
type Feedback struct {
	PartID  string
	Kind    FeedbackKind
	Message string
	Outcome SnapOutcome
}

func (f Feedback) Success() bool { return f.Kind == FeedbackSnapped }

// Timed holds a value whose lifetime is owned by a Timers schedule. Every Set
// issues a new token; an expiry carrying an older token is a no-op.
type Timed[T any] struct {
	value  T
	token  uuid.UUID
	active bool
}

// Set replaces the current value and returns the token its expiry must present.
func (t *Timed[T]) Set(value T) uuid.UUID {
	t.value = value
	t.token = uuid.New()
	t.active = true
	return t.token
}

func (t *Timed[T]) Get() (T, bool) {
	if !t.active {
		var zero T
		return zero, false
	}
	return t.value, true
}

func (t *Timed[T]) Active() bool { return t.active }

// Token identifies the current value; uuid.Nil when nothing is set.
func (t *Timed[T]) Token() uuid.UUID {
	if !t.active {
		return uuid.Nil
	}
	return t.token
}

// Clear drops the value immediately.
func (t *Timed[T]) Clear() {
	var zero T
	t.value = zero
	t.token = uuid.Nil
	t.active = false
}

// Expire clears the value only if token still names it.
func (t *Timed[T]) Expire(token uuid.UUID) bool {
	if !t.active || t.token != token {
		return false
	}
	t.Clear()
	return true
}

type timer struct {
	due time.Duration
	seq uint64
	fn  func()
}

// Timers runs deferred callbacks against a clock that only moves when Advance
// is called. Callbacks run on the caller's goroutine.
type Timers struct {
	now     time.Duration
	seq     uint64
	pending []timer
}

// After schedules fn to run once delay has elapsed.
func (ts *Timers) After(delay time.Duration, fn func()) {
	ts.seq++
	ts.pending = append(ts.pending, timer{due: ts.now + max(delay, 0), seq: ts.seq, fn: fn})
}

// Advance moves the clock forward and runs every due callback in deadline
// order, ties in scheduling order. It returns how many ran.
func (ts *Timers) Advance(dt time.Duration) int {
	if dt > 0 {
		ts.now += dt
	}
	var due []timer
	kept := ts.pending[:0]
	for _, tm := range ts.pending {
		if tm.due <= ts.now {
			due = append(due, tm)
		} else {
			kept = append(kept, tm)
		}
	}
	ts.pending = kept
	slices.SortFunc(due, func(a, b timer) int {
		if a.due != b.due {
			return cmp.Compare(a.due, b.due)
		}
		return cmp.Compare(a.seq, b.seq)
	})
	for _, tm := range due {
		tm.fn()
	}
	return len(due)
}

func (ts *Timers) Pending() int { return len(ts.pending) }

// Reset drops every scheduled callback without running it.
func (ts *Timers) Reset() {
	ts.pending = nil
}
