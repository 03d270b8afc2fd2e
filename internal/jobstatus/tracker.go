package jobstatus

import (
	"fmt"
	"time"
)

// DefaultTimeout is how long an in-progress job may run before a poll
// expires it.
const DefaultTimeout = 10 * time.Minute

// Tracker applies the job lifecycle rules on top of a Store: start/terminal
// transitions, timeout expiry on read, and one-shot consumption of terminal
// states.
type Tracker struct {
	store   Store
	timeout time.Duration
	now     func() time.Time
}

// NewTracker creates a Tracker over the given store. A zero timeout means
// DefaultTimeout.
func NewTracker(store Store, timeout time.Duration) *Tracker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Tracker{store: store, timeout: timeout, now: time.Now}
}

// WithClock replaces the time source. Tests use it to force expiry.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Start records a new in-progress job for the story. It refuses to replace a
// live job: a second generation request while one is running gets
// ErrAlreadyRunning. An expired stale record is overwritten.
func (t *Tracker) Start(storyID int64) error {
	rec, err := t.store.Get(storyID)
	if err != nil {
		return fmt.Errorf("read job record: %w", err)
	}
	if rec != nil && rec.State == StateInProgress && t.now().Sub(rec.StartedAt) <= t.timeout {
		return ErrAlreadyRunning
	}
	return t.store.Put(storyID, Record{State: StateInProgress, StartedAt: t.now()})
}

// Complete transitions the story's job to the completed terminal state.
func (t *Tracker) Complete(storyID int64) error {
	return t.store.Put(storyID, Record{State: StateCompleted, StartedAt: t.now()})
}

// Fail transitions the story's job to the failed terminal state.
func (t *Tracker) Fail(storyID int64) error {
	return t.store.Put(storyID, Record{State: StateFailed, StartedAt: t.now()})
}

// Poll reads the story's job state and applies the consumption rules:
//
//   - no record: pending (indistinguishable from already consumed)
//   - in progress past the timeout: record deleted, timeout reported
//   - in progress otherwise: in progress, record retained
//   - completed / failed: reported once, then the record is deleted
func (t *Tracker) Poll(storyID int64) (PollResult, error) {
	rec, err := t.store.Get(storyID)
	if err != nil {
		return "", fmt.Errorf("read job record: %w", err)
	}
	if rec == nil {
		return PollPending, nil
	}

	switch rec.State {
	case StateInProgress:
		if t.now().Sub(rec.StartedAt) > t.timeout {
			if err := t.store.Delete(storyID); err != nil {
				return "", fmt.Errorf("expire job record: %w", err)
			}
			return PollTimeout, nil
		}
		return PollInProgress, nil

	case StateCompleted:
		if err := t.store.Delete(storyID); err != nil {
			return "", fmt.Errorf("consume job record: %w", err)
		}
		return PollCompleted, nil

	case StateFailed:
		if err := t.store.Delete(storyID); err != nil {
			return "", fmt.Errorf("consume job record: %w", err)
		}
		return PollError, nil

	default:
		return PollPending, fmt.Errorf("unknown job state %q", rec.State)
	}
}
