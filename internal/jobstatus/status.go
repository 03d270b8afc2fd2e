// Package jobstatus tracks the lifecycle of background generation jobs.
//
// Each story has at most one job record. The record is durable across
// restarts (file-backed by default) and follows a one-shot polling contract:
// a terminal or timed-out state is observable exactly once, after which the
// record is gone and polling reports pending again.
package jobstatus

import (
	"errors"
	"time"
)

// State is the stored lifecycle state of a generation job.
type State string

const (
	StateInProgress State = "EN_PROCESO"
	StateCompleted  State = "COMPLETADO"
	StateFailed     State = "ERROR"
)

// Record is the durable job record for one story.
type Record struct {
	State     State     `json:"status"`
	StartedAt time.Time `json:"startTime"`
}

// PollResult is what a poller observes. Unlike State it includes the derived
// outcomes: pending (no record, or already consumed) and timeout.
type PollResult string

const (
	PollPending    PollResult = "PENDIENTE"
	PollInProgress PollResult = "EN_PROCESO"
	PollCompleted  PollResult = "COMPLETADO"
	PollError      PollResult = "ERROR"
	PollTimeout    PollResult = "TIMEOUT"
)

// ErrAlreadyRunning is returned by Tracker.Start when an unexpired job for
// the same story is still in progress.
var ErrAlreadyRunning = errors.New("generation already in progress for this story")

// Store is the durable key-value backing for job records, keyed by story ID.
// Get returns (nil, nil) when no record exists.
type Store interface {
	Get(storyID int64) (*Record, error)
	Put(storyID int64, rec Record) error
	Delete(storyID int64) error
}
