// Package summary implements the in-memory tracking and execution subsystem
// for asynchronous conversation summary jobs: a concurrency-safe status
// store, a fixed-size worker pool with a bounded queue, and the submission
// and polling operations built on top of them.
package summary

import (
	"errors"
	"sync"
	"time"

	"github.com/lionswap/messaging-api/internal/domain/model"
)

var (
	// ErrUnknownJob is returned when no record exists for a job id.
	ErrUnknownJob = errors.New("unknown job id")
	// ErrDuplicateJob is returned when a job id already exists. Ids are
	// uuid v4, so this indicates an identifier-generation fault.
	ErrDuplicateJob = errors.New("duplicate job id")
	// ErrIllegalTransition is returned when a transition violates the job
	// state machine (e.g., writing to a terminal record).
	ErrIllegalTransition = errors.New("illegal job state transition")
)

// Store holds all summary job records for the lifetime of the process,
// bounded only by the terminal-record retention sweep.
//
// All mutation goes through Create and Transition; both swap whole records
// under the lock, and Get hands out deep copies, so concurrent readers never
// observe a partially updated record.
type Store struct {
	mu      sync.RWMutex
	jobs    map[string]model.SummaryJob
	nowFunc func() time.Time
}

// NewStore creates an empty status store.
func NewStore() *Store {
	return &Store{
		jobs:    make(map[string]model.SummaryJob),
		nowFunc: time.Now,
	}
}

// NewStoreWithClock creates a store with a custom clock (useful for tests).
func NewStoreWithClock(now func() time.Time) *Store {
	s := NewStore()
	if now != nil {
		s.nowFunc = now
	}
	return s
}

// Create registers a new record in the queued state with CreatedAt set to the
// current time. It fails with ErrDuplicateJob if the id already exists.
func (s *Store) Create(id, conversationID string, requestedBy *model.Identity) (model.SummaryJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return model.SummaryJob{}, ErrDuplicateJob
	}

	job := model.SummaryJob{
		ID:             id,
		State:          model.JobStateQueued,
		ConversationID: conversationID,
		CreatedAt:      s.nowFunc().UTC(),
	}
	if requestedBy != nil {
		identity := *requestedBy
		job.RequestedBy = &identity
	}

	s.jobs[id] = job
	return job.Clone(), nil
}

// Transition atomically replaces the record for id with a new record produced
// by mutate. The state machine is enforced here: mutate receives a copy of
// the current record with the new state already applied and the timestamp for
// that state set, and fills in state-specific fields (result, error).
//
// Fails with ErrUnknownJob if the id is absent and ErrIllegalTransition if
// the current state does not permit next.
func (s *Store) Transition(id string, next model.JobState, mutate func(*model.SummaryJob)) (model.SummaryJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.jobs[id]
	if !exists {
		return model.SummaryJob{}, ErrUnknownJob
	}
	if !current.State.CanTransitionTo(next) {
		return model.SummaryJob{}, ErrIllegalTransition
	}

	replacement := current.Clone()
	replacement.State = next
	now := s.nowFunc().UTC()
	switch next {
	case model.JobStateRunning:
		replacement.StartedAt = &now
	case model.JobStateCompleted, model.JobStateFailed:
		replacement.CompletedAt = &now
	}
	if mutate != nil {
		mutate(&replacement)
	}

	// Whole-record swap: readers holding copies of the old record are
	// unaffected, and no reader ever sees the record mid-update.
	s.jobs[id] = replacement
	return replacement.Clone(), nil
}

// Discard removes a record outright. It exists for submission rollback when
// the queue rejects a just-created job; once a job is accepted its record is
// only ever removed by the retention sweep.
func (s *Store) Discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
}

// Get returns a copy of the current record, or ErrUnknownJob.
func (s *Store) Get(id string) (model.SummaryJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[id]
	if !exists {
		return model.SummaryJob{}, ErrUnknownJob
	}
	return job.Clone(), nil
}

// Len returns the number of tracked records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Sweep evicts terminal records whose CompletedAt is older than retention and
// returns the number of records removed. Queued and running records are never
// evicted. A non-positive retention disables eviction.
func (s *Store) Sweep(retention time.Duration) int {
	if retention <= 0 {
		return 0
	}

	cutoff := s.nowFunc().UTC().Add(-retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, job := range s.jobs {
		if job.State.Terminal() && job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}
