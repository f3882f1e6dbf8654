package model

import (
	"time"
)

// JobState represents the lifecycle state of a summary job.
//
// Valid transitions are queued → running → completed | failed. Terminal
// states are final; no transition ever returns to queued or running.
type JobState string

const (
	// JobStateQueued indicates a job is waiting for a worker.
	JobStateQueued JobState = "queued"
	// JobStateRunning indicates a worker has claimed the job.
	JobStateRunning JobState = "running"
	// JobStateCompleted indicates the job finished successfully.
	JobStateCompleted JobState = "completed"
	// JobStateFailed indicates the job finished with an error.
	JobStateFailed JobState = "failed"
)

// Valid returns true if the JobState is one of the known states.
func (s JobState) Valid() bool {
	return s == JobStateQueued || s == JobStateRunning || s == JobStateCompleted || s == JobStateFailed
}

// Terminal returns true for completed and failed states.
func (s JobState) Terminal() bool {
	return s == JobStateCompleted || s == JobStateFailed
}

// CanTransitionTo reports whether the state machine permits moving from s to next.
func (s JobState) CanTransitionTo(next JobState) bool {
	switch s {
	case JobStateQueued:
		return next == JobStateRunning
	case JobStateRunning:
		return next == JobStateCompleted || next == JobStateFailed
	default:
		return false
	}
}

// SummaryJob is the tracked record for one asynchronous conversation summary.
//
// Records are treated as immutable values: the status store swaps whole
// records on transition and hands out copies, so a reader never observes a
// record with some fields updated and others stale.
type SummaryJob struct {
	ID             string         `json:"job_id"`
	State          JobState       `json:"status"`
	ConversationID string         `json:"conversation_id"`
	RequestedBy    *Identity      `json:"requested_by,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	Result         *SummaryResult `json:"result,omitempty"`
	Error          *string        `json:"error,omitempty"`
}

// Clone returns a deep copy of the job so callers can never mutate stored state.
func (j SummaryJob) Clone() SummaryJob {
	out := j
	if j.RequestedBy != nil {
		id := *j.RequestedBy
		out.RequestedBy = &id
	}
	if j.StartedAt != nil {
		t := *j.StartedAt
		out.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		out.CompletedAt = &t
	}
	if j.Result != nil {
		r := j.Result.Clone()
		out.Result = &r
	}
	if j.Error != nil {
		e := *j.Error
		out.Error = &e
	}
	return out
}

// Identity is the caller identity returned by the security service. The
// messaging service never validates tokens itself; the identity is attached
// to submitted jobs purely as metadata.
type Identity struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

// SummaryResult is the success payload of a completed summary job.
type SummaryResult struct {
	ConversationID  string         `json:"conversation_id"`
	Participants    []int64        `json:"participants"`
	MessageCount    int            `json:"message_count"`
	CountsByType    map[string]int `json:"counts_by_type,omitempty"`
	FirstMessageAt  *time.Time     `json:"first_message_at,omitempty"`
	LastMessageAt   *time.Time     `json:"last_message_at,omitempty"`
	LastTextPreview string         `json:"last_text_preview,omitempty"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// Clone returns a deep copy of the result.
func (r SummaryResult) Clone() SummaryResult {
	out := r
	if r.Participants != nil {
		out.Participants = append([]int64(nil), r.Participants...)
	}
	if r.CountsByType != nil {
		out.CountsByType = make(map[string]int, len(r.CountsByType))
		for k, v := range r.CountsByType {
			out.CountsByType[k] = v
		}
	}
	if r.FirstMessageAt != nil {
		t := *r.FirstMessageAt
		out.FirstMessageAt = &t
	}
	if r.LastMessageAt != nil {
		t := *r.LastMessageAt
		out.LastMessageAt = &t
	}
	return out
}

// SummaryAccepted is the 202 response body for a submitted summary job.
type SummaryAccepted struct {
	JobID   string `json:"job_id"`
	PollURL string `json:"poll_url"`
}

// SummaryStatusResponse is the poll response for a summary job. StartedAt,
// CompletedAt, Result, and Error are present only once the matching state
// has been reached.
type SummaryStatusResponse struct {
	Status      JobState       `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Result      *SummaryResult `json:"result,omitempty"`
	Error       *string        `json:"error,omitempty"`
}

// StatusResponse projects the job record into its client-facing poll shape.
func (j SummaryJob) StatusResponse() SummaryStatusResponse {
	c := j.Clone()
	return SummaryStatusResponse{
		Status:      c.State,
		CreatedAt:   c.CreatedAt,
		StartedAt:   c.StartedAt,
		CompletedAt: c.CompletedAt,
		Result:      c.Result,
		Error:       c.Error,
	}
}
