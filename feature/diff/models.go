package diff

import (
	"time"

	"csv-reconciler/core/reconcile"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Source names where the snapshot paths of a request point to.
type Source string

const (
	// SourceLocal paths are read from the server's file system.
	SourceLocal Source = "local"
	// SourceStorage paths are object keys in the configured bucket.
	SourceStorage Source = "storage"
)

// Request starts a reconciliation.
type Request struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Source Source `json:"source,omitempty"`
}

// Submitted is returned when a job was accepted.
type Submitted struct {
	JobID string `json:"job_id"`
}

// JobView is the public state of a job.
type JobView struct {
	ID         string                    `json:"id"`
	Status     Status                    `json:"status"`
	First      string                    `json:"first"`
	Second     string                    `json:"second"`
	Source     Source                    `json:"source"`
	StartedAt  time.Time                 `json:"started_at"`
	FinishedAt *time.Time                `json:"finished_at,omitempty"`
	ElapsedMS  int64                     `json:"elapsed_ms,omitempty"`
	Result     *reconcile.CombinedResult `json:"result,omitempty"`
	Error      string                    `json:"error,omitempty"`
	Code       string                    `json:"code,omitempty"`
}

// job is the registry entry behind a JobView.
type job struct {
	id         string
	first      string
	second     string
	source     Source
	status     Status
	startedAt  time.Time
	finishedAt time.Time
	elapsed    time.Duration
	result     *reconcile.CombinedResult
	err        error
	done       chan struct{}
}

func (j *job) view() JobView {
	v := JobView{
		ID:        j.id,
		Status:    j.status,
		First:     j.first,
		Second:    j.second,
		Source:    j.source,
		StartedAt: j.startedAt,
		Result:    j.result,
	}
	if j.status != StatusRunning {
		finished := j.finishedAt
		v.FinishedAt = &finished
		v.ElapsedMS = j.elapsed.Milliseconds()
	}
	if j.err != nil {
		v.Error = j.err.Error()
		v.Code = ErrorCode(j.err)
	}
	return v
}
