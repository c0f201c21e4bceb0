package models

// JobStatus is the lifecycle state reported by the simulation service.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether the status is one of the two end states.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// SubmitResponse is returned by POST /api/simulation/run.
type SubmitResponse struct {
	JobID    string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Progress float64   `json:"progress"`
}

// JobStatusResponse is returned by GET /api/simulation/status/{job_id}.
// Error carries the service failure reason and is only meaningful when
// Status is JobFailed.
type JobStatusResponse struct {
	JobID    string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Progress float64   `json:"progress"`
	Message  string    `json:"message,omitempty"`
	Error    string    `json:"error,omitempty"`
}
