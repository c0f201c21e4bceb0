package models

// ExportRequest is the body of POST /api/export: asynchronous report
// generation for a completed job.
type ExportRequest struct {
	JobID  string `json:"job_id"`
	Format string `json:"format"` // pdf, geojson, csv
}

// ExportTask mirrors the job-polling shape for report generation tasks.
type ExportTask struct {
	TaskID   string    `json:"task_id"`
	Status   JobStatus `json:"status"`
	Progress float64   `json:"progress"`
	Message  string    `json:"message,omitempty"`
	Error    string    `json:"error,omitempty"`
	Filename string    `json:"filename,omitempty"`
}
