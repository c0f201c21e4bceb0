package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
)

// Report export follows the same asynchronous task-polling shape as
// simulation jobs: submit, poll, then download the artifact.

// SubmitExport starts report generation for a completed job.
func (c *Client) SubmitExport(ctx context.Context, req models.ExportRequest) (*models.ExportTask, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/export", req)
	if err != nil {
		return nil, fmt.Errorf("failed to submit export: %w", err)
	}

	var task models.ExportTask
	if err := decodeResponse(resp, &task); err != nil {
		return nil, fmt.Errorf("failed to decode export response: %w", err)
	}
	return &task, nil
}

// ExportStatus fetches the state of a report generation task.
func (c *Client) ExportStatus(ctx context.Context, taskID string) (*models.ExportTask, error) {
	path := fmt.Sprintf("/export/%s", taskID)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get export status: %w", err)
	}

	var task models.ExportTask
	if err := decodeResponse(resp, &task); err != nil {
		return nil, fmt.Errorf("failed to decode export status: %w", err)
	}
	return &task, nil
}

// DownloadExport streams the finished artifact into w and returns the number
// of bytes written.
func (c *Client) DownloadExport(ctx context.Context, taskID string, w io.Writer) (int64, error) {
	path := fmt.Sprintf("/export/%s/download", taskID)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to download export: %w", err)
	}
	defer closeBody(resp.Body)

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to write export artifact: %w", err)
	}
	return n, nil
}
