package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
)

// Health probes GET /api/health. It returns true only on a successful
// response; any transport or service failure means "unavailable" and is never
// surfaced as an error. Unreachability is the documented demo-mode path, not
// an error state.
func (c *Client) Health(ctx context.Context) bool {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return false
	}
	closeBody(resp.Body)
	return true
}

// SubmitRun starts a Monte Carlo dispersion job.
func (c *Client) SubmitRun(ctx context.Context, cfg models.SimulationConfiguration) (*models.SubmitResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/simulation/run", cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to submit run: %w", err)
	}

	var submit models.SubmitResponse
	if err := decodeResponse(resp, &submit); err != nil {
		return nil, fmt.Errorf("failed to decode submit response: %w", err)
	}
	return &submit, nil
}

// JobStatus fetches the current state of a running job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*models.JobStatusResponse, error) {
	path := fmt.Sprintf("/simulation/status/%s", jobID)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get job status: %w", err)
	}

	var status models.JobStatusResponse
	if err := decodeResponse(resp, &status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &status, nil
}

// Result fetches the full result set of a job. Only valid once the job
// status is completed.
func (c *Client) Result(ctx context.Context, jobID string) (*models.FullResult, error) {
	path := fmt.Sprintf("/results/%s", jobID)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result models.FullResult
	if err := decodeResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to decode result response: %w", err)
	}
	return &result, nil
}

// Preview computes a single nominal trajectory for the configuration. Cheap
// enough to call on every debounced edit; no Monte Carlo spread.
func (c *Client) Preview(ctx context.Context, cfg models.SimulationConfiguration) (*models.TrajectoryPreview, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/simulation/preview", cfg.PreviewRequest())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preview: %w", err)
	}

	var preview models.TrajectoryPreview
	if err := decodeResponse(resp, &preview); err != nil {
		return nil, fmt.Errorf("failed to decode preview response: %w", err)
	}
	return &preview, nil
}
