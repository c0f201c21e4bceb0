package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
)

// strategy is the per-run execution path, chosen once from the health probe.
type strategy interface {
	execute(ctx context.Context, cfg models.SimulationConfiguration, rep *reporter) (*models.RunResult, error)
}

// demoStrategy runs the local generator while synthesizing a progress
// sequence that advances toward 90% and only reaches 100% when the generator
// resolves.
type demoStrategy struct {
	gen  Generator
	tick time.Duration
}

func (d *demoStrategy) execute(ctx context.Context, cfg models.SimulationConfiguration, rep *reporter) (*models.RunResult, error) {
	jobID := "mock-" + uuid.NewString()
	rep.start(jobID, StateDemoRunning, "Running local demo simulation", true)

	type genOutcome struct {
		result *models.RunResult
		err    error
	}
	resultChan := make(chan genOutcome, 1)
	go func() {
		res, err := d.gen.Generate(ctx, cfg)
		resultChan <- genOutcome{result: res, err: err}
	}()

	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	progress := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if progress < 90 {
				progress += 7
				if progress > 90 {
					progress = 90
				}
				rep.progress(progress, "Synthesizing dispersion data")
			}
		case out := <-resultChan:
			if out.err != nil {
				return nil, fmt.Errorf("demo generation failed: %w", out.err)
			}
			out.result.JobID = jobID
			rep.progress(100, "")
			return out.result, nil
		}
	}
}

// remoteStrategy submits the run and polls sequentially on a fixed interval.
// Any network failure during polling fails the run; there is no retry. The
// design favors fast visible failure over a silent hang.
type remoteStrategy struct {
	svc  Service
	poll time.Duration
}

func (r *remoteStrategy) execute(ctx context.Context, cfg models.SimulationConfiguration, rep *reporter) (*models.RunResult, error) {
	resp, err := r.svc.SubmitRun(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jobID := resp.JobID
	rep.start(jobID, StateRemotePolling, "Run submitted, polling status", false)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.poll):
		}

		status, err := r.svc.JobStatus(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch status.Status {
		case models.JobCompleted:
			full, err := r.svc.Result(ctx, jobID)
			if err != nil {
				return nil, err
			}
			if full.Error != "" {
				return nil, errors.New(full.Error)
			}
			return full.ToRunResult(jobID)
		case models.JobFailed:
			// The service message is surfaced verbatim; the generic fallback
			// is only used when the service omitted one.
			msg := status.Error
			if msg == "" {
				msg = "simulation failed"
			}
			return nil, errors.New(msg)
		default:
			rep.progress(int(status.Progress+0.5), status.Message)
		}
	}
}
