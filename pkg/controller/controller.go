// Package controller drives the asynchronous lifecycle of a dispersion run:
// submit, poll, complete or fail, with a client-local demo fallback whenever
// the remote service is unreachable.
package controller

import (
	"context"
	"sync"
	"time"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/client"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/logger"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
)

// State is the run lifecycle state.
type State string

const (
	StateIdle          State = "idle"
	StateSubmitting    State = "submitting"
	StateDemoRunning   State = "demo_running"
	StateRemotePolling State = "remote_polling"
	StateCompleted     State = "completed"
	StateFailed        State = "failed"
)

// Terminal reports whether the state ends a run. Both terminal states leave
// the controller ready for a new run.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Job is the tracked state of the current run. Progress is 0-100. Error is
// set only in StateFailed and carries the service message verbatim when the
// service provided one.
type Job struct {
	ID       string
	State    State
	Progress int
	Message  string
	Error    string
	Demo     bool
}

// Service is the remote endpoint surface the controller needs. Satisfied by
// *client.Client.
type Service interface {
	Health(ctx context.Context) bool
	SubmitRun(ctx context.Context, cfg models.SimulationConfiguration) (*models.SubmitResponse, error)
	JobStatus(ctx context.Context, jobID string) (*models.JobStatusResponse, error)
	Result(ctx context.Context, jobID string) (*models.FullResult, error)
}

// Generator is the demo-mode result synthesizer. Satisfied by
// *mocksim.Generator.
type Generator interface {
	Generate(ctx context.Context, cfg models.SimulationConfiguration) (*models.RunResult, error)
}

// Options tunes the controller. The intervals are configuration, not
// contract.
type Options struct {
	// PollInterval is the remote status poll period. Default 2s.
	PollInterval time.Duration

	// DemoTick is the synthetic progress period for demo runs. Default 150ms.
	DemoTick time.Duration

	// OnUpdate is invoked with a job snapshot after every state change of the
	// current run. Stale runs never trigger it.
	OnUpdate func(Job)
}

// Controller is the run-lifecycle state machine. At most one run is tracked
// at a time; starting a new run abandons tracking of the previous one, and
// in-flight work for the old run is recognized as stale and ignored.
type Controller struct {
	svc      Service
	gen      Generator
	poll     time.Duration
	demoTick time.Duration
	onUpdate func(Job)
	log      logger.Logger

	mu     sync.Mutex
	seq    uint64
	job    Job
	result *models.RunResult
}

// New creates a controller over the given service and demo generator.
func New(svc Service, gen Generator, opts Options) *Controller {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.DemoTick <= 0 {
		opts.DemoTick = 150 * time.Millisecond
	}
	return &Controller{
		svc:      svc,
		gen:      gen,
		poll:     opts.PollInterval,
		demoTick: opts.DemoTick,
		onUpdate: opts.OnUpdate,
		log:      logger.WithPrefix("controller"),
		job:      Job{State: StateIdle},
	}
}

// RunHandle tracks one started run to terminal state. The handle always
// reflects its own run's outcome, even after the controller has moved on to
// a newer run.
type RunHandle struct {
	done   chan struct{}
	mu     sync.Mutex
	job    Job
	result *models.RunResult
	err    error
}

// Done is closed when the run reaches a terminal state.
func (h *RunHandle) Done() <-chan struct{} { return h.done }

// Outcome returns the terminal job snapshot and result. Valid after Done is
// closed; the result is nil for failed runs.
func (h *RunHandle) Outcome() (Job, *models.RunResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.job, h.result, h.err
}

// StartRun begins a new run. The health probe taken here governs the whole
// run: a service that flaps mid-run never causes a path switch. Any previous
// run's pending updates become no-ops.
func (c *Controller) StartRun(ctx context.Context, cfg models.SimulationConfiguration) *RunHandle {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.job = Job{State: StateSubmitting, Message: "Submitting run"}
	c.result = nil
	snapshot := c.job
	c.mu.Unlock()
	c.emit(snapshot)

	h := &RunHandle{done: make(chan struct{})}
	go c.run(ctx, seq, cfg, h)
	return h
}

func (c *Controller) run(ctx context.Context, seq uint64, cfg models.SimulationConfiguration, h *RunHandle) {
	defer close(h.done)

	rep := &reporter{c: c, seq: seq, handle: h}

	var strat strategy
	if c.svc.Health(ctx) {
		strat = &remoteStrategy{svc: c.svc, poll: c.poll}
	} else {
		c.log.Warn("Service unavailable, running in demo mode")
		strat = &demoStrategy{gen: c.gen, tick: c.demoTick}
	}

	result, err := strat.execute(ctx, cfg, rep)
	if err != nil {
		// Prefer the service's own wording over the wrapped error chain.
		msg := client.ServiceMessage(err)
		if msg == "" {
			msg = err.Error()
		}
		rep.fail(msg)
		h.mu.Lock()
		h.err = err
		h.mu.Unlock()
		return
	}
	rep.complete(result)
}

// Job returns a snapshot of the latest run's state.
func (c *Controller) Job() Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.job
}

// Result returns the latest run's completed result, or nil.
func (c *Controller) Result() *models.RunResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *Controller) emit(job Job) {
	if c.onUpdate != nil {
		c.onUpdate(job)
	}
}

// reporter applies run updates to the controller, dropping anything from a
// run that is no longer the current one. The handle still records its own
// run's terminal outcome, stale or not.
type reporter struct {
	c      *Controller
	seq    uint64
	handle *RunHandle
}

// apply mutates the tracked job under lock if this run is still current and
// returns the emitted snapshot.
func (r *reporter) apply(mutate func(*Job)) {
	c := r.c
	c.mu.Lock()
	if r.seq != c.seq {
		c.mu.Unlock()
		r.handle.mu.Lock()
		mutate(&r.handle.job)
		r.handle.mu.Unlock()
		return
	}
	mutate(&c.job)
	snapshot := c.job
	c.mu.Unlock()

	r.handle.mu.Lock()
	r.handle.job = snapshot
	r.handle.mu.Unlock()
	c.emit(snapshot)
}

func (r *reporter) start(id string, state State, msg string, demo bool) {
	r.apply(func(j *Job) {
		j.ID = id
		j.State = state
		j.Message = msg
		j.Demo = demo
	})
}

func (r *reporter) progress(progress int, msg string) {
	if progress < 0 {
		progress = 0
	} else if progress > 100 {
		progress = 100
	}
	r.apply(func(j *Job) {
		j.Progress = progress
		if msg != "" {
			j.Message = msg
		}
	})
}

func (r *reporter) complete(result *models.RunResult) {
	c := r.c
	c.mu.Lock()
	current := r.seq == c.seq
	if current {
		c.result = result
	}
	c.mu.Unlock()

	r.apply(func(j *Job) {
		j.State = StateCompleted
		j.Progress = 100
		j.Message = "Simulation completed"
		j.Error = ""
	})
	r.handle.mu.Lock()
	r.handle.result = result
	r.handle.mu.Unlock()
}

func (r *reporter) fail(message string) {
	r.apply(func(j *Job) {
		j.State = StateFailed
		j.Error = message
		j.Message = "Simulation failed"
	})
}
