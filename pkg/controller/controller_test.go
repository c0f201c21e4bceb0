package controller

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/client"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/mocksim"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
)

// fakeService scripts the remote side: a fixed health answer, one submit
// response, and a sequence of status responses that sticks on the last one.
type fakeService struct {
	mu          sync.Mutex
	healthy     bool
	healthCalls int
	submitResp  *models.SubmitResponse
	submitErr   error
	statuses    []*models.JobStatusResponse
	statusErr   error
	statusIdx   int
	result      *models.FullResult
	resultErr   error
}

func (s *fakeService) Health(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthCalls++
	return s.healthy
}

func (s *fakeService) SubmitRun(ctx context.Context, cfg models.SimulationConfiguration) (*models.SubmitResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitResp, s.submitErr
}

func (s *fakeService) JobStatus(ctx context.Context, jobID string) (*models.JobStatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	st := s.statuses[s.statusIdx]
	if s.statusIdx < len(s.statuses)-1 {
		s.statusIdx++
	}
	return st, nil
}

func (s *fakeService) Result(ctx context.Context, jobID string) (*models.FullResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.resultErr
}

// gateGenerator resolves each Generate call either immediately or when its
// per-call gate channel is closed, tagging the result with the requested
// iteration count so tests can tell runs apart.
type gateGenerator struct {
	mu    sync.Mutex
	calls int
	gates []chan struct{}
}

func (g *gateGenerator) Generate(ctx context.Context, cfg models.SimulationConfiguration) (*models.RunResult, error) {
	g.mu.Lock()
	n := g.calls
	g.calls++
	var gate chan struct{}
	if n < len(g.gates) {
		gate = g.gates[n]
	}
	g.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &models.RunResult{Stats: models.RunStats{Iterations: cfg.Iterations}}, nil
}

func (g *gateGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func waitDone(t *testing.T, h *RunHandle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("run did not reach a terminal state in time")
	}
}

func TestDemoRunEndToEnd(t *testing.T) {
	svc := &fakeService{healthy: false}
	gen := mocksim.NewWithSeed(42)
	gen.Latency = 20 * time.Millisecond
	ctrl := New(svc, gen, Options{DemoTick: time.Millisecond})

	cfg := models.DefaultConfiguration()
	cfg.Iterations = 100

	h := ctrl.StartRun(context.Background(), cfg)
	waitDone(t, h)

	job, res, err := h.Outcome()
	if err != nil {
		t.Fatalf("demo run failed: %v", err)
	}
	if job.State != StateCompleted {
		t.Fatalf("terminal state = %s, want %s", job.State, StateCompleted)
	}
	if !job.Demo {
		t.Error("demo flag not set on the job")
	}
	if !strings.HasPrefix(job.ID, "mock-") {
		t.Errorf("job ID %q lacks mock- prefix", job.ID)
	}
	if job.Progress != 100 {
		t.Errorf("terminal progress = %d, want 100", job.Progress)
	}
	if res == nil {
		t.Fatal("no result after completed demo run")
	}
	if res.JobID != job.ID {
		t.Errorf("result job ID %q != job ID %q", res.JobID, job.ID)
	}
	if len(res.Points) != 10 {
		t.Errorf("got %d impact points for 100 iterations, want 10", len(res.Points))
	}
	if len(res.Grid) != 100 {
		t.Errorf("got %d grid cells, want 100", len(res.Grid))
	}
	if res.PrimaryEllipse.SemiMajorKm <= res.FragmentEllipse.SemiMajorKm {
		t.Errorf("primary semi-major %.2f not larger than fragment %.2f",
			res.PrimaryEllipse.SemiMajorKm, res.FragmentEllipse.SemiMajorKm)
	}
	if got := ctrl.Result(); got != res {
		t.Error("controller result does not match the handle's result")
	}
	if svc.healthCalls != 1 {
		t.Errorf("health probed %d times, want exactly 1 per run", svc.healthCalls)
	}
}

func TestStaleRunIsolation(t *testing.T) {
	svc := &fakeService{healthy: false}
	gateA := make(chan struct{})
	gen := &gateGenerator{gates: []chan struct{}{gateA, nil}}

	var mu sync.Mutex
	var updates []Job
	ctrl := New(svc, gen, Options{
		DemoTick: time.Millisecond,
		OnUpdate: func(j Job) {
			mu.Lock()
			updates = append(updates, j)
			mu.Unlock()
		},
	})

	cfgA := models.DefaultConfiguration()
	cfgA.Iterations = 111
	hA := ctrl.StartRun(context.Background(), cfgA)

	deadline := time.Now().Add(2 * time.Second)
	for gen.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first generator call never started")
		}
		time.Sleep(time.Millisecond)
	}

	cfgB := models.DefaultConfiguration()
	cfgB.Iterations = 222
	hB := ctrl.StartRun(context.Background(), cfgB)
	waitDone(t, hB)

	jobB, resB, err := hB.Outcome()
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if resB.Stats.Iterations != 222 {
		t.Fatalf("second run produced iterations=%d, want 222", resB.Stats.Iterations)
	}

	// Let the abandoned first run finish; the controller must keep tracking
	// the second run's outcome.
	close(gateA)
	waitDone(t, hA)

	jobA, resA, err := hA.Outcome()
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if jobA.State != StateCompleted {
		t.Errorf("first run's own handle state = %s, want %s", jobA.State, StateCompleted)
	}
	if resA.Stats.Iterations != 111 {
		t.Errorf("first run's own result iterations=%d, want 111", resA.Stats.Iterations)
	}

	if got := ctrl.Job(); got.ID != jobB.ID {
		t.Errorf("controller tracks job %q after stale completion, want %q", got.ID, jobB.ID)
	}
	if got := ctrl.Result(); got == nil || got.Stats.Iterations != 222 {
		t.Error("stale run overwrote the controller result")
	}

	mu.Lock()
	last := updates[len(updates)-1]
	mu.Unlock()
	if last.ID != jobB.ID || last.State != StateCompleted {
		t.Errorf("last update was for job %q in state %s, want the current run's completion", last.ID, last.State)
	}
}

const remoteResultFixture = `{
	"primary_ellipse": {"center_lat": 46.5, "center_lon": 64.1, "semi_major_km": 14.2, "semi_minor_km": 5.1, "azimuth_deg": 45},
	"fragment_ellipse": {"center_lat": 46.6, "center_lon": 64.2, "semi_major_km": 7.3, "semi_minor_km": 2.8, "azimuth_deg": 45},
	"impact_points": {
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [64.11, 46.52]},
			 "properties": {"id": "impact-1", "fragment": false, "downrange_km": 96.4, "crossrange_km": 1.2, "velocity_ms": 212.0}},
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [64.23, 46.61]},
			 "properties": {"id": "impact-2", "fragment": true, "downrange_km": 104.8}}
		]
	},
	"otu_grid": {
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature",
			 "geometry": {"type": "Polygon", "coordinates": [[[64.1, 46.5], [64.15, 46.5], [64.15, 46.55], [64.1, 46.55], [64.1, 46.5]]]},
			 "properties": {"id": "cell-0-0", "otu_score": 0.62, "vegetation": 0.7, "soil_strength": 0.55,
			  "bonitet": 0.6, "relief": 0.8, "fire_risk": 0.2, "missing_indices": ["bonitet"]}}
		]
	},
	"stats": {"iterations": 500, "primary_count": 330, "fragment_count": 170,
	 "mean_downrange_km": 98.2, "max_downrange_km": 121.5, "mean_otu_score": 0.58}
}`

func TestRemoteRunCompleted(t *testing.T) {
	var full models.FullResult
	if err := json.Unmarshal([]byte(remoteResultFixture), &full); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}

	svc := &fakeService{
		healthy:    true,
		submitResp: &models.SubmitResponse{JobID: "job-123", Status: models.JobPending},
		statuses: []*models.JobStatusResponse{
			{JobID: "job-123", Status: models.JobRunning, Progress: 40, Message: "Propagating trajectories"},
			{JobID: "job-123", Status: models.JobCompleted, Progress: 100},
		},
		result: &full,
	}
	ctrl := New(svc, &gateGenerator{}, Options{PollInterval: time.Millisecond})

	h := ctrl.StartRun(context.Background(), models.DefaultConfiguration())
	waitDone(t, h)

	job, res, err := h.Outcome()
	if err != nil {
		t.Fatalf("remote run failed: %v", err)
	}
	if job.State != StateCompleted || job.Demo {
		t.Fatalf("job state=%s demo=%v, want completed remote run", job.State, job.Demo)
	}
	if job.ID != "job-123" {
		t.Errorf("job ID = %q, want the service-assigned job-123", job.ID)
	}
	if len(res.Points) != 2 {
		t.Fatalf("decoded %d impact points, want 2", len(res.Points))
	}
	p := res.Points[0]
	if p.ID != "impact-1" || p.Lat != 46.52 || p.Lon != 64.11 || p.Fragment {
		t.Errorf("first point decoded wrong: %+v", p)
	}
	if !res.Points[1].Fragment {
		t.Error("second point lost its fragment flag")
	}
	if len(res.Grid) != 1 {
		t.Fatalf("decoded %d grid cells, want 1", len(res.Grid))
	}
	cell := res.Grid[0]
	if cell.ID != "cell-0-0" || cell.Score != 0.62 {
		t.Errorf("cell decoded wrong: id=%q score=%v", cell.ID, cell.Score)
	}
	if len(cell.Ring) != 5 {
		t.Errorf("cell ring has %d vertices, want 5", len(cell.Ring))
	}
	if v := cell.Indices[models.IndexVegetation]; v != 0.7 {
		t.Errorf("vegetation index = %v, want 0.7", v)
	}
	if len(cell.Missing) != 1 || cell.Missing[0] != "bonitet" {
		t.Errorf("missing indices = %v, want [bonitet]", cell.Missing)
	}
	if res.Stats.Iterations != 500 {
		t.Errorf("stats iterations = %d, want 500", res.Stats.Iterations)
	}
	if res.PrimaryEllipse.SemiMajorKm != 14.2 {
		t.Errorf("primary ellipse semi-major = %v, want 14.2", res.PrimaryEllipse.SemiMajorKm)
	}
}

func TestRemoteRunFailedVerbatimMessage(t *testing.T) {
	const reason = "atmospheric model diverged at 42 km"
	svc := &fakeService{
		healthy:    true,
		submitResp: &models.SubmitResponse{JobID: "job-9", Status: models.JobPending},
		statuses: []*models.JobStatusResponse{
			{JobID: "job-9", Status: models.JobFailed, Error: reason},
		},
	}
	ctrl := New(svc, &gateGenerator{}, Options{PollInterval: time.Millisecond})

	h := ctrl.StartRun(context.Background(), models.DefaultConfiguration())
	waitDone(t, h)

	job, res, err := h.Outcome()
	if err == nil {
		t.Fatal("expected an error from a failed job")
	}
	if job.State != StateFailed {
		t.Fatalf("job state = %s, want %s", job.State, StateFailed)
	}
	if job.Error != reason {
		t.Errorf("job error = %q, want the service message %q untouched", job.Error, reason)
	}
	if res != nil {
		t.Error("failed run produced a result")
	}
	if ctrl.Result() != nil {
		t.Error("controller retained a result for a failed run")
	}
}

func TestRemoteRunFailedWithoutMessage(t *testing.T) {
	svc := &fakeService{
		healthy:    true,
		submitResp: &models.SubmitResponse{JobID: "job-10", Status: models.JobPending},
		statuses: []*models.JobStatusResponse{
			{JobID: "job-10", Status: models.JobFailed},
		},
	}
	ctrl := New(svc, &gateGenerator{}, Options{PollInterval: time.Millisecond})

	h := ctrl.StartRun(context.Background(), models.DefaultConfiguration())
	waitDone(t, h)

	job, _, _ := h.Outcome()
	if job.Error != "simulation failed" {
		t.Errorf("job error = %q, want the generic fallback", job.Error)
	}
}

func TestSubmitServiceErrorSurfaced(t *testing.T) {
	svc := &fakeService{
		healthy:   true,
		submitErr: &client.ServiceError{StatusCode: 422, Message: "iterations must be positive"},
	}
	ctrl := New(svc, &gateGenerator{}, Options{PollInterval: time.Millisecond})

	h := ctrl.StartRun(context.Background(), models.DefaultConfiguration())
	waitDone(t, h)

	job, _, err := h.Outcome()
	if err == nil {
		t.Fatal("expected submit rejection to fail the run")
	}
	if job.State != StateFailed {
		t.Fatalf("job state = %s, want %s", job.State, StateFailed)
	}
	if job.Error != "iterations must be positive" {
		t.Errorf("job error = %q, want the service message alone", job.Error)
	}
}

func TestPollTransportErrorFailsRun(t *testing.T) {
	svc := &fakeService{
		healthy:    true,
		submitResp: &models.SubmitResponse{JobID: "job-11", Status: models.JobPending},
		statusErr:  &client.TransportError{Err: context.DeadlineExceeded},
	}
	ctrl := New(svc, &gateGenerator{}, Options{PollInterval: time.Millisecond})

	h := ctrl.StartRun(context.Background(), models.DefaultConfiguration())
	waitDone(t, h)

	job, _, err := h.Outcome()
	if err == nil {
		t.Fatal("expected a poll transport failure to end the run")
	}
	if job.State != StateFailed {
		t.Fatalf("job state = %s, want %s", job.State, StateFailed)
	}
	if !client.IsTransport(err) {
		t.Errorf("run error %v not classified as a transport failure", err)
	}
}
