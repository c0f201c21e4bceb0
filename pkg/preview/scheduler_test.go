package preview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
)

// recordingFetcher counts fetches and replies from a script: one entry per
// call, the last entry repeating.
type recordingFetcher struct {
	mu      sync.Mutex
	calls   []models.SimulationConfiguration
	replies []fetchReply
}

type fetchReply struct {
	preview *models.TrajectoryPreview
	err     error
}

func (f *recordingFetcher) Preview(ctx context.Context, cfg models.SimulationConfiguration) (*models.TrajectoryPreview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.calls)
	f.calls = append(f.calls, cfg)
	if len(f.replies) == 0 {
		return &models.TrajectoryPreview{}, nil
	}
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	r := f.replies[idx]
	return r.preview, r.err
}

func (f *recordingFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *recordingFetcher) lastCall() models.SimulationConfiguration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func shortOptions() Options {
	return Options{Quiet: 10 * time.Millisecond, LoadingDelay: time.Millisecond}
}

func settle() { time.Sleep(60 * time.Millisecond) }

func TestSubmitDebouncesRapidEdits(t *testing.T) {
	fetcher := &recordingFetcher{
		replies: []fetchReply{{preview: &models.TrajectoryPreview{
			ImpactPoint: models.GeoPoint{Lat: 46.5, Lon: 64.1},
		}}},
	}

	var mu sync.Mutex
	var previews int
	s := NewScheduler(fetcher, Options{
		Quiet:        10 * time.Millisecond,
		LoadingDelay: time.Millisecond,
		OnPreview: func(p *models.TrajectoryPreview) {
			mu.Lock()
			previews++
			mu.Unlock()
		},
	})

	cfg := models.DefaultConfiguration()
	for i := 0; i < 8; i++ {
		cfg.Azimuth = 40 + float64(i)
		s.Submit(cfg)
	}
	settle()

	if n := fetcher.callCount(); n != 1 {
		t.Fatalf("8 rapid edits produced %d fetches, want 1", n)
	}
	if got := fetcher.lastCall().Azimuth; got != 47 {
		t.Errorf("fetched azimuth %v, want the final edit 47", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if previews != 1 {
		t.Errorf("OnPreview fired %d times, want 1", previews)
	}
	if s.Last() == nil || s.Last().ImpactPoint.Lat != 46.5 {
		t.Error("last preview not retained after success")
	}
}

func TestSubmitIgnoresIrrelevantFields(t *testing.T) {
	fetcher := &recordingFetcher{}
	s := NewScheduler(fetcher, shortOptions())

	cfg := models.DefaultConfiguration()
	s.Submit(cfg)
	settle()
	if n := fetcher.callCount(); n != 1 {
		t.Fatalf("initial submit produced %d fetches, want 1", n)
	}

	// Iteration count and GPU selection do not change the trajectory.
	cfg.Iterations = 50000
	s.Submit(cfg)
	cfg.UseGPU = true
	s.Submit(cfg)
	cfg.Iterations = 100
	s.Submit(cfg)
	settle()

	if n := fetcher.callCount(); n != 1 {
		t.Errorf("irrelevant edits produced %d extra fetches, want 0", n-1)
	}

	cfg.SepVelocity += 5
	s.Submit(cfg)
	settle()
	if n := fetcher.callCount(); n != 2 {
		t.Errorf("relevant edit produced %d fetches total, want 2", n)
	}
}

func TestConsecutiveErrorsBothSurfaced(t *testing.T) {
	good := &models.TrajectoryPreview{ImpactPoint: models.GeoPoint{Lat: 46.5, Lon: 64.1}}
	err1 := errors.New("preview backend overloaded")
	err2 := errors.New("preview backend overloaded harder")
	fetcher := &recordingFetcher{replies: []fetchReply{
		{preview: good},
		{err: err1},
		{err: err2},
	}}

	var mu sync.Mutex
	var seen []error
	s := NewScheduler(fetcher, Options{
		Quiet:        10 * time.Millisecond,
		LoadingDelay: time.Millisecond,
		OnError: func(err error) {
			mu.Lock()
			seen = append(seen, err)
			mu.Unlock()
		},
	})

	cfg := models.DefaultConfiguration()
	s.Submit(cfg)
	settle()
	cfg.Azimuth += 1
	s.Submit(cfg)
	settle()
	cfg.Azimuth += 1
	s.Submit(cfg)
	settle()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("got %d error callbacks, want both failures surfaced", len(seen))
	}
	if seen[0] != err1 || seen[1] != err2 {
		t.Errorf("errors surfaced out of order: %v", seen)
	}
	if s.Err() != err2 {
		t.Errorf("Err() = %v, want the most recent failure", s.Err())
	}
	if s.Last() != good {
		t.Error("failure discarded the last-known-good preview")
	}
}

func TestGatedSchedulerIsInert(t *testing.T) {
	fetcher := &recordingFetcher{}
	s := NewScheduler(fetcher, shortOptions())
	s.SetEnabled(false)

	cfg := models.DefaultConfiguration()
	s.Submit(cfg)
	settle()
	if n := fetcher.callCount(); n != 0 {
		t.Fatalf("disabled scheduler fetched %d times", n)
	}

	// Because gating is checked before fingerprinting, re-enabling and
	// submitting the same configuration must still fetch.
	s.SetEnabled(true)
	s.Submit(cfg)
	settle()
	if n := fetcher.callCount(); n != 1 {
		t.Errorf("re-enabled scheduler fetched %d times, want 1", n)
	}

	s.SetAvailable(false)
	cfg.Azimuth += 10
	s.Submit(cfg)
	settle()
	if n := fetcher.callCount(); n != 1 {
		t.Errorf("unavailable service still fetched (%d calls)", n)
	}
	if s.Err() != nil {
		t.Errorf("gated scheduler recorded an error: %v", s.Err())
	}
}

// gatedFetcher blocks each Preview call until release is closed, signalling
// entry on started.
type gatedFetcher struct {
	started chan struct{}
	release chan struct{}
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
}

func (f *gatedFetcher) Preview(ctx context.Context, cfg models.SimulationConfiguration) (*models.TrajectoryPreview, error) {
	f.started <- struct{}{}
	<-f.release
	return &models.TrajectoryPreview{}, nil
}

// loadingRecorder collects OnLoading signals.
type loadingRecorder struct {
	mu      sync.Mutex
	signals []bool
}

func (r *loadingRecorder) record(on bool) {
	r.mu.Lock()
	r.signals = append(r.signals, on)
	r.mu.Unlock()
}

func (r *loadingRecorder) snapshot() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.signals...)
}

func (r *loadingRecorder) waitFor(t *testing.T, want bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		s := r.snapshot()
		if len(s) > 0 && s[len(s)-1] == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("loading signal never became %v (signals=%v)", want, s)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLoadingIndicatorSkippedForFastResponse(t *testing.T) {
	fetcher := &recordingFetcher{}
	rec := &loadingRecorder{}
	s := NewScheduler(fetcher, Options{
		Quiet:        time.Millisecond,
		LoadingDelay: 200 * time.Millisecond,
		OnLoading:    rec.record,
	})

	s.Submit(models.DefaultConfiguration())
	settle()

	if fetcher.callCount() != 1 {
		t.Fatalf("fetch count = %d, want 1", fetcher.callCount())
	}
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("fast response surfaced loading signals %v, want none", got)
	}
}

func TestLoadingIndicatorForSlowResponse(t *testing.T) {
	fetcher := newGatedFetcher()
	rec := &loadingRecorder{}
	s := NewScheduler(fetcher, Options{
		Quiet:        time.Millisecond,
		LoadingDelay: time.Millisecond,
		OnLoading:    rec.record,
	})

	s.Submit(models.DefaultConfiguration())
	<-fetcher.started
	rec.waitFor(t, true)

	close(fetcher.release)
	rec.waitFor(t, false)

	if got := rec.snapshot(); len(got) != 2 || !got[0] || got[1] {
		t.Errorf("loading signals = %v, want [true false]", got)
	}
}

func TestGatingMidFlightClearsLoadingIndicator(t *testing.T) {
	fetcher := newGatedFetcher()
	rec := &loadingRecorder{}
	s := NewScheduler(fetcher, Options{
		Quiet:        time.Millisecond,
		LoadingDelay: time.Millisecond,
		OnLoading:    rec.record,
	})

	s.Submit(models.DefaultConfiguration())
	<-fetcher.started
	rec.waitFor(t, true)

	// Gating invalidates the in-flight fetch; its resolution must still turn
	// the indicator it surfaced back off.
	s.SetEnabled(false)
	close(fetcher.release)
	rec.waitFor(t, false)

	if got := rec.snapshot(); got[len(got)-1] {
		t.Errorf("loading indicator left on after gating: %v", got)
	}
	if s.Last() != nil {
		t.Error("gated fetch result was applied")
	}
}

func TestCancelDropsPendingFetch(t *testing.T) {
	fetcher := &recordingFetcher{}
	s := NewScheduler(fetcher, shortOptions())

	s.Submit(models.DefaultConfiguration())
	s.Cancel()
	settle()

	if n := fetcher.callCount(); n != 0 {
		t.Errorf("cancelled fetch still ran (%d calls)", n)
	}
}

func TestFingerprintStability(t *testing.T) {
	cfg := models.DefaultConfiguration()
	base := Fingerprint(cfg)

	same := cfg
	same.Iterations = 999999
	same.UseGPU = true
	if Fingerprint(same) != base {
		t.Error("iteration and GPU edits changed the fingerprint")
	}

	for name, mutate := range map[string]func(*models.SimulationConfiguration){
		"launch latitude":   func(c *models.SimulationConfiguration) { c.LaunchLat += 0.001 },
		"azimuth":           func(c *models.SimulationConfiguration) { c.Azimuth += 0.5 },
		"separation height": func(c *models.SimulationConfiguration) { c.SepAltitude += 100 },
		"dry mass":          func(c *models.SimulationConfiguration) { c.RocketDryMass += 1 },
	} {
		changed := cfg
		mutate(&changed)
		if Fingerprint(changed) == base {
			t.Errorf("%s edit did not change the fingerprint", name)
		}
	}
}
