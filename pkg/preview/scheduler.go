// Package preview keeps a single trajectory preview synchronized with the
// edited configuration without issuing one request per keystroke.
package preview

import (
	"context"
	"sync"
	"time"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/logger"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
)

// Fetcher fetches the nominal trajectory for a configuration. Satisfied by
// *client.Client.
type Fetcher interface {
	Preview(ctx context.Context, cfg models.SimulationConfiguration) (*models.TrajectoryPreview, error)
}

// Options tunes the scheduler. The reference intervals are 400ms quiet
// period and 100ms loading delay; both are configuration, not contract.
type Options struct {
	// Quiet is the debounce window after the last relevant edit.
	Quiet time.Duration

	// LoadingDelay postpones the loading indicator so fast responses do not
	// flicker the UI.
	LoadingDelay time.Duration

	// OnPreview receives each successful preview. The path is replaced
	// wholesale, never merged.
	OnPreview func(*models.TrajectoryPreview)

	// OnLoading toggles the loading indicator.
	OnLoading func(bool)

	// OnError receives fetch failures. The last-known-good preview is
	// retained; errors are surfaced separately, never dropped.
	OnError func(error)
}

// Scheduler owns one debounce timer and one fingerprint. Submitting a
// configuration whose trajectory-relevant fields are unchanged is an
// idempotent no-op; a changed fingerprint cancels any pending timer and
// schedules a single fetch with the configuration captured at that moment.
type Scheduler struct {
	fetcher      Fetcher
	quiet        time.Duration
	loadingDelay time.Duration
	onPreview    func(*models.TrajectoryPreview)
	onLoading    func(bool)
	onError      func(error)
	log          logger.Logger

	mu           sync.Mutex
	timer        *time.Timer
	loadingTimer *time.Timer
	fingerprint  string
	seq          uint64
	loadingSeq   uint64
	enabled      bool
	available    bool
	last         *models.TrajectoryPreview
	lastErr      error
}

// NewScheduler creates a scheduler over the given fetcher. The scheduler
// starts enabled and assumes the service is available until told otherwise.
func NewScheduler(fetcher Fetcher, opts Options) *Scheduler {
	if opts.Quiet <= 0 {
		opts.Quiet = 400 * time.Millisecond
	}
	if opts.LoadingDelay <= 0 {
		opts.LoadingDelay = 100 * time.Millisecond
	}
	return &Scheduler{
		fetcher:      fetcher,
		quiet:        opts.Quiet,
		loadingDelay: opts.LoadingDelay,
		onPreview:    opts.OnPreview,
		onLoading:    opts.OnLoading,
		onError:      opts.OnError,
		log:          logger.WithPrefix("preview"),
		enabled:      true,
		available:    true,
	}
}

// Submit notes a configuration edit. Gating (layer toggle and service
// availability) is checked before fingerprinting, so a gated scheduler is
// fully inert: no fetches, no fingerprint update, no error mutation.
func (s *Scheduler) Submit(cfg models.SimulationConfiguration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || !s.available {
		return
	}

	fp := Fingerprint(cfg)
	if fp == s.fingerprint {
		return
	}
	s.fingerprint = fp

	// A new fingerprint supersedes both the pending timer and any fetch
	// already in flight.
	s.seq++
	seq := s.seq
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.quiet, func() {
		s.fire(seq, cfg)
	})
}

// Cancel drops any pending fetch and invalidates in-flight responses.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.stopTimersLocked()
}

// SetEnabled toggles the preview layer. Disabling cancels pending work.
func (s *Scheduler) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
	if !enabled {
		s.seq++
		s.stopTimersLocked()
	}
}

// SetAvailable records the known service availability. An unavailable
// service makes the scheduler inert rather than producing errors.
func (s *Scheduler) SetAvailable(available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = available
	if !available {
		s.seq++
		s.stopTimersLocked()
	}
}

// Last returns the last successful preview, or nil if none succeeded yet.
func (s *Scheduler) Last() *models.TrajectoryPreview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Err returns the most recent fetch error, cleared by the next success.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Scheduler) stopTimersLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.loadingTimer != nil {
		s.loadingTimer.Stop()
		s.loadingTimer = nil
	}
}

// fire performs the debounced fetch. seq guards both the fire itself and the
// response application: a fingerprint change after the timer fired means the
// response is stale and must be ignored when it arrives. loadingSeq records
// which fetch surfaced the loading signal, so the fetch that turned it on is
// always the one that turns it off — even when it resolves stale.
func (s *Scheduler) fire(seq uint64, cfg models.SimulationConfiguration) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	if s.onLoading != nil {
		s.loadingTimer = time.AfterFunc(s.loadingDelay, func() {
			s.mu.Lock()
			stale := seq != s.seq
			if !stale {
				s.loadingSeq = seq
			}
			s.mu.Unlock()
			if !stale {
				s.onLoading(true)
			}
		})
	}
	s.mu.Unlock()

	preview, err := s.fetcher.Preview(context.Background(), cfg)

	s.mu.Lock()
	if seq != s.seq {
		// Gated or superseded mid-flight. The result is discarded, but a
		// loading signal this fetch surfaced must still be cleared: nothing
		// else will while the scheduler is gated.
		shown := s.loadingSeq == seq
		if shown {
			s.loadingSeq = 0
		}
		s.mu.Unlock()
		if shown {
			s.onLoading(false)
		}
		return
	}
	if s.loadingTimer != nil {
		s.loadingTimer.Stop()
		s.loadingTimer = nil
	}
	shown := s.loadingSeq == seq
	if shown {
		s.loadingSeq = 0
	}

	if err != nil {
		// Keep the last-known-good path; only the error state changes.
		s.lastErr = err
		s.mu.Unlock()
		s.log.Debugf("preview fetch failed: %v", err)
		if shown {
			s.onLoading(false)
		}
		if s.onError != nil {
			s.onError(err)
		}
		return
	}

	s.last = preview
	s.lastErr = nil
	s.mu.Unlock()

	if shown {
		s.onLoading(false)
	}
	if s.onPreview != nil {
		s.onPreview(preview)
	}
}
