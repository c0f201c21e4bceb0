package logger

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Spinner animates a long-running operation such as a health probe or an
// export poll.
type Spinner struct {
	mu       sync.Mutex
	active   bool
	message  string
	frames   []string
	interval time.Duration
	stopChan chan struct{}
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner with the given message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message:  message,
		frames:   spinnerFrames,
		interval: 100 * time.Millisecond,
		stopChan: make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		i := 0
		for {
			select {
			case <-s.stopChan:
				fmt.Printf("\r%s\r", strings.Repeat(" ", len(s.message)+10))
				return
			default:
				s.mu.Lock()
				msg := s.message
				s.mu.Unlock()
				frame := s.frames[i%len(s.frames)]
				if l, ok := defaultLogger.(*logger); ok && !l.noColor {
					fmt.Printf("\r%s%s%s %s", colorCyan, frame, colorReset, msg)
				} else {
					fmt.Printf("\r%s %s", frame, msg)
				}
				i++
				time.Sleep(s.interval)
			}
		}
	}()
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	close(s.stopChan)
	time.Sleep(50 * time.Millisecond)
}

// UpdateMessage replaces the spinner message in place.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// ProgressBar renders job progress as a terminal bar.
type ProgressBar struct {
	total   int
	current int
	width   int
	message string
}

// NewProgressBar creates a bar that fills at total.
func NewProgressBar(total int, message string) *ProgressBar {
	return &ProgressBar{total: total, width: 40, message: message}
}

// Update redraws the bar at the given position.
func (p *ProgressBar) Update(current int) {
	if current > p.total {
		current = p.total
	}
	p.current = current
	p.draw()
}

// Finish fills the bar and moves to the next line.
func (p *ProgressBar) Finish() {
	p.current = p.total
	p.draw()
	fmt.Println()
}

func (p *ProgressBar) draw() {
	percent := float64(p.current) / float64(p.total)
	filled := int(percent * float64(p.width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)
	if l, ok := defaultLogger.(*logger); ok && !l.noColor {
		fmt.Printf("\r%s: %s%s%s %3.0f%%", p.message, colorGreen, bar, colorReset, percent*100)
	} else {
		fmt.Printf("\r%s: [%s] %3.0f%%", p.message, bar, percent*100)
	}
}
