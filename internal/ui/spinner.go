package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
	SpinnerSkipped
)

// SpinnerFrames animate spinners and the dashboard's checking cells.
var SpinnerFrames = []string{"◐", "◓", "◑", "◒"}

// Spinner displays an animated status indicator with a label while a
// command-line operation runs.
type Spinner struct {
	mu           sync.Mutex
	label        string
	state        SpinnerState
	frame        int
	startTime    time.Time
	stopChan     chan struct{}
	doneChan     chan struct{}
	output       func(string)
	running      bool
	lastRendered string
}

// NewSpinner creates a new spinner with the given label.
// Output goes to stderr so stdout stays clean for tables and JSON.
func NewSpinner(label string) *Spinner {
	return NewSpinnerTo(os.Stderr, label)
}

// NewSpinnerTo creates a spinner that writes to w.
func NewSpinnerTo(w io.Writer, label string) *Spinner {
	return &Spinner{
		label:  label,
		state:  SpinnerPending,
		output: func(s string) { _, _ = io.WriteString(w, s) },
	}
}

// SetOutput sets the output function for the spinner.
// Useful for testing or redirecting output.
func (s *Spinner) SetOutput(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output = fn
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.state = SpinnerInProgress
	s.startTime = time.Now()
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.mu.Unlock()

	s.render()

	go s.animate()
}

// Stop halts the spinner animation without changing state.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	<-s.doneChan
}

// Success stops the spinner and marks it as successful.
func (s *Spinner) Success() {
	s.Finish(SpinnerSuccess, "")
}

// Fail stops the spinner and marks it as failed.
func (s *Spinner) Fail() {
	s.Finish(SpinnerFailed, "")
}

// Skip stops the spinner and marks it as skipped.
func (s *Spinner) Skip() {
	s.Finish(SpinnerSkipped, "")
}

// Finish stops the spinner in the given final state. A non-empty detail
// is printed after the label.
func (s *Spinner) Finish(state SpinnerState, detail string) {
	s.Stop()
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.renderFinal(detail)
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns the time since the spinner started.
func (s *Spinner) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}

// Label returns the spinner's label.
func (s *Spinner) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// SetLabel updates the spinner's label.
func (s *Spinner) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(120 * time.Millisecond)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(SpinnerFrames)
			s.mu.Unlock()
			s.render()
		}
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol := SpinnerFrames[s.frame]
	style := lipgloss.NewStyle().Foreground(GradientColors[s.frame%len(GradientColors)])

	line := fmt.Sprintf("\r%s %s...", style.Render(symbol), s.label)

	s.clearLine()
	s.output(line)
	s.lastRendered = line
}

func (s *Spinner) renderFinal(detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var symbol string
	var style lipgloss.Style

	switch s.state {
	case SpinnerSuccess:
		symbol = SymbolComplete
		style = SuccessStyle()
	case SpinnerFailed:
		symbol = SymbolFail
		style = ErrorStyle()
	case SpinnerSkipped:
		symbol = SymbolSkipped
		style = WarningStyle()
	default:
		symbol = SymbolPending
		style = MutedStyle()
	}

	s.clearLine()

	label := s.label
	if detail != "" {
		label += ": " + detail
	}
	s.output(fmt.Sprintf("%s %s %s\n",
		style.Render(symbol),
		label,
		MutedStyle().Render(formatDuration(time.Since(s.startTime))),
	))
}

// clearLine blanks the previously rendered line. Callers hold s.mu.
func (s *Spinner) clearLine() {
	if s.lastRendered == "" {
		return
	}
	clearLen := len([]rune(s.lastRendered))
	s.output("\r" + strings.Repeat(" ", clearLen) + "\r")
}

// formatDuration formats a duration for display (e.g., "0.3s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
