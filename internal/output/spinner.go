package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// writerIsTTY reports whether w is a file attached to a terminal.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows progress of a brew invocation on the command line.
//
// On a terminal it animates and shows elapsed time. Anywhere else it prints
// the message once so piped output stays readable.
type Spinner struct {
	mu      sync.Mutex
	w       io.Writer
	message string
	started time.Time
	running bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewSpinner returns a stopped spinner writing to w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{w: w, message: message}
}

// Start shows the spinner. Starting a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.started = time.Now()

	if !writerIsTTY(s.w) {
		fmt.Fprintf(s.w, "%s\n", s.message)
		return
	}

	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.animate(s.done)
}

func (s *Spinner) animate(done <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for frame := 0; ; frame = (frame + 1) % len(spinnerFrames) {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s (%ds)", spinnerFrames[frame], s.message, int(time.Since(s.started).Seconds()))
			s.mu.Unlock()
		}
	}
}

// Stop hides the spinner. Stopping a stopped spinner does nothing.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return
	}
	close(done)
	s.wg.Wait()
	// Clear the animated line.
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+16))
}

// StopWithMessage stops the spinner and prints a final line.
func (s *Spinner) StopWithMessage(message string) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, message)
}
