package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/matzehuels/trackgraph/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// searchSpinner animates a status line while a corporation's network is
// searched. It listens to graph events for that corporation and shows the
// step the search has reached. Events for other corporations are ignored.
type searchSpinner struct {
	w     io.Writer
	label string
	corp  string

	step     atomic.Int64
	finished atomic.Bool

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	stop    sync.Once
	remove  func()

	mu    sync.Mutex
	width int
}

func newSearchSpinner(ctx context.Context, w io.Writer, label, corp string) *searchSpinner {
	ctx, cancel := context.WithCancel(ctx)
	return &searchSpinner{
		w:       w,
		label:   label,
		corp:    corp,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		remove:  func() {},
	}
}

// Start subscribes to graph events and begins drawing. It stops drawing on
// its own when ctx is cancelled.
func (s *searchSpinner) Start() {
	s.remove = observability.AddGraphHooks(s)
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Stop unsubscribes, waits for the drawing goroutine and clears the line.
// Calling it more than once is safe.
func (s *searchSpinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		<-s.stopped
		s.remove()
		s.clear()
	})
}

// StopWithError stops the spinner and reports a failure.
func (s *searchSpinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// status is the text drawn next to the spinner frame.
func (s *searchSpinner) status() string {
	msg := s.label
	if n := s.step.Load(); n > 0 {
		msg += fmt.Sprintf(" · step %d", n)
	}
	if s.finished.Load() {
		msg += " · done"
	}
	return msg
}

func (s *searchSpinner) draw(frame string) {
	msg := s.status()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, utf8.RuneCountInString(msg)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(msg))
}

func (s *searchSpinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

func (s *searchSpinner) OnSeed(_, corp string, _ int) {
	if corp == s.corp {
		s.step.Store(0)
		s.finished.Store(false)
	}
}

func (s *searchSpinner) OnAdvance(_, corp string, step int, _ bool) {
	if corp == s.corp {
		s.step.Store(int64(step))
	}
}

func (s *searchSpinner) OnFinish(_, corp string, steps int) {
	if corp == s.corp {
		s.step.Store(int64(steps))
		s.finished.Store(true)
	}
}

func (s *searchSpinner) OnReset(_, corp string) {
	if corp == s.corp {
		s.step.Store(0)
		s.finished.Store(false)
	}
}
