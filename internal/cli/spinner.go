package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/matzehuels/pixelgraph/pkg/pipeline"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// stageVerbs is what the spinner shows while a pipeline stage runs.
var stageVerbs = map[pipeline.Stage]string{
	pipeline.StageLoad:     "loading graph",
	pipeline.StageEvaluate: "evaluating nodes",
	pipeline.StageEncode:   "encoding PNG",
}

// spinner animates a one-line status on a terminal while a pipeline runs.
// The line reads "<label> · <stage>", updated through [spinner.SetStage],
// and is erased on Stop or when ctx is cancelled.
type spinner struct {
	w       io.Writer
	label   string
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	stop    sync.Once

	mu      sync.Mutex
	stage   pipeline.Stage
	drawn   int // runes on the line, for clearing
	started bool
}

// newSpinner creates a spinner writing to stderr.
func newSpinner(ctx context.Context, label string) *spinner {
	return newSpinnerTo(ctx, os.Stderr, label)
}

func newSpinnerTo(ctx context.Context, w io.Writer, label string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       w,
		label:   label,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// SetStage switches the stage shown after the label. It matches the
// pipeline.Options.OnStage signature.
func (s *spinner) SetStage(st pipeline.Stage) {
	s.mu.Lock()
	s.stage = st
	s.mu.Unlock()
}

// text returns the status line without the frame.
func (s *spinner) text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if verb, ok := stageVerbs[s.stage]; ok {
		return s.label + " · " + verb
	}
	return s.label
}

// Start begins the animation.
func (s *spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *spinner) draw(frame string) {
	msg := s.text()
	s.mu.Lock()
	defer s.mu.Unlock()
	line := frame + " " + msg
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(msg))
	s.drawn = max(s.drawn, utf8.RuneCountInString(line))
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn))
	s.drawn = 0
}

// Stop ends the animation and clears the line. It is safe to call more
// than once.
func (s *spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
		s.clearLine()
	})
}

// Cancelled reports whether the spinner's context ended, either through
// Stop or the parent context.
func (s *spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
