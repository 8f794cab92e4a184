package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// StartupTrace records daemon initialization milestones.
// Milestones are only emitted at debug level.
type StartupTrace struct {
	mu         sync.Mutex
	t0         time.Time
	logger     *zerolog.Logger
	milestones []Milestone
	finished   bool
}

// Milestone represents a timing checkpoint during startup.
type Milestone struct {
	Name    string
	Elapsed time.Duration // time since t0
	Delta   time.Duration // time since previous milestone
}

// NewStartupTrace starts a trace at the current time.
func NewStartupTrace(logger *zerolog.Logger) *StartupTrace {
	return &StartupTrace{
		t0:         time.Now(),
		logger:     logger,
		milestones: make([]Milestone, 0, 8),
	}
}

// Mark records a milestone with the given name.
func (st *StartupTrace) Mark(name string) {
	if st == nil {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.finished {
		return
	}

	elapsed := time.Since(st.t0)
	var delta time.Duration
	if n := len(st.milestones); n > 0 {
		delta = elapsed - st.milestones[n-1].Elapsed
	}
	st.milestones = append(st.milestones, Milestone{Name: name, Elapsed: elapsed, Delta: delta})

	if st.logger != nil {
		st.logger.Debug().
			Str("milestone", name).
			Int64("t_ms", elapsed.Milliseconds()).
			Int64("delta_ms", delta.Milliseconds()).
			Msg("startup_trace")
	}
}

// Milestones returns a copy of the recorded milestones.
func (st *StartupTrace) Milestones() []Milestone {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]Milestone, len(st.milestones))
	copy(out, st.milestones)
	return out
}

// Finish emits a one-line summary. Later marks are ignored.
func (st *StartupTrace) Finish() {
	if st == nil {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.finished {
		return
	}
	st.finished = true

	if st.logger == nil {
		return
	}
	parts := make([]string, 0, len(st.milestones))
	for _, m := range st.milestones {
		parts = append(parts, fmt.Sprintf("%s:%d", m.Name, m.Elapsed.Milliseconds()))
	}
	st.logger.Info().
		Int64("total_ms", time.Since(st.t0).Milliseconds()).
		Str("milestones", strings.Join(parts, ",")).
		Msg("daemon initialized")
}
