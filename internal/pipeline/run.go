// Package pipeline composes the resolution engine into the two concrete
// flows: the electricity+gas merge by address identity and the gas-by-postcode
// merge. Each flow is a pure resolution function over tables, wrapped by a Run
// function that does the file I/O and writes the output artifact once,
// atomically, after every step has succeeded.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/dublin-energylink/internal/debug"
)

// Run identifies one pipeline execution in logs. Runs share no state: every
// run loads its inputs fresh and the two flows may safely execute in
// parallel with each other.
type Run struct {
	ID      uuid.UUID
	Name    string
	Started time.Time
	Debug   bool
}

// NewRun starts a logged pipeline run.
func NewRun(name string, debugEnabled bool) *Run {
	r := &Run{ID: uuid.New(), Name: name, Started: time.Now(), Debug: debugEnabled}
	debug.Logf(r.Debug, "run %s: %s starting", r.ID, r.Name)
	return r
}

// Step logs one named pipeline step.
func (r *Run) Step(format string, args ...any) {
	debug.Logf(r.Debug, "run %s: "+format, append([]any{r.ID}, args...)...)
}

// Done logs run completion.
func (r *Run) Done() {
	debug.Logf(r.Debug, "run %s: %s finished in %v", r.ID, r.Name, time.Since(r.Started))
}
