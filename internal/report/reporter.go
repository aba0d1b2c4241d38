package report

import (
	"fmt"
	"io"
	"sync"
)

// Reporter collects outcomes of the instrumentation pass.
type Reporter struct {
	mu      sync.Mutex
	reports []Report
}

// Report represents a single outcome entry.
type Report struct {
	Phase   Phase
	Outcome Outcome
	Func    string
	Message string
}

// Phase marks the pass stage where a report was generated.
type Phase int

const (
	phaseInvalid Phase = iota
	PhaseSelect        // eligibility and insertion point
	PhaseEmit          // call synthesis
)

func (p Phase) String() string {
	switch p {
	case PhaseSelect:
		return "select"
	case PhaseEmit:
		return "emit"
	default:
		return fmt.Sprintf("unknown-phase(%d)", p)
	}
}

// PhaseReporter binds a Reporter to a fixed phase.
type PhaseReporter struct {
	parent *Reporter
	phase  Phase
}

// Phase returns a reporter that sets the given phase for all reports produced through it.
// Reporting through a nil Reporter is a no-op.
func (r *Reporter) Phase(p Phase) *PhaseReporter {
	return &PhaseReporter{parent: r, phase: p}
}

// Report adds a new record to the reporter.
func (r *Reporter) Report(rep Report) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.reports = append(r.reports, rep)
	r.mu.Unlock()
}

// Report records an outcome for the function under the bound phase.
// An empty message is replaced with the outcome description.
func (rp *PhaseReporter) Report(outcome Outcome, fn string, message string) {
	if message == "" {
		message = outcome.Description()
	}
	rp.parent.Report(Report{
		Phase:   rp.phase,
		Outcome: outcome,
		Func:    fn,
		Message: message,
	})
}

// Reports returns a snapshot of all collected records.
func (r *Reporter) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// Count returns the number of records with the given outcome.
func (r *Reporter) Count(outcome Outcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for _, rep := range r.reports {
		if rep.Outcome == outcome {
			n++
		}
	}
	return n
}

// PrintSummary prints all collected reports in a compact, human-readable form.
func (r *Reporter) PrintSummary(w io.Writer) error {
	for _, rep := range r.Reports() {
		if _, err := fmt.Fprintf(w, "[%s] %s @%s: %s\n", rep.Phase, rep.Outcome, rep.Func, rep.Message); err != nil {
			return fmt.Errorf("print report for @%s: %w", rep.Func, err)
		}
	}

	return nil
}
