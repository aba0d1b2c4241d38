package report

import (
	"bytes"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/sirkon/deepequal"
)

func TestReporter_ReportPhases(t *testing.T) {
	tests := []struct {
		name    string
		phase   Phase
		outcome Outcome
		fn      string
		message string
		want    string
	}{
		{
			name:    "select-phase declaration",
			phase:   PhaseSelect,
			outcome: SkipDeclaration,
			fn:      "puts",
			want:    "Declaration without a body, left untouched.",
		},
		{
			name:    "emit-phase raw call",
			phase:   PhaseEmit,
			outcome: EntryCall,
			fn:      "main",
			message: "at instruction 0",
			want:    "at instruction 0",
		},
		{
			name:    "emit-phase pretty call",
			phase:   PhaseEmit,
			outcome: PrettyCall,
			fn:      "_Z3addii",
			message: "i32 add(i32, i32)",
			want:    "i32 add(i32, i32)",
		},
	}

	var r Reporter

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.Phase(tt.phase).Report(tt.outcome, tt.fn, tt.message)

			reports := r.Reports()
			got := reports[len(reports)-1]
			want := Report{
				Phase:   tt.phase,
				Outcome: tt.outcome,
				Func:    tt.fn,
				Message: tt.want,
			}
			if !reflect.DeepEqual(want, got) {
				deepequal.SideBySide(t, "report", want, got)
				t.FailNow()
			}
		})
	}

	if n := r.Count(EntryCall); n != 1 {
		t.Errorf("expected 1 entry call, got %d", n)
	}
}

func TestReporter_Concurrent(t *testing.T) {
	var r Reporter
	const workers = 16

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Phase(PhaseEmit).Report(EntryCall, fmt.Sprintf("f%d", i), "")
		}()
	}
	wg.Wait()

	if n := len(r.Reports()); n != workers {
		t.Fatalf("expected %d reports, got %d", workers, n)
	}
}

func TestReporter_NilIsNoop(t *testing.T) {
	var r *Reporter
	r.Phase(PhaseSelect).Report(SkipDeclaration, "puts", "")
}

func TestReporter_PrintSummary(t *testing.T) {
	var r Reporter
	r.Phase(PhaseSelect).Report(SkipDeclaration, "puts", "")
	r.Phase(PhaseEmit).Report(EntryCall, "main", "at instruction 0")

	var buf bytes.Buffer
	if err := r.PrintSummary(&buf); err != nil {
		t.Fatal(err)
	}

	want := "[select] PT000: SkipDeclaration @puts: Declaration without a body, left untouched.\n" +
		"[emit] PT010: EntryCall @main: at instruction 0\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected summary:\n%s\nwant:\n%s", got, want)
	}
}

func TestOutcome_String(t *testing.T) {
	if got := Outcome(99).String(); got != "outcome-unknown(99)" {
		t.Errorf("unexpected string %q", got)
	}
	if got := Phase(0).String(); got != "unknown-phase(0)" {
		t.Errorf("unexpected string %q", got)
	}
}
