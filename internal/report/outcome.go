package report

import "fmt"

// Outcome is a PT-series code of what the pass did with a function.
type Outcome int

const (
	outcomeInvalid Outcome = iota

	PT000SkipDeclaration
	PT010EntryCall
	PT011PrettyCall
)

// Readable aliases.
const (
	SkipDeclaration = PT000SkipDeclaration
	EntryCall       = PT010EntryCall
	PrettyCall      = PT011PrettyCall
)

// String returns the canonical code and short name of the outcome.
func (o Outcome) String() string {
	switch o {
	case PT000SkipDeclaration:
		return "PT000: SkipDeclaration"
	case PT010EntryCall:
		return "PT010: EntryCall"
	case PT011PrettyCall:
		return "PT011: PrettyCall"
	default:
		return fmt.Sprintf("outcome-unknown(%d)", o)
	}
}

// Description returns the human-readable explanation of the outcome.
func (o Outcome) Description() string {
	switch o {
	case PT000SkipDeclaration:
		return "Declaration without a body, left untouched."
	case PT010EntryCall:
		return "Entry call with the raw function name."
	case PT011PrettyCall:
		return "Entry call with the demangled signature."
	default:
		return fmt.Sprintf("unknown-outcome(%d)", o)
	}
}
