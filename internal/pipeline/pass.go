package pipeline

import (
	"fmt"

	"github.com/llir/llvm/ir"
)

// Result tells which analyses survive a pass.
type Result int

const (
	// PreservedAll means the pass did not touch the IR.
	PreservedAll Result = iota

	// PreservedNone means the IR changed and every analysis must be recomputed.
	PreservedNone
)

func (r Result) String() string {
	switch r {
	case PreservedAll:
		return "preserved-all"
	case PreservedNone:
		return "preserved-none"
	default:
		return fmt.Sprintf("invalid-result(%d)", r)
	}
}

// Intersect combines results of two passes.
func (r Result) Intersect(other Result) Result {
	if r == PreservedNone || other == PreservedNone {
		return PreservedNone
	}

	return PreservedAll
}

// FunctionPass processes one function at a time. Run may be called
// concurrently for different functions of the same module.
type FunctionPass interface {
	Name() string
	Run(f *ir.Func) (Result, error)
}

// RequiredPass is implemented by passes that must also run on optnone functions.
type RequiredPass interface {
	Required() bool
}

// ModulePreparer is called once per module before functions are dispatched.
type ModulePreparer interface {
	PrepareModule(m *ir.Module) error
}

// ModuleFinisher is called once per module after every function has been processed.
type ModuleFinisher interface {
	FinishModule(m *ir.Module)
}

func isRequired(p FunctionPass) bool {
	r, ok := p.(RequiredPass)
	return ok && r.Required()
}
