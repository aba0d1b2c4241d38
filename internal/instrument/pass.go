package instrument

import (
	"fmt"
	"slices"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/rs/zerolog"

	"github.com/sirkon/printtrace/internal/pipeline"
	"github.com/sirkon/printtrace/internal/report"
	"github.com/sirkon/printtrace/internal/srcmeta"
)

// PassName is the name the pass is registered under.
const PassName = "printtrace"

var (
	_ pipeline.FunctionPass   = (*Pass)(nil)
	_ pipeline.RequiredPass   = (*Pass)(nil)
	_ pipeline.ModulePreparer = (*Pass)(nil)
	_ pipeline.ModuleFinisher = (*Pass)(nil)
)

// Pass inserts logging hook calls at function entries.
type Pass struct {
	cfg Config
	log zerolog.Logger
	rep *report.Reporter
}

// Option configures a [Pass].
type Option func(*Pass)

// WithLogger sets the pass logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pass) {
		p.log = log
	}
}

// WithReporter makes the pass record per-function outcomes.
func WithReporter(rep *report.Reporter) Option {
	return func(p *Pass) {
		p.rep = rep
	}
}

// New is [Pass] constructor.
func New(cfg Config, opts ...Option) *Pass {
	p := &Pass{
		cfg: cfg,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Register adds the pass to the registry at the given extension points.
func Register(r *pipeline.Registry, cfg Config, points []pipeline.ExtensionPoint, opts ...Option) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate %s config: %w", PassName, err)
	}

	factory := func() pipeline.FunctionPass {
		return New(cfg, opts...)
	}
	if err := r.Register(PassName, factory, points...); err != nil {
		return fmt.Errorf("register %s: %w", PassName, err)
	}

	return nil
}

func (p *Pass) Name() string { return PassName }

// Required is true: tracing must happen on optnone functions too.
func (p *Pass) Required() bool { return true }

// PrepareModule declares the hook before functions are processed. Modules
// without function bodies are left alone.
func (p *Pass) PrepareModule(m *ir.Module) error {
	if !slices.ContainsFunc(m.Funcs, hasBody) {
		return nil
	}

	syms := modules.module(m)
	syms.mu.Lock()
	defer syms.mu.Unlock()

	if _, err := syms.hook(p.cfg); err != nil {
		return err
	}

	return nil
}

// FinishModule drops module-level state.
func (p *Pass) FinishModule(m *ir.Module) {
	modules.forget(m)
}

// Run instruments f. Declarations are reported as unchanged.
func (p *Pass) Run(f *ir.Func) (pipeline.Result, error) {
	if !hasBody(f) {
		p.rep.Phase(report.PhaseSelect).Report(report.SkipDeclaration, f.Name(), "")
		return pipeline.PreservedAll, nil
	}
	if f.Parent == nil {
		return pipeline.PreservedAll, fmt.Errorf("function @%s does not belong to a module", f.Name())
	}

	entry := f.Blocks[0]
	at := InsertionPoint(entry)
	variant := p.cfg.variant()

	// Everything derived from f is computed before taking the module lock.
	name := f.Name()
	var loc srcmeta.Location
	if variant.Location() {
		loc = srcmeta.LocationOf(f)
	}
	var pretty string
	if variant.Demangle() && srcmeta.Classify(f.Parent.SourceFilename, name) == srcmeta.LanguageCXX {
		pretty = srcmeta.PrettySignature(f)
	}

	syms := modules.module(f.Parent)
	syms.mu.Lock()
	hook, err := syms.hook(p.cfg)
	if err != nil {
		syms.mu.Unlock()
		return pipeline.PreservedAll, fmt.Errorf("resolve hook for @%s: %w", name, err)
	}
	calls := []ir.Instruction{
		ir.NewCall(hook, p.args(syms, variant, name, false, loc)...),
	}
	if pretty != "" {
		calls = append(calls, ir.NewCall(hook, p.args(syms, variant, pretty, true, loc)...))
	}
	syms.mu.Unlock()

	entry.Insts = slices.Insert(entry.Insts, at, calls...)

	p.rep.Phase(report.PhaseEmit).Report(report.EntryCall, name, fmt.Sprintf("at instruction %d", at))
	if pretty != "" {
		p.rep.Phase(report.PhaseEmit).Report(report.PrettyCall, name, pretty)
	}
	p.log.Debug().
		Str("func", name).
		Int("site", at).
		Int("calls", len(calls)).
		Stringer("variant", variant).
		Msg("function instrumented")

	return pipeline.PreservedNone, nil
}

// args builds hook arguments in declaration order. Must be called with syms.mu held.
func (p *Pass) args(syms *moduleSymbols, variant Variant, name string, demangled bool, loc srcmeta.Location) []value.Value {
	args := []value.Value{syms.cstring(name)}
	if variant.Demangle() {
		var flag int64
		if demangled {
			flag = 1
		}
		args = append(args, constant.NewInt(types.I32, flag))
	}
	if variant.Location() {
		args = append(args,
			syms.cstring(loc.File),
			constant.NewInt(types.I32, loc.Line),
			constant.NewInt(types.I32, loc.Column),
		)
	}

	return args
}

// InsertionPoint returns the index in b.Insts before which entry calls go:
// the first instruction that is neither a phi nor an exception handling pad.
// A block made of such instructions only yields len(b.Insts).
func InsertionPoint(b *ir.Block) int {
	for i, inst := range b.Insts {
		switch inst.(type) {
		case *ir.InstPhi, *ir.InstLandingPad, *ir.InstCatchPad, *ir.InstCleanupPad:
			continue
		}

		return i
	}

	return len(b.Insts)
}

func hasBody(f *ir.Func) bool {
	return len(f.Blocks) > 0
}
