package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Manager runs a list of function passes over modules.
type Manager struct {
	passes []FunctionPass
	jobs   int
	log    zerolog.Logger
}

// Option configures a [Manager].
type Option func(*Manager)

// WithJobs limits the number of functions processed at once. Non-positive
// values mean the number of CPUs.
func WithJobs(n int) Option {
	return func(m *Manager) {
		m.jobs = n
	}
}

// WithLogger sets the manager logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager is [Manager] constructor.
func NewManager(passes []FunctionPass, opts ...Option) *Manager {
	m := &Manager{
		passes: passes,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.jobs <= 0 {
		m.jobs = runtime.GOMAXPROCS(0)
	}

	return m
}

// Run applies every pass to every function of mod.
//
// Functions appended to the module by module preparers or while passes run
// (external declarations made by the passes themselves) are not visited.
func (m *Manager) Run(ctx context.Context, mod *ir.Module) (Result, error) {
	funcs := slices.Clone(mod.Funcs)

	for _, p := range m.passes {
		if prep, ok := p.(ModulePreparer); ok {
			if err := prep.PrepareModule(mod); err != nil {
				return PreservedAll, fmt.Errorf("prepare module for %s: %w", p.Name(), err)
			}
		}
	}
	defer func() {
		for _, p := range m.passes {
			if fin, ok := p.(ModuleFinisher); ok {
				fin.FinishModule(mod)
			}
		}
	}()

	var (
		mu     sync.Mutex
		result = PreservedAll
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.jobs)
	for _, f := range funcs {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := m.runFunc(f)
			if err != nil {
				return err
			}

			mu.Lock()
			result = result.Intersect(res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	m.log.Debug().
		Str("module", mod.SourceFilename).
		Int("functions", len(funcs)).
		Stringer("result", result).
		Msg("module processed")

	return result, nil
}

func (m *Manager) runFunc(f *ir.Func) (Result, error) {
	optnone := isOptNone(f)
	result := PreservedAll
	for _, p := range m.passes {
		if optnone && !isRequired(p) {
			m.log.Debug().Str("pass", p.Name()).Str("func", f.Name()).Msg("skip optnone function")
			continue
		}

		res, err := p.Run(f)
		if err != nil {
			return result, fmt.Errorf("run %s on @%s: %w", p.Name(), f.Name(), err)
		}
		result = result.Intersect(res)
	}

	return result, nil
}

func isOptNone(f *ir.Func) bool {
	for _, attr := range f.FuncAttrs {
		switch attr := attr.(type) {
		case enum.FuncAttr:
			if attr == enum.FuncAttrOptNone {
				return true
			}
		case *ir.AttrGroupDef:
			for _, grouped := range attr.FuncAttrs {
				if v, ok := grouped.(enum.FuncAttr); ok && v == enum.FuncAttrOptNone {
					return true
				}
			}
		}
	}

	return false
}
