package instrument

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

// ErrHookConflict is returned when the module already has a symbol named
// like the hook but with a different type.
var ErrHookConflict = errors.New("hook symbol conflict")

// StringPrefix starts names of string globals created by the pass.
const StringPrefix = "__printtrace.str."

// moduleSymbols is the module-level state shared by every function of a
// module. The lock serializes all writes to Module.Funcs and Module.Globals
// made by the pass.
type moduleSymbols struct {
	mu    sync.Mutex
	m     *ir.Module
	hooks map[string]*ir.Func
	next  int
}

// symbolTable keeps moduleSymbols per module for every pass instance of the process.
type symbolTable struct {
	mu      sync.Mutex
	modules map[*ir.Module]*moduleSymbols
}

var modules = &symbolTable{
	modules: make(map[*ir.Module]*moduleSymbols),
}

func (t *symbolTable) module(m *ir.Module) *moduleSymbols {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.modules[m]
	if !ok {
		s = newModuleSymbols(m)
		t.modules[m] = s
	}

	return s
}

func (t *symbolTable) forget(m *ir.Module) {
	t.mu.Lock()
	delete(t.modules, m)
	t.mu.Unlock()
}

func newModuleSymbols(m *ir.Module) *moduleSymbols {
	s := &moduleSymbols{
		m:     m,
		hooks: make(map[string]*ir.Func),
	}

	// Continue numbering after strings of earlier runs.
	for _, g := range m.Globals {
		suffix, ok := strings.CutPrefix(g.Name(), StringPrefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n >= s.next {
			s.next = n + 1
		}
	}

	return s
}

// hook looks up the hook declaration by name and creates it when absent.
// Must be called with s.mu held.
func (s *moduleSymbols) hook(cfg Config) (*ir.Func, error) {
	name := cfg.HookName()
	sig := cfg.HookType()
	if f, ok := s.hooks[name]; ok {
		if err := checkHookType(f, sig); err != nil {
			return nil, err
		}
		return f, nil
	}

	for _, f := range s.m.Funcs {
		if f.Name() != name {
			continue
		}
		if err := checkHookType(f, sig); err != nil {
			return nil, err
		}

		s.hooks[name] = f
		return f, nil
	}
	for _, g := range s.m.Globals {
		if g.Name() == name {
			return nil, fmt.Errorf("%w: @%s is a global variable", ErrHookConflict, name)
		}
	}

	f := s.m.NewFunc(name, types.Void, cfg.HookParams()...)
	f.Linkage = enum.LinkageExternWeak
	s.hooks[name] = f

	return f, nil
}

// checkHookType makes sure calls of the given type can target f. Passes with
// different variants share the declaration of a module.
func checkHookType(f *ir.Func, sig *types.FuncType) error {
	if f.Sig.Equal(sig) {
		return nil
	}

	return fmt.Errorf("%w: @%s has type %s, want %s", ErrHookConflict, f.Name(), f.Sig.LLString(), sig.LLString())
}

// cstring adds a private constant holding v with a terminating NUL and
// returns an i8* pointing at its first byte. Must be called with s.mu held.
func (s *moduleSymbols) cstring(v string) constant.Constant {
	data := constant.NewCharArrayFromString(v + "\x00")

	g := s.m.NewGlobalDef(StringPrefix+strconv.Itoa(s.next), data)
	s.next++
	g.Immutable = true
	g.Linkage = enum.LinkagePrivate
	g.UnnamedAddr = enum.UnnamedAddrUnnamedAddr

	zero := constant.NewInt(types.I64, 0)
	ptr := constant.NewGetElementPtr(data.Typ, g, zero, zero)
	ptr.InBounds = true

	return ptr
}
