package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPass struct {
	name     string
	required bool
	result   Result
	fail     string

	mu       sync.Mutex
	seen     []string
	prepared int
	finished int
}

func (p *recordingPass) Name() string   { return p.name }
func (p *recordingPass) Required() bool { return p.required }

func (p *recordingPass) Run(f *ir.Func) (Result, error) {
	if f.Name() == p.fail {
		return PreservedAll, errors.New("boom")
	}

	p.mu.Lock()
	p.seen = append(p.seen, f.Name())
	p.mu.Unlock()
	return p.result, nil
}

func (p *recordingPass) PrepareModule(m *ir.Module) error {
	p.prepared++
	return nil
}

func (p *recordingPass) FinishModule(m *ir.Module) {
	p.finished++
}

func newModule(n int) *ir.Module {
	m := ir.NewModule()
	for i := range n {
		f := m.NewFunc(fmt.Sprintf("f%d", i), types.Void)
		f.NewBlock("entry").NewRet(nil)
	}
	return m
}

func TestManager_Run(t *testing.T) {
	m := newModule(32)
	keep := &recordingPass{name: "keep", result: PreservedAll}
	change := &recordingPass{name: "change", result: PreservedNone}

	res, err := NewManager([]FunctionPass{keep, change}, WithJobs(4)).Run(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, PreservedNone, res)
	assert.Len(t, keep.seen, 32)
	assert.Len(t, change.seen, 32)
	assert.Equal(t, 1, keep.prepared)
	assert.Equal(t, 1, keep.finished)

	res, err = NewManager([]FunctionPass{keep}).Run(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, PreservedAll, res)
}

func TestManager_OptNone(t *testing.T) {
	m := ir.NewModule()
	direct := m.NewFunc("direct", types.Void)
	direct.FuncAttrs = append(direct.FuncAttrs, enum.FuncAttrNoInline, enum.FuncAttrOptNone)
	direct.NewBlock("").NewRet(nil)

	grouped := m.NewFunc("grouped", types.Void)
	grouped.FuncAttrs = append(grouped.FuncAttrs, &ir.AttrGroupDef{
		ID:        0,
		FuncAttrs: []ir.FuncAttribute{enum.FuncAttrOptNone},
	})
	grouped.NewBlock("").NewRet(nil)

	plain := m.NewFunc("plain", types.Void)
	plain.NewBlock("").NewRet(nil)

	optional := &recordingPass{name: "optional", result: PreservedAll}
	required := &recordingPass{name: "required", required: true, result: PreservedNone}

	_, err := NewManager([]FunctionPass{optional, required}, WithJobs(1)).Run(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, []string{"plain"}, optional.seen)
	assert.ElementsMatch(t, []string{"direct", "grouped", "plain"}, required.seen)
}

func TestManager_Errors(t *testing.T) {
	m := newModule(8)
	failing := &recordingPass{name: "failing", fail: "f3"}

	_, err := NewManager([]FunctionPass{failing}, WithJobs(2)).Run(context.Background(), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run failing on @f3")
	assert.Equal(t, 1, failing.finished, "finishers run on failure too")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewManager([]FunctionPass{&recordingPass{name: "idle"}}).Run(ctx, m)
	assert.ErrorIs(t, err, context.Canceled)
}

type appendingPass struct {
	calls atomic.Int64
	mu    sync.Mutex
}

func (p *appendingPass) Name() string { return "appending" }

func (p *appendingPass) Run(f *ir.Func) (Result, error) {
	p.calls.Add(1)
	p.mu.Lock()
	f.Parent.NewFunc(f.Name()+".decl", types.Void)
	p.mu.Unlock()
	return PreservedNone, nil
}

func TestManager_SkipsFunctionsAddedDuringRun(t *testing.T) {
	m := newModule(5)
	p := &appendingPass{}

	_, err := NewManager([]FunctionPass{p}).Run(context.Background(), m)
	require.NoError(t, err)
	assert.EqualValues(t, 5, p.calls.Load())
	assert.Len(t, m.Funcs, 10)
}

type declaringPass struct {
	recordingPass
}

func (p *declaringPass) PrepareModule(m *ir.Module) error {
	m.NewFunc("hook", types.Void)
	return p.recordingPass.PrepareModule(m)
}

func TestManager_SkipsFunctionsAddedByPreparers(t *testing.T) {
	m := newModule(3)
	p := &declaringPass{recordingPass: recordingPass{name: "declaring", required: true}}

	_, err := NewManager([]FunctionPass{p}).Run(context.Background(), m)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"f0", "f1", "f2"}, p.seen)
	assert.Len(t, m.Funcs, 4)
}

func TestResult(t *testing.T) {
	assert.Equal(t, PreservedAll, PreservedAll.Intersect(PreservedAll))
	assert.Equal(t, PreservedNone, PreservedAll.Intersect(PreservedNone))
	assert.Equal(t, PreservedNone, PreservedNone.Intersect(PreservedAll))
	assert.Equal(t, "preserved-none", PreservedNone.String())
}
