package instrument

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
)

func TestProbes_IgnoresOtherCalls(t *testing.T) {
	m := ir.NewModule()
	other := m.NewFunc("other", types.Void, ir.NewParam("x", types.I32))
	hook := m.NewFunc("hook", types.Void, ir.NewParam("x", types.I32))

	f := m.NewFunc("f", types.Void)
	entry := f.NewBlock("entry")
	entry.NewCall(other, constant.NewInt(types.I32, 1))
	entry.NewCall(hook, constant.NewInt(types.I32, 2))
	entry.NewRet(nil)

	assert.Equal(t, []Probe{{Func: "f", Args: []string{"2"}}}, Probes(m, "hook"))
	assert.Empty(t, Probes(m, "missing"))
}

func TestProbe_String(t *testing.T) {
	p := Probe{Func: "main", Args: []string{"main", "a.c", "42", "1"}}
	assert.Equal(t, `@main("main", "a.c", 42, 1)`, p.String())
}
