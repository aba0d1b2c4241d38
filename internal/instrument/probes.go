package instrument

import (
	"strconv"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"
)

// Probe is a hook call found at the entry of a function.
type Probe struct {
	Func string
	Args []string
}

// Probes lists hook calls in entry blocks of m. Arguments are rendered as
// strings: string constants by their contents, integers in decimal, anything
// else in LLVM syntax.
func Probes(m *ir.Module, hook string) []Probe {
	var res []Probe
	for _, f := range m.Funcs {
		if !hasBody(f) {
			continue
		}

		for _, inst := range f.Blocks[0].Insts {
			call, ok := inst.(*ir.InstCall)
			if !ok {
				continue
			}
			callee, ok := call.Callee.(*ir.Func)
			if !ok || callee.Name() != hook {
				continue
			}

			probe := Probe{Func: f.Name()}
			for _, arg := range call.Args {
				probe.Args = append(probe.Args, renderArg(arg))
			}
			res = append(res, probe)
		}
	}

	return res
}

func renderArg(v value.Value) string {
	switch v := v.(type) {
	case *constant.Int:
		return v.X.String()
	case *constant.ExprGetElementPtr:
		if s, ok := cstringOf(v); ok {
			return s
		}
	case *ir.Global:
		if s, ok := globalString(v); ok {
			return s
		}
	}

	return v.Ident()
}

// cstringOf expects the pointer to the first byte, as made by moduleSymbols.cstring.
func cstringOf(gep *constant.ExprGetElementPtr) (string, bool) {
	g, ok := gep.Src.(*ir.Global)
	if !ok {
		return "", false
	}

	return globalString(g)
}

func globalString(g *ir.Global) (string, bool) {
	data, ok := g.Init.(*constant.CharArray)
	if !ok {
		return "", false
	}

	s := string(data.X)
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}

	return s, true
}

// String renders the probe as "@func(arg, ...)" with string arguments quoted.
func (p Probe) String() string {
	var b strings.Builder
	b.WriteByte('@')
	b.WriteString(p.Func)
	b.WriteByte('(')
	for i, arg := range p.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		if _, err := strconv.ParseInt(arg, 10, 64); err == nil {
			b.WriteString(arg)
			continue
		}
		b.WriteString(strconv.Quote(arg))
	}
	b.WriteByte(')')

	return b.String()
}
