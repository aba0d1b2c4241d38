package srcmeta

import (
	"strings"

	"github.com/ianlancetaylor/demangle"
	"github.com/llir/llvm/ir"
)

// Demangle returns the qualified name encoded in a mangled symbol, without
// its parameter list. Names that do not demangle are returned as is.
func Demangle(name string) string {
	res, err := demangle.ToString(name, demangle.NoParams)
	if err != nil {
		return name
	}

	return res
}

// PrettySignature renders f as "<ret> <name>(<param>, ...)".
//
// Types come from the IR signature of f, the name is demangled. Every call
// builds a new string.
func PrettySignature(f *ir.Func) string {
	var b strings.Builder
	b.WriteString(f.Sig.RetType.LLString())
	b.WriteByte(' ')
	b.WriteString(Demangle(f.Name()))
	b.WriteByte('(')
	for i, param := range f.Sig.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(param.LLString())
	}
	if f.Sig.Variadic {
		if len(f.Sig.Params) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
	b.WriteByte(')')

	return b.String()
}
