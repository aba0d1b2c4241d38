package srcmeta

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/metadata"
)

// Location is a source position of a function.
type Location struct {
	File   string
	Line   int64
	Column int64
}

// LocationOf extracts the location of f from its !dbg subprogram.
// Functions without debug info get the zero Location.
func LocationOf(f *ir.Func) Location {
	sp := Subprogram(f)
	if sp == nil {
		return Location{}
	}

	// Column is taken from a location synthesized at the subprogram scope
	// line, which always points at the first column.
	loc := Location{
		Line:   sp.Line,
		Column: 1,
	}
	if sp.File != nil {
		loc.File = sp.File.Filename
	}

	return loc
}

// Subprogram returns the DISubprogram attached to f as !dbg, if any.
func Subprogram(f *ir.Func) *metadata.DISubprogram {
	for _, att := range f.Metadata {
		if att.Name != "dbg" {
			continue
		}

		if sp, ok := att.Node.(*metadata.DISubprogram); ok {
			return sp
		}
	}

	return nil
}
