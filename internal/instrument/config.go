package instrument

import (
	"encoding"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// DefaultHook is the reserved name of the logging hook.
const DefaultHook = "__print_func_name"

// Variant selects which metadata fields are passed to the hook.
type Variant int

const (
	VariantInvalid Variant = iota

	// VariantBasic passes the raw name only.
	VariantBasic

	// VariantDemangle passes the name and a flag telling a demangled signature from a raw name.
	VariantDemangle

	// VariantLocation passes the raw name and its source location.
	VariantLocation

	// VariantCombined passes the name, the demangled flag and the source location.
	VariantCombined
)

var variantValueMap = map[Variant]string{
	VariantBasic:    "basic",
	VariantDemangle: "demangle",
	VariantLocation: "location",
	VariantCombined: "combined",
}

// VariantOf returns the variant with the given fields enabled.
func VariantOf(demangle, location bool) Variant {
	switch {
	case demangle && location:
		return VariantCombined
	case demangle:
		return VariantDemangle
	case location:
		return VariantLocation
	default:
		return VariantBasic
	}
}

func (v Variant) String() string {
	s, ok := variantValueMap[v]
	if !ok {
		return fmt.Sprintf("invalid(%d)", v)
	}

	return s
}

// Demangle reports whether the variant emits demangled signatures.
func (v Variant) Demangle() bool {
	return v == VariantDemangle || v == VariantCombined
}

// Location reports whether the variant passes source locations.
func (v Variant) Location() bool {
	return v == VariantLocation || v == VariantCombined
}

var (
	_ encoding.TextUnmarshaler = (*Variant)(nil)
	_ encoding.TextMarshaler   = Variant(0)
)

// UnmarshalText for setting values with configs, CLI, etc.
func (v *Variant) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for k, s := range variantValueMap {
		if s == text {
			*v = k
			return nil
		}
	}

	return fmt.Errorf("unknown instrumentation variant %q", text)
}

func (v Variant) MarshalText() ([]byte, error) {
	s, ok := variantValueMap[v]
	if !ok {
		return nil, fmt.Errorf("cannot marshal invalid Variant(%d)", v)
	}

	return []byte(s), nil
}

// Config of the pass.
type Config struct {
	// Hook is the name of the logging hook, DefaultHook when empty.
	Hook string

	// Variant of the call shape, VariantBasic when zero.
	Variant Variant
}

// Validate checks the config is usable.
func (c Config) Validate() error {
	if c.Variant != VariantInvalid {
		if _, ok := variantValueMap[c.Variant]; !ok {
			return fmt.Errorf("invalid variant %d", c.Variant)
		}
	}

	return nil
}

// HookName returns the hook symbol name.
func (c Config) HookName() string {
	if c.Hook == "" {
		return DefaultHook
	}

	return c.Hook
}

func (c Config) variant() Variant {
	if c.Variant == VariantInvalid {
		return VariantBasic
	}

	return c.Variant
}

// HookParams returns the parameters of the hook declaration in call order.
func (c Config) HookParams() []*ir.Param {
	params := []*ir.Param{ir.NewParam("name", types.I8Ptr)}
	v := c.variant()
	if v.Demangle() {
		params = append(params, ir.NewParam("is_demangled", types.I32))
	}
	if v.Location() {
		params = append(params,
			ir.NewParam("file", types.I8Ptr),
			ir.NewParam("line", types.I32),
			ir.NewParam("column", types.I32),
		)
	}

	return params
}

// HookType returns the function type the hook is declared with.
func (c Config) HookType() *types.FuncType {
	params := c.HookParams()
	paramTypes := make([]types.Type, 0, len(params))
	for _, p := range params {
		paramTypes = append(paramTypes, p.Typ)
	}

	return types.NewFunc(types.Void, paramTypes...)
}
