package pipeline

import (
	"encoding"
	"fmt"
)

// ExtensionPoint is a position in the optimization pipeline where passes are inserted.
type ExtensionPoint int

const (
	ExtensionPointInvalid ExtensionPoint = iota
	OptimizerEarly
	ScalarOptimizerLate
	Peephole
)

// ExtensionPoints lists points in pipeline order.
var ExtensionPoints = []ExtensionPoint{
	OptimizerEarly,
	ScalarOptimizerLate,
	Peephole,
}

var extensionPointValueMap = map[ExtensionPoint]string{
	OptimizerEarly:      "optimizer-early",
	ScalarOptimizerLate: "scalar-optimizer-late",
	Peephole:            "peephole",
}

func (p ExtensionPoint) String() string {
	v, ok := extensionPointValueMap[p]
	if !ok {
		return fmt.Sprintf("invalid(%d)", p)
	}

	return v
}

var (
	_ encoding.TextUnmarshaler = (*ExtensionPoint)(nil)
	_ encoding.TextMarshaler   = ExtensionPoint(0)
)

// UnmarshalText for setting values with configs, CLI, etc.
func (p *ExtensionPoint) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for k, v := range extensionPointValueMap {
		if v == text {
			*p = k
			return nil
		}
	}

	return fmt.Errorf("unknown extension point %q", text)
}

func (p ExtensionPoint) MarshalText() ([]byte, error) {
	v, ok := extensionPointValueMap[p]
	if !ok {
		return nil, fmt.Errorf("cannot marshal invalid ExtensionPoint(%d)", p)
	}

	return []byte(v), nil
}
