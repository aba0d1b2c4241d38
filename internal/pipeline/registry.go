package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Factory builds a fresh pass instance.
type Factory func() FunctionPass

// Registry maps pass names to factories and extension points to pass names.
type Registry struct {
	mu     sync.RWMutex
	passes map[string]Factory
	points map[ExtensionPoint][]string
}

// NewRegistry is [Registry] constructor.
func NewRegistry() *Registry {
	return &Registry{
		passes: make(map[string]Factory),
		points: make(map[ExtensionPoint][]string),
	}
}

// Register adds a pass under the given name. The pass is also inserted at every given point.
func (r *Registry) Register(name string, factory Factory, points ...ExtensionPoint) error {
	if name == "" {
		return errors.New("empty pass name")
	}
	if strings.ContainsAny(name, "(),") {
		return fmt.Errorf("pass name %q contains pipeline delimiters", name)
	}
	if factory == nil {
		return fmt.Errorf("no factory for pass %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.passes[name]; ok {
		return fmt.Errorf("pass %q is already registered", name)
	}
	for _, p := range points {
		if _, ok := extensionPointValueMap[p]; !ok {
			return fmt.Errorf("register pass %q: invalid extension point %d", name, p)
		}
	}

	r.passes[name] = factory
	for _, p := range points {
		r.points[p] = append(r.points[p], name)
	}

	return nil
}

// Names returns registered pass names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.passes))
	for name := range r.passes {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Points returns extension points the pass was registered at, in pipeline order.
func (r *Registry) Points(name string) []ExtensionPoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var res []ExtensionPoint
	for _, p := range ExtensionPoints {
		if slices.Contains(r.points[p], name) {
			res = append(res, p)
		}
	}

	return res
}

// AtPoints builds passes registered at the given points. Points are visited in
// pipeline order whatever order they are passed in, each point at most once.
func (r *Registry) AtPoints(points ...ExtensionPoint) []FunctionPass {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var res []FunctionPass
	for _, p := range ExtensionPoints {
		if !slices.Contains(points, p) {
			continue
		}
		for _, name := range r.points[p] {
			res = append(res, r.passes[name]())
		}
	}

	return res
}

// Parse builds passes from a textual pipeline: a comma separated list of pass
// names, optionally wrapped into function(...).
func (r *Registry) Parse(text string) ([]FunctionPass, error) {
	text = strings.TrimSpace(text)
	if inner, ok := strings.CutPrefix(text, "function("); ok {
		inner, ok = strings.CutSuffix(inner, ")")
		if !ok {
			return nil, fmt.Errorf("unbalanced function( in pipeline %q", text)
		}
		text = inner
	}
	if text == "" {
		return nil, errors.New("empty pipeline")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var res []FunctionPass
	for _, name := range strings.Split(text, ",") {
		name = strings.TrimSpace(name)
		factory, ok := r.passes[name]
		if !ok {
			return nil, fmt.Errorf("unknown pass %q in pipeline %q", name, text)
		}
		res = append(res, factory())
	}

	return res, nil
}
