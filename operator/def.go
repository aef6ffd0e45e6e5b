package operator

import (
	"fmt"
)

// Def declares a single operator.
type Def struct {
	Args    map[string]any `yaml:"args,omitempty"`
	Type    string         `yaml:"type"`
	Name    string         `yaml:"name,omitempty"`
	Inputs  []string       `yaml:"inputs,omitempty"`
	Outputs []string       `yaml:"outputs,omitempty"`
}

// Label returns the name if set, otherwise the type.
func (d Def) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Type
}

// HasArg reports whether the argument is present.
func (d Def) HasArg(name string) bool {
	_, ok := d.Args[name]
	return ok
}

// Float returns a numeric argument, or def when absent.
func (d Def) Float(name string, def float64) (float64, error) {
	v, ok := d.Args[name]
	if !ok {
		return def, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("argument %q: expected number, got %T", name, v)
	}
	return f, nil
}

// String returns a string argument, or def when absent.
func (d Def) String(name, def string) (string, error) {
	v, ok := d.Args[name]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q: expected string, got %T", name, v)
	}
	return s, nil
}

// Ints returns an integer list argument, or nil when absent.
func (d Def) Ints(name string) ([]int64, error) {
	v, ok := d.Args[name]
	if !ok {
		return nil, nil
	}
	var items []any
	switch vv := v.(type) {
	case []any:
		items = vv
	case []int:
		out := make([]int64, len(vv))
		for i, x := range vv {
			out[i] = int64(x)
		}
		return out, nil
	case []int64:
		return append([]int64(nil), vv...), nil
	default:
		return nil, fmt.Errorf("argument %q: expected list of integers, got %T", name, v)
	}
	out := make([]int64, len(items))
	for i, item := range items {
		f, ok := toFloat(item)
		if !ok || f != float64(int64(f)) {
			return nil, fmt.Errorf("argument %q[%d]: expected integer, got %v", name, i, item)
		}
		out[i] = int64(f)
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
