package schematic

import (
	"github.com/pkg/errors"

	"github.com/circuit-sim/circuit-sim/sim"
)

// Validate checks that circuit names are unique, the main circuit exists,
// every component type is known and well-formed, and no circuit
// instantiates itself directly or through other circuits.
func (f *File) Validate() error {
	if len(f.Circuits) == 0 {
		return errors.New("file defines no circuits")
	}
	seen := make(map[string]bool, len(f.Circuits))
	for i, c := range f.Circuits {
		if c.Name == "" {
			return errors.Errorf("circuit[%d]: name is required", i)
		}
		if seen[c.Name] {
			return errors.Errorf("duplicate circuit name %q", c.Name)
		}
		if _, builtin := Catalog[c.Name]; builtin {
			return errors.Errorf("circuit name %q collides with a built-in component", c.Name)
		}
		seen[c.Name] = true
	}
	if f.MainCircuit() == nil {
		return errors.Errorf("main circuit %q is not defined", f.Main)
	}
	if f.OscillateAt != nil && *f.OscillateAt < 0 {
		return errors.Errorf("oscillate_at must be non-negative, got %d", *f.OscillateAt)
	}
	for _, c := range f.Circuits {
		for i, comp := range c.Components {
			if err := f.validateComponent(comp); err != nil {
				return errors.Wrapf(err, "circuit %q component[%d]", c.Name, i)
			}
		}
	}
	return f.checkAcyclic()
}

func (f *File) validateComponent(c Component) error {
	if c.Type == "" {
		return errors.New("type is required")
	}
	if f.IsSubcircuit(c) {
		if c.Library != "" {
			return errors.Errorf("sub-circuit %q cannot name a library (got %q)", c.Type, c.Library)
		}
		return nil
	}
	lib, ok := Catalog[c.Type]
	if !ok {
		return errors.Errorf("unknown component type %q", c.Type)
	}
	if c.Library != "" && c.Library != lib {
		return errors.Errorf("%s belongs to library %q, not %q", c.Type, lib, c.Library)
	}
	if c.Width < 0 || c.Width > sim.MaxWidth {
		return errors.Errorf("width must be in 1..%d, got %d", sim.MaxWidth, c.Width)
	}

	switch c.Type {
	case TypePin:
		for i, text := range c.Values {
			if _, err := sim.ParseValue(c.EffectiveWidth(), text); err != nil {
				return errors.Wrapf(err, "values[%d]", i)
			}
		}
	case TypeRAM:
		if c.Words < 0 {
			return errors.Errorf("words must be positive, got %d", c.Words)
		}
	case TypeTTY:
		for i, p := range c.Prints {
			if p.At < 1 {
				return errors.Errorf("prints[%d]: at must be at least 1, got %d", i, p.At)
			}
		}
	}
	if c.Type != TypePin && (c.Output || len(c.Values) > 0) {
		return errors.Errorf("output and values only apply to %s", TypePin)
	}
	if c.Type != TypeTTY && (c.Echo || len(c.Prints) > 0) {
		return errors.Errorf("echo and prints only apply to %s", TypeTTY)
	}
	return nil
}

// checkAcyclic rejects recursive sub-circuit instantiation.
func (f *File) checkAcyclic() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(f.Circuits))
	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case visiting:
			return errors.Errorf("circuit %q instantiates itself (%v)", name, append(path, name))
		case done:
			return nil
		}
		state[name] = visiting
		c, _ := f.Lookup(name)
		for _, comp := range c.Components {
			if f.IsSubcircuit(comp) {
				if err := visit(comp.Type, append(path, name)); err != nil {
					return err
				}
			}
		}
		state[name] = done
		return nil
	}
	for _, c := range f.Circuits {
		if err := visit(c.Name, nil); err != nil {
			return err
		}
	}
	return nil
}
