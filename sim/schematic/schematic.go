// Package schematic defines circuit description files: a set of named
// circuits, each a flat list of component instances, one of which is the
// main circuit driven by a headless run.
//
// Files are YAML (.yaml, .yml) or TOML (.toml). Both are parsed strictly so
// that a misspelled key is an error rather than a silently ignored field.
package schematic

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/circuit-sim/circuit-sim/sim"
)

// File is a parsed circuit description.
type File struct {
	// Main names the circuit a run instantiates. Empty means the first
	// circuit in the file.
	Main string `yaml:"main,omitempty" toml:"main,omitempty"`
	// OscillateAt, when set, is the first clock tick at which the replay
	// engine reports that propagation failed to settle.
	OscillateAt *int64    `yaml:"oscillate_at,omitempty" toml:"oscillate_at,omitempty"`
	Circuits    []Circuit `yaml:"circuits" toml:"circuits"`
}

// Circuit is one named circuit definition.
type Circuit struct {
	Name       string      `yaml:"name" toml:"name"`
	Components []Component `yaml:"components" toml:"components"`
}

// Component is one component instance. Type names either a built-in
// component (see Catalog) or another circuit of the same file, in which case
// the instance is a sub-circuit.
type Component struct {
	Type    string `yaml:"type" toml:"type"`
	Library string `yaml:"library,omitempty" toml:"library,omitempty"`
	Label   string `yaml:"label,omitempty" toml:"label,omitempty"`
	Width   int    `yaml:"width,omitempty" toml:"width,omitempty"`

	// Pin
	Output bool     `yaml:"output,omitempty" toml:"output,omitempty"`
	Values []string `yaml:"values,omitempty" toml:"values,omitempty"` // one per tick, last value held

	// RAM
	Words int `yaml:"words,omitempty" toml:"words,omitempty"`

	// TTY
	Prints []Print `yaml:"prints,omitempty" toml:"prints,omitempty"`
	Echo   bool    `yaml:"echo,omitempty" toml:"echo,omitempty"` // print what keyboards in the same circuit receive
}

// Print is text a TTY displays when the clock reaches tick At.
type Print struct {
	At   int64  `yaml:"at" toml:"at"`
	Text string `yaml:"text" toml:"text"`
}

// Defaults and reserved labels.
const (
	DefaultRAMWidth = 8
	DefaultRAMWords = 256
	HaltLabel       = "halt"
)

// Load reads and validates the circuit file at path. The format is chosen
// by extension. Any failure is returned as a *sim.LoadError.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &sim.LoadError{Path: path, Err: errors.Wrap(err, "reading circuit file")}
	}
	f, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, &sim.LoadError{Path: path, Err: err}
	}
	return f, nil
}

// Parse decodes and validates a circuit description. ext selects the
// format: ".toml" for TOML, ".yaml" or ".yml" for YAML.
func Parse(data []byte, ext string) (*File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&f); err != nil {
			return nil, errors.Wrap(err, "parsing circuit YAML")
		}
	case ".toml":
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&f); err != nil {
			return nil, errors.Wrap(err, "parsing circuit TOML")
		}
	default:
		return nil, errors.Errorf("unsupported circuit file extension %q; valid: .yaml, .yml, .toml", ext)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Lookup returns the circuit named name.
func (f *File) Lookup(name string) (*Circuit, bool) {
	for i := range f.Circuits {
		if f.Circuits[i].Name == name {
			return &f.Circuits[i], true
		}
	}
	return nil, false
}

// MainCircuit returns the circuit a run instantiates, or nil if the file has
// none.
func (f *File) MainCircuit() *Circuit {
	if f.Main == "" {
		if len(f.Circuits) == 0 {
			return nil
		}
		return &f.Circuits[0]
	}
	c, _ := f.Lookup(f.Main)
	return c
}

// IsSubcircuit reports whether c instantiates another circuit of f.
func (f *File) IsSubcircuit(c Component) bool {
	_, ok := f.Lookup(c.Type)
	return ok
}

// LibraryOf returns the library c belongs to: its catalog library for a
// built-in component, "" for a sub-circuit instance.
func (f *File) LibraryOf(c Component) string {
	if f.IsSubcircuit(c) {
		return ""
	}
	return Catalog[c.Type]
}

// EffectiveWidth returns the bit width of a pin or RAM data word, applying
// the default when Width is unset.
func (c Component) EffectiveWidth() int {
	if c.Width > 0 {
		return c.Width
	}
	if c.Type == TypeRAM {
		return DefaultRAMWidth
	}
	return 1
}

// EffectiveWords returns the RAM size in words.
func (c Component) EffectiveWords() int {
	if c.Words > 0 {
		return c.Words
	}
	return DefaultRAMWords
}

// Waveform parses the pin's recorded values at its width. It assumes the
// file was validated.
func (c Component) Waveform() []sim.Value {
	out := make([]sim.Value, 0, len(c.Values))
	for _, text := range c.Values {
		v, err := sim.ParseValue(c.EffectiveWidth(), text)
		if err != nil {
			v = sim.UnknownValue(c.EffectiveWidth())
		}
		out = append(out, v)
	}
	return out
}
