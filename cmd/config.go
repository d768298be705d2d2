package cmd

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/circuit-sim/circuit-sim/sim"
)

// RunDefaults is the structure of a run defaults file. Every key is
// optional; a value applies only when the matching flag was not set on the
// command line.
type RunDefaults struct {
	TTY      []string `yaml:"tty"`
	Load     string   `yaml:"load"`
	Log      string   `yaml:"log"`
	TickRate *float64 `yaml:"tick_rate"`
	Trace    string   `yaml:"trace"`
}

// loadRunDefaults parses a run defaults file.
// Uses strict field checking: typos must cause errors.
func loadRunDefaults(path string) (RunDefaults, error) {
	var d RunDefaults
	data, err := os.ReadFile(path)
	if err != nil {
		return d, &sim.LoadError{Path: path, Err: errors.Wrap(err, "reading run defaults")}
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&d); err != nil {
		return d, &sim.LoadError{Path: path, Err: errors.Wrap(err, "parsing run defaults")}
	}
	return d, nil
}

// apply copies the file's values into cfg for every flag that changed
// reports as unset.
func (d RunDefaults) apply(cfg *runConfig, changed func(flag string) bool) {
	if len(d.TTY) > 0 && !changed("tty") {
		cfg.Formats = append([]string(nil), d.TTY...)
	}
	if d.Load != "" && !changed("load") {
		cfg.ImagePath = d.Load
	}
	if d.Log != "" && !changed("log") {
		cfg.LogLevel = d.Log
	}
	if d.TickRate != nil && !changed("tick-rate") {
		cfg.TickRate = *d.TickRate
	}
	if d.Trace != "" && !changed("trace") {
		cfg.Trace = d.Trace
	}
}
