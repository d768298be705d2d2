// Package stats computes static component counts for a circuit file: for
// every component type, how many instances the main circuit holds directly
// (flat) and how many a full instantiation would create (recursive).
package stats

import (
	"sort"

	"github.com/samber/lo"

	"github.com/circuit-sim/circuit-sim/sim"
	"github.com/circuit-sim/circuit-sim/sim/schematic"
)

type key struct {
	name    string
	library string
}

// Compute returns the counts for f's main circuit ordered by library (in
// catalog order, project sub-circuits last) and then by name. Sub-circuit
// instances are counted as a component type named after the sub-circuit.
// f must be valid.
func Compute(f *schematic.File) []sim.StatRow {
	main := f.MainCircuit()
	if main == nil {
		return nil
	}
	flat := local(f, main)
	recursive := make(map[string]map[key]int)
	total := recursiveCounts(f, main, recursive)

	rows := lo.MapToSlice(total, func(k key, n int) sim.StatRow {
		return sim.StatRow{Flat: flat[k], Recursive: n, Name: k.name, Library: k.library}
	})
	sort.Slice(rows, func(i, j int) bool {
		ri, rj := schematic.LibraryRank(rows[i].Library), schematic.LibraryRank(rows[j].Library)
		if ri != rj {
			return ri < rj
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

func local(f *schematic.File, c *schematic.Circuit) map[key]int {
	counts := make(map[key]int)
	for _, comp := range c.Components {
		counts[key{name: comp.Type, library: f.LibraryOf(comp)}]++
	}
	return counts
}

// recursiveCounts memoizes per circuit name; validation guarantees the
// instantiation graph is acyclic.
func recursiveCounts(f *schematic.File, c *schematic.Circuit, memo map[string]map[key]int) map[key]int {
	if counts, ok := memo[c.Name]; ok {
		return counts
	}
	counts := local(f, c)
	for _, comp := range c.Components {
		sub, ok := f.Lookup(comp.Type)
		if !ok {
			continue
		}
		for k, n := range recursiveCounts(f, sub, memo) {
			counts[k] += n
		}
	}
	memo[c.Name] = counts
	return counts
}
