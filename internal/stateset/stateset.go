// Package stateset provides the canonical naming scheme for composite
// states produced by powerset-style constructions (determinization, NCSB,
// antichain pairs). Every package that invents a new state name from a set
// of existing names must route through this package, so that naming is a
// pure function of sorted input — the reproducibility requirement in
// spec.md §5.
package stateset

import (
	"sort"
	"strings"
)

// Join returns the canonical comma-joined name for a subset of state names,
// used by powerset determinization (spec.md §4.3/§4.4): "a,b,c".
func Join(names []string) string {
	if len(names) == 0 {
		return ""
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return strings.Join(dedup(sorted), ",")
}

// Pair returns the canonical bracketed pair name used by product
// constructions (intersection, composition): "[p_1|q_2]".
func Pair(left, right string) string {
	return "[" + left + "_1|" + right + "_2]"
}

// Union returns the canonical tagged name used by disjoint union: "q_1" or
// "q_2" depending on side.
func Union(name string, side int) string {
	if side == 1 {
		return name + "_1"
	}
	return name + "_2"
}

// NCSB returns the canonical name for a Büchi NCSB macrostate
// (N, C, S, B), each a sorted, deduplicated list of state names
// (spec.md §4.6's get_text_label).
func NCSB(n, c, s, b []string) string {
	return "(" + braced(n) + "," + braced(c) + "," + braced(s) + "," + braced(b) + ")"
}

func braced(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return "{" + strings.Join(dedup(sorted), ",") + "}"
}

// dedup removes consecutive duplicates from an already-sorted slice.
func dedup(sorted []string) []string {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}

// Split parses a Join-produced name back into its component names.
func Split(name string) []string {
	if name == "" {
		return nil
	}
	return strings.Split(name, ",")
}
