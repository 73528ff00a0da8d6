package automaton

import (
	"sort"

	"github.com/symboliclib/automata/internal/stateset"
	"github.com/symboliclib/automata/pred"
)

// Reverse flips every transition: a --φ--> b becomes b --φ--> a. Initial
// and final sets are left untouched, matching the original's reverse() —
// Reverse is an internal tool for predecessor queries (used by
// CanReachFinal's backward search), not a language-reversal operator. Reverse is
// involutive: Reverse(Reverse(m)) reproduces m's edge set (spec.md §8
// property 5), modulo transition-group ordering.
func Reverse(m *Machine) *Machine {
	b := NewBuilder(m.kind, m.proto)
	for s := range m.alphabet {
		b.AddSymbol(s)
	}
	for _, rec := range m.states {
		b.State(rec.name)
	}
	for src, rec := range m.states {
		for _, tr := range rec.out {
			for _, dst := range tr.Targets {
				b.AddTransition(StateID(dst), tr.Label, StateID(src))
			}
		}
	}
	for _, s := range m.start {
		b.AddStart(s)
	}
	for i, set := range m.final {
		for _, s := range set {
			b.AddFinal(i, s)
		}
	}
	return b.Build()
}

// bfs explores the graph (via next) from roots, returning every state id
// reached including the roots themselves.
func bfs(n int, roots []StateID, next func(StateID) []StateID) map[StateID]bool {
	seen := make(map[StateID]bool, n)
	queue := append([]StateID(nil), roots...)
	for _, r := range roots {
		seen[r] = true
	}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, t := range next(s) {
			if !seen[t] {
				seen[t] = true
				queue = append(queue, t)
			}
		}
	}
	return seen
}

func successors(m *Machine) func(StateID) []StateID {
	return func(id StateID) []StateID {
		var out []StateID
		for _, tr := range m.Out(id) {
			out = append(out, tr.Targets...)
		}
		return out
	}
}

// ReachableFromStart returns the set of states reachable from I.
func ReachableFromStart(m *Machine) map[StateID]bool {
	return bfs(m.NumStates(), m.start, successors(m))
}

// allFinal flattens every acceptance set into one slice (used by reachability
// and usefulness, which do not distinguish GBA acceptance sets).
func allFinal(m *Machine) []StateID {
	var out []StateID
	for _, set := range m.final {
		out = append(out, set...)
	}
	return out
}

// CanReachFinal returns the set of states from which some final state is
// reachable — computed as forward-reachability from F in the reversed
// graph, i.e. backward reachability to F in m.
func CanReachFinal(m *Machine) map[StateID]bool {
	rev := Reverse(m)
	finals := allFinal(m)
	return bfs(rev.NumStates(), finals, successors(rev))
}

// IsEmpty reports whether L(m) = ∅ via BFS from I to F (spec.md §4.2).
func IsEmpty(m *Machine) bool {
	reach := ReachableFromStart(m)
	for _, f := range allFinal(m) {
		if reach[f] {
			return false
		}
	}
	return true
}

// rebuild constructs a new Machine containing only the states in keep,
// preserving names, transitions between kept states, start and final sets.
func rebuild(m *Machine, keep map[StateID]bool) *Machine {
	b := NewBuilder(m.kind, m.proto)
	for s := range m.alphabet {
		b.AddSymbol(s)
	}
	for id, rec := range m.states {
		if keep[StateID(id)] {
			b.State(rec.name)
		}
	}
	for src, rec := range m.states {
		if !keep[StateID(src)] {
			continue
		}
		for _, tr := range rec.out {
			for _, dst := range tr.Targets {
				if keep[dst] {
					b.AddTransition(StateID(src), tr.Label, dst)
				}
			}
		}
	}
	for _, s := range m.start {
		if keep[s] {
			b.AddStart(s)
		}
	}
	for i, set := range m.final {
		for _, s := range set {
			if keep[s] {
				b.AddFinal(i, s)
			}
		}
	}
	return b.Build()
}

// RemoveUnreachable drops every state not reachable from I (spec.md §4.2).
func RemoveUnreachable(m *Machine) *Machine {
	return rebuild(m, ReachableFromStart(m))
}

// RemoveUseless drops every state that cannot reach any final state
// (spec.md §4.2). Start states are always kept even if useless, matching
// the original's treatment of simple_reduce ordering (remove_useless runs
// before remove_unreachable, so a useless-but-reachable start survives
// until the unreachable pass, which cannot drop it since it is a root).
func RemoveUseless(m *Machine) *Machine {
	keep := CanReachFinal(m)
	for _, s := range m.start {
		keep[s] = true
	}
	return rebuild(m, keep)
}

// Reduce removes useless states then unreachable states, the Symbolic
// simple_reduce pipeline.
func Reduce(m *Machine) *Machine {
	return RemoveUnreachable(RemoveUseless(m))
}

// CompactTransitions merges and subsumes redundant transitions on SA-kind
// machines (spec.md §4.2):
//
//   - transitions from the same source to the same target set are merged
//     into one, with the label replaced by the disjunction of the merged
//     labels;
//   - when two transitions from the same source share some targets and one
//     label is a subset of the other, the shared targets are dropped from
//     the narrower-labelled transition (the broader label already reaches
//     them for every symbol the narrower one does).
func CompactTransitions(m *Machine) *Machine {
	b := NewBuilder(m.kind, m.proto)
	for s := range m.alphabet {
		b.AddSymbol(s)
	}
	for _, rec := range m.states {
		b.State(rec.name)
	}
	for _, s := range m.start {
		b.AddStart(s)
	}
	for i, set := range m.final {
		for _, s := range set {
			b.AddFinal(i, s)
		}
	}

	for src, rec := range m.states {
		merged := mergeByTargetSet(rec.out)
		merged = subsumeBySubsetLabel(merged)
		for _, tr := range merged {
			for _, dst := range tr.Targets {
				b.AddTransition(StateID(src), tr.Label, dst)
			}
		}
	}
	return b.Build()
}

func targetKey(targets []StateID) string {
	sorted := append([]StateID(nil), targets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := make([]byte, 0, len(sorted)*5)
	for _, s := range sorted {
		out = append(out, byte(s), byte(s>>8), byte(s>>16), byte(s>>24), ',')
	}
	return string(out)
}

func mergeByTargetSet(out []Transition) []Transition {
	groups := make(map[string][]int)
	var order []string
	for i, tr := range out {
		k := targetKey(tr.Targets)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}
	var result []Transition
	for _, k := range order {
		idxs := groups[k]
		label := out[idxs[0]].Label
		for _, i := range idxs[1:] {
			label = label.Or(out[i].Label)
		}
		if !label.IsSatisfiable() && !label.IsEpsilon() {
			// The disjunction is not representable (e.g. two Letters):
			// keep the group's transitions separate.
			for _, i := range idxs {
				result = append(result, out[i])
			}
			continue
		}
		result = append(result, Transition{Label: label, Targets: out[idxs[0]].Targets})
	}
	return result
}

func subsumeBySubsetLabel(out []Transition) []Transition {
	result := make([]Transition, len(out))
	copy(result, out)
	for i := range result {
		for j := range result {
			if i == j {
				continue
			}
			if result[i].Label.IsEpsilon() || result[j].Label.IsEpsilon() {
				continue
			}
			if !result[i].Label.IsSubsetOf(result[j].Label) || result[i].Label.Equals(result[j].Label) {
				continue
			}
			overlap := intersectTargets(result[i].Targets, result[j].Targets)
			if len(overlap) == 0 {
				continue
			}
			result[i].Targets = subtractTargets(result[i].Targets, overlap)
		}
	}
	var final []Transition
	for _, tr := range result {
		if len(tr.Targets) > 0 {
			final = append(final, tr)
		}
	}
	return final
}

func intersectTargets(a, b []StateID) []StateID {
	set := make(map[StateID]bool, len(b))
	for _, s := range b {
		set[s] = true
	}
	var out []StateID
	for _, s := range a {
		if set[s] {
			out = append(out, s)
		}
	}
	return out
}

func subtractTargets(a, remove []StateID) []StateID {
	set := make(map[StateID]bool, len(remove))
	for _, s := range remove {
		set[s] = true
	}
	var out []StateID
	for _, s := range a {
		if !set[s] {
			out = append(out, s)
		}
	}
	return out
}

// Union builds the disjoint union of a and b: states are tagged _1/_2,
// initial and final sets combined, alphabets unioned (spec.md §4.2).
func Union(a, b *Machine) *Machine {
	out := NewBuilder(a.kind, a.proto)
	for s := range a.alphabet {
		out.AddSymbol(s)
	}
	for s := range b.alphabet {
		out.AddSymbol(s)
	}

	tag1 := func(id StateID) StateID { return out.State(stateset.Union(a.StateName(id), 1)) }
	tag2 := func(id StateID) StateID { return out.State(stateset.Union(b.StateName(id), 2)) }

	for src, rec := range a.states {
		for _, tr := range rec.out {
			for _, dst := range tr.Targets {
				out.AddTransition(tag1(StateID(src)), tr.Label, tag1(dst))
			}
		}
	}
	for src, rec := range b.states {
		for _, tr := range rec.out {
			for _, dst := range tr.Targets {
				out.AddTransition(tag2(StateID(src)), tr.Label, tag2(dst))
			}
		}
	}
	for _, s := range a.start {
		out.AddStart(tag1(s))
	}
	for _, s := range b.start {
		out.AddStart(tag2(s))
	}
	for _, s := range a.final[0] {
		out.AddFinal(0, tag1(s))
	}
	for _, s := range b.final[0] {
		out.AddFinal(0, tag2(s))
	}
	return out.Build()
}

// ProductIntersection builds the product automaton of a and b: states
// (q1,q2); an edge (q1,q2) --φ1∧φ2--> (q1',q2') exists whenever φ1∧φ2 is
// satisfiable; a product state is final iff both components are final
// (spec.md §4.2; Büchi per-component acceptance is handled separately by
// buchi.Intersection).
func ProductIntersection(a, b *Machine) *Machine {
	out := NewBuilder(a.kind, a.proto)
	for s := range a.alphabet {
		out.AddSymbol(s)
	}
	for s := range b.alphabet {
		if _, ok := a.alphabet[s]; ok {
			out.AddSymbol(s)
		}
	}

	name := func(s1, s2 StateID) string {
		return stateset.Pair(a.StateName(s1), b.StateName(s2))
	}

	type pair struct{ a, b StateID }
	queue := make([]pair, 0)
	seen := make(map[pair]bool)

	for _, s1 := range a.start {
		for _, s2 := range b.start {
			p := pair{s1, s2}
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
			out.AddStart(out.State(name(s1, s2)))
		}
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		id := out.State(name(p.a, p.b))
		if a.IsFinal(p.a) && b.IsFinal(p.b) {
			out.AddFinal(0, id)
		}
		for _, tr1 := range a.Out(p.a) {
			for _, tr2 := range b.Out(p.b) {
				if tr1.Label.IsEpsilon() != tr2.Label.IsEpsilon() {
					continue
				}
				var common pred.Predicate
				if tr1.Label.IsEpsilon() {
					common = tr1.Label
				} else {
					common = tr1.Label.And(tr2.Label)
					if !common.IsSatisfiable() {
						continue
					}
				}
				for _, t1 := range tr1.Targets {
					for _, t2 := range tr2.Targets {
						np := pair{t1, t2}
						nid := out.State(name(t1, t2))
						out.AddTransition(id, common, nid)
						if !seen[np] {
							seen[np] = true
							queue = append(queue, np)
						}
					}
				}
			}
		}
	}
	return Reduce(out.Build())
}
