// Package classical specializes the symbolic machine core (automaton) to
// classical letter-labelled NFA (spec.md C3): product intersection via
// label equality, powerset determinization with comma-joined subset names,
// and Henzinger-Raskin-Schobbens simulation preorder.
package classical

import (
	"sort"

	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/internal/stateset"
	"github.com/symboliclib/automata/pred"
)

// Intersect builds the product automaton of two LFA machines. For letter
// predicates, label conjunction is already an equality test (pred.Letter.And
// is satisfiable only when both symbols match), so this is a thin,
// domain-named wrapper over automaton.ProductIntersection.
func Intersect(a, b *automaton.Machine) *automaton.Machine {
	return automaton.ProductIntersection(a, b)
}

// sinkName is reserved for the completion sink state; it cannot collide with
// a comma-joined subset name because subset names never contain parentheses.
const sinkName = "(sink)"

// Complete returns m with a sink state added so that every state has at
// least one outgoing transition per alphabet symbol, exactly one when m is
// deterministic (required before Simulation
// and before classical minimization-adjacent algorithms run).
func Complete(m *automaton.Machine) *automaton.Machine {
	alphabet := m.Alphabet()
	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })

	b := automaton.NewBuilder(m.Kind(), m.Proto())
	for _, s := range alphabet {
		b.AddSymbol(s)
	}
	for _, id := range m.AllStateIDs() {
		b.State(m.StateName(id))
	}
	sink := b.State(sinkName)

	for _, id := range m.AllStateIDs() {
		have := make(map[pred.Sym]bool)
		for _, tr := range m.Out(id) {
			for _, a := range alphabet {
				if tr.Label.HasSymbol(a) {
					have[a] = true
				}
			}
			for _, dst := range tr.Targets {
				b.AddTransition(id, tr.Label, dst)
			}
		}
		for _, a := range alphabet {
			if !have[a] {
				b.AddTransition(id, pred.NewLetter(a), sink)
			}
		}
	}
	for _, a := range alphabet {
		b.AddTransition(sink, pred.NewLetter(a), sink)
	}

	for _, s := range m.Start() {
		b.AddStart(s)
	}
	for i := 0; i < m.NumFinalSets(); i++ {
		for _, s := range m.Final(i) {
			b.AddFinal(i, s)
		}
	}
	return b.Build()
}

// Determinize performs classical powerset determinization: states are
// comma-joined sorted subsets of Q, new transitions aggregate targets per
// letter, and a superstate is final iff it intersects F (spec.md §4.3).
func Determinize(m *automaton.Machine) *automaton.Machine {
	alphabet := m.Alphabet()
	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })

	b := automaton.NewBuilder(m.Kind(), m.Proto())
	for _, a := range alphabet {
		b.AddSymbol(a)
	}

	startSubset := dedupIDs(m.Start())
	startName := subsetName(m, startSubset)
	startID := b.State(startName)
	b.AddStart(startID)
	if intersectsFinal(m, startSubset) {
		b.AddFinal(0, startID)
	}

	seen := map[string]bool{startName: true}
	queue := [][]automaton.StateID{startSubset}

	for len(queue) > 0 {
		subset := queue[0]
		queue = queue[1:]
		srcName := subsetName(m, subset)
		srcID := b.State(srcName)

		for _, a := range alphabet {
			var targets []automaton.StateID
			for _, q := range subset {
				for _, tr := range m.Out(q) {
					if tr.Label.HasSymbol(a) {
						targets = append(targets, tr.Targets...)
					}
				}
			}
			targets = dedupIDs(targets)
			if len(targets) == 0 {
				continue
			}
			dstName := subsetName(m, targets)
			dstID := b.State(dstName)
			b.AddTransition(srcID, pred.NewLetter(a), dstID)
			if intersectsFinal(m, targets) {
				b.AddFinal(0, dstID)
			}
			if !seen[dstName] {
				seen[dstName] = true
				queue = append(queue, targets)
			}
		}
	}
	return b.Build()
}

func subsetName(m *automaton.Machine, subset []automaton.StateID) string {
	names := make([]string, len(subset))
	for i, q := range subset {
		names[i] = m.StateName(q)
	}
	return stateset.Join(names)
}

func intersectsFinal(m *automaton.Machine, subset []automaton.StateID) bool {
	for _, q := range subset {
		if m.IsFinal(q) {
			return true
		}
	}
	return false
}

func dedupIDs(ids []automaton.StateID) []automaton.StateID {
	seen := make(map[automaton.StateID]bool, len(ids))
	out := make([]automaton.StateID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
