package symbolic

import (
	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/pred"
)

const sinkName = "(sink)"

// Complete adds a sink state and, for every state q, an error transition
// labelled by the negation of the disjunction of q's existing guards
// (computed as the running conjunction of their negations); if that error
// label is satisfiable it routes to the sink. Transitions that target a
// useless state (one that cannot reach any final state) are retargeted to
// the sink as well (spec.md §4.4).
func Complete(m *automaton.Machine) *automaton.Machine {
	canReachFinal := automaton.CanReachFinal(m)
	proto := m.Proto()

	b := automaton.NewBuilder(m.Kind(), m.Proto())
	for _, s := range m.Alphabet() {
		b.AddSymbol(s)
	}
	for _, id := range m.AllStateIDs() {
		b.State(m.StateName(id))
	}
	sink := b.State(sinkName)

	for _, id := range m.AllStateIDs() {
		var errLabel pred.Predicate
		for _, tr := range m.Out(id) {
			targets := make(map[automaton.StateID]bool, len(tr.Targets))
			for _, t := range tr.Targets {
				if canReachFinal[t] {
					targets[t] = true
				} else {
					targets[sink] = true
				}
			}
			for t := range targets {
				b.AddTransition(id, tr.Label, t)
			}
			if !tr.Label.IsEpsilon() {
				neg := tr.Label.Negate()
				if errLabel == nil {
					errLabel = neg
				} else {
					errLabel = errLabel.And(neg)
				}
			}
		}
		if errLabel == nil {
			errLabel = proto.Universal()
		}
		if errLabel.IsSatisfiable() {
			b.AddTransition(id, errLabel, sink)
		}
	}
	b.AddTransition(sink, proto.Universal(), sink)

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
