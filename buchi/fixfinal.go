package buchi

import "github.com/symboliclib/automata/automaton"

// FixFinalStates performs the language-preserving transformation of
// spec.md §4.6 that enforces NCSB's precondition — every entry into Q2 is
// final:
//
//  1. every initial state in Q2 with outgoing edges is cloned into a
//     final, initial twin, and removed from I;
//  2. every Q1 --a--> Q2 edge landing on a non-final state is redirected
//     to a final clone of that state.
func FixFinalStates(m *automaton.Machine) (*automaton.Machine, error) {
	split, err := ComputeSplit(m)
	if err != nil {
		return nil, err
	}

	finalSet := make(map[automaton.StateID]bool)
	for _, f := range m.Final(0) {
		finalSet[f] = true
	}

	b := automaton.NewBuilder(m.Kind(), m.Proto())
	for _, s := range m.Alphabet() {
		b.AddSymbol(s)
	}
	for _, id := range m.AllStateIDs() {
		b.State(m.StateName(id))
	}

	clone := make(map[automaton.StateID]automaton.StateID)
	cloneFor := func(orig automaton.StateID) automaton.StateID {
		if c, ok := clone[orig]; ok {
			return c
		}
		name := m.StateName(orig) + "'"
		for b.HasState(name) {
			name += "'"
		}
		c := b.State(name)
		clone[orig] = c
		return c
	}

	newStart := make(map[automaton.StateID]bool)
	for _, s0 := range m.Start() {
		if split.Q2[s0] && len(m.Out(s0)) > 0 {
			newStart[cloneFor(s0)] = true
		} else {
			newStart[s0] = true
		}
	}

	for _, id := range m.AllStateIDs() {
		for _, tr := range m.Out(id) {
			for _, t := range tr.Targets {
				if split.Q1[id] && split.Q2[t] && !finalSet[t] {
					b.AddTransition(id, tr.Label, cloneFor(t))
				} else {
					b.AddTransition(id, tr.Label, t)
				}
			}
		}
	}
	// Clones mirror their original's outgoing edges verbatim: a clone is
	// only ever created for a Q2 state, so its own transitions never need
	// the Q1-entry retargeting rule.
	for orig, c := range clone {
		for _, tr := range m.Out(orig) {
			for _, t := range tr.Targets {
				b.AddTransition(c, tr.Label, t)
			}
		}
	}

	for s0 := range newStart {
		b.AddStart(s0)
	}
	for f := range finalSet {
		b.AddFinal(0, f)
	}
	for _, c := range clone {
		b.AddFinal(0, c)
	}
	return b.Build(), nil
}
