package symbolic

import (
	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/pred"
)

// Simulation is a computed simulation preorder ≼ over the states of one
// completed symbolic automaton (spec.md §4.4, generalizing classical's
// letter-indexed version by iterating concrete a ∈ A and aggregating over
// every predicate whose HasSymbol(a) holds).
type Simulation struct {
	notSim map[simPair]bool
}

type simPair struct{ p, q automaton.StateID }

// Simulates reports whether p ≼ q, i.e. q simulates p.
func (s *Simulation) Simulates(p, q automaton.StateID) bool {
	if p == q {
		return true
	}
	return !s.notSim[simPair{p, q}]
}

// SimulatesSet lifts Simulates to the superstate relation used by antichain
// inclusion (spec.md §4.5): P ≼ Q iff every p ∈ P is simulated by some
// q ∈ Q.
func (s *Simulation) SimulatesSet(p, q []automaton.StateID) bool {
	for _, pp := range p {
		ok := false
		for _, qq := range q {
			if s.Simulates(pp, qq) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

type cardKey struct {
	q automaton.StateID
	a pred.Sym
}

type nKey struct {
	a pred.Sym
	i automaton.StateID
	k automaton.StateID
}

// ComputeSimulation computes the simulation preorder of m, completing it
// first so every state has a successor for every observed symbol.
func ComputeSimulation(m *automaton.Machine) *Simulation {
	complete := Complete(m)
	alphabet := complete.Alphabet()

	card := make(map[cardKey]int)
	for _, q := range complete.AllStateIDs() {
		for _, a := range alphabet {
			n := 0
			for _, tr := range complete.Out(q) {
				if !tr.Label.IsEpsilon() && tr.Label.HasSymbol(a) {
					n += len(tr.Targets)
				}
			}
			card[cardKey{q, a}] = n
		}
	}

	rev := make(map[automaton.StateID]map[pred.Sym][]automaton.StateID)
	for _, src := range complete.AllStateIDs() {
		for _, tr := range complete.Out(src) {
			if tr.Label.IsEpsilon() {
				continue
			}
			for _, a := range alphabet {
				if !tr.Label.HasSymbol(a) {
					continue
				}
				for _, dst := range tr.Targets {
					if rev[dst] == nil {
						rev[dst] = make(map[pred.Sym][]automaton.StateID)
					}
					rev[dst][a] = append(rev[dst][a], src)
				}
			}
		}
	}

	final := make(map[automaton.StateID]bool)
	for _, f := range complete.Final(0) {
		final[f] = true
	}

	notSim := make(map[simPair]bool)
	var worklist []simPair
	push := func(p simPair) {
		if !notSim[p] {
			notSim[p] = true
			worklist = append(worklist, p)
		}
	}
	for _, f := range complete.Final(0) {
		for _, q := range complete.AllStateIDs() {
			if !final[q] {
				push(simPair{f, q})
			}
		}
	}

	n := make(map[nKey]int)
	for len(worklist) > 0 {
		item := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		i, j := item.p, item.q
		for _, a := range alphabet {
			for _, k := range rev[j][a] {
				key := nKey{a, i, k}
				n[key]++
				if n[key] == card[cardKey{k, a}] {
					for _, l := range rev[i][a] {
						push(simPair{l, k})
					}
				}
			}
		}
	}
	return &Simulation{notSim: notSim}
}
