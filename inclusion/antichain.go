package inclusion

import (
	"sort"

	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/classical"
	"github.com/symboliclib/automata/pred"
	"github.com/symboliclib/automata/symbolic"
)

// sim is the minimal interface both classical.Simulation and
// symbolic.Simulation satisfy, letting the antichain algorithm stay
// automaton-kind agnostic.
type sim interface {
	Simulates(p, q automaton.StateID) bool
	SimulatesSet(p, q []automaton.StateID) bool
}

func computeSimulation(m *automaton.Machine) sim {
	if m.Kind() == automaton.LFA {
		return classical.ComputeSimulation(m)
	}
	return symbolic.ComputeSimulation(m)
}

type achPair struct {
	p automaton.StateID
	q []automaton.StateID // sorted, deduplicated
}

func sortStates(ids []automaton.StateID) []automaton.StateID {
	out := append([]automaton.StateID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	dedup := out[:0]
	var last automaton.StateID = automaton.InvalidState
	first := true
	for _, id := range out {
		if first || id != last {
			dedup = append(dedup, id)
			last = id
			first = false
		}
	}
	return dedup
}

// minimizeBySimulation drops q ∈ Q dominated by another q' ∈ Q with
// q ≼ q' (q' already covers everything q can match), keeping only the
// maximal elements; of states that simulate each other, the first in q is
// kept (spec.md §4.5 "antichain minimization").
func minimizeBySimulation(q []automaton.StateID, simB sim) []automaton.StateID {
	var out []automaton.StateID
	for i, qi := range q {
		dominated := false
		for j, qj := range q {
			if i == j {
				continue
			}
			if simB.Simulates(qi, qj) && (!simB.Simulates(qj, qi) || j < i) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, qi)
		}
	}
	return out
}

func containsPair(seen []achPair, p achPair, simA, simB sim) bool {
	for _, s := range seen {
		if p.p == s.p || simA.Simulates(p.p, s.p) {
			if simB.SimulatesSet(p.q, s.q) {
				return true
			}
		}
	}
	return false
}

func succOn(m *automaton.Machine, q []automaton.StateID, a pred.Sym) []automaton.StateID {
	var out []automaton.StateID
	for _, id := range q {
		for _, tr := range m.Out(id) {
			if !tr.Label.IsEpsilon() && tr.Label.HasSymbol(a) {
				out = append(out, tr.Targets...)
			}
		}
	}
	return sortStates(out)
}

// Antichain decides L(a) ⊆ L(b) via the antichain-with-simulation-pruning
// algorithm of spec.md §4.5 strategy 3: it explores pairs (p, Q) with
// p ∈ Q_A reachable and Q ⊆ Q_B the simulated set of B-states; a pair with
// p final in A and no element of Q final in B witnesses non-inclusion.
func Antichain(a, b *automaton.Machine) (Result, error) {
	simA := computeSimulation(a)
	simB := computeSimulation(b)

	alphabet := append(append([]pred.Sym(nil), a.Alphabet()...), b.Alphabet()...)

	bFinal := make(map[automaton.StateID]bool)
	for _, f := range b.Final(0) {
		bFinal[f] = true
	}
	isBad := func(p achPair) bool {
		if !a.IsFinal(p.p) {
			return false
		}
		for _, q := range p.q {
			if bFinal[q] {
				return false
			}
		}
		return true
	}

	var seen []achPair
	var queue []achPair

	startQ := minimizeBySimulation(sortStates(b.Start()), simB)
	for _, p0 := range a.Start() {
		pair := achPair{p0, startQ}
		if isBad(pair) {
			return Result{Included: false, Witness: &Witness{P: pair.p, Q: pair.q}}, nil
		}
		if !containsPair(seen, pair, simA, simB) {
			seen = append(seen, pair)
			queue = append(queue, pair)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, sym := range alphabet {
			nq := minimizeBySimulation(succOn(b, cur.q, sym), simB)
			for _, tr := range a.Out(cur.p) {
				if tr.Label.IsEpsilon() || !tr.Label.HasSymbol(sym) {
					continue
				}
				for _, np := range tr.Targets {
					npair := achPair{np, nq}
					if isBad(npair) {
						return Result{Included: false, Witness: &Witness{P: npair.p, Q: npair.q}}, nil
					}
					if containsPair(seen, npair, simA, simB) {
						continue
					}
					seen = removeDominated(seen, npair, simA, simB)
					seen = append(seen, npair)
					queue = append(queue, npair)
				}
			}
		}
	}
	return Result{Included: true}, nil
}

// removeDominated drops any previously-seen pair that npair now dominates,
// keeping the antichain minimal.
func removeDominated(seen []achPair, npair achPair, simA, simB sim) []achPair {
	out := seen[:0]
	for _, s := range seen {
		if (s.p == npair.p || simA.Simulates(s.p, npair.p)) && simB.SimulatesSet(s.q, npair.q) {
			continue
		}
		out = append(out, s)
	}
	return out
}
