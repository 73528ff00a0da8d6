package buchi

import (
	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/internal/stateset"
	"github.com/symboliclib/automata/pred"
)

// pair is a product state (q1, q2), grounded on the same pairing idiom as
// automaton.ProductIntersection.
type pair struct{ a, b automaton.StateID }

// Intersection builds the product of two (generalized) Büchi automata with
// generalized acceptance, per spec.md §4.6's closing construction: a run
// accepts iff it visits F1 and F2 infinitely often, which a single-set
// Büchi product cannot express directly, so the result carries two
// acceptance sets F1' = {(q1,q2) : q1 ∈ F1} and F2' = {(q1,q2) : q2 ∈ F2}
// rather than collapsing them into one via a round-robin flag state.
func Intersection(a, b *automaton.Machine) *automaton.Machine {
	out := automaton.NewBuilder(automaton.GBA, a.Proto())
	for _, s := range a.Alphabet() {
		if b.HasSymbolInAlphabet(s) {
			out.AddSymbol(s)
		}
	}

	name := func(p pair) string {
		return stateset.Pair(a.StateName(p.a), b.StateName(p.b))
	}

	queue := make([]pair, 0)
	seen := make(map[pair]bool)

	for _, s1 := range a.Start() {
		for _, s2 := range b.Start() {
			p := pair{s1, s2}
			id := out.State(name(p))
			out.AddStart(id)
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		id := out.State(name(p))
		if a.IsFinal(p.a) {
			out.AddFinal(0, id)
		}
		if b.IsFinal(p.b) {
			out.AddFinal(1, id)
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
						nid := out.State(name(np))
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
	return out.Build()
}
