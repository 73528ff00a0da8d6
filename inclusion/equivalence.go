package inclusion

import (
	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/classical"
	"github.com/symboliclib/automata/symbolic"
)

// Equivalence decides L(a) = L(b) as L(a) ⊆ L(b) ∧ L(b) ⊆ L(a), using the
// antichain strategy (the fastest of the three) by default.
func Equivalence(a, b *automaton.Machine) (Result, error) {
	ab, err := Antichain(a, b)
	if err != nil {
		return Result{}, err
	}
	if !ab.Included {
		return ab, nil
	}
	ba, err := Antichain(b, a)
	if err != nil {
		return Result{}, err
	}
	return ba, nil
}

// Universality decides L(m) = Σ* by completing m, dropping the states the
// completed machine cannot reach, minimizing, and checking that every
// resulting state is final (spec.md §4.5).
func Universality(m *automaton.Machine) (Result, error) {
	var det *automaton.Machine
	var err error
	if m.Kind() == automaton.LFA {
		det = classical.Complete(classical.Determinize(m))
	} else {
		det, err = symbolic.Determinize(m)
		if err != nil {
			return Result{}, err
		}
		det = symbolic.Complete(det)
	}
	det = automaton.RemoveUnreachable(det)
	min, err := symbolic.Minimize(det)
	if err != nil {
		return Result{}, err
	}
	for _, id := range min.AllStateIDs() {
		if !min.IsFinal(id) {
			return Result{Included: false}, nil
		}
	}
	return Result{Included: true}, nil
}
