// Package inclusion implements the three language-inclusion strategies of
// spec.md §4.5: a naive product-with-complement check, pair-reachability on
// completed DFAs, and an antichain search pruned by simulation. All three
// decide the same question, L(a) ⊆ L(b), and are cross-checkable against
// each other (spec.md §8 testable property 6).
package inclusion

import (
	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/classical"
	"github.com/symboliclib/automata/pred"
	"github.com/symboliclib/automata/symbolic"
)

// Witness explains a non-inclusion verdict: either a concrete accepted word
// of a that is rejected by b (Word != nil), or the antichain pair (P, Q)
// that proved it (spec.md §7 kind 3).
type Witness struct {
	Word []pred.Sym
	P    automaton.StateID
	Q    []automaton.StateID
}

// Result is the outcome of an inclusion, equivalence, or universality check.
type Result struct {
	Included bool
	Witness  *Witness
}

func withAlphabet(m *automaton.Machine, extra []pred.Sym) *automaton.Machine {
	b := automaton.NewBuilder(m.Kind(), m.Proto())
	for _, s := range m.Alphabet() {
		b.AddSymbol(s)
	}
	for _, s := range extra {
		b.AddSymbol(s)
	}
	for _, id := range m.AllStateIDs() {
		b.State(m.StateName(id))
	}
	for _, id := range m.AllStateIDs() {
		for _, tr := range m.Out(id) {
			for _, t := range tr.Targets {
				b.AddTransition(id, tr.Label, t)
			}
		}
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

func complement(m *automaton.Machine) (*automaton.Machine, error) {
	if m.Kind() == automaton.LFA {
		det := classical.Determinize(m)
		comp := classical.Complete(det)
		b := automaton.NewBuilder(comp.Kind(), comp.Proto())
		for _, s := range comp.Alphabet() {
			b.AddSymbol(s)
		}
		for _, id := range comp.AllStateIDs() {
			b.State(comp.StateName(id))
		}
		for _, id := range comp.AllStateIDs() {
			for _, tr := range comp.Out(id) {
				for _, t := range tr.Targets {
					b.AddTransition(id, tr.Label, t)
				}
			}
		}
		for _, s := range comp.Start() {
			b.AddStart(s)
		}
		for _, id := range comp.AllStateIDs() {
			if !comp.IsFinal(id) {
				b.AddFinal(0, id)
			}
		}
		return b.Build(), nil
	}
	return symbolic.Complement(m)
}

// Simple decides L(a) ⊆ L(b) by computing A ∩ complement(B) over the union
// of both alphabets and checking emptiness (spec.md §4.5 strategy 1).
func Simple(a, b *automaton.Machine) (Result, error) {
	union := append(append([]pred.Sym(nil), a.Alphabet()...), b.Alphabet()...)
	bb := withAlphabet(b, union)
	notB, err := complement(bb)
	if err != nil {
		return Result{}, err
	}
	product := automaton.ProductIntersection(a, notB)
	if automaton.IsEmpty(product) {
		return Result{Included: true}, nil
	}
	return Result{Included: false}, nil
}
