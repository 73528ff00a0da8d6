package classical

import (
	"testing"

	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/pred"
)

// nfaAB builds A = ({a,b}, {q0,q1,q2}, {q0}, {q2},
//
//	{ q0 -a-> q0, q0 -a-> q1, q1 -b-> q2 })
//
// the determinization-split scenario from spec.md §8.
func nfaAB() *automaton.Machine {
	b := automaton.NewBuilder(automaton.LFA, pred.LetterFactory{})
	b.AddSymbol("a")
	b.AddSymbol("b")
	q0 := b.State("q0")
	q1 := b.State("q1")
	q2 := b.State("q2")
	b.AddStart(q0)
	b.AddFinal(0, q2)
	b.AddTransition(q0, pred.NewLetter("a"), q0)
	b.AddTransition(q0, pred.NewLetter("a"), q1)
	b.AddTransition(q1, pred.NewLetter("b"), q2)
	return b.Build()
}

func TestDeterminizeProducesExpectedSplit(t *testing.T) {
	m := nfaAB()
	det := Determinize(m)

	if !automaton.IsDeterministic(det) {
		t.Fatal("Determinize must produce a deterministic machine")
	}

	q0q1, ok := det.StateByName("q0,q1")
	if !ok {
		t.Fatalf("expected a composite state named %q, got states: %v", "q0,q1", det.AllStateIDs())
	}
	foundA, foundB := false, false
	for _, tr := range det.Out(q0q1) {
		if tr.Label.HasSymbol("a") {
			foundA = true
			if len(tr.Targets) != 1 || det.StateName(tr.Targets[0]) != "q0,q1" {
				t.Fatalf("expected a-> q0,q1 self loop, got target %v", tr.Targets)
			}
		}
		if tr.Label.HasSymbol("b") {
			foundB = true
			if len(tr.Targets) != 1 || det.StateName(tr.Targets[0]) != "q2" {
				t.Fatalf("expected b-> q2, got target %v", tr.Targets)
			}
		}
	}
	if !foundA || !foundB {
		t.Fatalf("expected both a and b transitions out of q0,q1: foundA=%v foundB=%v", foundA, foundB)
	}
	q2, ok := det.StateByName("q2")
	if !ok || !det.IsFinal(q2) {
		t.Fatal("expected q2 to be the unique final composite state")
	}
}

func TestDeterminizePreservesLanguage(t *testing.T) {
	m := nfaAB()
	det := Determinize(m)
	if automaton.IsEmpty(m) != automaton.IsEmpty(det) {
		t.Fatal("determinization must preserve emptiness")
	}
}

func TestCompleteAddsSinkForMissingSymbols(t *testing.T) {
	b := automaton.NewBuilder(automaton.LFA, pred.LetterFactory{})
	b.AddSymbol("a")
	b.AddSymbol("b")
	q0 := b.State("q0")
	b.AddStart(q0)
	m := b.Build() // q0 has no outgoing transitions at all

	complete := Complete(m)
	cq0, _ := complete.StateByName("q0")
	if len(complete.Out(cq0)) != 2 {
		t.Fatalf("expected 2 outgoing transitions (a,b) to sink, got %d", len(complete.Out(cq0)))
	}
}

func TestSimulationReflexive(t *testing.T) {
	m := nfaAB()
	sim := ComputeSimulation(m)
	for _, id := range m.AllStateIDs() {
		if !sim.Simulates(id, id) {
			t.Fatalf("simulation preorder must be reflexive: state %d does not simulate itself", id)
		}
	}
}

func TestSimulationFinalityRespected(t *testing.T) {
	m := nfaAB()
	sim := ComputeSimulation(m)
	q2, _ := m.StateByName("q2")
	q0, _ := m.StateByName("q0")
	if sim.Simulates(q2, q0) {
		t.Fatal("a final state cannot be simulated by a non-final state")
	}
}
