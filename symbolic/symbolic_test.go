package symbolic

import (
	"testing"

	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/pred"
)

// overlapMachine builds an SA with two overlapping In-predicates out of the
// start state, forcing Determinize to exercise mergeTransition's three-way
// split: q0 -in{x,y}-> q1, q0 -in{y,z}-> q2.
func overlapMachine() *automaton.Machine {
	b := automaton.NewBuilder(automaton.SA, pred.InNotinFactory{})
	q0 := b.State("q0")
	q1 := b.State("q1")
	q2 := b.State("q2")
	b.AddStart(q0)
	b.AddFinal(0, q1)
	b.AddFinal(0, q2)
	b.AddTransition(q0, pred.NewIn("x", "y"), q1)
	b.AddTransition(q0, pred.NewIn("y", "z"), q2)
	return b.Build()
}

func TestDeterminizeSplitsOverlap(t *testing.T) {
	det, err := Determinize(overlapMachine())
	if err != nil {
		t.Fatalf("Determinize: %v", err)
	}
	if !automaton.IsDeterministic(det) {
		t.Fatal("Determinize must produce pairwise mutually unsatisfiable guards")
	}
	q0, ok := det.StateByName("q0")
	if !ok {
		t.Fatal("expected start state q0 to survive determinization")
	}
	for i, tr1 := range det.Out(q0) {
		for j, tr2 := range det.Out(q0) {
			if i == j {
				continue
			}
			if tr1.Label.And(tr2.Label).IsSatisfiable() {
				t.Fatalf("outgoing guards %s and %s are not mutually exclusive", tr1.Label, tr2.Label)
			}
		}
	}
}

func TestDeterminizeAlreadyDeterministicIsNoop(t *testing.T) {
	b := automaton.NewBuilder(automaton.SA, pred.InNotinFactory{})
	q0 := b.State("q0")
	q1 := b.State("q1")
	b.AddStart(q0)
	b.AddFinal(0, q1)
	b.AddTransition(q0, pred.NewIn("x"), q1)
	m := b.Build()
	det, err := Determinize(m)
	if err != nil {
		t.Fatalf("Determinize: %v", err)
	}
	if det.NumStates() != m.NumStates() {
		t.Fatalf("expected state count unchanged for already-deterministic input, got %d want %d", det.NumStates(), m.NumStates())
	}
}

func TestCompleteAddsErrorTransition(t *testing.T) {
	b := automaton.NewBuilder(automaton.SA, pred.InNotinFactory{})
	q0 := b.State("q0")
	q1 := b.State("q1")
	b.AddStart(q0)
	b.AddFinal(0, q1)
	b.AddTransition(q0, pred.NewIn("x"), q1)
	m := b.Build()

	complete := Complete(m)
	sink, ok := complete.StateByName(sinkName)
	if !ok {
		t.Fatal("expected a sink state after Complete")
	}
	q0c, _ := complete.StateByName("q0")
	found := false
	for _, tr := range complete.Out(q0c) {
		for _, t := range tr.Targets {
			if t == sink {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected an error transition from q0 to the sink for symbols outside {x}")
	}
}

func TestComplementInvertsAcceptance(t *testing.T) {
	b := automaton.NewBuilder(automaton.SA, pred.InNotinFactory{})
	q0 := b.State("q0")
	q1 := b.State("q1")
	b.AddStart(q0)
	b.AddFinal(0, q1)
	b.AddTransition(q0, pred.NewIn("x"), q1)
	m := b.Build()

	comp, err := Complement(m)
	if err != nil {
		t.Fatalf("Complement: %v", err)
	}
	// The empty word is rejected by m (q0 is not final) so it must be
	// accepted by the complement.
	q0c, ok := comp.StateByName("q0")
	if !ok {
		t.Fatal("expected q0 to survive complementation")
	}
	if !comp.IsFinal(q0c) {
		t.Fatal("expected the complement to accept the empty word rejected by the original")
	}
}

func TestMinimizeRejectsNonDeterministic(t *testing.T) {
	_, err := Minimize(overlapMachine())
	if err == nil {
		t.Fatal("expected Minimize to reject a non-deterministic machine")
	}
}

func TestMinimizePreservesLanguage(t *testing.T) {
	det, err := Determinize(overlapMachine())
	if err != nil {
		t.Fatalf("Determinize: %v", err)
	}
	min, err := Minimize(det)
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if automaton.IsEmpty(det) != automaton.IsEmpty(min) {
		t.Fatal("Minimize must preserve emptiness")
	}
}

func TestSimulationReflexive(t *testing.T) {
	m := overlapMachine()
	sim := ComputeSimulation(m)
	for _, id := range m.AllStateIDs() {
		if !sim.Simulates(id, id) {
			t.Fatalf("simulation preorder must be reflexive: state %d does not simulate itself", id)
		}
	}
}
