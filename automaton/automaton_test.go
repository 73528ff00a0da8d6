package automaton

import (
	"testing"

	"github.com/symboliclib/automata/pred"
)

// letterMachine builds a tiny LFA accepting the language {"a" "b"} (two
// one-letter words) over states q0 -a-> q1(final), q0 -b-> q2(final).
func letterMachine() *Machine {
	b := NewBuilder(LFA, pred.LetterFactory{})
	b.AddSymbol("a")
	b.AddSymbol("b")
	q0 := b.State("q0")
	q1 := b.State("q1")
	q2 := b.State("q2")
	b.AddStart(q0)
	b.AddFinal(0, q1)
	b.AddFinal(0, q2)
	b.AddTransition(q0, pred.NewLetter("a"), q1)
	b.AddTransition(q0, pred.NewLetter("b"), q2)
	return b.Build()
}

func TestBuilderIdempotentState(t *testing.T) {
	b := NewBuilder(LFA, pred.LetterFactory{})
	a := b.State("x")
	c := b.State("x")
	if a != c {
		t.Fatalf("State(%q) not idempotent: %d != %d", "x", a, c)
	}
}

func TestValidateAcceptsWellFormedMachine(t *testing.T) {
	m := letterMachine()
	if err := Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsDanglingState(t *testing.T) {
	b := NewBuilder(LFA, pred.LetterFactory{})
	q0 := b.State("q0")
	b.AddStart(q0)
	m := b.Build()
	// Craft a dangling transition target by hand, bypassing AddTransition's
	// own bounds (which only guards against unsatisfiable labels).
	m.states[0].out = []Transition{{Label: pred.NewLetter("a"), Targets: []StateID{StateID(99)}}}
	if err := Validate(m); err == nil {
		t.Fatal("Validate: expected error for dangling transition target")
	}
}

func TestIsDeterministic(t *testing.T) {
	m := letterMachine()
	if !IsDeterministic(m) {
		t.Fatal("expected letterMachine to be deterministic")
	}

	b := NewBuilder(LFA, pred.LetterFactory{})
	b.AddSymbol("a")
	q0 := b.State("q0")
	q1 := b.State("q1")
	q2 := b.State("q2")
	b.AddStart(q0)
	b.AddFinal(0, q1)
	b.AddFinal(0, q2)
	b.AddTransition(q0, pred.NewLetter("a"), q1)
	b.AddTransition(q0, pred.NewLetter("a"), q2)
	nd := b.Build()
	if IsDeterministic(nd) {
		t.Fatal("expected two a-transitions from q0 to make the machine nondeterministic")
	}
}

func TestIsEmpty(t *testing.T) {
	m := letterMachine()
	if IsEmpty(m) {
		t.Fatal("letterMachine should not be empty")
	}

	b := NewBuilder(LFA, pred.LetterFactory{})
	b.AddSymbol("a")
	q0 := b.State("q0")
	q1 := b.State("q1")
	b.AddStart(q0)
	b.AddFinal(0, q1)
	// no transition from q0 to q1: q1 unreachable, language empty
	empty := b.Build()
	if !IsEmpty(empty) {
		t.Fatal("expected language to be empty when the only final state is unreachable")
	}
}

func TestReverseIsInvolutive(t *testing.T) {
	m := letterMachine()
	rr := Reverse(Reverse(m))
	if rr.NumStates() != m.NumStates() {
		t.Fatalf("Reverse(Reverse(m)) changed state count: got %d want %d", rr.NumStates(), m.NumStates())
	}
	for _, id := range m.AllStateIDs() {
		name := m.StateName(id)
		rid, ok := rr.StateByName(name)
		if !ok {
			t.Fatalf("state %q missing after double reversal", name)
		}
		if len(m.Out(id)) != len(rr.Out(rid)) {
			t.Fatalf("state %q transition count changed: got %d want %d", name, len(rr.Out(rid)), len(m.Out(id)))
		}
	}
}

func TestRemoveUnreachable(t *testing.T) {
	b := NewBuilder(LFA, pred.LetterFactory{})
	b.AddSymbol("a")
	q0 := b.State("q0")
	b.State("stray")
	b.AddStart(q0)
	b.AddFinal(0, q0)
	m := b.Build()
	reduced := RemoveUnreachable(m)
	if reduced.NumStates() != 1 {
		t.Fatalf("expected 1 reachable state, got %d", reduced.NumStates())
	}
}

func TestRemoveUseless(t *testing.T) {
	b := NewBuilder(LFA, pred.LetterFactory{})
	b.AddSymbol("a")
	q0 := b.State("q0")
	q1 := b.State("dead")
	b.AddStart(q0)
	b.AddTransition(q0, pred.NewLetter("a"), q1)
	// q1 has no outgoing path to any final state and is not itself final.
	m := b.Build()
	reduced := RemoveUseless(m)
	if _, ok := reduced.StateByName("dead"); ok {
		t.Fatal("expected useless state 'dead' to be removed")
	}
	if _, ok := reduced.StateByName("q0"); !ok {
		t.Fatal("start state must survive RemoveUseless even if it cannot reach a final state")
	}
}

func TestUnionCombinesLanguages(t *testing.T) {
	left := letterMachine()

	b := NewBuilder(LFA, pred.LetterFactory{})
	b.AddSymbol("c")
	q0 := b.State("q0")
	q1 := b.State("q1")
	b.AddStart(q0)
	b.AddFinal(0, q1)
	b.AddTransition(q0, pred.NewLetter("c"), q1)
	right := b.Build()

	u := Union(left, right)
	if len(u.Start()) != 2 {
		t.Fatalf("expected 2 start states after union, got %d", len(u.Start()))
	}
	if IsEmpty(u) {
		t.Fatal("union of two nonempty languages must be nonempty")
	}
}

func TestProductIntersectionOfDisjointLanguagesIsEmpty(t *testing.T) {
	left := letterMachine() // accepts {a, b}

	b := NewBuilder(LFA, pred.LetterFactory{})
	b.AddSymbol("c")
	q0 := b.State("q0")
	q1 := b.State("q1")
	b.AddStart(q0)
	b.AddFinal(0, q1)
	b.AddTransition(q0, pred.NewLetter("c"), q1)
	right := b.Build()

	p := ProductIntersection(left, right)
	if !IsEmpty(p) {
		t.Fatal("expected product of disjoint-alphabet languages to be empty")
	}
}

func TestProductIntersectionSharedWord(t *testing.T) {
	b1 := NewBuilder(LFA, pred.LetterFactory{})
	b1.AddSymbol("a")
	q0 := b1.State("q0")
	q1 := b1.State("q1")
	b1.AddStart(q0)
	b1.AddFinal(0, q1)
	b1.AddTransition(q0, pred.NewLetter("a"), q1)
	m1 := b1.Build()

	b2 := NewBuilder(LFA, pred.LetterFactory{})
	b2.AddSymbol("a")
	r0 := b2.State("r0")
	r1 := b2.State("r1")
	b2.AddStart(r0)
	b2.AddFinal(0, r1)
	b2.AddTransition(r0, pred.NewLetter("a"), r1)
	m2 := b2.Build()

	p := ProductIntersection(m1, m2)
	if IsEmpty(p) {
		t.Fatal("expected product to accept the shared word \"a\"")
	}
}

func TestCompactTransitionsMergesSameTargetSet(t *testing.T) {
	b := NewBuilder(SA, pred.InNotinFactory{})
	q0 := b.State("q0")
	q1 := b.State("q1")
	b.AddStart(q0)
	b.AddFinal(0, q1)
	b.AddTransition(q0, pred.NewIn("x"), q1)
	b.AddTransition(q0, pred.NewIn("y"), q1)
	m := b.Build()
	if len(m.Out(q0)) != 2 {
		t.Fatalf("expected 2 transitions before compaction, got %d", len(m.Out(q0)))
	}
	compact := CompactTransitions(m)
	cq0, _ := compact.StateByName("q0")
	if len(compact.Out(cq0)) != 1 {
		t.Fatalf("expected transitions to same target set to merge into 1, got %d", len(compact.Out(cq0)))
	}
}

func TestRemoveEpsilonPreservesLanguage(t *testing.T) {
	b := NewBuilder(LFA, pred.LetterFactory{})
	b.AddSymbol("a")
	q0 := b.State("q0")
	q1 := b.State("q1")
	q2 := b.State("q2")
	b.AddStart(q0)
	b.AddFinal(0, q2)
	b.AddTransition(q0, pred.Epsilon{}, q1)
	b.AddTransition(q1, pred.NewLetter("a"), q2)
	m := b.Build()
	if IsEpsilonFree(m) {
		t.Fatal("expected constructed machine to contain an epsilon transition")
	}
	free := RemoveEpsilon(m)
	if !IsEpsilonFree(free) {
		t.Fatal("RemoveEpsilon left an epsilon transition behind")
	}
	if IsEmpty(free) {
		t.Fatal("RemoveEpsilon must preserve the accepted language")
	}
}
