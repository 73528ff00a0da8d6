package pred

import "testing"

func TestLetterAlgebra(t *testing.T) {
	a := NewLetter("a")
	b := NewLetter("b")

	if !a.IsSatisfiable() {
		t.Fatal("letter a should be satisfiable")
	}
	if UnsatLetter().IsSatisfiable() {
		t.Fatal("unsat letter should not be satisfiable")
	}
	if a.And(b).IsSatisfiable() {
		t.Error("a ∧ b should be unsat for distinct letters")
	}
	if !a.And(a).Equals(a) {
		t.Error("a ∧ a should equal a")
	}
	if !a.Or(b).Equals(UnsatLetter()) {
		t.Error("a ∨ b should be unsat: Letter cannot express unions")
	}
	if !a.IsSubsetOf(a) {
		t.Error("a should be subset of itself")
	}
	if a.IsSubsetOf(b) {
		t.Error("a should not be subset of b")
	}
}

func TestInNotinAlgebra(t *testing.T) {
	inAB := NewIn("a", "b")
	inBC := NewIn("b", "c")
	notInA := NewNotIn("a")

	if got := inAB.And(inBC); !got.Equals(NewIn("b")) {
		t.Errorf("in{a,b} ∧ in{b,c} = %v, want in{b}", got)
	}
	if got := inAB.Or(inBC); !got.Equals(NewIn("a", "b", "c")) {
		t.Errorf("in{a,b} ∨ in{b,c} = %v, want in{a,b,c}", got)
	}
	if got := notInA.Negate(); !got.Equals(NewIn("a")) {
		t.Errorf("¬not_in{a} = %v, want in{a}", got)
	}
	if NewIn().IsSatisfiable() {
		t.Error("in{} should be unsatisfiable")
	}
	if !NewNotIn().IsSatisfiable() {
		t.Error("not_in{} (universal) should be satisfiable")
	}
	if !NewIn("a").IsSubsetOf(NewNotIn("b")) {
		t.Error("in{a} should be subset of not_in{b}")
	}
	if !NewIn("a", "b").HasSymbol("a") || NewIn("a", "b").HasSymbol("c") {
		t.Error("in{a,b}.HasSymbol mismatch")
	}
	if NewNotIn("a").HasSymbol("a") || !NewNotIn("a").HasSymbol("b") {
		t.Error("not_in{a}.HasSymbol mismatch")
	}
}

func TestTransAlgebra(t *testing.T) {
	f := TransFactory{Component: InNotinFactory{}}
	swap := NewTrans(NewIn("a"), NewIn("b"))
	id := NewIdentityTrans(NewIn("a", "b"), NewIn("a", "b"))

	if !swap.Translates("a", "b") {
		t.Error("swap should translate a -> b")
	}
	if swap.Translates("a", "a") {
		t.Error("swap should not translate a -> a")
	}
	if !id.Translates("a", "a") {
		t.Error("identity should translate a -> a")
	}
	if id.Translates("a", "b") {
		t.Error("identity should not translate a -> b")
	}

	combined := swap.Combine(NewTrans(NewIn("b"), NewIn("c")))
	if combined.Identity {
		t.Error("combining two non-identity labels should stay non-identity")
	}
	if !combined.In.Equals(NewIn("a")) || !combined.Out.Equals(NewIn("c")) {
		t.Errorf("combine(a/b, b/c) = %v, want a/c", combined)
	}

	if got, ok := f.Pair("a", "b").(Trans); !ok || got.In.Kind() != KindInNotin {
		t.Error("TransFactory.Pair should build InNotin components")
	}

	out, ok := swap.Translate("a", []Sym{"a", "b"})
	if !ok || out != "b" {
		t.Errorf("swap.Translate(a) = (%q, %v), want (b, true)", out, ok)
	}
}

func TestEpsilon(t *testing.T) {
	e := Epsilon{}
	if !e.IsEpsilon() {
		t.Error("Epsilon.IsEpsilon should be true")
	}
	if e.HasSymbol("a") {
		t.Error("Epsilon should never match a concrete symbol")
	}
	if !e.Equals(Epsilon{}) {
		t.Error("Epsilon should equal itself")
	}
	if e.Equals(NewLetter("a")) {
		t.Error("Epsilon should not equal a Letter predicate")
	}
}
