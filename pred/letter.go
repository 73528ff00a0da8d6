package pred

// Letter is the simplest predicate variant: a singleton {sym} or the empty
// (unsat) predicate. It cannot express unions — callers needing several
// letters on one transition must keep distinct Letter predicates on distinct
// transitions (spec.md §4.1).
type Letter struct {
	sym    Sym
	isUnsat bool
}

// NewLetter returns the predicate denoting exactly {sym}.
func NewLetter(sym Sym) Letter {
	return Letter{sym: sym}
}

// UnsatLetter returns the unsatisfiable Letter predicate.
func UnsatLetter() Letter {
	return Letter{isUnsat: true}
}

// Symbol returns the letter's symbol and whether this is not the unsat
// predicate.
func (l Letter) Symbol() (Sym, bool) {
	return l.sym, !l.isUnsat
}

// Kind implements Predicate.
func (Letter) Kind() Kind { return KindLetter }

// IsEpsilon implements Predicate.
func (Letter) IsEpsilon() bool { return false }

// IsSatisfiable implements Predicate.
func (l Letter) IsSatisfiable() bool { return !l.isUnsat }

// HasSymbol implements Predicate.
func (l Letter) HasSymbol(sym Sym) bool {
	return !l.isUnsat && l.sym == sym
}

// Equals implements Predicate.
func (l Letter) Equals(other Predicate) bool {
	o, ok := other.(Letter)
	if !ok {
		return false
	}
	if l.isUnsat || o.isUnsat {
		return l.isUnsat == o.isUnsat
	}
	return l.sym == o.sym
}

// IsSubsetOf implements Predicate.
func (l Letter) IsSubsetOf(other Predicate) bool {
	if l.isUnsat {
		return true
	}
	return other.HasSymbol(l.sym)
}

// Negate implements Predicate.
//
// Letter cannot represent "everything but one symbol" within its own
// variant (it has no union), nor the universal predicate, so Negate always
// returns the unsat Letter, for a singleton and for unsat alike; it is not
// a true complement. Pattern-matching code that needs a true complement of
// a Letter should work over InNotin instead.
func (l Letter) Negate() Predicate {
	if l.isUnsat {
		return l // complement of unsat within Letter-only reasoning is left unsat;
		// true universal needs InNotin.
	}
	return UnsatLetter()
}

// And implements Predicate: conjunction of two letters is unsat unless they
// denote the same symbol.
func (l Letter) And(other Predicate) Predicate {
	o, ok := other.(Letter)
	if !ok || l.isUnsat || o.isUnsat {
		return UnsatLetter()
	}
	if l.sym != o.sym {
		return UnsatLetter()
	}
	return l
}

// Or implements Predicate: disjunction is {sym} iff both sides denote the
// same symbol, else unsat (Letter cannot express a union of two distinct
// symbols).
func (l Letter) Or(other Predicate) Predicate {
	o, ok := other.(Letter)
	if !ok {
		return UnsatLetter()
	}
	if l.isUnsat {
		return o
	}
	if o.isUnsat {
		return l
	}
	if l.sym == o.sym {
		return l
	}
	return UnsatLetter()
}

// String implements Predicate, rendering Timbuk letter syntax.
func (l Letter) String() string {
	if l.isUnsat {
		return ""
	}
	return l.sym
}

// LetterFactory constructs Letter predicates.
type LetterFactory struct{}

// Kind implements Factory.
func (LetterFactory) Kind() Kind { return KindLetter }

// Universal implements Factory.
//
// Letter has no representation for "every symbol"; callers that need a
// genuinely universal predicate over a Letter-labelled machine should use
// an InNotin factory instead. Universal here returns unsat for
// completeness of the interface, matching the original's letter.py, which
// likewise never defines a true letter-universal.
func (LetterFactory) Universal() Predicate { return UnsatLetter() }

// Unsat implements Factory.
func (LetterFactory) Unsat() Predicate { return UnsatLetter() }

// FromSymbol implements Factory.
func (LetterFactory) FromSymbol(sym Sym) Predicate { return NewLetter(sym) }
