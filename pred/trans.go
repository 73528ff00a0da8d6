package pred

import "sort"

// Trans is the transducer predicate variant: a pair (In, Out, Identity).
// When Identity is true the label relates only symbol pairs where the
// output equals the input and both satisfy In ∧ Out (spec.md §3).
type Trans struct {
	In, Out  Predicate
	Identity bool
}

// NewTrans returns a non-identity transducer predicate over the given
// input/output predicates.
func NewTrans(in, out Predicate) Trans {
	return Trans{In: in, Out: out}
}

// NewIdentityTrans returns an identity transducer predicate: runs where
// output == input and both satisfy in ∧ out.
func NewIdentityTrans(in, out Predicate) Trans {
	return Trans{In: in, Out: out, Identity: true}
}

// Kind implements Predicate.
func (Trans) Kind() Kind { return KindTrans }

// IsEpsilon implements Predicate.
func (Trans) IsEpsilon() bool { return false }

// IsSatisfiable implements Predicate.
func (t Trans) IsSatisfiable() bool {
	return t.In.IsSatisfiable() && t.Out.IsSatisfiable()
}

// HasSymbol is not meaningful for a pair predicate in isolation; it reports
// whether sym satisfies the input side, matching the original's use of
// label.input.has_letter(a) when driving a single word through a
// transducer.
func (t Trans) HasSymbol(sym Sym) bool {
	return t.In.HasSymbol(sym)
}

// Equals implements Predicate.
func (t Trans) Equals(other Predicate) bool {
	o, ok := other.(Trans)
	if !ok {
		return false
	}
	return t.Identity == o.Identity && t.In.Equals(o.In) && t.Out.Equals(o.Out)
}

// IsSubsetOf implements Predicate.
func (t Trans) IsSubsetOf(other Predicate) bool {
	o, ok := other.(Trans)
	if !ok {
		return false
	}
	if o.Identity && !t.Identity {
		return false
	}
	return t.In.IsSubsetOf(o.In) && t.Out.IsSubsetOf(o.Out)
}

// Negate implements Predicate: negates both components independently.
func (t Trans) Negate() Predicate {
	return Trans{In: t.In.Negate(), Out: t.Out.Negate(), Identity: t.Identity}
}

// And implements Predicate. Identity propagates by disjunction of the
// identity flags; when the result is identity, both components are
// intersected again and assigned jointly (spec.md §4.1).
func (t Trans) And(other Predicate) Predicate {
	o, ok := other.(Trans)
	if !ok {
		return Trans{In: t.In.And(t.In.Negate()), Out: t.Out, Identity: false}
	}
	result := Trans{Identity: t.Identity || o.Identity}
	if result.Identity {
		joint := t.In.And(o.In).And(t.Out.And(o.Out))
		result.In = joint
		result.Out = joint
	} else {
		result.In = t.In.And(o.In)
		result.Out = t.Out.And(o.Out)
	}
	return result
}

// Or implements Predicate, applied componentwise with the same identity
// propagation rule as And.
func (t Trans) Or(other Predicate) Predicate {
	o, ok := other.(Trans)
	if !ok {
		return t
	}
	result := Trans{Identity: t.Identity || o.Identity}
	if result.Identity {
		joint := t.In.Or(o.In).And(t.Out.Or(o.Out))
		result.In = joint
		result.Out = joint
	} else {
		result.In = t.In.Or(o.In)
		result.Out = t.Out.Or(o.Out)
	}
	return result
}

// String implements Predicate, rendering Timbuk ST syntax: "in/out" or
// "@in/@out" for identity labels.
func (t Trans) String() string {
	if t.Identity {
		return "@" + t.In.String() + "/@" + t.Out.String()
	}
	return t.In.String() + "/" + t.Out.String()
}

// Combine implements the composition rule from spec.md §4.7:
//
//	combine(φ_T, φ_U) = (I_T, O_U, id_T ∨ id_U)
//
// with the additional rule that a combined-identity result collapses both
// components to I_T ∧ O_U.
func (t Trans) Combine(other Trans) Trans {
	result := Trans{Identity: t.Identity || other.Identity}
	if result.Identity {
		joint := t.In.And(other.Out)
		result.In = joint
		result.Out = joint
	} else {
		result.In = t.In
		result.Out = other.Out
	}
	return result
}

// Translates reports whether (a, b) is accepted by this label: the
// single-pair version of spec.md's check_translation driver.
func (t Trans) Translates(a, b Sym) bool {
	if t.Identity {
		return a == b && t.In.HasSymbol(a)
	}
	return t.In.HasSymbol(a) && t.Out.HasSymbol(b)
}

// Translate returns a deterministically chosen output symbol consistent
// with this label for input a, scanning alphabet in sorted order (the
// original samples randomly via random.choice; this implementation picks
// the lexicographically smallest match instead so translate_word results
// are reproducible, per spec.md §5's reproducibility requirement).
func (t Trans) Translate(a Sym, alphabet []Sym) (Sym, bool) {
	if !t.In.HasSymbol(a) {
		return "", false
	}
	if t.Identity {
		return a, true
	}
	sorted := append([]Sym(nil), alphabet...)
	sort.Strings(sorted)
	for _, out := range sorted {
		if t.Out.HasSymbol(out) {
			return out, true
		}
	}
	return "", false
}

// TransFactory constructs Trans predicates over a pair of component
// factories (one for input, one for output — typically the same concrete
// Kind).
type TransFactory struct {
	Component Factory
}

// Kind implements Factory.
func (TransFactory) Kind() Kind { return KindTrans }

// Universal implements Factory: universal input and output, non-identity.
func (f TransFactory) Universal() Predicate {
	return Trans{In: f.Component.Universal(), Out: f.Component.Universal()}
}

// Unsat implements Factory.
func (f TransFactory) Unsat() Predicate {
	return Trans{In: f.Component.Unsat(), Out: f.Component.Unsat()}
}

// FromSymbol is not meaningful for a pair predicate; use Pair instead. It
// panics to surface misuse immediately, matching spec.md §7's "surfaced
// immediately, not recoverable" treatment of malformed construction.
func (TransFactory) FromSymbol(Sym) Predicate {
	panic("pred: TransFactory.FromSymbol called; use Pair(in, out) for transducer predicates")
}

// Pair builds a non-identity transducer predicate from component symbols.
func (f TransFactory) Pair(in, out Sym) Predicate {
	return Trans{In: f.Component.FromSymbol(in), Out: f.Component.FromSymbol(out)}
}
