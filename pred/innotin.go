package pred

import (
	"sort"
	"strings"
)

// inKind distinguishes the two InNotin flavors.
type inKind uint8

const (
	inSet inKind = iota
	notInSet
)

// InNotin denotes S or Sym\S for a finite set S, per spec.md §3: universal
// is not_in{} and unsatisfiable is in{}.
type InNotin struct {
	kind    inKind
	symbols map[Sym]struct{}
}

// NewIn returns the predicate denoting exactly the given symbols.
func NewIn(symbols ...Sym) InNotin {
	return InNotin{kind: inSet, symbols: toSet(symbols)}
}

// NewNotIn returns the predicate denoting every symbol except the given
// ones.
func NewNotIn(symbols ...Sym) InNotin {
	return InNotin{kind: notInSet, symbols: toSet(symbols)}
}

func toSet(symbols []Sym) map[Sym]struct{} {
	m := make(map[Sym]struct{}, len(symbols))
	for _, s := range symbols {
		m[s] = struct{}{}
	}
	return m
}

// IsIn reports whether this predicate is the "in S" flavor (as opposed to
// "not_in S").
func (p InNotin) IsIn() bool { return p.kind == inSet }

// Symbols returns the set this predicate is parameterized by (S, whether
// the flavor is "in" or "not_in").
func (p InNotin) Symbols() map[Sym]struct{} { return p.symbols }

// Kind implements Predicate.
func (InNotin) Kind() Kind { return KindInNotin }

// IsEpsilon implements Predicate.
func (InNotin) IsEpsilon() bool { return false }

// IsSatisfiable implements Predicate: unsatisfiable iff "in {}".
func (p InNotin) IsSatisfiable() bool {
	return p.kind != inSet || len(p.symbols) > 0
}

// HasSymbol implements Predicate.
func (p InNotin) HasSymbol(sym Sym) bool {
	_, present := p.symbols[sym]
	if p.kind == inSet {
		return present
	}
	return !present
}

// Negate implements Predicate: flips in <-> not_in over the same set.
func (p InNotin) Negate() Predicate {
	flipped := notInSet
	if p.kind == notInSet {
		flipped = inSet
	}
	return InNotin{kind: flipped, symbols: p.symbols}
}

// And implements Predicate using set algebra:
//
//	in S ∧ in T       = in (S∩T)
//	not_in S ∧ not_in T = not_in (S∪T)
//	in S ∧ not_in T   = in (S\T)
//	not_in S ∧ in T   = in (T\S)
func (p InNotin) And(other Predicate) Predicate {
	o := asInNotin(other)
	switch {
	case p.kind == inSet && o.kind == inSet:
		return InNotin{kind: inSet, symbols: intersect(p.symbols, o.symbols)}
	case p.kind == notInSet && o.kind == notInSet:
		return InNotin{kind: notInSet, symbols: union(p.symbols, o.symbols)}
	case p.kind == inSet && o.kind == notInSet:
		return InNotin{kind: inSet, symbols: diff(p.symbols, o.symbols)}
	default: // not_in, in
		return InNotin{kind: inSet, symbols: diff(o.symbols, p.symbols)}
	}
}

// Or implements Predicate using set algebra (dual of And):
//
//	in S ∨ in T       = in (S∪T)
//	not_in S ∨ not_in T = not_in (S∩T)
//	in S ∨ not_in T   = not_in (T\S)
//	not_in S ∨ in T   = not_in (S\T)
func (p InNotin) Or(other Predicate) Predicate {
	o := asInNotin(other)
	switch {
	case p.kind == inSet && o.kind == inSet:
		return InNotin{kind: inSet, symbols: union(p.symbols, o.symbols)}
	case p.kind == notInSet && o.kind == notInSet:
		return InNotin{kind: notInSet, symbols: intersect(p.symbols, o.symbols)}
	case p.kind == inSet && o.kind == notInSet:
		return InNotin{kind: notInSet, symbols: diff(o.symbols, p.symbols)}
	default: // not_in, in
		return InNotin{kind: notInSet, symbols: diff(p.symbols, o.symbols)}
	}
}

// Equals implements Predicate.
func (p InNotin) Equals(other Predicate) bool {
	o, ok := other.(InNotin)
	if !ok || p.kind != o.kind {
		return false
	}
	return setEqual(p.symbols, o.symbols)
}

// IsSubsetOf implements Predicate.
func (p InNotin) IsSubsetOf(other Predicate) bool {
	o := asInNotin(other)
	switch {
	case p.kind == inSet && o.kind == inSet:
		return isSubset(p.symbols, o.symbols)
	case p.kind == notInSet && o.kind == notInSet:
		return isSubset(o.symbols, p.symbols)
	case p.kind == inSet && o.kind == notInSet:
		return disjoint(p.symbols, o.symbols)
	default:
		return false
	}
}

// String implements Predicate, rendering Timbuk in{...}/not_in{...} syntax.
func (p InNotin) String() string {
	name := "in"
	if p.kind == notInSet {
		name = "not_in"
	}
	items := make([]string, 0, len(p.symbols))
	for s := range p.symbols {
		items = append(items, s)
	}
	sort.Strings(items)
	return name + "{" + strings.Join(items, ",") + "}"
}

func asInNotin(p Predicate) InNotin {
	if o, ok := p.(InNotin); ok {
		return o
	}
	// Tolerate a Letter operand by lifting it into InNotin terms, so mixed
	// reasoning (e.g. complement of a completed SA) never panics.
	if l, ok := p.(Letter); ok {
		if sym, sat := l.Symbol(); sat {
			return NewIn(sym)
		}
		return NewIn()
	}
	return NewIn()
}

func intersect(a, b map[Sym]struct{}) map[Sym]struct{} {
	out := make(map[Sym]struct{})
	for s := range a {
		if _, ok := b[s]; ok {
			out[s] = struct{}{}
		}
	}
	return out
}

func union(a, b map[Sym]struct{}) map[Sym]struct{} {
	out := make(map[Sym]struct{}, len(a)+len(b))
	for s := range a {
		out[s] = struct{}{}
	}
	for s := range b {
		out[s] = struct{}{}
	}
	return out
}

func diff(a, b map[Sym]struct{}) map[Sym]struct{} {
	out := make(map[Sym]struct{})
	for s := range a {
		if _, ok := b[s]; !ok {
			out[s] = struct{}{}
		}
	}
	return out
}

func isSubset(a, b map[Sym]struct{}) bool {
	for s := range a {
		if _, ok := b[s]; !ok {
			return false
		}
	}
	return true
}

func disjoint(a, b map[Sym]struct{}) bool {
	for s := range a {
		if _, ok := b[s]; ok {
			return false
		}
	}
	return true
}

func setEqual(a, b map[Sym]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	return isSubset(a, b)
}

// InNotinFactory constructs InNotin predicates over a known finite alphabet.
type InNotinFactory struct{}

// Kind implements Factory.
func (InNotinFactory) Kind() Kind { return KindInNotin }

// Universal implements Factory: not_in {} matches every symbol.
func (InNotinFactory) Universal() Predicate { return NewNotIn() }

// Unsat implements Factory: in {} matches no symbol.
func (InNotinFactory) Unsat() Predicate { return NewIn() }

// FromSymbol implements Factory.
func (InNotinFactory) FromSymbol(sym Sym) Predicate { return NewIn(sym) }
