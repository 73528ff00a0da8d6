// Package transducer implements the symbolic transducer engine (spec.md
// C7): composition, application to NFA, and word-level translation
// queries, grounded on original_source/symboliclib/st.py.
package transducer

import (
	"errors"

	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/internal/stateset"
	"github.com/symboliclib/automata/pred"
)

// ErrKindMismatch is returned by Compose when the two machines are not
// both transducers (st.py's composition returns False on a type mismatch;
// an explicit error is the idiomatic Go equivalent).
var ErrKindMismatch = errors.New("transducer: both operands must be kind ST")

// CompositionError wraps a composition failure with the pair of kinds
// that could not be combined.
type CompositionError struct {
	Left, Right automaton.Kind
	Err         error
}

func (e *CompositionError) Error() string {
	return "transducer: cannot compose " + e.Left.String() + " with " + e.Right.String() + ": " + e.Err.Error()
}

func (e *CompositionError) Unwrap() error { return e.Err }

type pair struct{ t, u automaton.StateID }

// Compose builds T ∘ U: the product automaton whose labels are
// combine(φ_T, φ_U) for every pair of edges whose output/input predicates
// overlap (O_T ∧ I_U satisfiable), per spec.md §4.7.
func Compose(t, u *automaton.Machine) (*automaton.Machine, error) {
	if t.Kind() != automaton.ST || u.Kind() != automaton.ST {
		return nil, &CompositionError{Left: t.Kind(), Right: u.Kind(), Err: ErrKindMismatch}
	}

	out := automaton.NewBuilder(automaton.ST, t.Proto())
	for _, s := range t.Alphabet() {
		if u.HasSymbolInAlphabet(s) {
			out.AddSymbol(s)
		}
	}

	name := func(p pair) string {
		return stateset.Pair(t.StateName(p.t), u.StateName(p.u))
	}

	queue := make([]pair, 0)
	seen := make(map[pair]bool)
	for _, s1 := range t.Start() {
		for _, s2 := range u.Start() {
			p := pair{s1, s2}
			out.AddStart(out.State(name(p)))
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
		if t.IsFinal(p.t) && u.IsFinal(p.u) {
			out.AddFinal(0, id)
		}

		for _, tr1 := range t.Out(p.t) {
			lab1, ok := tr1.Label.(pred.Trans)
			if !ok {
				continue
			}
			for _, tr2 := range u.Out(p.u) {
				lab2, ok := tr2.Label.(pred.Trans)
				if !ok {
					continue
				}
				common := lab1.Out.And(lab2.In)
				if !common.IsSatisfiable() {
					continue
				}
				combined := lab1.Combine(lab2)
				if !combined.IsSatisfiable() {
					continue
				}
				for _, t1 := range tr1.Targets {
					for _, t2 := range tr2.Targets {
						np := pair{t1, t2}
						nid := out.State(name(np))
						out.AddTransition(id, combined, nid)
						if !seen[np] {
							seen[np] = true
							queue = append(queue, np)
						}
					}
				}
			}
		}
	}
	return out.Build(), nil
}

// Apply runs T over an NFA A (T · A): the product of T's states with A's,
// where an edge survives if T's input predicate agrees with A's letter,
// and the resulting edge is labelled with T's output predicate — narrowed
// to A's own letter when T's label is identity, per spec.md §4.7.
func Apply(t *automaton.Machine, a *automaton.Machine) (*automaton.Machine, error) {
	if t.Kind() != automaton.ST {
		return nil, &CompositionError{Left: t.Kind(), Right: a.Kind(), Err: errors.New("left operand must be kind ST")}
	}

	out := automaton.NewBuilder(automaton.SA, t.Proto())
	for _, s := range t.Alphabet() {
		out.AddSymbol(s)
	}

	name := func(p pair) string {
		return stateset.Pair(t.StateName(p.t), a.StateName(p.u))
	}

	queue := make([]pair, 0)
	seen := make(map[pair]bool)
	for _, s1 := range t.Start() {
		for _, s2 := range a.Start() {
			p := pair{s1, s2}
			out.AddStart(out.State(name(p)))
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
		if t.IsFinal(p.t) && a.IsFinal(p.u) {
			out.AddFinal(0, id)
		}

		for _, tr1 := range t.Out(p.t) {
			lab, ok := tr1.Label.(pred.Trans)
			if !ok {
				continue
			}
			for _, tr2 := range a.Out(p.u) {
				if tr2.Label.IsEpsilon() {
					continue
				}
				common := lab.In.And(tr2.Label)
				if !common.IsSatisfiable() {
					continue
				}
				result := lab.Out
				if lab.Identity {
					result = lab.Out.And(tr2.Label)
					if !result.IsSatisfiable() {
						continue
					}
				}
				for _, t1 := range tr1.Targets {
					for _, t2 := range tr2.Targets {
						np := pair{t1, t2}
						nid := out.State(name(np))
						out.AddTransition(id, result, nid)
						if !seen[np] {
							seen[np] = true
							queue = append(queue, np)
						}
					}
				}
			}
		}
	}
	return out.Build(), nil
}

// CheckTranslation reports whether some run of t accepts (in, out) in
// parallel, mirroring st.py's recursive check_translation with a memo of
// every (state, i) pair already explored to avoid recomputation across
// branching runs.
func CheckTranslation(t *automaton.Machine, in, out []pred.Sym) bool {
	if len(in) != len(out) {
		return false
	}
	type frontierKey struct {
		state automaton.StateID
		pos   int
	}
	seen := make(map[frontierKey]bool)
	var walk func(state automaton.StateID, pos int) bool
	walk = func(state automaton.StateID, pos int) bool {
		if pos == len(in) {
			return t.IsFinal(state)
		}
		key := frontierKey{state, pos}
		if seen[key] {
			return false
		}
		seen[key] = true
		for _, tr := range t.Out(state) {
			lab, ok := tr.Label.(pred.Trans)
			if !ok || !lab.Translates(in[pos], out[pos]) {
				continue
			}
			for _, next := range tr.Targets {
				if walk(next, pos+1) {
					return true
				}
			}
		}
		return false
	}
	for _, s0 := range t.Start() {
		if walk(s0, 0) {
			return true
		}
	}
	return false
}

// TranslateWord returns some output word consistent with t for the given
// input word, choosing the lexicographically smallest output symbol at
// each step for reproducibility (spec.md §5), and false when no run of t
// can consume the whole input.
func TranslateWord(t *automaton.Machine, word []pred.Sym) ([]pred.Sym, bool) {
	alphabet := t.Alphabet()
	var walk func(state automaton.StateID, pos int) ([]pred.Sym, bool)
	walk = func(state automaton.StateID, pos int) ([]pred.Sym, bool) {
		if pos == len(word) {
			if t.IsFinal(state) {
				return nil, true
			}
			return nil, false
		}
		for _, tr := range t.Out(state) {
			lab, ok := tr.Label.(pred.Trans)
			if !ok || !lab.In.HasSymbol(word[pos]) {
				continue
			}
			sym, ok := lab.Translate(word[pos], alphabet)
			if !ok {
				continue
			}
			for _, next := range tr.Targets {
				rest, ok := walk(next, pos+1)
				if ok {
					return append([]pred.Sym{sym}, rest...), true
				}
			}
		}
		return nil, false
	}
	for _, s0 := range t.Start() {
		if out, ok := walk(s0, 0); ok {
			return out, true
		}
	}
	return nil, false
}
