// Package buchi implements the semi-deterministic Büchi automaton engine
// (spec.md C6): semi-determinism detection, the Q1/Q2 split, final-state
// fixing, the NCSB complementation family, and generalized-acceptance
// intersection.
package buchi

import (
	"errors"

	"github.com/symboliclib/automata/automaton"
)

// ErrNotSemiDeterministic is returned by operations that require a
// semi-deterministic input (the NCSB family, Split) when IsSemiDeterministic
// would report false.
var ErrNotSemiDeterministic = errors.New("buchi: automaton is not semi-deterministic")

// PreconditionError reports which NCSB precondition a machine fails.
type PreconditionError struct {
	Reason string
	Err    error
}

func (e *PreconditionError) Error() string { return "buchi: " + e.Reason }
func (e *PreconditionError) Unwrap() error { return e.Err }

// IsSemiDeterministic explores forward from F and requires every visited
// state to have at most one successor per symbol (spec.md §4.6). Epsilon
// transitions are not treated specially; m is assumed epsilon-free (call
// automaton.RemoveEpsilon first if not).
func IsSemiDeterministic(m *automaton.Machine) bool {
	_, ok := forwardClosure(m)
	return ok
}

// forwardClosure computes the forward closure of F (spec.md's Q2) and
// reports whether every visited state is deterministic on its outgoing
// symbols (at most one target per satisfiable guard combination).
func forwardClosure(m *automaton.Machine) (map[automaton.StateID]bool, bool) {
	closure := make(map[automaton.StateID]bool)
	var queue []automaton.StateID
	for _, f := range m.Final(0) {
		if !closure[f] {
			closure[f] = true
			queue = append(queue, f)
		}
	}
	ok := true
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		out := m.Out(q)
		for i, tr := range out {
			if len(tr.Targets) > 1 {
				ok = false
			}
			for j, other := range out {
				if i == j {
					continue
				}
				if tr.Label.And(other.Label).IsSatisfiable() {
					ok = false
				}
			}
			for _, t := range tr.Targets {
				if !closure[t] {
					closure[t] = true
					queue = append(queue, t)
				}
			}
		}
	}
	return closure, ok
}

// Split is the partition (Q1, Q2, δ1, δt, δ2) of spec.md §4.6: Q2 is the
// forward closure of F, Q1 = Q \ Q2, and δ is divided by which side its
// endpoints fall on.
type Split struct {
	Q1, Q2     map[automaton.StateID]bool
	D1, Dt, D2 map[automaton.StateID][]automaton.Transition
}

// ComputeSplit computes the Q1/Q2/δ1/δt/δ2 partition, returning
// ErrNotSemiDeterministic if m is not semi-deterministic.
func ComputeSplit(m *automaton.Machine) (*Split, error) {
	q2, ok := forwardClosure(m)
	if !ok {
		return nil, ErrNotSemiDeterministic
	}
	q1 := make(map[automaton.StateID]bool)
	for _, id := range m.AllStateIDs() {
		if !q2[id] {
			q1[id] = true
		}
	}

	s := &Split{
		Q1: q1, Q2: q2,
		D1: make(map[automaton.StateID][]automaton.Transition),
		Dt: make(map[automaton.StateID][]automaton.Transition),
		D2: make(map[automaton.StateID][]automaton.Transition),
	}
	for _, id := range m.AllStateIDs() {
		for _, tr := range m.Out(id) {
			var toQ1, toQ2 []automaton.StateID
			for _, t := range tr.Targets {
				if q1[t] {
					toQ1 = append(toQ1, t)
				} else {
					toQ2 = append(toQ2, t)
				}
			}
			if q1[id] {
				if len(toQ1) > 0 {
					s.D1[id] = append(s.D1[id], automaton.Transition{Label: tr.Label, Targets: toQ1})
				}
				if len(toQ2) > 0 {
					s.Dt[id] = append(s.Dt[id], automaton.Transition{Label: tr.Label, Targets: toQ2})
				}
			} else {
				if len(toQ2) > 0 {
					s.D2[id] = append(s.D2[id], automaton.Transition{Label: tr.Label, Targets: toQ2})
				}
			}
		}
	}
	return s, nil
}
