package automaton

import "fmt"

// Validate checks the machine's structural invariants:
//
//  1. I ⊆ Q and every state mentioned in δ is in Q.
//  2. Every outgoing predicate is satisfiable (or epsilon).
//  3. label_proto.Kind() matches the predicate kind actually used (ST-only
//     predicates only appear on ST machines, etc.) — not checked here.
//  4. Deterministic machines (checked by IsDeterministic, not here) satisfy
//     |I|=1 and pairwise-unsatisfiable outgoing guards.
//  5. Semi-determinism (checked by buchi.IsSemiDeterministic, not here).
func Validate(m *Machine) error {
	n := m.NumStates()
	for _, s := range m.start {
		if int(s) >= n {
			return &ValidationError{Reason: fmt.Sprintf("start state %d not in Q", s), Err: ErrDanglingState}
		}
	}
	for _, set := range m.final {
		for _, s := range set {
			if int(s) >= n {
				return &ValidationError{Reason: fmt.Sprintf("final state %d not in Q", s), Err: ErrDanglingState}
			}
		}
	}
	for id, rec := range m.states {
		for _, tr := range rec.out {
			if !tr.Label.IsEpsilon() && !tr.Label.IsSatisfiable() {
				return &ValidationError{
					Reason: fmt.Sprintf("state %d has unsatisfiable label %s", id, tr.Label),
					Err:    ErrUnsatisfiableLabel,
				}
			}
			for _, t := range tr.Targets {
				if int(t) >= n {
					return &ValidationError{
						Reason: fmt.Sprintf("transition from state %d targets unknown state %d", id, t),
						Err:    ErrDanglingState,
					}
				}
			}
		}
	}
	return nil
}

// IsDeterministic reports whether m satisfies spec.md invariant 4: exactly
// one initial state, and for every state no two outgoing predicates have a
// satisfiable conjunction, each predicate leading to exactly one target.
func IsDeterministic(m *Machine) bool {
	if len(m.start) != 1 {
		return false
	}
	for _, rec := range m.states {
		for i, tr := range rec.out {
			if len(tr.Targets) > 1 {
				return false
			}
			for j, other := range rec.out {
				if i == j {
					continue
				}
				if tr.Label.And(other.Label).IsSatisfiable() {
					return false
				}
			}
		}
	}
	return true
}
