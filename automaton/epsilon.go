package automaton

// stateSet is a sparse set of StateIDs bounded by a known state count: a
// sparse array mapping id -> position in a dense array, giving O(1)
// insert/contains/iterate without zeroing anything between uses. Only the
// handful of operations epsilonClosure/RemoveEpsilon need are kept; there
// is no general-purpose set package behind this, since the state universe
// here is always exactly m.NumStates().
type stateSet struct {
	sparse []uint32
	dense  []StateID
}

func newStateSet(capacity int) *stateSet {
	return &stateSet{sparse: make([]uint32, capacity)}
}

func (s *stateSet) insert(id StateID) {
	if s.contains(id) {
		return
	}
	s.sparse[id] = uint32(len(s.dense))
	s.dense = append(s.dense, id)
}

func (s *stateSet) contains(id StateID) bool {
	idx := s.sparse[id]
	return int(idx) < len(s.dense) && s.dense[idx] == id
}

func (s *stateSet) iter(f func(StateID)) {
	for _, id := range s.dense {
		f(id)
	}
}

// epsilonClosure returns every state reachable from id using only epsilon
// transitions, including id itself.
func epsilonClosure(m *Machine, id StateID) *stateSet {
	closure := newStateSet(m.NumStates())
	closure.insert(id)
	queue := []StateID{id}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, tr := range m.Out(s) {
			if !tr.Label.IsEpsilon() {
				continue
			}
			for _, t := range tr.Targets {
				if !closure.contains(t) {
					closure.insert(t)
					queue = append(queue, t)
				}
			}
		}
	}
	return closure
}

// IsEpsilonFree reports whether m has no epsilon-labelled transitions.
func IsEpsilonFree(m *Machine) bool {
	for _, rec := range m.states {
		for _, tr := range rec.out {
			if tr.Label.IsEpsilon() {
				return false
			}
		}
	}
	return true
}

// RemoveEpsilon returns a language-equivalent machine with every epsilon
// transition eliminated: each state's non-epsilon transitions are
// propagated along its epsilon closure, and a state becomes final if its
// closure contains a final state.
func RemoveEpsilon(m *Machine) *Machine {
	if IsEpsilonFree(m) {
		return m
	}
	closures := make([]*stateSet, m.NumStates())
	for i := range m.states {
		closures[i] = epsilonClosure(m, StateID(i))
	}

	b := NewBuilder(m.kind, m.proto)
	for s := range m.alphabet {
		b.AddSymbol(s)
	}
	for _, rec := range m.states {
		b.State(rec.name)
	}
	for src, closure := range closures {
		closure.iter(func(member StateID) {
			for _, tr := range m.Out(member) {
				if tr.Label.IsEpsilon() {
					continue
				}
				for _, dst := range tr.Targets {
					b.AddTransition(StateID(src), tr.Label, dst)
				}
			}
		})
	}
	for _, s := range m.start {
		b.AddStart(s)
	}
	for i := range closures {
		for setIdx, set := range m.final {
			for _, f := range set {
				if closures[i].contains(f) {
					b.AddFinal(setIdx, StateID(i))
				}
			}
		}
	}
	return b.Build()
}
