package buchi

import (
	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/classical"
	"github.com/symboliclib/automata/pred"
	"github.com/symboliclib/automata/symbolic"
)

// Complete adds a sink and per-state error transitions so NCSB's empty
// tuple (∅,∅,∅,∅) never arises (spec.md §4.6): every state always has an
// outgoing transition for every symbol, even if only to the sink.
// Letter-labelled machines go through classical.Complete (one sink edge per
// missing alphabet symbol), because a Letter has no satisfiable negation to
// serve as symbolic.Complete's error label; all others go through
// symbolic.Complete.
func Complete(m *automaton.Machine) (*automaton.Machine, error) {
	if m.Proto().Kind() == pred.KindLetter {
		return classical.Complete(m), nil
	}
	return symbolic.Complete(m), nil
}
