package inclusion

import (
	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/classical"
	"github.com/symboliclib/automata/pred"
	"github.com/symboliclib/automata/symbolic"
)

type statePair struct{ a, b automaton.StateID }

func determinizeComplete(m *automaton.Machine) (*automaton.Machine, error) {
	if m.Kind() == automaton.LFA {
		return classical.Complete(classical.Determinize(m)), nil
	}
	det, err := symbolic.Determinize(m)
	if err != nil {
		return nil, err
	}
	return symbolic.Complete(det), nil
}

// PairReachability decides L(a) ⊆ L(b) by exploring the product of a's and
// b's completed determinizations from (i_A, i_B): any reachable pair with
// q_A final and q_B non-final witnesses non-inclusion (spec.md §4.5
// strategy 2).
func PairReachability(a, b *automaton.Machine) (Result, error) {
	detA, err := determinizeComplete(a)
	if err != nil {
		return Result{}, err
	}
	detB, err := determinizeComplete(withAlphabet(b, a.Alphabet()))
	if err != nil {
		return Result{}, err
	}

	alphabet := append(append([]pred.Sym(nil), detA.Alphabet()...), detB.Alphabet()...)

	if len(detA.Start()) == 0 || len(detB.Start()) == 0 {
		return Result{Included: true}, nil
	}
	start := statePair{detA.Start()[0], detB.Start()[0]}

	seen := map[statePair]bool{start: true}
	queue := []statePair{start}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if detA.IsFinal(p.a) && !detB.IsFinal(p.b) {
			return Result{Included: false}, nil
		}
		for _, a := range alphabet {
			na := stepOn(detA, p.a, a)
			nb := stepOn(detB, p.b, a)
			if na == automaton.InvalidState || nb == automaton.InvalidState {
				continue
			}
			np := statePair{na, nb}
			if !seen[np] {
				seen[np] = true
				queue = append(queue, np)
			}
		}
	}
	return Result{Included: true}, nil
}

func stepOn(m *automaton.Machine, id automaton.StateID, a pred.Sym) automaton.StateID {
	for _, tr := range m.Out(id) {
		if !tr.Label.IsEpsilon() && tr.Label.HasSymbol(a) && len(tr.Targets) > 0 {
			return tr.Targets[0]
		}
	}
	return automaton.InvalidState
}
