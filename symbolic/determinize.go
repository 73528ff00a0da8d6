package symbolic

import (
	"errors"
	"sort"

	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/internal/bitset"
	"github.com/symboliclib/automata/internal/stateset"
	"github.com/symboliclib/automata/pred"
)

// ErrFuelExhausted is returned by Determinize when mergeTransition's
// recursion budget runs out before reaching a fixpoint. This only happens
// for a predicate algebra that is not a finite-height Boolean lattice under
// conjunction-with-negation (spec.md §9 open question); well-behaved
// algebras (Letter, InNotin, Trans) never hit it.
var ErrFuelExhausted = errors.New("symbolic: merge_transition recursion fuel exhausted")

// DefaultFuel bounds mergeTransition's recursion depth for each transition
// merged during Determinize.
const DefaultFuel = 4096

type transItem struct {
	label pred.Predicate
	end   map[string]bool
}

type transAcc struct {
	items []transItem
}

func unionNames(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

func sortedNames(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// mergeTransition inserts (add -> end) into acc, splitting any overlap with
// an existing entry into mutually exclusive parts (φ∧ψ, φ∧¬ψ, ψ∧¬φ) so the
// accumulated transitions stay pairwise unsatisfiable (spec.md §4.4).
func mergeTransition(acc *transAcc, add pred.Predicate, end map[string]bool, fuel int) error {
	if !add.IsSatisfiable() {
		return nil
	}
	if fuel <= 0 {
		return ErrFuelExhausted
	}
	fuel--

	for i := range acc.items {
		original := acc.items[i].label

		if add.Equals(original) {
			acc.items[i].end = unionNames(acc.items[i].end, end)
			return nil
		}

		if add.IsSubsetOf(original) {
			existing := acc.items[i].end
			merged := unionNames(existing, end)
			acc.items = append(acc.items[:i:i], acc.items[i+1:]...)
			acc.items = append(acc.items, transItem{label: add, end: merged})
			rest := original.And(add.Negate())
			if rest.IsSatisfiable() {
				return mergeTransition(acc, rest, existing, fuel)
			}
			return nil
		}

		if original.IsSubsetOf(add) {
			merged := unionNames(acc.items[i].end, end)
			acc.items[i].end = merged
			rest := add.And(original.Negate())
			if rest.IsSatisfiable() {
				return mergeTransition(acc, rest, end, fuel)
			}
			return nil
		}

		conjunction := original.And(add)
		if conjunction.IsSatisfiable() {
			originalEnd := acc.items[i].end
			conjEnd := unionNames(end, originalEnd)
			acc.items = append(acc.items[:i:i], acc.items[i+1:]...)

			if err := mergeTransition(acc, conjunction, conjEnd, fuel); err != nil {
				return err
			}
			leftLabel := original.And(add.Negate())
			if leftLabel.IsSatisfiable() {
				if err := mergeTransition(acc, leftLabel, originalEnd, fuel); err != nil {
					return err
				}
			}
			addLeft := add.And(conjunction.Negate())
			if addLeft.IsSatisfiable() {
				if err := mergeTransition(acc, addLeft, end, fuel); err != nil {
					return err
				}
			}
			return nil
		}
	}

	acc.items = append(acc.items, transItem{label: add, end: end})
	return nil
}

// deterministicTransitions computes the bitmask-partitioned, pairwise
// mutually unsatisfiable outgoing transitions for one superstate's member
// old-states (spec.md §4.4: "for each superstate S, list its outgoing
// labels φ1,…,φn; for every bitmask... produce ψ_m -> union-of-targets").
func deterministicTransitions(m *automaton.Machine, members []string) (*transAcc, error) {
	acc := &transAcc{}
	for _, name := range members {
		id, ok := m.StateByName(name)
		if !ok {
			continue
		}
		out := m.Out(id)
		if len(out) == 0 {
			continue
		}
		labels := make([]pred.Predicate, len(out))
		targets := make([][]string, len(out))
		for i, tr := range out {
			labels[i] = tr.Label
			names := make([]string, len(tr.Targets))
			for j, t := range tr.Targets {
				names[j] = m.StateName(t)
			}
			targets[i] = names
		}

		it := bitset.NewIterator(len(labels))
		for mask, ok := it.Next(); ok; mask, ok = it.Next() {
			var add pred.Predicate
			end := make(map[string]bool)
			for i, label := range labels {
				if mask.Has(i) {
					if add == nil {
						add = label
					} else {
						add = add.And(label)
					}
					for _, t := range targets[i] {
						end[t] = true
					}
				} else {
					neg := label.Negate()
					if add == nil {
						add = neg
					} else {
						add = add.And(neg)
					}
				}
			}
			if add == nil || len(end) == 0 || !add.IsSatisfiable() {
				continue
			}
			if err := mergeTransition(acc, add, end, DefaultFuel); err != nil {
				return nil, err
			}
		}
	}
	return acc, nil
}

// Determinize performs predicate-partitioning subset construction: states
// are comma-joined sorted subsets of Q, and outgoing guards are partitioned
// via mergeTransition so the result is pairwise mutually unsatisfiable at
// every state (spec.md §4.4). An already-deterministic machine is returned
// unchanged (as a defensive copy).
func Determinize(m *automaton.Machine) (*automaton.Machine, error) {
	if automaton.IsDeterministic(m) {
		return m.Clone(), nil
	}

	b := automaton.NewBuilder(m.Kind(), m.Proto())
	for _, s := range m.Alphabet() {
		b.AddSymbol(s)
	}

	startNames := make([]string, 0, len(m.Start()))
	for _, s := range m.Start() {
		startNames = append(startNames, m.StateName(s))
	}
	startName := stateset.Join(startNames)
	startID := b.State(startName)
	b.AddStart(startID)
	if anyFinal(m, startNames) {
		b.AddFinal(0, startID)
	}

	seen := map[string]bool{startName: true}
	queue := []string{startName}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		members := stateset.Split(name)
		srcID := b.State(name)

		acc, err := deterministicTransitions(m, members)
		if err != nil {
			return nil, err
		}
		for _, item := range acc.items {
			names := sortedNames(item.end)
			dstName := stateset.Join(names)
			dstID := b.State(dstName)
			b.AddTransition(srcID, item.label, dstID)
			if anyFinal(m, names) {
				b.AddFinal(0, dstID)
			}
			if !seen[dstName] {
				seen[dstName] = true
				queue = append(queue, dstName)
			}
		}
	}
	return b.Build(), nil
}

func anyFinal(m *automaton.Machine, names []string) bool {
	for _, n := range names {
		if id, ok := m.StateByName(n); ok && m.IsFinal(id) {
			return true
		}
	}
	return false
}
