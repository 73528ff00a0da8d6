package symbolic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/internal/stateset"
)

// Minimize performs Hopcroft-style partition refinement on a determinized,
// completed automaton: the initial partition is {F, Q\F}; a block is split
// whenever two of its states transition, under the same concrete alphabet
// symbol, into different blocks; refinement repeats until no block splits
// further (spec.md §4.4).
func Minimize(m *automaton.Machine) (*automaton.Machine, error) {
	if !automaton.IsDeterministic(m) {
		return nil, ErrNotDeterministic
	}
	alphabet := m.Alphabet()
	ids := m.AllStateIDs()

	blockOf := make(map[automaton.StateID]int, len(ids))
	for _, id := range ids {
		if m.IsFinal(id) {
			blockOf[id] = 0
		} else {
			blockOf[id] = 1
		}
	}
	numBlocks := 2

	for {
		sigOf := make(map[automaton.StateID]string, len(ids))
		for _, id := range ids {
			parts := make([]string, len(alphabet))
			for i, a := range alphabet {
				target := automaton.InvalidState
				for _, tr := range m.Out(id) {
					if !tr.Label.IsEpsilon() && tr.Label.HasSymbol(a) && len(tr.Targets) > 0 {
						target = tr.Targets[0]
						break
					}
				}
				if target == automaton.InvalidState {
					parts[i] = "-"
				} else {
					parts[i] = strconv.Itoa(blockOf[target])
				}
			}
			sigOf[id] = fmt.Sprintf("%d|%s", blockOf[id], strings.Join(parts, ","))
		}

		sigToBlock := make(map[string]int)
		newBlockOf := make(map[automaton.StateID]int, len(ids))
		next := 0
		for _, id := range ids {
			sig := sigOf[id]
			b, ok := sigToBlock[sig]
			if !ok {
				b = next
				sigToBlock[sig] = b
				next++
			}
			newBlockOf[id] = b
		}
		blockOf = newBlockOf
		if next == numBlocks {
			break
		}
		numBlocks = next
	}

	blocks := make(map[int][]automaton.StateID)
	for _, id := range ids {
		b := blockOf[id]
		blocks[b] = append(blocks[b], id)
	}
	blockName := func(b int) string {
		names := make([]string, len(blocks[b]))
		for i, id := range blocks[b] {
			names[i] = m.StateName(id)
		}
		return stateset.Join(names)
	}

	out := automaton.NewBuilder(m.Kind(), m.Proto())
	for _, s := range alphabet {
		out.AddSymbol(s)
	}
	for b := range blocks {
		out.State(blockName(b))
	}
	for b, members := range blocks {
		rep := members[0]
		srcID := out.State(blockName(b))
		for _, tr := range m.Out(rep) {
			for _, t := range tr.Targets {
				dstID := out.State(blockName(blockOf[t]))
				out.AddTransition(srcID, tr.Label, dstID)
			}
		}
		if m.IsFinal(rep) {
			out.AddFinal(0, srcID)
		}
	}
	for _, s := range m.Start() {
		out.AddStart(out.State(blockName(blockOf[s])))
	}
	return automaton.CompactTransitions(out.Build()), nil
}
