package timbuk

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/symboliclib/automata/automaton"
)

func kindTag(k automaton.Kind) string {
	switch k {
	case automaton.LFA:
		return "LFA"
	case automaton.SA:
		return "INFA"
	case automaton.ST:
		return "INT"
	case automaton.GBA:
		return "GBA"
	default:
		return "LFA"
	}
}

// Write renders m in Timbuk format under the given automaton name. States,
// final states and transitions are emitted in sorted canonical order so
// output is deterministic and diff-able (spec.md §6).
func Write(w io.Writer, m *automaton.Machine, name string) error {
	names := make([]string, m.NumStates())
	for _, id := range m.AllStateIDs() {
		names[id] = m.StateName(id)
	}
	sortedNames := append([]string(nil), names...)
	sort.Strings(sortedNames)

	alphabet := append([]string(nil), m.Alphabet()...)
	sort.Strings(alphabet)

	var b strings.Builder
	fmt.Fprint(&b, "Ops ")
	for _, s := range alphabet {
		fmt.Fprintf(&b, "%s:1 ", s)
	}
	fmt.Fprintln(&b, "x:0")
	fmt.Fprintf(&b, "\nAutomaton %s @%s\n", name, kindTag(m.Kind()))
	fmt.Fprintf(&b, "States %s\n", strings.Join(sortedNames, " "))

	multi := m.NumFinalSets() > 1
	fmt.Fprint(&b, "Final States")
	for i := 0; i < m.NumFinalSets(); i++ {
		finalNames := make([]string, 0, len(m.Final(i)))
		for _, id := range m.Final(i) {
			finalNames = append(finalNames, m.StateName(id))
		}
		sort.Strings(finalNames)
		fmt.Fprintf(&b, " %s", strings.Join(finalNames, " "))
		if multi {
			fmt.Fprint(&b, " ;")
		}
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "\nTransitions")

	start := make([]string, 0, len(m.Start()))
	for _, id := range m.Start() {
		start = append(start, m.StateName(id))
	}
	sort.Strings(start)
	for _, s := range start {
		fmt.Fprintf(&b, "x -> %s\n", s)
	}

	sortedIDs := append([]automaton.StateID(nil), m.AllStateIDs()...)
	sort.Slice(sortedIDs, func(i, j int) bool {
		return m.StateName(sortedIDs[i]) < m.StateName(sortedIDs[j])
	})

	for _, id := range sortedIDs {
		src := m.StateName(id)
		trs := append([]automaton.Transition(nil), m.Out(id)...)
		sort.Slice(trs, func(i, j int) bool {
			return trs[i].Label.String() < trs[j].Label.String()
		})
		for _, tr := range trs {
			targets := make([]string, 0, len(tr.Targets))
			for _, t := range tr.Targets {
				targets = append(targets, m.StateName(t))
			}
			sort.Strings(targets)
			for _, dst := range targets {
				if tr.Label.IsEpsilon() {
					fmt.Fprintf(&b, "(%s) -> %s\n", src, dst)
					continue
				}
				if m.Kind() == automaton.LFA {
					fmt.Fprintf(&b, "%s(%s) -> %s\n", tr.Label.String(), src, dst)
				} else {
					fmt.Fprintf(&b, "%q(%s) -> %s\n", tr.Label.String(), src, dst)
				}
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
