package symbolic

import "github.com/symboliclib/automata/automaton"

// Complement returns a machine accepting Σ*\L(m): determinize, complete
// with a sink, then swap F with Q\F (spec.md §4.4).
func Complement(m *automaton.Machine) (*automaton.Machine, error) {
	det, err := Determinize(m)
	if err != nil {
		return nil, err
	}
	comp := Complete(det)

	b := automaton.NewBuilder(comp.Kind(), comp.Proto())
	for _, s := range comp.Alphabet() {
		b.AddSymbol(s)
	}
	for _, id := range comp.AllStateIDs() {
		b.State(comp.StateName(id))
	}
	for _, id := range comp.AllStateIDs() {
		for _, tr := range comp.Out(id) {
			for _, t := range tr.Targets {
				b.AddTransition(id, tr.Label, t)
			}
		}
	}
	for _, s := range comp.Start() {
		b.AddStart(s)
	}
	for _, id := range comp.AllStateIDs() {
		if !comp.IsFinal(id) {
			b.AddFinal(0, id)
		}
	}
	return b.Build(), nil
}
