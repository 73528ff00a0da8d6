package automaton

import "github.com/symboliclib/automata/pred"

// Builder constructs a Machine incrementally. It is the only mutable
// surface in this package; every other automaton-producing function takes
// Machines by read-only reference and returns a fresh value built through a
// Builder.
type Builder struct {
	kind     Kind
	proto    pred.Factory
	alphabet map[pred.Sym]struct{}
	states   []stateRec
	byName   map[string]StateID
	start    []StateID
	final    [][]StateID
}

// NewBuilder creates a Builder for a machine of the given kind, labelled
// with predicates from proto.
func NewBuilder(kind Kind, proto pred.Factory) *Builder {
	return &Builder{
		kind:     kind,
		proto:    proto,
		alphabet: make(map[pred.Sym]struct{}),
		byName:   make(map[string]StateID),
		final:    [][]StateID{nil},
	}
}

// AddSymbol registers sym in the machine's alphabet.
func (b *Builder) AddSymbol(sym pred.Sym) {
	b.alphabet[sym] = struct{}{}
}

// State returns the StateID for name, creating it if it does not yet
// exist. This is the single chokepoint for state naming, so callers that
// always go through State get idempotent construction for free.
func (b *Builder) State(name string) StateID {
	if id, ok := b.byName[name]; ok {
		return id
	}
	id := StateID(len(b.states))
	b.states = append(b.states, stateRec{name: name})
	b.byName[name] = id
	return id
}

// HasState reports whether name has already been created.
func (b *Builder) HasState(name string) bool {
	_, ok := b.byName[name]
	return ok
}

// AddStart marks id as an initial state.
func (b *Builder) AddStart(id StateID) {
	for _, s := range b.start {
		if s == id {
			return
		}
	}
	b.start = append(b.start, id)
}

// AddFinal marks id as final in acceptance set setIdx (0 for all non-GBA
// kinds). Grows the number of acceptance sets if needed, for GBA machines
// declaring more than one.
func (b *Builder) AddFinal(setIdx int, id StateID) {
	for len(b.final) <= setIdx {
		b.final = append(b.final, nil)
	}
	for _, s := range b.final[setIdx] {
		if s == id {
			return
		}
	}
	b.final[setIdx] = append(b.final[setIdx], id)
}

// AddTransition adds an edge src --label--> dst. Transitions sharing a
// source and a value-equal label are merged into one Transition's target
// list; unsatisfiable labels are silently dropped (spec.md invariant 2).
func (b *Builder) AddTransition(src StateID, label pred.Predicate, dst StateID) {
	if !label.IsEpsilon() && !label.IsSatisfiable() {
		return
	}
	rec := &b.states[src]
	for i := range rec.out {
		if rec.out[i].Label.Equals(label) {
			for _, t := range rec.out[i].Targets {
				if t == dst {
					return
				}
			}
			rec.out[i].Targets = append(rec.out[i].Targets, dst)
			return
		}
	}
	rec.out = append(rec.out, Transition{Label: label, Targets: []StateID{dst}})
}

// Build finalizes the Machine. The Builder remains usable afterwards (Build
// takes a snapshot rather than consuming the builder).
func (b *Builder) Build() *Machine {
	m := &Machine{
		kind:     b.kind,
		alphabet: make(map[pred.Sym]struct{}, len(b.alphabet)),
		states:   make([]stateRec, len(b.states)),
		byName:   make(map[string]StateID, len(b.byName)),
		start:    append([]StateID(nil), b.start...),
		proto:    b.proto,
	}
	for s := range b.alphabet {
		m.alphabet[s] = struct{}{}
	}
	for name, id := range b.byName {
		m.byName[name] = id
	}
	for i, rec := range b.states {
		out := make([]Transition, len(rec.out))
		for j, tr := range rec.out {
			out[j] = Transition{Label: tr.Label, Targets: append([]StateID(nil), tr.Targets...)}
		}
		m.states[i] = stateRec{name: rec.name, out: out}
	}
	m.final = make([][]StateID, len(b.final))
	for i, set := range b.final {
		m.final[i] = append([]StateID(nil), set...)
	}
	if len(m.final) == 0 {
		m.final = [][]StateID{nil}
	}
	return m
}
