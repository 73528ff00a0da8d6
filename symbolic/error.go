package symbolic

import "github.com/symboliclib/automata/automaton"

// ErrNotDeterministic is returned by Minimize when given a non-deterministic
// machine; callers should run Determinize first.
var ErrNotDeterministic = automaton.ErrNotDeterministic
