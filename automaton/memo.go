package automaton

import "sync"

// Memo caches the derived machines spec.md §9 names as per-instance
// attributes on the original (determinized, reversed, epsilon_free_copy):
// here they are held out-of-band, since Machine is an immutable value and
// has no room for mutable cache fields of its own.
type Memo struct {
	mu           sync.Mutex
	determinized *Machine
	hasDet       bool
	reversed     *Machine
	hasRev       bool
	epsilonFree  *Machine
	hasEpsFree   bool
}

// Reversed returns Reverse(m), computing and caching it on first use.
func (c *Memo) Reversed(m *Machine) *Machine {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasRev {
		c.reversed = Reverse(m)
		c.hasRev = true
	}
	return c.reversed
}

// EpsilonFree returns RemoveEpsilon(m), computing and caching it on first use.
func (c *Memo) EpsilonFree(m *Machine) *Machine {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasEpsFree {
		c.epsilonFree = RemoveEpsilon(m)
		c.hasEpsFree = true
	}
	return c.epsilonFree
}

// Determinized returns fn(m) the first time it is called and the cached
// result thereafter; fn is typically classical.Determinize or
// symbolic.Determinize, supplied by the caller to avoid an import cycle
// between automaton and the packages that implement determinization.
func (c *Memo) Determinized(m *Machine, fn func(*Machine) *Machine) *Machine {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasDet {
		c.determinized = fn(m)
		c.hasDet = true
	}
	return c.determinized
}
