package buchi

import (
	"sort"

	"github.com/symboliclib/automata/automaton"
	"github.com/symboliclib/automata/internal/stateset"
	"github.com/symboliclib/automata/pred"
)

// ncsbState is one (N, C, S, B) macrostate, each a sorted, deduplicated
// slice of original state ids (spec.md §4.6).
type ncsbState struct {
	n, c, s, b []automaton.StateID
}

func sortedIDs(ids map[automaton.StateID]bool) []automaton.StateID {
	out := make([]automaton.StateID, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s ncsbState) name(orig *automaton.Machine) string {
	names := func(ids []automaton.StateID) []string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = orig.StateName(id)
		}
		return out
	}
	return stateset.NCSB(names(s.n), names(s.c), names(s.s), names(s.b))
}

// delta1/deltaT/delta2 successor helpers over a Split, for a set of ids and
// a concrete symbol.
func stepSet(d map[automaton.StateID][]automaton.Transition, ids []automaton.StateID, a pred.Sym) map[automaton.StateID]bool {
	out := make(map[automaton.StateID]bool)
	for _, id := range ids {
		for _, tr := range d[id] {
			if tr.Label.IsEpsilon() || !tr.Label.HasSymbol(a) {
				continue
			}
			for _, t := range tr.Targets {
				out[t] = true
			}
		}
	}
	return out
}

// ncsbSuccessors computes every valid successor macrostate of cur on symbol
// a, following spec.md §4.6's six-step construction: N' from δ1, C' seeded
// from δt plus non-blocked δ2(C), S' from δ2(S) with blocking, then a
// branch per subset of the possible-S candidates, and finally the B
// obligation update (reset to C'' when the current B is empty — the
// canonical published-algorithm semantics, spec.md §9).
//
// When lazy is true and the current B is non-empty, the choice in step 5 is
// skipped: every possible-S candidate is kept in C' (greedy), matching the
// lazy variant's rule of only paying for the branch once a round resets.
func ncsbSuccessors(split *Split, final map[automaton.StateID]bool, cur ncsbState, a pred.Sym, lazy bool) []ncsbState {
	nPrime := sortedIDs(stepSet(split.D1, cur.n, a))
	cSeed := stepSet(split.Dt, cur.n, a)

	possibleS := make(map[automaton.StateID]bool)
	for _, q := range cur.c {
		for _, tr := range split.D2[q] {
			if tr.Label.IsEpsilon() || !tr.Label.HasSymbol(a) {
				continue
			}
			for _, r := range tr.Targets {
				if final[q] && !final[r] {
					possibleS[r] = true
				} else {
					cSeed[r] = true
				}
			}
		}
	}

	sSeedOrBlocked := stepSet(split.D2, cur.s, a)
	blocked := false
	sPrime := make(map[automaton.StateID]bool)
	for r := range sSeedOrBlocked {
		if final[r] {
			blocked = true
			break
		}
		if cSeed[r] {
			blocked = true
			break
		}
		sPrime[r] = true
	}
	if blocked {
		return nil
	}

	if lazy && len(cur.b) != 0 {
		merged := make(map[automaton.StateID]bool, len(cSeed)+len(possibleS))
		for q := range cSeed {
			merged[q] = true
		}
		for q := range possibleS {
			merged[q] = true
		}
		reach := stepSet(split.D2, cur.b, a)
		bPrime := make(map[automaton.StateID]bool)
		for q := range reach {
			if merged[q] {
				bPrime[q] = true
			}
		}
		return []ncsbState{{n: nPrime, c: sortedIDs(merged), s: sortedIDs(sPrime), b: sortedIDs(bPrime)}}
	}

	candidates := sortedIDs(possibleS)
	var results []ncsbState
	subsets := 1 << uint(len(candidates))
	for mask := 0; mask < subsets; mask++ {
		cDoublePrime := make(map[automaton.StateID]bool, len(cSeed))
		for q := range cSeed {
			cDoublePrime[q] = true
		}
		sDoublePrime := make(map[automaton.StateID]bool, len(sPrime))
		for q := range sPrime {
			sDoublePrime[q] = true
		}
		for i, cand := range candidates {
			if mask&(1<<uint(i)) != 0 {
				delete(cDoublePrime, cand)
				sDoublePrime[cand] = true
			} else {
				cDoublePrime[cand] = true
			}
		}
		overlap := false
		for q := range cDoublePrime {
			if sDoublePrime[q] {
				overlap = true
				break
			}
		}
		if overlap {
			continue
		}

		var bPrime map[automaton.StateID]bool
		if len(cur.b) == 0 {
			bPrime = cDoublePrime
		} else {
			reach := stepSet(split.D2, cur.b, a)
			bPrime = make(map[automaton.StateID]bool)
			for q := range reach {
				if cDoublePrime[q] {
					bPrime[q] = true
				}
			}
		}

		results = append(results, ncsbState{
			n: nPrime,
			c: sortedIDs(cDoublePrime),
			s: sortedIDs(sDoublePrime),
			b: sortedIDs(bPrime),
		})
	}
	return results
}

// ncsbOptions configures which NCSB variant buildNCSB runs.
type ncsbOptions struct {
	lazy      bool
	finalTest func(succ ncsbState) bool
}

func buildNCSB(m *automaton.Machine, opts ncsbOptions) (*automaton.Machine, error) {
	fixed, err := FixFinalStates(m)
	if err != nil {
		return nil, err
	}
	complete, err := Complete(fixed)
	if err != nil {
		return nil, err
	}
	split, err := ComputeSplit(complete)
	if err != nil {
		return nil, err
	}
	final := make(map[automaton.StateID]bool)
	for _, f := range complete.Final(0) {
		final[f] = true
	}

	startN := make(map[automaton.StateID]bool)
	startC := make(map[automaton.StateID]bool)
	startB := make(map[automaton.StateID]bool)
	for _, s0 := range complete.Start() {
		if split.Q1[s0] {
			startN[s0] = true
		} else {
			startC[s0] = true
			startB[s0] = true
		}
	}
	start := ncsbState{n: sortedIDs(startN), c: sortedIDs(startC), s: nil, b: sortedIDs(startB)}

	b := automaton.NewBuilder(automaton.GBA, complete.Proto())
	for _, sym := range complete.Alphabet() {
		b.AddSymbol(sym)
	}

	startID := b.State(start.name(complete))
	b.AddStart(startID)
	if opts.finalTest(start) {
		b.AddFinal(0, startID)
	}

	seen := map[string]bool{start.name(complete): true}
	queue := []ncsbState{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curID := b.State(cur.name(complete))

		for _, sym := range complete.Alphabet() {
			succs := ncsbSuccessors(split, final, cur, sym, opts.lazy)
			for _, succ := range succs {
				name := succ.name(complete)
				succID := b.State(name)
				b.AddTransition(curID, predForSymbol(complete, sym), succID)
				if opts.finalTest(succ) {
					b.AddFinal(0, succID)
				}
				if !seen[name] {
					seen[name] = true
					queue = append(queue, succ)
				}
			}
		}
	}
	return b.Build(), nil
}

// bEmpty is the canonical NCSB acceptance test: the macrostate's B component
// is empty (spec.md §4.6).
func bEmpty(succ ncsbState) bool { return len(succ.b) == 0 }

// earlyFlush accepts when either B or C is empty, a simplification of the
// published algorithm's boolean flag f. Every macrostate built here has
// B ⊆ C (B starts equal to C and each successor B is cut down to the new
// C), so an empty C implies an empty B and this test accepts exactly the
// macrostates that bEmpty accepts.
func earlyFlush(succ ncsbState) bool { return len(succ.b) == 0 || len(succ.c) == 0 }

// predForSymbol returns a concrete-symbol predicate in m's algebra,
// constructed via its factory so NCSB transitions stay within the same
// predicate kind as m.
func predForSymbol(m *automaton.Machine, sym pred.Sym) pred.Predicate {
	return m.Proto().FromSymbol(sym)
}

// ComplementBasic builds the NCSB complement using the eager branch-all
// variant of spec.md §4.6 steps 1-6.
func ComplementBasic(m *automaton.Machine) (*automaton.Machine, error) {
	return buildNCSB(m, ncsbOptions{lazy: false, finalTest: bEmpty})
}

// ComplementOnTheFly is semantically identical to ComplementBasic: the
// "basic" construction already explores states lazily via a worklist (no
// upfront full powerset materialization), so on-the-fly and basic share one
// implementation, built the same way a reference engine would run the same
// successor function either eagerly or driven by product-automaton
// demand (spec.md §4.6).
func ComplementOnTheFly(m *automaton.Machine) (*automaton.Machine, error) {
	return buildNCSB(m, ncsbOptions{lazy: false, finalTest: bEmpty})
}

// ComplementLazy retains every possible-S candidate in C rather than
// branching over each one, as long as the current round's B obligation is
// still non-empty; the full branch-and-choose step only runs again once a
// round resets (cur.b empty), matching spec.md §4.6's lazy variant, which
// trades the eager construction's state blow-up for fewer macrostates at
// the cost of making that choice later.
func ComplementLazy(m *automaton.Machine) (*automaton.Machine, error) {
	return buildNCSB(m, ncsbOptions{lazy: true, finalTest: bEmpty})
}

// ComplementEarlyFlush uses the same branching successor construction as
// ComplementBasic but accepts a macrostate when either B or C is empty
// (spec.md §4.6's early-flush variant, described there via a boolean flag
// f marking a round as already satisfied). Since B ⊆ C in every
// macrostate, this accepts the same macrostates as ComplementBasic and
// yields the same automaton.
func ComplementEarlyFlush(m *automaton.Machine) (*automaton.Machine, error) {
	return buildNCSB(m, ncsbOptions{lazy: false, finalTest: earlyFlush})
}
