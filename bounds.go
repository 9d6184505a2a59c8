// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import "math"

// staticBounds is the result of the resource analysis: upper limits on
// the cells and frames the bit machine can ever hold at once while
// running the program, on the 64-bit scratch words any single jet call
// can need to marshal its frames, and on the total execution cost in
// milli-weight units.  All four saturate at MaxUint32, a value no
// ceiling accepts, so overflow can only make a program fail the checks.
type staticBounds struct {
	cells  uint32
	frames uint32
	words  uint32
	cost   uint32
}

// scratchWords converts a bit width to the 64-bit words needed to hold
// it, preserving the saturation sentinel.
func scratchWords(w uint32) uint32 {
	if w == math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32((uint64(w) + 63) / 64)
}

// computeBounds runs the bottom-up resource analysis over the DAG.  Each
// node's bound covers one evaluation of that node, so a parent charges a
// shared child once per reference, matching what execution does.  The
// frame and cell formulas mirror the frames the machine actually
// allocates: comp adds its midpoint frame, disconnect adds its prefix
// and midpoint frames, every other combinator works in place.
func computeBounds(d *dag, ta *typeArena) staticBounds {
	n := len(d.nodes)
	cells := make([]uint32, n)
	frames := make([]uint32, n)
	words := make([]uint32, n)
	cost := make([]uint32, n)

	for i := range d.nodes {
		nd := &d.nodes[i]
		switch nd.tag {
		case tagComp:
			mid := ta.tyWidth(d.nodes[nd.left].tgtTy)
			cells[i] = satAdd(mid,
				satMax(cells[nd.left], cells[nd.right]))
			frames[i] = satAdd(1,
				satMax(frames[nd.left], frames[nd.right]))
			words[i] = satMax(words[nd.left], words[nd.right])
			cost[i] = satAdd(overheadCost,
				satAdd(cost[nd.left], cost[nd.right]))

		case tagDisconnect:
			prefix := satAdd(256, ta.tyWidth(nd.srcTy))
			mid := ta.tyWidth(d.nodes[nd.left].tgtTy)
			cells[i] = satAdd(satAdd(prefix, mid),
				satMax(cells[nd.left], cells[nd.right]))
			frames[i] = satAdd(2,
				satMax(frames[nd.left], frames[nd.right]))
			words[i] = satMax(words[nd.left], words[nd.right])
			cost[i] = satAdd(overheadCost, satAdd(prefix,
				satAdd(cost[nd.left], cost[nd.right])))

		case tagCase:
			cells[i] = satMax(cells[nd.left], cells[nd.right])
			frames[i] = satMax(frames[nd.left], frames[nd.right])
			words[i] = satMax(words[nd.left], words[nd.right])
			cost[i] = satAdd(overheadCost,
				satMax(cost[nd.left], cost[nd.right]))

		case tagPair:
			cells[i] = satMax(cells[nd.left], cells[nd.right])
			frames[i] = satMax(frames[nd.left], frames[nd.right])
			words[i] = satMax(words[nd.left], words[nd.right])
			cost[i] = satAdd(overheadCost,
				satAdd(cost[nd.left], cost[nd.right]))

		case tagInjl, tagInjr, tagTake, tagDrop:
			cells[i] = cells[nd.left]
			frames[i] = frames[nd.left]
			words[i] = words[nd.left]
			cost[i] = satAdd(overheadCost, cost[nd.left])

		case tagIden:
			cost[i] = satAdd(overheadCost, ta.tyWidth(nd.srcTy))

		case tagUnit:
			cost[i] = overheadCost

		case tagWitness, tagWord:
			cost[i] = satAdd(overheadCost, ta.tyWidth(nd.tgtTy))

		case tagJet:
			// A jet marshals its input and output values through
			// packed scratch words around the native call.
			words[i] = satAdd(scratchWords(ta.tyWidth(nd.srcTy)),
				scratchWords(ta.tyWidth(nd.tgtTy)))
			cost[i] = satAdd(overheadCost, nd.jet.cost)

		case tagHidden:
			// Hidden branches never run; reaching one aborts.
		}
	}

	root := d.root()
	rootIO := satAdd(ta.tyWidth(d.nodes[root].srcTy),
		ta.tyWidth(d.nodes[root].tgtTy))
	return staticBounds{
		cells:  satAdd(rootIO, cells[root]),
		frames: satAdd(2, frames[root]),
		words:  words[root],
		cost:   cost[root],
	}
}

// checkBounds rejects programs whose static bounds exceed the consensus
// ceilings.  Memory is checked before cost.  A negative budget means the
// caller imposes no cost limit; any other budget is clamped to BudgetMax
// and scaled to milli-weight units for the comparison.
func checkBounds(b staticBounds, budget int64) error {
	if b.cells > CellsMax {
		return verifyError(ErrExecMemory,
			"program exceeds the memory ceiling")
	}
	if budget < 0 {
		return nil
	}
	if budget > BudgetMax {
		budget = BudgetMax
	}
	if uint64(b.cost) > uint64(budget)*milliScale {
		return verifyError(ErrExecBudget,
			"program exceeds its execution budget")
	}
	return nil
}
