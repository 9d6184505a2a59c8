// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

// tyKind enumerates the shapes a Simplicity type can take.  A free
// variable is a type that no constraint has bound yet; any variable still
// free once inference finishes resolves to the unit type.
type tyKind uint8

const (
	tyFree tyKind = iota
	tyUnit
	tySum
	tyProd
)

// typeArena is a union-find forest of type variables scoped to a single
// verification call.  Variables are indices into the parallel slices.
// Unification never allocates structure, it only merges equivalence
// classes, so inference runs in near-linear time in the program size.
type typeArena struct {
	parent []int32
	rank   []uint8
	kind   []tyKind
	left   []int32
	right  []int32

	// width and color are populated by the freeze pass.  Widths saturate
	// at MaxUint32, which no consensus ceiling accepts.
	width []uint32
	color []uint8

	// wordTy memoizes the word types by depth.
	wordTy [33]int32
}

func newTypeArena(hint int) *typeArena {
	ta := &typeArena{
		parent: make([]int32, 0, hint),
		rank:   make([]uint8, 0, hint),
		kind:   make([]tyKind, 0, hint),
		left:   make([]int32, 0, hint),
		right:  make([]int32, 0, hint),
	}
	for i := range ta.wordTy {
		ta.wordTy[i] = -1
	}
	return ta
}

func (ta *typeArena) alloc(k tyKind, l, r int32) int32 {
	v := int32(len(ta.parent))
	ta.parent = append(ta.parent, v)
	ta.rank = append(ta.rank, 0)
	ta.kind = append(ta.kind, k)
	ta.left = append(ta.left, l)
	ta.right = append(ta.right, r)
	return v
}

func (ta *typeArena) fresh() int32 { return ta.alloc(tyFree, -1, -1) }

func (ta *typeArena) unit() int32 { return ta.alloc(tyUnit, -1, -1) }

func (ta *typeArena) sum(l, r int32) int32 { return ta.alloc(tySum, l, r) }

func (ta *typeArena) prod(l, r int32) int32 { return ta.alloc(tyProd, l, r) }

// word returns the type of a word literal of the given depth: depth 1 is
// a single bit, and each further depth squares the previous type.  The
// bit width is 1 << (depth-1).
func (ta *typeArena) word(depth uint32) int32 {
	if ta.wordTy[depth] >= 0 {
		return ta.wordTy[depth]
	}
	var v int32
	if depth == 1 {
		v = ta.sum(ta.unit(), ta.unit())
	} else {
		half := ta.word(depth - 1)
		v = ta.prod(half, half)
	}
	ta.wordTy[depth] = v
	return v
}

// find returns the representative of v's equivalence class, compressing
// the path along the way.
func (ta *typeArena) find(v int32) int32 {
	for ta.parent[v] != v {
		ta.parent[v] = ta.parent[ta.parent[v]]
		v = ta.parent[v]
	}
	return v
}

type unifyPair struct {
	a, b int32
}

// unify merges the equivalence classes of a and b, propagating structure
// through sums and products with an explicit worklist.
func (ta *typeArena) unify(a, b int32) error {
	work := []unifyPair{{a, b}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]

		ra, rb := ta.find(p.a), ta.find(p.b)
		if ra == rb {
			continue
		}
		ka, kb := ta.kind[ra], ta.kind[rb]
		switch {
		case ka == tyFree && kb == tyFree:
			if ta.rank[ra] < ta.rank[rb] {
				ra, rb = rb, ra
			}
			if ta.rank[ra] == ta.rank[rb] {
				ta.rank[ra]++
			}
			ta.parent[rb] = ra
		case ka == tyFree:
			ta.parent[ra] = rb
		case kb == tyFree:
			ta.parent[rb] = ra
		case ka != kb:
			return verifyError(ErrTypeUnification,
				"type constraints are unsatisfiable")
		default:
			// Same bound kind.  Keep rb's structure and merge the
			// children, which is a no-op for two units.
			ta.parent[ra] = rb
			if ka != tyUnit {
				work = append(work,
					unifyPair{ta.left[ra], ta.left[rb]},
					unifyPair{ta.right[ra], ta.right[rb]})
			}
		}
	}
	return nil
}

type freezeFrame struct {
	v     int32
	stage int8
}

// freeze finalizes the type rooted at v: remaining free variables become
// unit, bit widths are computed bottom-up, and any cycle in the bound
// structure is reported as an occurs-check failure.  Already-frozen
// subtrees are skipped, so freezing every node of a program touches each
// equivalence class once.
func (ta *typeArena) freeze(v int32) error {
	if ta.color == nil {
		ta.color = make([]uint8, len(ta.parent))
		ta.width = make([]uint32, len(ta.parent))
	}

	stack := []freezeFrame{{v: v}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.stage == 1 {
			r := f.v
			wl := ta.width[ta.find(ta.left[r])]
			wr := ta.width[ta.find(ta.right[r])]
			if ta.kind[r] == tySum {
				ta.width[r] = satAdd(1, satMax(wl, wr))
			} else {
				ta.width[r] = satAdd(wl, wr)
			}
			ta.color[r] = 2
			stack = stack[:len(stack)-1]
			continue
		}

		r := ta.find(f.v)
		switch ta.color[r] {
		case 2:
			stack = stack[:len(stack)-1]
			continue
		case 1:
			return verifyError(ErrTypeOccursCheck,
				"type constraints admit only an infinite type")
		}
		if ta.kind[r] == tyFree {
			ta.kind[r] = tyUnit
		}
		if ta.kind[r] == tyUnit {
			ta.width[r] = 0
			ta.color[r] = 2
			stack = stack[:len(stack)-1]
			continue
		}
		ta.color[r] = 1
		f.v, f.stage = r, 1
		stack = append(stack,
			freezeFrame{v: ta.right[r]},
			freezeFrame{v: ta.left[r]})
	}
	return nil
}

// tyWidth returns the bit width of a frozen type.
func (ta *typeArena) tyWidth(v int32) uint32 {
	return ta.width[ta.find(v)]
}

// tyKindOf returns the kind of a frozen type.
func (ta *typeArena) tyKindOf(v int32) tyKind {
	return ta.kind[ta.find(v)]
}

// tyChildren returns the frozen children of a sum or product type.
func (ta *typeArena) tyChildren(v int32) (int32, int32) {
	r := ta.find(v)
	return ta.left[r], ta.right[r]
}

// inferTypes assigns a source and target type to every non-hidden node of
// the DAG, unifying the constraints each combinator imposes, and finally
// checks that the root is a unit-to-unit program.
func inferTypes(d *dag) (*typeArena, error) {
	ta := newTypeArena(4 * len(d.nodes))

	for i := range d.nodes {
		nd := &d.nodes[i]
		nd.srcTy, nd.tgtTy = -1, -1
		var err error
		switch nd.tag {
		case tagIden:
			a := ta.fresh()
			nd.srcTy, nd.tgtTy = a, a

		case tagUnit:
			nd.srcTy, nd.tgtTy = ta.fresh(), ta.unit()

		case tagInjl:
			s := &d.nodes[nd.left]
			nd.srcTy = s.srcTy
			nd.tgtTy = ta.sum(s.tgtTy, ta.fresh())

		case tagInjr:
			s := &d.nodes[nd.left]
			nd.srcTy = s.srcTy
			nd.tgtTy = ta.sum(ta.fresh(), s.tgtTy)

		case tagTake:
			s := &d.nodes[nd.left]
			nd.srcTy = ta.prod(s.srcTy, ta.fresh())
			nd.tgtTy = s.tgtTy

		case tagDrop:
			s := &d.nodes[nd.left]
			nd.srcTy = ta.prod(ta.fresh(), s.srcTy)
			nd.tgtTy = s.tgtTy

		case tagComp:
			s, t := &d.nodes[nd.left], &d.nodes[nd.right]
			err = ta.unify(s.tgtTy, t.srcTy)
			nd.srcTy, nd.tgtTy = s.srcTy, t.tgtTy

		case tagPair:
			s, t := &d.nodes[nd.left], &d.nodes[nd.right]
			err = ta.unify(s.srcTy, t.srcTy)
			nd.srcTy = s.srcTy
			nd.tgtTy = ta.prod(s.tgtTy, t.tgtTy)

		case tagCase:
			a, b, c := ta.fresh(), ta.fresh(), ta.fresh()
			out := ta.fresh()
			nd.srcTy = ta.prod(ta.sum(a, b), c)
			nd.tgtTy = out
			if !d.isHidden(nd.left) {
				s := &d.nodes[nd.left]
				err = ta.unify(s.srcTy, ta.prod(a, c))
				if err == nil {
					err = ta.unify(s.tgtTy, out)
				}
			}
			if err == nil && !d.isHidden(nd.right) {
				t := &d.nodes[nd.right]
				err = ta.unify(t.srcTy, ta.prod(b, c))
				if err == nil {
					err = ta.unify(t.tgtTy, out)
				}
			}

		case tagDisconnect:
			s, t := &d.nodes[nd.left], &d.nodes[nd.right]
			a, b, c := ta.fresh(), ta.fresh(), ta.fresh()
			err = ta.unify(s.srcTy, ta.prod(ta.word(9), a))
			if err == nil {
				err = ta.unify(s.tgtTy, ta.prod(b, c))
			}
			if err == nil {
				err = ta.unify(t.srcTy, c)
			}
			nd.srcTy = a
			nd.tgtTy = ta.prod(b, t.tgtTy)

		case tagWitness:
			nd.srcTy, nd.tgtTy = ta.fresh(), ta.fresh()

		case tagJet:
			nd.srcTy, nd.tgtTy = nd.jet.types(ta)

		case tagWord:
			nd.srcTy = ta.unit()
			nd.tgtTy = ta.word(nd.wordDepth)

		case tagHidden:
			// Hidden nodes carry no expression and stay untyped.
		}
		if err != nil {
			return nil, err
		}
	}

	for i := range d.nodes {
		nd := &d.nodes[i]
		if nd.tag == tagHidden {
			continue
		}
		if err := ta.freeze(nd.srcTy); err != nil {
			return nil, err
		}
		if err := ta.freeze(nd.tgtTy); err != nil {
			return nil, err
		}
	}

	root := &d.nodes[d.root()]
	if ta.tyKindOf(root.srcTy) != tyUnit || ta.tyKindOf(root.tgtTy) != tyUnit {
		return nil, verifyError(ErrTypeNotProgram,
			"root expression is not unit to unit")
	}
	return ta, nil
}
