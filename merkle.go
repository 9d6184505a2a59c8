// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Every Merkle root in this package is a BIP340-style tagged hash.  The
// tag namespaces are split into a commitment family, which covers only
// what the program committed to at address-construction time, and an
// identity family, which additionally covers the inferred types and the
// jet and word literals.

var (
	cmrTags = map[tag][]byte{
		tagComp:       []byte("Simplicity\x1fCommitment\x1fcomp"),
		tagCase:       []byte("Simplicity\x1fCommitment\x1fcase"),
		tagPair:       []byte("Simplicity\x1fCommitment\x1fpair"),
		tagDisconnect: []byte("Simplicity\x1fCommitment\x1fdisconnect"),
		tagInjl:       []byte("Simplicity\x1fCommitment\x1finjl"),
		tagInjr:       []byte("Simplicity\x1fCommitment\x1finjr"),
		tagTake:       []byte("Simplicity\x1fCommitment\x1ftake"),
		tagDrop:       []byte("Simplicity\x1fCommitment\x1fdrop"),
		tagIden:       []byte("Simplicity\x1fCommitment\x1fiden"),
		tagUnit:       []byte("Simplicity\x1fCommitment\x1funit"),
		tagWitness:    []byte("Simplicity\x1fCommitment\x1fwitness"),
		tagJet:        []byte("Simplicity\x1fCommitment\x1fjet"),
		tagWord:       []byte("Simplicity\x1fCommitment\x1fword"),
	}

	imrTags = map[tag][]byte{
		tagComp:       []byte("Simplicity\x1fIdentity\x1fcomp"),
		tagCase:       []byte("Simplicity\x1fIdentity\x1fcase"),
		tagPair:       []byte("Simplicity\x1fIdentity\x1fpair"),
		tagDisconnect: []byte("Simplicity\x1fIdentity\x1fdisconnect"),
		tagInjl:       []byte("Simplicity\x1fIdentity\x1finjl"),
		tagInjr:       []byte("Simplicity\x1fIdentity\x1finjr"),
		tagTake:       []byte("Simplicity\x1fIdentity\x1ftake"),
		tagDrop:       []byte("Simplicity\x1fIdentity\x1fdrop"),
		tagIden:       []byte("Simplicity\x1fIdentity\x1fiden"),
		tagUnit:       []byte("Simplicity\x1fIdentity\x1funit"),
		tagWitness:    []byte("Simplicity\x1fIdentity\x1fwitness"),
		tagJet:        []byte("Simplicity\x1fIdentity\x1fjet"),
		tagWord:       []byte("Simplicity\x1fIdentity\x1fword"),
	}

	tyUnitTag = []byte("Simplicity\x1fType\x1funit")
	tySumTag  = []byte("Simplicity\x1fType\x1fsum")
	tyProdTag = []byte("Simplicity\x1fType\x1fprod")
	tyArrTag  = []byte("Simplicity\x1fType\x1farrow")
)

// commitmentRoots fills in the commitment Merkle root of every node.  The
// commitment family covers structure and hidden payloads only: witness
// data never contributes, a disconnect commits only to its left child,
// and a hidden node's root is its payload verbatim.  This is exactly the
// view of the program the locking output had.
func commitmentRoots(d *dag) {
	for i := range d.nodes {
		nd := &d.nodes[i]
		switch nd.tag {
		case tagHidden:
			nd.cmr = nd.payload

		case tagIden, tagUnit, tagWitness:
			nd.cmr = *chainhash.TaggedHash(cmrTags[nd.tag])

		case tagInjl, tagInjr, tagTake, tagDrop, tagDisconnect:
			nd.cmr = *chainhash.TaggedHash(cmrTags[nd.tag],
				d.nodes[nd.left].cmr[:])

		case tagComp, tagCase, tagPair:
			nd.cmr = *chainhash.TaggedHash(cmrTags[nd.tag],
				d.nodes[nd.left].cmr[:],
				d.nodes[nd.right].cmr[:])

		case tagJet:
			var code [4]byte
			binary.BigEndian.PutUint32(code[:], nd.jet.code)
			nd.cmr = *chainhash.TaggedHash(cmrTags[nd.tag], code[:])

		case tagWord:
			var depth [4]byte
			binary.BigEndian.PutUint32(depth[:], nd.wordDepth)
			nd.cmr = *chainhash.TaggedHash(cmrTags[nd.tag],
				depth[:], nd.valueBits)
		}
	}
}

// typeHasher computes Merkle roots of frozen types, memoized per
// equivalence class so shared types hash once.
type typeHasher struct {
	ta   *typeArena
	tmr  []chainhash.Hash
	done []bool
}

func newTypeHasher(ta *typeArena) *typeHasher {
	return &typeHasher{
		ta:   ta,
		tmr:  make([]chainhash.Hash, len(ta.parent)),
		done: make([]bool, len(ta.parent)),
	}
}

// root returns the Merkle root of the frozen type v.
func (th *typeHasher) root(v int32) chainhash.Hash {
	r := th.ta.find(v)
	if th.done[r] {
		return th.tmr[r]
	}

	// Post-order walk; frozen types are acyclic.
	stack := []int32{r}
	for len(stack) > 0 {
		cur := th.ta.find(stack[len(stack)-1])
		if th.done[cur] {
			stack = stack[:len(stack)-1]
			continue
		}
		if th.ta.kind[cur] == tyUnit {
			th.tmr[cur] = *chainhash.TaggedHash(tyUnitTag)
			th.done[cur] = true
			stack = stack[:len(stack)-1]
			continue
		}
		l := th.ta.find(th.ta.left[cur])
		rr := th.ta.find(th.ta.right[cur])
		if !th.done[l] || !th.done[rr] {
			stack = append(stack, rr, l)
			continue
		}
		tg := tySumTag
		if th.ta.kind[cur] == tyProd {
			tg = tyProdTag
		}
		th.tmr[cur] = *chainhash.TaggedHash(tg,
			th.tmr[l][:], th.tmr[rr][:])
		th.done[cur] = true
		stack = stack[:len(stack)-1]
	}
	return th.tmr[r]
}

// arrow returns the Merkle root of a node's source-to-target arrow.
func (th *typeHasher) arrow(nd *node) chainhash.Hash {
	src := th.root(nd.srcTy)
	tgt := th.root(nd.tgtTy)
	return *chainhash.TaggedHash(tyArrTag, src[:], tgt[:])
}

// identityRoots fills in the identity Merkle root of every node and
// enforces maximal sharing: no two nodes may carry the same identity, and
// no two hidden nodes the same payload.  The identity family extends the
// commitment family with the inferred arrow of each node; witness values
// are deliberately excluded so that identity is a property of the program
// rather than of one particular execution.
func identityRoots(d *dag, ta *typeArena) error {
	th := newTypeHasher(ta)

	// childIMR is the identity a child contributes to its parent; for
	// a hidden child that is the payload it commits to.
	childIMR := func(ix int32) []byte {
		return d.nodes[ix].imr[:]
	}

	seen := make(map[chainhash.Hash]struct{}, len(d.nodes))
	for i := range d.nodes {
		nd := &d.nodes[i]
		switch nd.tag {
		case tagHidden:
			nd.imr = nd.payload

		case tagIden, tagUnit, tagWitness:
			arrow := th.arrow(nd)
			nd.imr = *chainhash.TaggedHash(imrTags[nd.tag],
				arrow[:])

		case tagInjl, tagInjr, tagTake, tagDrop:
			arrow := th.arrow(nd)
			nd.imr = *chainhash.TaggedHash(imrTags[nd.tag],
				childIMR(nd.left), arrow[:])

		case tagComp, tagCase, tagPair, tagDisconnect:
			arrow := th.arrow(nd)
			nd.imr = *chainhash.TaggedHash(imrTags[nd.tag],
				childIMR(nd.left), childIMR(nd.right),
				arrow[:])

		case tagJet, tagWord:
			arrow := th.arrow(nd)
			nd.imr = *chainhash.TaggedHash(imrTags[nd.tag],
				nd.cmr[:], arrow[:])
		}

		if _, ok := seen[nd.imr]; ok {
			return verifyError(ErrUnsharedSubexpression,
				"duplicate subexpression is not shared")
		}
		seen[nd.imr] = struct{}{}
	}
	return nil
}
