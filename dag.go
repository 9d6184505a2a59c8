// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import "github.com/btcsuite/btcd/chaincfg/chainhash"

const (
	// DagLenMax is the maximum number of nodes a serialized program may
	// contain.
	DagLenMax = 8000000

	// CellsMax is the maximum number of memory cells the bit machine may
	// need to run a program.
	CellsMax = 5242880

	// BudgetMax is the maximum execution budget in weight units.  Any
	// caller-supplied budget is clamped to this value.
	BudgetMax = 4000050

	// milliScale converts weight units into the milli-weight units the
	// static cost analysis is carried out in.
	milliScale = 1000

	// overheadCost is the fixed per-node evaluation cost in milli-weight
	// units.
	overheadCost = 10
)

// tag enumerates the node kinds of a program DAG.
type tag uint8

const (
	tagComp tag = iota
	tagCase
	tagPair
	tagDisconnect
	tagInjl
	tagInjr
	tagTake
	tagDrop
	tagIden
	tagUnit
	tagHidden
	tagWitness
	tagJet
	tagWord
)

var tagStrings = map[tag]string{
	tagComp:       "comp",
	tagCase:       "case",
	tagPair:       "pair",
	tagDisconnect: "disconnect",
	tagInjl:       "injl",
	tagInjr:       "injr",
	tagTake:       "take",
	tagDrop:       "drop",
	tagIden:       "iden",
	tagUnit:       "unit",
	tagHidden:     "hidden",
	tagWitness:    "witness",
	tagJet:        "jet",
	tagWord:       "word",
}

func (t tag) String() string {
	if s := tagStrings[t]; s != "" {
		return s
	}
	return "unknown"
}

// numChildren returns how many child references the tag carries in the
// serialization.
func (t tag) numChildren() int {
	switch t {
	case tagComp, tagCase, tagPair, tagDisconnect:
		return 2
	case tagInjl, tagInjr, tagTake, tagDrop:
		return 1
	default:
		return 0
	}
}

// node is one entry of the flat DAG array.  Child references are indices
// into the same array and always point at earlier entries.  The type
// variable indices and Merkle roots are filled in by the later stages.
type node struct {
	tag         tag
	left, right int32

	// payload is the commitment carried by a hidden node.
	payload chainhash.Hash

	// jet identifies the jet a jet node dispatches to.
	jet *jetDesc

	// wordDepth is the depth parameter of a word literal.  The literal's
	// bit width is 1 << (wordDepth - 1).
	wordDepth uint32

	// valueBits holds the bit-packed cell image of a word literal or,
	// after the witness fill stage, of a witness value.  valueLen is its
	// length in bits.
	valueBits []byte
	valueLen  uint32

	// srcTy and tgtTy index the type arena after inference.
	srcTy, tgtTy int32

	// cmr and imr are the node's commitment and identity Merkle roots.
	cmr, imr chainhash.Hash
}

// dag is a decoded program together with the location of its witness
// block inside the original buffer.
type dag struct {
	nodes []node

	// data is the full serialized buffer; the witness block occupies
	// witnessLen bits starting at bit witnessStart.
	data         []byte
	witnessStart uint64
	witnessLen   uint64
}

// root returns the index of the program root, which canonical ordering
// forces to be the final node.
func (d *dag) root() int32 {
	return int32(len(d.nodes) - 1)
}

// isHidden reports whether node ix is a hidden node.
func (d *dag) isHidden(ix int32) bool {
	return d.nodes[ix].tag == tagHidden
}
