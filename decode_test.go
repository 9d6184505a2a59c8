// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func testPayload(fill byte) *chainhash.Hash {
	var h chainhash.Hash
	for i := range h {
		h[i] = fill
	}
	return &h
}

// TestDecodeUnitProgram decodes the smallest valid program.
func TestDecodeUnitProgram(t *testing.T) {
	d, err := decodeProgram(unitProgram())
	require.NoError(t, err)
	require.Len(t, d.nodes, 1)
	require.Equal(t, tagUnit, d.nodes[0].tag)
	require.Equal(t, uint64(0), d.witnessLen)
}

// TestDecodeAssertProgram pins the full node layout of a program using
// an assertion, a pruned branch, and shared children.
func TestDecodeAssertProgram(t *testing.T) {
	h := testPayload(0x42)
	d, err := decodeProgram(assertProgram(false, h))
	require.NoError(t, err)
	require.Len(t, d.nodes, 11)

	wantTags := []tag{tagUnit, tagInjl, tagWord, tagPair, tagIden,
		tagDrop, tagHidden, tagCase, tagComp, tagUnit, tagComp}
	for i, want := range wantTags {
		require.Equal(t, want, d.nodes[i].tag, "node %d", i)
	}
	require.Equal(t, int32(0), d.nodes[1].left)
	require.Equal(t, uint32(1), d.nodes[2].wordDepth)
	require.Equal(t, int32(1), d.nodes[3].left)
	require.Equal(t, int32(2), d.nodes[3].right)
	require.Equal(t, int32(4), d.nodes[5].left)
	require.Equal(t, int32(5), d.nodes[7].left)
	require.Equal(t, int32(6), d.nodes[7].right)
	require.Equal(t, int32(3), d.nodes[8].left)
	require.Equal(t, int32(7), d.nodes[8].right)
	require.Equal(t, int32(8), d.nodes[10].left)
	require.Equal(t, int32(9), d.nodes[10].right)
	require.Equal(t, *h, d.nodes[6].payload)
}

// TestTagStrings pins the diagnostic names the trace log prints for
// node tags.
func TestTagStrings(t *testing.T) {
	require.Equal(t, "comp", tagComp.String())
	require.Equal(t, "hidden", tagHidden.String())
	require.Equal(t, "word", tagWord.String())
	require.Equal(t, "unknown", tag(200).String())
}

// TestDecodeTruncated covers buffers ending mid-node and buffers whose
// declared witness block is missing.
func TestDecodeTruncated(t *testing.T) {
	// Three declared nodes but the buffer ends after the first one.
	w := newProgram(3)
	w.unit()
	_, err := decodeProgram(w.done())
	require.True(t, IsErrorCode(err, ErrBitstreamEOF))

	w = newProgram(1)
	w.unit()
	w.writeBit(true)
	w.writeNatural(64)
	_, err = decodeProgram(w.done())
	require.True(t, IsErrorCode(err, ErrBitstreamEOF))
}

// TestDecodeTrailingBytes rejects whole bytes after the program.
func TestDecodeTrailingBytes(t *testing.T) {
	prog := append(unitProgram(), 0x00)
	_, err := decodeProgram(prog)
	require.True(t, IsErrorCode(err, ErrBitstreamUnusedBytes))
}

// TestDecodeDirtyPadding rejects nonzero padding in the final byte.
func TestDecodeDirtyPadding(t *testing.T) {
	prog := unitProgram()
	prog[len(prog)-1] |= 0x01
	_, err := decodeProgram(prog)
	require.True(t, IsErrorCode(err, ErrBitstreamUnusedBits))
}

// TestDecodeFailStop rejects the reserved codes without reading past
// them.
func TestDecodeFailStop(t *testing.T) {
	w := newProgram(1)
	w.failNode()
	_, err := decodeProgram(w.done())
	require.True(t, IsErrorCode(err, ErrFailCode))

	w = newProgram(1)
	w.stopNode()
	_, err = decodeProgram(w.done())
	require.True(t, IsErrorCode(err, ErrStopCode))
}

// TestDecodeHiddenPlacement rejects hidden nodes anywhere but as one
// branch of a case.
func TestDecodeHiddenPlacement(t *testing.T) {
	w := newProgram(2)
	w.hidden(testPayload(1))
	w.take(1)
	_, err := decodeProgram(w.done())
	require.True(t, IsErrorCode(err, ErrHidden))

	w = newProgram(3)
	w.hidden(testPayload(1))
	w.hidden(testPayload(2))
	w.kase(2, 1)
	_, err = decodeProgram(w.done())
	require.True(t, IsErrorCode(err, ErrHidden))
}

// TestDecodeHiddenRoot rejects a program that is nothing but a pruned
// branch.
func TestDecodeHiddenRoot(t *testing.T) {
	w := newProgram(1)
	w.hidden(testPayload(7))
	_, err := decodeProgram(w.done())
	require.True(t, IsErrorCode(err, ErrHiddenRoot))
}

// TestDecodeOutOfOrder rejects both non-canonical orderings and
// unreachable nodes.
func TestDecodeOutOfOrder(t *testing.T) {
	// comp's left child serializes after its right child.
	w := newProgram(3)
	w.iden()
	w.unit()
	w.comp(1, 2)
	w.witness("")
	_, err := decodeProgram(w.done())
	require.True(t, IsErrorCode(err, ErrDataOutOfOrder))

	// Node 0 is not reachable from the root.
	w = newProgram(3)
	w.unit()
	w.iden()
	w.comp(1, 1)
	w.witness("")
	_, err = decodeProgram(w.done())
	require.True(t, IsErrorCode(err, ErrDataOutOfOrder))
}

// TestDecodeOutOfRange covers the range checks: the node ceiling, child
// references past the start, unknown jets, and oversized words.
func TestDecodeOutOfRange(t *testing.T) {
	w := &progWriter{}
	w.writeNatural(DagLenMax + 1)
	_, err := decodeProgram(w.done())
	require.True(t, IsErrorCode(err, ErrDataOutOfRange))

	w = newProgram(1)
	w.comp(1, 1)
	_, err = decodeProgram(w.done())
	require.True(t, IsErrorCode(err, ErrDataOutOfRange))

	w = newProgram(1)
	w.jet(99)
	_, err = decodeProgram(w.done())
	require.True(t, IsErrorCode(err, ErrDataOutOfRange))

	w = newProgram(1)
	w.writeBits(0x2, 2)
	w.writeNatural(33)
	_, err = decodeProgram(w.done())
	require.True(t, IsErrorCode(err, ErrDataOutOfRange))
}

// TestDecodeWitnessLength checks the declared witness block is located
// and sized correctly.
func TestDecodeWitnessLength(t *testing.T) {
	w := newProgram(1)
	w.unit()
	w.witness("10100")
	d, err := decodeProgram(w.done())
	require.NoError(t, err)
	require.Equal(t, uint64(5), d.witnessLen)

	// One bit of node count, five of the unit node, one presence bit,
	// and six for the length land the block at bit 13.
	require.Equal(t, uint64(13), d.witnessStart)
}
