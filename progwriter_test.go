// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import (
	"math/bits"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// bitWriter serializes test programs most significant bit first,
// mirroring what the decoder expects.  The backing slice grows a byte at
// a time, so finished output is already zero padded.
type bitWriter struct {
	data  []byte
	nbits uint
}

func (w *bitWriter) writeBit(b bool) {
	if w.nbits&7 == 0 {
		w.data = append(w.data, 0)
	}
	if b {
		w.data[w.nbits>>3] |= 0x80 >> (w.nbits & 7)
	}
	w.nbits++
}

// writeBits writes the low n bits of v, most significant first.
func (w *bitWriter) writeBits(v uint64, n uint) {
	for i := n; i > 0; i-- {
		w.writeBit(v>>(i-1)&1 == 1)
	}
}

// writeNatural writes a positive integer in the self-delimiting prefix
// encoding the decoder reads.
func (w *bitWriter) writeNatural(n uint64) {
	if n == 1 {
		w.writeBit(false)
		return
	}
	width := uint(bits.Len64(n))
	w.writeBit(true)
	w.writeNatural(uint64(width - 1))
	w.writeBits(n, width-1)
}

// progWriter assembles a serialized program node by node.  Child
// references are given as back offsets, exactly as they appear on the
// wire, so each test lays out its DAG explicitly.
type progWriter struct {
	bitWriter
}

// newProgram starts a program with the given node count.
func newProgram(numNodes uint64) *progWriter {
	w := &progWriter{}
	w.writeNatural(numNodes)
	return w
}

func (w *progWriter) combinator(code uint64, children ...uint64) {
	w.writeBits(code, 5)
	for _, c := range children {
		w.writeNatural(c)
	}
}

func (w *progWriter) comp(l, r uint64) { w.combinator(0x00, l, r) }

func (w *progWriter) kase(l, r uint64) { w.combinator(0x01, l, r) }

func (w *progWriter) pair(l, r uint64) { w.combinator(0x02, l, r) }

func (w *progWriter) disconnect(l, r uint64) { w.combinator(0x03, l, r) }

func (w *progWriter) injl(c uint64) { w.combinator(0x04, c) }

func (w *progWriter) injr(c uint64) { w.combinator(0x05, c) }

func (w *progWriter) take(c uint64) { w.combinator(0x06, c) }

func (w *progWriter) drop(c uint64) { w.combinator(0x07, c) }

func (w *progWriter) iden() { w.combinator(0x08) }

func (w *progWriter) unit() { w.combinator(0x09) }

func (w *progWriter) failNode() { w.combinator(0x0a) }

func (w *progWriter) stopNode() { w.combinator(0x0b) }

func (w *progWriter) hidden(payload *chainhash.Hash) {
	w.writeBits(0x6, 4)
	for _, b := range payload {
		w.writeBits(uint64(b), 8)
	}
}

func (w *progWriter) witnessNode() {
	w.writeBits(0x7, 4)
}

// word writes a word literal of the given depth; value supplies its low
// bits and anything wider is zero filled.
func (w *progWriter) word(depth uint64, value uint64) {
	w.writeBits(0x2, 2)
	w.writeNatural(depth)
	width := uint64(1) << (depth - 1)
	for width > 64 {
		w.writeBit(false)
		width--
	}
	w.writeBits(value, uint(width))
}

func (w *progWriter) jet(code uint64) {
	w.writeBits(0x3, 2)
	w.writeNatural(code)
}

// witness writes the witness preamble and block.  The bits string spells
// the block out literally; an empty string declares no witness data.
func (w *progWriter) witness(bitstr string) {
	if bitstr == "" {
		w.writeBit(false)
		return
	}
	w.writeBit(true)
	w.writeNatural(uint64(len(bitstr)))
	for _, c := range bitstr {
		w.writeBit(c == '1')
	}
}

func (w *progWriter) done() []byte {
	return w.data
}

// unitProgram is the smallest accepted program: a single unit node.
func unitProgram() []byte {
	w := newProgram(1)
	w.unit()
	w.witness("")
	return w.done()
}

// idenCompProgram is comp iden unit, the smallest program exercising a
// midpoint frame.
func idenCompProgram() []byte {
	w := newProgram(3)
	w.iden()
	w.unit()
	w.comp(2, 1)
	w.witness("")
	return w.done()
}

// witnessVerifyProgram feeds a single witness bit through the verify
// jet: comp (comp witness verify) unit.
func witnessVerifyProgram(witBits string) []byte {
	w := newProgram(5)
	w.witnessNode()
	w.jet(jetCodeVerify)
	w.comp(2, 1)
	w.unit()
	w.comp(2, 1)
	w.witness(witBits)
	return w.done()
}

// assertProgram builds a program that injects a constant bit into an
// assertion whose other branch is pruned.  With a left injection the
// visible branch runs; with a right injection execution hits the hidden
// branch.  The tail of the case input is a bit literal and the live
// branch routes it through drop iden, so every node freezes to a
// distinct arrow and maximal sharing holds.
//
//	0: unit        4: iden        8: comp 3 7
//	1: injl/r 0    5: drop 4      9: unit
//	2: word 1      6: hidden     10: comp 8 9
//	3: pair 1 2    7: case 5 6
func assertProgram(detonate bool, payload *chainhash.Hash) []byte {
	w := newProgram(11)
	w.unit()
	if detonate {
		w.injr(1)
	} else {
		w.injl(1)
	}
	w.word(1, 0)
	w.pair(2, 1)
	w.iden()
	w.drop(1)
	w.hidden(payload)
	w.kase(2, 1)
	w.comp(5, 1)
	w.unit()
	w.comp(2, 1)
	w.witness("")
	return w.done()
}
