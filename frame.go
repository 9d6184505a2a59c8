// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// Frame is one frame of the bit machine: a fixed-size array of bit cells
// with a cursor.  Read frames expose their data relative to the cursor
// without moving it; write frames advance the cursor as values are
// written.  Jets receive their source and destination as Frames, so the
// relative accessors below are the public face of the machine.
//
// Each frame owns its cells.  Tail-call optimization releases read
// frames out of allocation order, which rules out carving all frames from
// one shared arena; the static cell bound still caps the total footprint.
type Frame struct {
	cells  []uint64
	size   uint32
	cursor uint32
}

func newFrame(size uint32) *Frame {
	return &Frame{
		cells: make([]uint64, (uint64(size)+63)/64),
		size:  size,
	}
}

func (f *Frame) bit(i uint32) bool {
	return f.cells[i>>6]>>(63-i&63)&1 == 1
}

func (f *Frame) setBit(i uint32) {
	f.cells[i>>6] |= 1 << (63 - i&63)
}

// peek returns the bit under the cursor.
func (f *Frame) peek() bool {
	return f.bit(f.cursor)
}

func (f *Frame) fwd(n uint32) { f.cursor += n }
func (f *Frame) bwd(n uint32) { f.cursor -= n }

// writeBit writes one bit at the cursor and advances it.
func (f *Frame) writeBit(b bool) {
	if b {
		f.setBit(f.cursor)
	}
	f.cursor++
}

// skip advances the cursor over n cells, leaving them zero.
func (f *Frame) skip(n uint32) { f.cursor += n }

// copyFrom copies n bits from the read frame src, starting at src's
// cursor, into this frame at its cursor.  Only the write cursor moves.
func (f *Frame) copyFrom(src *Frame, n uint32) {
	for i := uint32(0); i < n; i++ {
		f.writeBit(src.bit(src.cursor + i))
	}
}

// writeBytes writes the bytes most significant bit first.
func (f *Frame) writeBytes(b []byte) {
	for _, v := range b {
		for j := 7; j >= 0; j-- {
			f.writeBit(v>>uint(j)&1 == 1)
		}
	}
}

// writeBits writes the first n bits of the packed buffer b.
func (f *Frame) writeBits(b []byte, n uint32) {
	for i := uint32(0); i < n; i++ {
		f.writeBit(b[i>>3]&(0x80>>(i&7)) != 0)
	}
}

// Bit returns the bit at the given offset past the cursor.
func (f *Frame) Bit(off uint32) bool {
	return f.bit(f.cursor + off)
}

// Uint32 returns the 32 bits at the given offset past the cursor as a
// big-endian unsigned integer.
func (f *Frame) Uint32(off uint32) uint32 {
	var v uint32
	for i := uint32(0); i < 32; i++ {
		v <<= 1
		if f.bit(f.cursor + off + i) {
			v |= 1
		}
	}
	return v
}

// WriteBit appends a single bit at the cursor.
func (f *Frame) WriteBit(b bool) { f.writeBit(b) }

// WriteUint32 appends 32 bits, most significant first.
func (f *Frame) WriteUint32(v uint32) {
	for i := 31; i >= 0; i-- {
		f.writeBit(v>>uint(i)&1 == 1)
	}
}

// WriteUint64 appends 64 bits, most significant first.
func (f *Frame) WriteUint64(v uint64) {
	for i := 63; i >= 0; i-- {
		f.writeBit(v>>uint(i)&1 == 1)
	}
}

// WriteHash appends all 256 bits of the hash.
func (f *Frame) WriteHash(h *chainhash.Hash) {
	f.writeBytes(h[:])
}
