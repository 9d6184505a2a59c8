// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

// witnessReader walks the declared witness block.  The decoder has
// already verified the block is physically present, so running out of
// bits here means the declared length was too short for the inferred
// witness types, a distinct failure from a truncated buffer.
type witnessReader struct {
	data []byte
	pos  uint64
	end  uint64
}

func (wr *witnessReader) readBit() (bool, error) {
	if wr.pos >= wr.end {
		return false, verifyError(ErrWitnessEOF,
			"witness data ran out before all values were filled")
	}
	b := wr.data[wr.pos>>3]
	bit := b>>(7-uint(wr.pos&7))&1 == 1
	wr.pos++
	return bit, nil
}

type fillFrame struct {
	ty  int32
	off uint32
}

// fillWitness reads one value of each witness node's target type from
// the witness block, in node order, and stores its cell image on the
// node for the bit machine to write out verbatim.  Values are read
// type-directed: a sum is one tag bit followed by the chosen arm, which
// lands at the end of the padded cell span; a product is both components
// in order.  The declared block must be consumed exactly.
func fillWitness(d *dag, ta *typeArena) error {
	wr := &witnessReader{
		data: d.data,
		pos:  d.witnessStart,
		end:  d.witnessStart + d.witnessLen,
	}

	for i := range d.nodes {
		nd := &d.nodes[i]
		if nd.tag != tagWitness {
			continue
		}
		width := ta.tyWidth(nd.tgtTy)
		nd.valueBits = make([]byte, (uint64(width)+7)/8)
		nd.valueLen = width

		stack := []fillFrame{{ty: nd.tgtTy}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			switch ta.tyKindOf(f.ty) {
			case tyUnit:

			case tySum:
				bit, err := wr.readBit()
				if err != nil {
					return err
				}
				l, r := ta.tyChildren(f.ty)
				arm := l
				if bit {
					arm = r
					nd.valueBits[f.off>>3] |= 0x80 >> (f.off & 7)
				}
				armOff := f.off + ta.tyWidth(f.ty) -
					ta.tyWidth(arm)
				stack = append(stack,
					fillFrame{ty: arm, off: armOff})

			case tyProd:
				l, r := ta.tyChildren(f.ty)
				stack = append(stack,
					fillFrame{ty: r, off: f.off + ta.tyWidth(l)},
					fillFrame{ty: l, off: f.off})
			}
		}
	}

	if wr.pos != wr.end {
		return verifyError(ErrWitnessUnusedBits,
			"unused bits at the end of the witness data")
	}
	return nil
}
