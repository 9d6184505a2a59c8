// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

// The serialized form of a program is a single bit-packed buffer.  It
// opens with the node count, followed by each node in canonical order,
// the witness-presence flag with an optional witness bit length, the
// witness block itself, and zero padding up to the byte boundary.
//
// Node encodings, most significant bit first:
//
//	00000 comp        00001 case        00010 pair        00011 disconnect
//	00100 injl        00101 injr        00110 take        00111 drop
//	01000 iden        01001 unit        01010 fail        01011 stop
//	0110  hidden + 256-bit payload
//	0111  witness
//	10    word + depth + literal bits
//	11    jet + index
//
// Child references are encoded as positive offsets back from the
// referencing node.

// fiveBitTags maps the 5-bit combinator codes to their tags.  The fail and
// stop codes are handled separately since they abort the decode.
var fiveBitTags = [12]tag{
	tagComp, tagCase, tagPair, tagDisconnect,
	tagInjl, tagInjr, tagTake, tagDrop,
	tagIden, tagUnit, 0, 0,
}

// decodeProgram parses a serialized program into a DAG, enforcing every
// structural rule: the node ceiling, back-reference validity, hidden-node
// placement, canonical ordering, the witness declaration, and the final
// padding.
func decodeProgram(data []byte) (*dag, error) {
	br := newBitReader(data)

	dagLen, err := br.readNatural(DagLenMax + 1)
	if err != nil {
		return nil, err
	}

	d := &dag{
		nodes: make([]node, dagLen),
		data:  data,
	}
	for i := uint64(0); i < dagLen; i++ {
		if err := decodeNode(br, d, int32(i)); err != nil {
			return nil, err
		}
	}

	if d.isHidden(d.root()) {
		return nil, verifyError(ErrHiddenRoot,
			"program root is a hidden node")
	}
	if err := checkCanonicalOrder(d.nodes); err != nil {
		return nil, err
	}

	present, err := br.readBit()
	if err != nil {
		return nil, err
	}
	if present {
		witLen, err := br.readNatural(1 << 31)
		if err != nil {
			return nil, err
		}
		d.witnessLen = witLen
	}
	d.witnessStart = br.pos
	if br.bitsRemaining() < d.witnessLen {
		return nil, verifyError(ErrBitstreamEOF,
			"declared witness data is missing")
	}
	return d, br.checkPadding(d.witnessStart + d.witnessLen)
}

// decodeNode parses the node at index ix.
func decodeNode(br *bitReader, d *dag, ix int32) error {
	nd := &d.nodes[ix]
	nd.left, nd.right = -1, -1

	prefix, err := br.readBits(2)
	if err != nil {
		return err
	}
	switch prefix {
	case 3: // jet
		nd.tag = tagJet
		code, err := br.readNatural(1 << 31)
		if err != nil {
			return err
		}
		jet, ok := jetRegistry[uint32(code)]
		if !ok {
			return verifyError(ErrDataOutOfRange, "unknown jet")
		}
		nd.jet = jet
		return nil

	case 2: // word literal
		nd.tag = tagWord
		depth, err := br.readNatural(33)
		if err != nil {
			return err
		}
		nd.wordDepth = uint32(depth)
		width := uint64(1) << (depth - 1)
		nd.valueBits = make([]byte, (width+7)/8)
		nd.valueLen = uint32(width)
		return br.readBitsInto(nd.valueBits, width)
	}

	code, err := br.readBits(2)
	if err != nil {
		return err
	}
	code |= prefix << 2
	switch code {
	case 6: // hidden
		nd.tag = tagHidden
		return br.readHash(nd.payload[:])
	case 7: // witness
		nd.tag = tagWitness
		return nil
	}

	low, err := br.readBit()
	if err != nil {
		return err
	}
	code <<= 1
	if low {
		code |= 1
	}
	switch code {
	case 10:
		return verifyError(ErrFailCode, "fail code in program")
	case 11:
		return verifyError(ErrStopCode, "stop code in program")
	}
	nd.tag = fiveBitTags[code]

	// Child references count back from the current node, so offset k
	// resolves to index ix-k.  The bound rejects references before the
	// start of the array.
	children := nd.tag.numChildren()
	if children >= 1 {
		off, err := br.readNatural(uint64(ix) + 1)
		if err != nil {
			return err
		}
		nd.left = ix - int32(off)
	}
	if children == 2 {
		off, err := br.readNatural(uint64(ix) + 1)
		if err != nil {
			return err
		}
		nd.right = ix - int32(off)
	}

	// Hidden nodes commit to a pruned branch and only make sense as one
	// side of a case.  A case with both sides hidden has nothing left to
	// execute, so it is rejected as well.
	if nd.tag == tagCase {
		if d.isHidden(nd.left) && d.isHidden(nd.right) {
			return verifyError(ErrHidden,
				"case with two hidden branches")
		}
		return nil
	}
	if nd.left >= 0 && d.isHidden(nd.left) ||
		nd.right >= 0 && d.isHidden(nd.right) {

		return verifyError(ErrHidden,
			"hidden node outside a case branch")
	}
	return nil
}

// checkCanonicalOrder verifies that the nodes appear in the order a
// depth-first left-to-right walk from the root first completes them.
// Because the walk only reaches nodes connected to the root, this also
// rejects programs carrying unreachable nodes.
func checkCanonicalOrder(nodes []node) error {
	type walkFrame struct {
		ix    int32
		stage int8
	}
	visited := make([]bool, len(nodes))
	stack := make([]walkFrame, 0, 32)
	stack = append(stack, walkFrame{ix: int32(len(nodes) - 1)})

	next := int32(0)
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		nd := &nodes[f.ix]
		switch f.stage {
		case 0:
			f.stage = 1
			if c := nd.left; c >= 0 && !visited[c] {
				stack = append(stack, walkFrame{ix: c})
			}
		case 1:
			f.stage = 2
			if c := nd.right; c >= 0 && !visited[c] {
				stack = append(stack, walkFrame{ix: c})
			}
		default:
			ix := f.ix
			stack = stack[:len(stack)-1]
			visited[ix] = true
			if ix != next {
				return verifyError(ErrDataOutOfOrder,
					"nodes are not in canonical order")
			}
			next++
		}
	}
	if int(next) != len(nodes) {
		return verifyError(ErrDataOutOfOrder,
			"program contains unreachable nodes")
	}
	return nil
}
