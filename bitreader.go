// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import "math"

// bitReader is a cursor over a byte slice that reads most significant bit
// first.  Unlike a stream reader it tracks its absolute bit position, which
// the padding and witness-length rules depend on.
type bitReader struct {
	data []byte
	pos  uint64
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

// bitsRemaining returns the number of unread bits in the buffer.
func (br *bitReader) bitsRemaining() uint64 {
	total := uint64(len(br.data)) * 8
	if br.pos >= total {
		return 0
	}
	return total - br.pos
}

// readBit reads the next bit from the buffer.
func (br *bitReader) readBit() (bool, error) {
	if br.bitsRemaining() < 1 {
		return false, verifyError(ErrBitstreamEOF,
			"unexpected end of bitstream")
	}
	b := br.data[br.pos>>3]
	bit := b>>(7-uint(br.pos&7))&1 == 1
	br.pos++
	return bit, nil
}

// readBits reads the next n bits, n <= 64, as an unsigned integer with the
// first bit read landing in the most significant position.
func (br *bitReader) readBits(n uint) (uint64, error) {
	if br.bitsRemaining() < uint64(n) {
		return 0, verifyError(ErrBitstreamEOF,
			"unexpected end of bitstream")
	}
	var v uint64
	for i := uint(0); i < n; i++ {
		b := br.data[br.pos>>3]
		v = v<<1 | uint64(b>>(7-uint(br.pos&7))&1)
		br.pos++
	}
	return v, nil
}

// skipBits advances the cursor by n bits without inspecting them.
func (br *bitReader) skipBits(n uint64) error {
	if br.bitsRemaining() < n {
		return verifyError(ErrBitstreamEOF,
			"unexpected end of bitstream")
	}
	br.pos += n
	return nil
}

// readNatural decodes a self-delimiting positive integer.  The encoding
// prefixes the value with a unary recursion depth: each leading 1 bit adds
// a round, a 0 bit ends the prefix, and each round then reads a length
// word whose width is the value of the previous round.  Zero is not
// expressible; the minimum value is 1.  Values of bound or more, and any
// intermediate length word wider than 31 bits, are rejected as out of
// range.
func (br *bitReader) readNatural(bound uint64) (uint64, error) {
	depth := 0
	for {
		bit, err := br.readBit()
		if err != nil {
			return 0, err
		}
		if !bit {
			break
		}
		depth++
	}

	var n uint64 = 1
	var length uint = 0
	for {
		word, err := br.readBits(length)
		if err != nil {
			return 0, err
		}
		n = n<<length | word
		if depth == 0 {
			if n >= bound {
				return 0, verifyError(ErrDataOutOfRange,
					"decoded integer exceeds its bound")
			}
			return n, nil
		}
		depth--
		if n > 31 {
			return 0, verifyError(ErrDataOutOfRange,
				"integer length prefix is too wide")
		}
		length = uint(n)
		n = 1
	}
}

// readBitsInto reads the next n bits into dst, packed most significant
// bit first.  dst must hold at least (n+7)/8 bytes and start zeroed.
func (br *bitReader) readBitsInto(dst []byte, n uint64) error {
	if br.bitsRemaining() < n {
		return verifyError(ErrBitstreamEOF,
			"unexpected end of bitstream")
	}
	for i := uint64(0); i < n; i++ {
		b := br.data[br.pos>>3]
		if b>>(7-uint(br.pos&7))&1 == 1 {
			dst[i>>3] |= 0x80 >> uint(i&7)
		}
		br.pos++
	}
	return nil
}

// readHash reads a 256-bit payload into out.
func (br *bitReader) readHash(out []byte) error {
	for i := range out {
		v, err := br.readBits(8)
		if err != nil {
			return err
		}
		out[i] = byte(v)
	}
	return nil
}

// checkPadding verifies the bits from position start to the end of the
// buffer: the remainder of the byte containing start must be zero, and no
// whole bytes may follow it.
func (br *bitReader) checkPadding(start uint64) error {
	total := uint64(len(br.data)) * 8
	if start > total {
		return verifyError(ErrBitstreamEOF,
			"unexpected end of bitstream")
	}
	end := (start + 7) &^ 7
	if end > total {
		end = total
	}
	for p := start; p < end; p++ {
		if br.data[p>>3]>>(7-uint(p&7))&1 == 1 {
			return verifyError(ErrBitstreamUnusedBits,
				"illegal padding in final byte")
		}
	}
	if end < total {
		return verifyError(ErrBitstreamUnusedBytes,
			"trailing bytes after program")
	}
	return nil
}

// saturating arithmetic over uint32 with math.MaxUint32 as the absorbing
// overflow sentinel.  The static bounds pass uses these so that any
// overflow forces the comparison against the consensus ceilings to fail.

func satAdd(a, b uint32) uint32 {
	if a > math.MaxUint32-b {
		return math.MaxUint32
	}
	return a + b
}

func satMax(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
