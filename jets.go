// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

// A jet is a node that stands in for a whole Simplicity expression with
// a known commitment, evaluated natively instead of cell by cell.  The
// registry below is the consensus set: a program referencing any other
// code fails to decode.
//
// A JetFunc reads its input from src relative to the cursor, writes its
// output to dst, and returns false to fail the whole program.  The
// machine normalizes dst's cursor afterwards, so partial writes on
// failure are harmless.
type JetFunc func(dst, src *Frame, env *TxEnv) bool

// jetDesc describes one jet: its registry code, its cost in milli-weight
// units, its arrow, and its native implementation.
type jetDesc struct {
	name  string
	code  uint32
	cost  uint32
	types func(ta *typeArena) (src, tgt int32)
	fn    JetFunc
}

// Jet registry codes.
const (
	jetCodeVerify           = 1
	jetCodeVersion          = 2
	jetCodeLockTime         = 3
	jetCodeCurrentIndex     = 4
	jetCodeGenesisBlockHash = 5
	jetCodeAdd32            = 16
	jetCodeSubtract32       = 17
	jetCodeMultiply32       = 18
	jetCodeEq32             = 19
)

var jetRegistry = map[uint32]*jetDesc{
	jetCodeVerify: {
		name: "verify",
		code: jetCodeVerify,
		cost: 110,
		types: func(ta *typeArena) (int32, int32) {
			return ta.word(1), ta.unit()
		},
		fn: func(dst, src *Frame, env *TxEnv) bool {
			return src.Bit(0)
		},
	},
	jetCodeVersion: {
		name: "version",
		code: jetCodeVersion,
		cost: 135,
		types: func(ta *typeArena) (int32, int32) {
			return ta.unit(), ta.word(6)
		},
		fn: func(dst, src *Frame, env *TxEnv) bool {
			if env == nil || env.tx == nil {
				return false
			}
			dst.WriteUint32(uint32(env.tx.Version))
			return true
		},
	},
	jetCodeLockTime: {
		name: "lock_time",
		code: jetCodeLockTime,
		cost: 135,
		types: func(ta *typeArena) (int32, int32) {
			return ta.unit(), ta.word(6)
		},
		fn: func(dst, src *Frame, env *TxEnv) bool {
			if env == nil || env.tx == nil {
				return false
			}
			dst.WriteUint32(env.tx.LockTime)
			return true
		},
	},
	jetCodeCurrentIndex: {
		name: "current_index",
		code: jetCodeCurrentIndex,
		cost: 107,
		types: func(ta *typeArena) (int32, int32) {
			return ta.unit(), ta.word(6)
		},
		fn: func(dst, src *Frame, env *TxEnv) bool {
			if env == nil {
				return false
			}
			dst.WriteUint32(env.idx)
			return true
		},
	},
	jetCodeGenesisBlockHash: {
		name: "genesis_block_hash",
		code: jetCodeGenesisBlockHash,
		cost: 576,
		types: func(ta *typeArena) (int32, int32) {
			return ta.unit(), ta.word(9)
		},
		fn: func(dst, src *Frame, env *TxEnv) bool {
			if env == nil {
				return false
			}
			dst.WriteHash(&env.genesisHash)
			return true
		},
	},
	jetCodeAdd32: {
		name: "add_32",
		code: jetCodeAdd32,
		cost: 178,
		types: func(ta *typeArena) (int32, int32) {
			w32 := ta.word(6)
			return ta.prod(w32, w32), ta.prod(ta.word(1), w32)
		},
		fn: func(dst, src *Frame, env *TxEnv) bool {
			sum := uint64(src.Uint32(0)) + uint64(src.Uint32(32))
			dst.WriteBit(sum>>32 != 0)
			dst.WriteUint32(uint32(sum))
			return true
		},
	},
	jetCodeSubtract32: {
		name: "subtract_32",
		code: jetCodeSubtract32,
		cost: 180,
		types: func(ta *typeArena) (int32, int32) {
			w32 := ta.word(6)
			return ta.prod(w32, w32), ta.prod(ta.word(1), w32)
		},
		fn: func(dst, src *Frame, env *TxEnv) bool {
			a, b := src.Uint32(0), src.Uint32(32)
			dst.WriteBit(a < b)
			dst.WriteUint32(a - b)
			return true
		},
	},
	jetCodeMultiply32: {
		name: "multiply_32",
		code: jetCodeMultiply32,
		cost: 237,
		types: func(ta *typeArena) (int32, int32) {
			w32 := ta.word(6)
			return ta.prod(w32, w32), ta.word(7)
		},
		fn: func(dst, src *Frame, env *TxEnv) bool {
			dst.WriteUint64(uint64(src.Uint32(0)) *
				uint64(src.Uint32(32)))
			return true
		},
	},
	jetCodeEq32: {
		name: "eq_32",
		code: jetCodeEq32,
		cost: 198,
		types: func(ta *typeArena) (int32, int32) {
			w32 := ta.word(6)
			return ta.prod(w32, w32), ta.word(1)
		},
		fn: func(dst, src *Frame, env *TxEnv) bool {
			dst.WriteBit(src.Uint32(0) == src.Uint32(32))
			return true
		},
	},
}
