// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// jetFrames builds a source frame holding two 32-bit operands and an
// empty destination of the given width, both rewound for the jet.
func jetFrames(a, b uint32, dstWidth uint32) (*Frame, *Frame) {
	src := newFrame(64)
	src.WriteUint32(a)
	src.WriteUint32(b)
	src.cursor = 0
	return newFrame(dstWidth), src
}

// TestArithmeticJets drives the word jets directly at the frame level.
func TestArithmeticJets(t *testing.T) {
	dst, src := jetFrames(2, 3, 33)
	require.True(t, jetRegistry[jetCodeAdd32].fn(dst, src, nil))
	dst.cursor = 0
	require.False(t, dst.Bit(0))
	require.Equal(t, uint32(5), dst.Uint32(1))

	dst, src = jetFrames(0xffffffff, 1, 33)
	require.True(t, jetRegistry[jetCodeAdd32].fn(dst, src, nil))
	dst.cursor = 0
	require.True(t, dst.Bit(0))
	require.Equal(t, uint32(0), dst.Uint32(1))

	dst, src = jetFrames(2, 3, 33)
	require.True(t, jetRegistry[jetCodeSubtract32].fn(dst, src, nil))
	dst.cursor = 0
	require.True(t, dst.Bit(0))
	require.Equal(t, uint32(0xffffffff), dst.Uint32(1))

	dst, src = jetFrames(0x10000, 0x10000, 64)
	require.True(t, jetRegistry[jetCodeMultiply32].fn(dst, src, nil))
	dst.cursor = 0
	require.Equal(t, uint32(1), dst.Uint32(0))
	require.Equal(t, uint32(0), dst.Uint32(32))

	dst, src = jetFrames(7, 7, 1)
	require.True(t, jetRegistry[jetCodeEq32].fn(dst, src, nil))
	dst.cursor = 0
	require.True(t, dst.Bit(0))

	dst, src = jetFrames(7, 8, 1)
	require.True(t, jetRegistry[jetCodeEq32].fn(dst, src, nil))
	dst.cursor = 0
	require.False(t, dst.Bit(0))
}

// TestAdd32Program runs the add_32 jet inside a full program:
// comp (comp (pair word2 word3) add_32) unit.
func TestAdd32Program(t *testing.T) {
	w := newProgram(7)
	w.word(6, 2)
	w.word(6, 3)
	w.pair(2, 1)
	w.jet(jetCodeAdd32)
	w.comp(2, 1)
	w.unit()
	w.comp(2, 1)
	w.witness("")

	_, err := VerifyProgram(w.done(), nil, -1, nil)
	require.NoError(t, err)
}

// TestEqVerifyPrograms checks the verify jet's two outcomes through
// eq_32: a shared word equals itself, two distinct words do not.
func TestEqVerifyPrograms(t *testing.T) {
	w := newProgram(6)
	w.word(6, 7)
	w.pair(1, 1)
	w.jet(jetCodeEq32)
	w.comp(2, 1)
	w.jet(jetCodeVerify)
	w.comp(2, 1)
	w.witness("")
	_, err := VerifyProgram(w.done(), nil, -1, nil)
	require.NoError(t, err)

	w = newProgram(7)
	w.word(6, 2)
	w.word(6, 3)
	w.pair(2, 1)
	w.jet(jetCodeEq32)
	w.comp(2, 1)
	w.jet(jetCodeVerify)
	w.comp(2, 1)
	w.witness("")
	_, err = VerifyProgram(w.done(), nil, -1, nil)
	require.True(t, IsErrorCode(err, ErrExecJet))
}

// envJetProgram wraps a unit-source jet so its output is discarded:
// comp jet unit.
func envJetProgram(code uint64) []byte {
	w := newProgram(3)
	w.jet(code)
	w.unit()
	w.comp(2, 1)
	w.witness("")
	return w.done()
}

// TestEnvironmentJets checks the transaction introspection jets succeed
// with an environment and fail the program without one.
func TestEnvironmentJets(t *testing.T) {
	tx := wire.NewMsgTx(2)
	tx.LockTime = 500000
	genesis := testPayload(0x0b)
	env := NewTxEnv(tx, 0, nil, genesis)

	codes := []uint64{jetCodeVersion, jetCodeLockTime,
		jetCodeCurrentIndex, jetCodeGenesisBlockHash}
	for _, code := range codes {
		_, err := VerifyProgram(envJetProgram(code), nil, -1, env)
		require.NoError(t, err, "jet code %d", code)

		_, err = VerifyProgram(envJetProgram(code), nil, -1, nil)
		require.True(t, IsErrorCode(err, ErrExecJet),
			"jet code %d", code)
	}
}

// TestTxEnvAccessors covers the read side jets consume.
func TestTxEnvAccessors(t *testing.T) {
	tx := wire.NewMsgTx(2)
	prevOuts := []wire.TxOut{{Value: 5000}}
	genesis := testPayload(0x0b)
	env := NewTxEnv(tx, 0, prevOuts, genesis)

	require.Equal(t, tx, env.Tx())
	require.Equal(t, uint32(0), env.InputIndex())
	require.Equal(t, int64(5000), env.PrevOut(0).Value)
	require.Nil(t, env.PrevOut(1))
	require.Equal(t, genesis, env.GenesisHash())

	var zero chainhash.Hash
	require.Equal(t, zero, *NewTxEnv(tx, 0, nil, nil).GenesisHash())
}
