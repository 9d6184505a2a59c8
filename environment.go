// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// TxEnv is the read-only transaction environment jets introspect during
// execution: the transaction being validated, the index of the input
// whose program is running, the outputs those inputs spend, and the hash
// of the chain's genesis block.  A nil environment is valid for programs
// whose jets are pure arithmetic.
type TxEnv struct {
	tx          *wire.MsgTx
	idx         uint32
	prevOuts    []wire.TxOut
	genesisHash chainhash.Hash
}

// NewTxEnv returns an environment for validating input idx of tx.
// prevOuts must parallel tx.TxIn.
func NewTxEnv(tx *wire.MsgTx, idx uint32, prevOuts []wire.TxOut,
	genesisHash *chainhash.Hash) *TxEnv {

	env := &TxEnv{
		tx:       tx,
		idx:      idx,
		prevOuts: prevOuts,
	}
	if genesisHash != nil {
		env.genesisHash = *genesisHash
	}
	return env
}

// Tx returns the transaction being validated.
func (env *TxEnv) Tx() *wire.MsgTx {
	return env.tx
}

// InputIndex returns the index of the input whose program is running.
func (env *TxEnv) InputIndex() uint32 {
	return env.idx
}

// PrevOut returns the output spent by input i, or nil if unknown.
func (env *TxEnv) PrevOut(i uint32) *wire.TxOut {
	if uint64(i) >= uint64(len(env.prevOuts)) {
		return nil
	}
	return &env.prevOuts[i]
}

// GenesisHash returns the hash of the chain's genesis block.
func (env *TxEnv) GenesisHash() *chainhash.Hash {
	return &env.genesisHash
}
