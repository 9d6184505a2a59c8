// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// Engine verifies one Simplicity program against one spending context.
// All state is allocated per call, so distinct engines may run
// concurrently.
type Engine struct {
	program    []byte
	commitment *chainhash.Hash
	budget     int64
	env        *TxEnv
}

// NewEngine returns an engine that will verify the serialized program
// and witness against the given commitment root.  The budget is the
// execution allowance in weight units, normally derived from the size of
// the witness carrying the program; a negative budget disables the cost
// check and a budget above BudgetMax is clamped.  A nil commitment skips
// the commitment match and a nil environment fails any jet that needs
// transaction data.
func NewEngine(program []byte, commitment *chainhash.Hash, budget int64,
	env *TxEnv) (*Engine, error) {

	if len(program) == 0 {
		return nil, verifyError(ErrBitstreamEOF, "empty program")
	}
	return &Engine{
		program:    program,
		commitment: commitment,
		budget:     budget,
		env:        env,
	}, nil
}

// Execute runs the full verification pipeline and returns the identity
// root of the program on success.  The stages run in a fixed order and
// the first failure wins, so a given program and witness always report
// the same ErrorCode.
func (vm *Engine) Execute() (*chainhash.Hash, error) {
	d, err := decodeProgram(vm.program)
	if err != nil {
		return nil, err
	}
	log.Tracef("decoded program with %d nodes, %v root, %d witness bits",
		len(d.nodes), d.nodes[d.root()].tag, d.witnessLen)

	commitmentRoots(d)

	ta, err := inferTypes(d)
	if err != nil {
		return nil, err
	}

	rootCMR := &d.nodes[d.root()].cmr
	if vm.commitment != nil && !vm.commitment.IsEqual(rootCMR) {
		return nil, verifyError(ErrCMR,
			"program does not match its commitment root")
	}

	if err := identityRoots(d, ta); err != nil {
		return nil, err
	}

	bounds := computeBounds(d, ta)
	log.Tracef("static bounds: %d cells, %d frames, %d scratch words, "+
		"%d milli-weight", bounds.cells, bounds.frames, bounds.words,
		bounds.cost)
	if err := checkBounds(bounds, vm.budget); err != nil {
		return nil, err
	}

	if err := fillWitness(d, ta); err != nil {
		return nil, err
	}

	if err := runProgram(d, ta, vm.env, bounds); err != nil {
		return nil, err
	}

	imr := d.nodes[d.root()].imr
	log.Debugf("program %v verified", rootCMR)
	return &imr, nil
}

// VerifyProgram verifies a serialized program in one call and returns
// its identity root.
func VerifyProgram(program []byte, commitment *chainhash.Hash,
	budget int64, env *TxEnv) (*chainhash.Hash, error) {

	vm, err := NewEngine(program, commitment, budget, env)
	if err != nil {
		return nil, err
	}
	return vm.Execute()
}

// ProgramCommitmentRoot decodes a serialized program just far enough to
// compute its commitment Merkle root.  This is the root an output
// commits to at creation time, before any witness exists.
func ProgramCommitmentRoot(program []byte) (*chainhash.Hash, error) {
	d, err := decodeProgram(program)
	if err != nil {
		return nil, err
	}
	commitmentRoots(d)
	cmr := d.nodes[d.root()].cmr
	return &cmr, nil
}
