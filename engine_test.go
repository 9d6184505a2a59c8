// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// TestVerifyProgram runs the pipeline end to end over the basic accepted
// programs.
func TestVerifyProgram(t *testing.T) {
	tests := []struct {
		name string
		prog []byte
	}{
		{name: "unit", prog: unitProgram()},
		{name: "comp iden unit", prog: idenCompProgram()},
		{name: "assertion", prog: assertProgram(false, testPayload(9))},
		{name: "witness verify", prog: witnessVerifyProgram("1")},
	}
	for _, test := range tests {
		imr, err := VerifyProgram(test.prog, nil, -1, nil)
		require.NoErrorf(t, err, "%s: program %s", test.name,
			spew.Sdump(test.prog))
		require.NotNil(t, imr, test.name)
	}
}

// TestNewEngineEmptyProgram rejects an empty buffer at construction.
func TestNewEngineEmptyProgram(t *testing.T) {
	_, err := NewEngine(nil, nil, -1, nil)
	require.True(t, IsErrorCode(err, ErrBitstreamEOF))
}

// TestEngineRepeatable checks an engine reports the same result on every
// execution, since all evaluation state is per call.
func TestEngineRepeatable(t *testing.T) {
	vm, err := NewEngine(unitProgram(), nil, -1, nil)
	require.NoError(t, err)

	first, err := vm.Execute()
	require.NoError(t, err)
	second, err := vm.Execute()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

// TestEngineCommitmentFlow mirrors how a spender uses the package: the
// output commits to ProgramCommitmentRoot, the spend later verifies
// against it.
func TestEngineCommitmentFlow(t *testing.T) {
	prog := witnessVerifyProgram("1")
	cmr, err := ProgramCommitmentRoot(prog)
	require.NoError(t, err)

	vm, err := NewEngine(prog, cmr, BudgetMax, nil)
	require.NoError(t, err)
	imr, err := vm.Execute()
	require.NoError(t, err)
	require.NotEqual(t, cmr, imr)
}
