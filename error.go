// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import "fmt"

// ErrorCode identifies a kind of verification failure.  Every rejected
// program maps to exactly one code, which makes failures reproducible
// across implementations.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrBitstreamEOF indicates the bitstream ended before the decoder
	// obtained all of the bits a well-formed program requires.
	ErrBitstreamEOF ErrorCode = iota

	// ErrBitstreamUnusedBytes indicates one or more whole bytes remained
	// after the declared end of the program and witness data.
	ErrBitstreamUnusedBytes

	// ErrBitstreamUnusedBits indicates the padding bits in the final
	// partial byte were not all zero.
	ErrBitstreamUnusedBits

	// ErrDataOutOfRange indicates a decoded value exceeded its legal
	// range, such as a node count beyond the DAG ceiling, a child
	// reference before the start of the node list, a witness length of
	// 2^31 bits or more, or a word literal deeper than 32.
	ErrDataOutOfRange

	// ErrDataOutOfOrder indicates the nodes were not serialized in
	// canonical order, or that some node is unreachable from the root.
	ErrDataOutOfOrder

	// ErrFailCode indicates the reserved fail code appeared in the
	// bitstream.
	ErrFailCode

	// ErrStopCode indicates the reserved stop code appeared in the
	// bitstream.
	ErrStopCode

	// ErrHidden indicates a hidden node appeared somewhere other than as
	// exactly one child of a case node.
	ErrHidden

	// ErrHiddenRoot indicates the root of the program is a hidden node.
	ErrHiddenRoot

	// ErrTypeUnification indicates the type constraints of the program
	// are unsatisfiable.
	ErrTypeUnification

	// ErrTypeOccursCheck indicates the type constraints only admit an
	// infinite type.
	ErrTypeOccursCheck

	// ErrTypeNotProgram indicates the root expression is well typed but
	// its type is not unit to unit.
	ErrTypeNotProgram

	// ErrWitnessEOF indicates the declared witness data ran out before
	// every witness value was filled.
	ErrWitnessEOF

	// ErrWitnessUnusedBits indicates witness bits remained after the last
	// witness value was filled.
	ErrWitnessUnusedBits

	// ErrUnsharedSubexpression indicates two distinct nodes share an
	// identity root, or two hidden nodes share a payload, violating the
	// maximal sharing requirement.
	ErrUnsharedSubexpression

	// ErrCMR indicates the commitment root of the decoded program does
	// not match the commitment the output was locked to.
	ErrCMR

	// ErrAMR indicates an annotated root mismatch.  No verification path
	// enables the annotated root check, so this code is currently
	// unreachable.
	ErrAMR

	// ErrExecBudget indicates the static cost bound of the program
	// exceeds the execution budget.
	ErrExecBudget

	// ErrExecMemory indicates the static cell bound of the program
	// exceeds the memory ceiling.
	ErrExecMemory

	// ErrExecJet indicates a jet rejected its input during execution.
	ErrExecJet

	// ErrExecAssert indicates execution reached the hidden branch of an
	// assertion.
	ErrExecAssert

	// ErrAntiDoS indicates some committed node was never executed, so the
	// program carries dead weight a pruned variant would not.
	ErrAntiDoS

	// ErrOverweight is reserved for a transaction-weight limit applied
	// outside this package and is currently unreachable.
	ErrOverweight
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrBitstreamEOF:          "ErrBitstreamEOF",
	ErrBitstreamUnusedBytes:  "ErrBitstreamUnusedBytes",
	ErrBitstreamUnusedBits:   "ErrBitstreamUnusedBits",
	ErrDataOutOfRange:        "ErrDataOutOfRange",
	ErrDataOutOfOrder:        "ErrDataOutOfOrder",
	ErrFailCode:              "ErrFailCode",
	ErrStopCode:              "ErrStopCode",
	ErrHidden:                "ErrHidden",
	ErrHiddenRoot:            "ErrHiddenRoot",
	ErrTypeUnification:       "ErrTypeUnification",
	ErrTypeOccursCheck:       "ErrTypeOccursCheck",
	ErrTypeNotProgram:        "ErrTypeNotProgram",
	ErrWitnessEOF:            "ErrWitnessEOF",
	ErrWitnessUnusedBits:     "ErrWitnessUnusedBits",
	ErrUnsharedSubexpression: "ErrUnsharedSubexpression",
	ErrCMR:                   "ErrCMR",
	ErrAMR:                   "ErrAMR",
	ErrExecBudget:            "ErrExecBudget",
	ErrExecMemory:            "ErrExecMemory",
	ErrExecJet:               "ErrExecJet",
	ErrExecAssert:            "ErrExecAssert",
	ErrAntiDoS:               "ErrAntiDoS",
	ErrOverweight:            "ErrOverweight",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a verification failure.  It has full support for
// errors.Is and errors.As, so the caller can check for the specific
// consensus rule that was violated.
type Error struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// verifyError creates an Error given a set of arguments.
func verifyError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a verification
// error with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	verr, ok := err.(Error)
	return ok && verr.ErrorCode == c
}
