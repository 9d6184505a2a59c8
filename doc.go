// Copyright (c) 2025-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package simplicity implements a consensus verifier for bit-encoded
Simplicity programs.

Simplicity programs are serialized as a directed acyclic graph of typed
combinators followed by a block of witness data, packed together into a
single bitstream.  Verification decodes the DAG, infers types for every
node, computes the Merkle commitment and identity roots, statically bounds
the memory and CPU cost of execution, fills in the witness values, and
finally runs the program on an explicit bit machine.  A program/witness
pair is accepted only if every one of those stages succeeds and the
post-execution anti-DoS check confirms that no node was committed to
without being exercised.

The package deliberately exposes a small surface.  NewEngine and Execute
mirror the shape of the txscript engine: the caller supplies the raw
program bytes, the commitment root taken from the output being spent, an
execution budget derived from the transaction weight, and a read-only
transaction environment for jets.  Execute returns the identity root of
the program on success, or an Error whose ErrorCode pinpoints the exact
consensus rule that was violated.

This package is intended to gate consensus.  All decoding and execution
is bit-exact and deterministic, every verification call works on freshly
allocated state, and independent calls may therefore run concurrently
without any locking.
*/
package simplicity
