// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signer

import "errors"

var (
	// ErrIndexOutOfRange is returned when an input index does not refer to
	// an input of the transaction being signed.
	ErrIndexOutOfRange = errors.New("input index out of range")

	// ErrPrevoutCountMismatch is returned when the set of previous outputs
	// handed to the taproot digest does not cover every input of the
	// transaction.
	ErrPrevoutCountMismatch = errors.New("previous output count does " +
		"not match input count")

	// ErrScript is returned when a script required for signing cannot be
	// derived or parsed.
	ErrScript = errors.New("script error")

	// ErrInvalidKey is returned when a private key is missing or is not a
	// valid secp256k1 scalar.
	ErrInvalidKey = errors.New("invalid private key")

	// ErrInvalidDigestLength is returned when a digest handed to the signer
	// is not exactly 32 bytes.
	ErrInvalidDigestLength = errors.New("digest must be 32 bytes")

	// ErrMissingWitnessItem is returned when an item required to assemble
	// a witness was not supplied.
	ErrMissingWitnessItem = errors.New("missing witness item")

	// ErrInvalidSigHashType is returned when a sighash type is not valid
	// for the requested spend type.
	ErrInvalidSigHashType = errors.New("invalid sighash type")

	// ErrSighashSingleIndex is returned when SIGHASH_SINGLE is used on a
	// taproot input that has no output at the same index.
	ErrSighashSingleIndex = errors.New("sighash single without " +
		"corresponding output")

	// ErrLeafHashMismatch is returned when the leaf hash a taproot
	// signature commits to does not belong to the revealed leaf script.
	ErrLeafHashMismatch = errors.New("leaf hash does not match " +
		"revealed script")

	// ErrInvalidSignParam is returned when a sign intent combines
	// parameters that cannot be used together.
	ErrInvalidSignParam = errors.New("invalid sign parameter")

	// ErrMissingPrevOut is returned when the output spent by an input is
	// unknown, such as a nil entry in a previous output set or a PSBT
	// input without UTXO information.
	ErrMissingPrevOut = errors.New("missing previous output")

	// ErrNegativeFee is returned when the outputs of a transaction spend
	// more than its inputs.
	ErrNegativeFee = errors.New("outputs exceed inputs")
)
