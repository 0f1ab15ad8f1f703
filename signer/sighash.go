// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signer

import (
	"fmt"
	"math"
	"sync"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

const (
	// taprootOutputMask selects the output commitment of a taproot
	// sighash type.
	taprootOutputMask = 0x03

	// blankCodeSepPos is the code separator position committed to when
	// no OP_CODESEPARATOR was executed.
	blankCodeSepPos = math.MaxUint32
)

// SpendType identifies the digest and witness layout used for an input.
type SpendType uint8

const (
	// SpendWitnessV0 is a segwit v0 P2WPKH spend signed with ECDSA.
	SpendWitnessV0 SpendType = iota

	// SpendTaprootScript is a taproot script-path spend signed with
	// Schnorr.
	SpendTaprootScript
)

// String returns a human readable name of the spend type.
func (s SpendType) String() string {
	switch s {
	case SpendWitnessV0:
		return "witness_v0"

	case SpendTaprootScript:
		return "taproot_script"

	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// SpendDetails carries the data a digest algorithm needs for one input. The
// concrete types are WitnessV0Spend and TaprootScriptSpend.
type SpendDetails interface {
	// SpendType returns the spend type the details belong to.
	SpendType() SpendType
}

// WitnessV0Spend holds the data needed for a BIP143 digest of a P2WPKH input.
type WitnessV0Spend struct {
	// Value is the value of the output being spent.
	Value btcutil.Amount

	// PkScript is the P2WPKH script of the output being spent.
	PkScript []byte
}

// SpendType returns SpendWitnessV0.
func (WitnessV0Spend) SpendType() SpendType {
	return SpendWitnessV0
}

// TaprootScriptSpend holds the data needed for a BIP341 script-path digest.
type TaprootScriptSpend struct {
	// PrevOuts is the ordered set of outputs spent by every input of the
	// transaction, not only the one being signed.
	PrevOuts []*wire.TxOut

	// LeafHash identifies the tapscript leaf being executed.
	LeafHash chainhash.Hash
}

// SpendType returns SpendTaprootScript.
func (TaprootScriptSpend) SpendType() SpendType {
	return SpendTaprootScript
}

// LeafHash returns the BIP341 leaf hash of a script under the base tapscript
// leaf version.
func LeafHash(script []byte) chainhash.Hash {
	return txscript.NewBaseTapLeaf(script).TapHash()
}

// DigestBuilder computes per-input sighash digests for one transaction. The
// BIP143 midstate shared by all inputs is computed once, on first use. A
// DigestBuilder never mutates the transaction and is safe for concurrent use
// as long as the transaction is not modified.
type DigestBuilder struct {
	tx *wire.MsgTx

	v0Once   sync.Once
	v0Hashes *txscript.TxSigHashes
}

// NewDigestBuilder returns a digest builder for the given transaction.
func NewDigestBuilder(tx *wire.MsgTx) (*DigestBuilder, error) {
	if tx == nil {
		return nil, fmt.Errorf("%w: nil transaction", ErrInvalidSignParam)
	}

	return &DigestBuilder{tx: tx}, nil
}

// Digest computes the digest of input idx, dispatching on the spend type of
// the passed details.
func (b *DigestBuilder) Digest(idx int, details SpendDetails,
	hashType txscript.SigHashType) ([]byte, error) {

	switch d := details.(type) {
	case WitnessV0Spend:
		return b.SegwitV0Digest(idx, d.Value, d.PkScript, hashType)

	case TaprootScriptSpend:
		return b.TaprootScriptDigest(
			idx, d.PrevOuts, d.LeafHash, hashType,
		)

	default:
		return nil, fmt.Errorf("%w: unknown spend details %T",
			ErrInvalidSignParam, details)
	}
}

// segwitV0Hashes returns the BIP143 midstate of the transaction. Only the
// hashes over the transaction itself are used by P2WPKH digests, so the
// spent outputs are not needed to compute it.
func (b *DigestBuilder) segwitV0Hashes() *txscript.TxSigHashes {
	b.v0Once.Do(func() {
		b.v0Hashes = txscript.NewTxSigHashes(
			b.tx, txscript.NewCannedPrevOutputFetcher(nil, 0),
		)
	})

	return b.v0Hashes
}

// SegwitV0Digest computes the BIP143 digest of a P2WPKH input.
func (b *DigestBuilder) SegwitV0Digest(idx int, value btcutil.Amount,
	pkScript []byte, hashType txscript.SigHashType) ([]byte, error) {

	if err := checkInputIndex(b.tx, idx); err != nil {
		return nil, err
	}
	if !txscript.IsPayToWitnessPubKeyHash(pkScript) {
		return nil, fmt.Errorf("%w: %x is not a p2wpkh script",
			ErrScript, pkScript)
	}

	digest, err := txscript.CalcWitnessSigHash(
		pkScript, b.segwitV0Hashes(), hashType, b.tx, idx,
		int64(value),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}

	return digest, nil
}

// TaprootScriptDigest computes the BIP341 digest of a tapscript spend of
// input idx. The spent output of input idx must be a taproot output.
func (b *DigestBuilder) TaprootScriptDigest(idx int, prevOuts []*wire.TxOut,
	leafHash chainhash.Hash, hashType txscript.SigHashType) ([]byte, error) {

	if err := checkInputIndex(b.tx, idx); err != nil {
		return nil, err
	}
	if len(prevOuts) != len(b.tx.TxIn) {
		return nil, fmt.Errorf("%w: got %d previous outputs for %d "+
			"inputs", ErrPrevoutCountMismatch, len(prevOuts),
			len(b.tx.TxIn))
	}
	if !isValidTaprootSigHash(hashType) {
		return nil, fmt.Errorf("%w: %#x for taproot spend",
			ErrInvalidSigHashType, uint32(hashType))
	}
	if hashType&taprootOutputMask == txscript.SigHashSingle &&
		idx >= len(b.tx.TxOut) {

		return nil, fmt.Errorf("%w: input %d, %d outputs",
			ErrSighashSingleIndex, idx, len(b.tx.TxOut))
	}

	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for i, prevOut := range prevOuts {
		if prevOut == nil {
			return nil, fmt.Errorf("%w: input %d",
				ErrMissingPrevOut, i)
		}

		fetcher.AddPrevOut(b.tx.TxIn[i].PreviousOutPoint, prevOut)
	}

	// The taproot midstate is only computed when at least one input
	// spends a taproot output.
	if !txscript.IsPayToTaproot(prevOuts[idx].PkScript) {
		return nil, fmt.Errorf("%w: input %d spends non-taproot "+
			"output %x", ErrScript, idx, prevOuts[idx].PkScript)
	}

	sigHashes := txscript.NewTxSigHashes(b.tx, fetcher)

	// Only the leaf hash is known here, so the tapscript extension is
	// set explicitly. It replaces the one derived from the empty leaf.
	digest, err := txscript.CalcTapscriptSignaturehash(
		sigHashes, hashType, b.tx, idx, fetcher, txscript.TapLeaf{},
		txscript.WithBaseTapscriptVersion(
			blankCodeSepPos, leafHash[:],
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}

	return digest, nil
}

// SegwitV0Digest computes the BIP143 digest of the P2WPKH input idx of tx.
func SegwitV0Digest(tx *wire.MsgTx, idx int, value btcutil.Amount,
	pkScript []byte, hashType txscript.SigHashType) ([]byte, error) {

	b, err := NewDigestBuilder(tx)
	if err != nil {
		return nil, err
	}

	return b.SegwitV0Digest(idx, value, pkScript, hashType)
}

// TaprootScriptDigest computes the BIP341 script-path digest of input idx of
// tx. prevOuts must hold the spent output of every input, in input order.
func TaprootScriptDigest(tx *wire.MsgTx, idx int, prevOuts []*wire.TxOut,
	leafHash chainhash.Hash, hashType txscript.SigHashType) ([]byte, error) {

	b, err := NewDigestBuilder(tx)
	if err != nil {
		return nil, err
	}

	return b.TaprootScriptDigest(idx, prevOuts, leafHash, hashType)
}

// isValidTaprootSigHash returns true if the sighash type is one of the types
// BIP341 allows.
func isValidTaprootSigHash(hashType txscript.SigHashType) bool {
	switch hashType {
	case txscript.SigHashDefault, txscript.SigHashAll,
		txscript.SigHashNone, txscript.SigHashSingle,
		txscript.SigHashAll | txscript.SigHashAnyOneCanPay,
		txscript.SigHashNone | txscript.SigHashAnyOneCanPay,
		txscript.SigHashSingle | txscript.SigHashAnyOneCanPay:

		return true

	default:
		return false
	}
}

// checkInputIndex makes sure idx refers to an input of tx.
func checkInputIndex(tx *wire.MsgTx, idx int) error {
	if tx == nil {
		return fmt.Errorf("%w: nil transaction", ErrInvalidSignParam)
	}
	if idx < 0 || idx >= len(tx.TxIn) {
		return fmt.Errorf("%w: index %d, %d inputs", ErrIndexOutOfRange,
			idx, len(tx.TxIn))
	}

	return nil
}
