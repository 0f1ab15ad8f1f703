// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signer

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// TaprootSignParams describes a taproot script-path spend of one input.
type TaprootSignParams struct {
	// InputIndex is the index of the input to sign.
	InputIndex int

	// LeafHash is the hash of the tapscript leaf being executed. It must
	// match the leaf script revealed in the witness.
	LeafHash chainhash.Hash

	// HashType is the sighash type of the signature. The zero value is
	// SigHashDefault.
	HashType txscript.SigHashType

	// PrevOuts holds the output spent by every input of the transaction,
	// in input order.
	PrevOuts []*wire.TxOut

	// Witness holds the remaining witness items of the spend.
	Witness TapscriptWitness
}

// SignP2TR signs one taproot script-path input of tx and replaces its
// witness. The witness of the input is unchanged if signing fails.
func (s *Signer) SignP2TR(tx *wire.MsgTx, params *TaprootSignParams,
	privKey *btcec.PrivateKey) error {

	if params == nil {
		return fmt.Errorf("%w: nil taproot params", ErrInvalidSignParam)
	}
	if err := checkPrivKey(privKey); err != nil {
		return err
	}

	builder, err := NewDigestBuilder(tx)
	if err != nil {
		return err
	}

	idx := params.InputIndex
	digest, err := builder.TaprootScriptDigest(
		idx, params.PrevOuts, params.LeafHash, params.HashType,
	)
	if err != nil {
		return err
	}

	sig, err := SignSchnorr(digest, privKey, s.cfg.NonceMode)
	if err != nil {
		return err
	}

	witness, err := TaprootScriptWitness(
		sig, params.HashType, params.LeafHash, &params.Witness,
	)
	if err != nil {
		return err
	}

	log.Debugf("Signed taproot input %d of tx %v for leaf %v", idx,
		tx.TxHash(), params.LeafHash)

	return SetWitness(tx, idx, witness)
}

// SignP2TR signs a taproot script-path input of tx with the default signer.
func SignP2TR(tx *wire.MsgTx, params *TaprootSignParams,
	privKey *btcec.PrivateKey) error {

	return defaultSigner.SignP2TR(tx, params, privKey)
}
