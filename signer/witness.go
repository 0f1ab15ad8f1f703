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

// TapscriptWitness holds the witness items of a taproot script-path spend
// other than the signature.
type TapscriptWitness struct {
	// ExtraItems are additional arguments consumed by the leaf script.
	// They are placed right after the signature, in the given order. A
	// nil entry is treated as missing, use an empty slice to push an
	// empty element.
	ExtraItems [][]byte

	// LeafScript is the tapscript leaf being executed.
	LeafScript []byte

	// ControlBlock is the serialized control block proving the leaf is
	// committed to by the output key.
	ControlBlock []byte
}

// validate checks that every item is present and that the control block
// commits to a leaf with the given hash.
func (w *TapscriptWitness) validate(leafHash chainhash.Hash) error {
	if len(w.LeafScript) == 0 {
		return fmt.Errorf("%w: leaf script", ErrMissingWitnessItem)
	}
	if len(w.ControlBlock) == 0 {
		return fmt.Errorf("%w: control block", ErrMissingWitnessItem)
	}
	for i, item := range w.ExtraItems {
		if item == nil {
			return fmt.Errorf("%w: extra item %d",
				ErrMissingWitnessItem, i)
		}
	}

	ctrlBlock, err := txscript.ParseControlBlock(w.ControlBlock)
	if err != nil {
		return fmt.Errorf("%w: control block: %v", ErrScript, err)
	}

	leaf := txscript.NewTapLeaf(ctrlBlock.LeafVersion, w.LeafScript)
	if leaf.TapHash() != leafHash {
		return fmt.Errorf("%w: leaf %v, signing for %v",
			ErrLeafHashMismatch, leaf.TapHash(), leafHash)
	}

	return nil
}

// P2WPKHWitness assembles the two item witness of a P2WPKH spend. The sighash
// type is always appended to the ECDSA signature.
func P2WPKHWitness(sig ECDSASignature, hashType txscript.SigHashType,
	pubKey *btcec.PublicKey) wire.TxWitness {

	return wire.TxWitness{
		append(sig.Serialize(), byte(hashType)),
		pubKey.SerializeCompressed(),
	}
}

// TaprootScriptWitness assembles the witness of a taproot script-path spend:
// the signature, the extra items, the leaf script and the control block. The
// sighash type is appended to the signature unless it is SigHashDefault.
func TaprootScriptWitness(sig SchnorrSignature, hashType txscript.SigHashType,
	leafHash chainhash.Hash, items *TapscriptWitness) (wire.TxWitness,
	error) {

	if items == nil {
		return nil, fmt.Errorf("%w: tapscript witness",
			ErrMissingWitnessItem)
	}
	if err := items.validate(leafHash); err != nil {
		return nil, err
	}

	rawSig := sig.Serialize()
	if hashType != txscript.SigHashDefault {
		rawSig = append(rawSig, byte(hashType))
	}

	witness := make(wire.TxWitness, 0, len(items.ExtraItems)+3)
	witness = append(witness, rawSig)
	witness = append(witness, items.ExtraItems...)
	witness = append(witness, items.LeafScript, items.ControlBlock)

	return witness, nil
}

// SetWitness replaces the witness of input idx. Any previous witness is
// discarded, the new one is never appended to it.
func SetWitness(tx *wire.MsgTx, idx int, witness wire.TxWitness) error {
	if err := checkInputIndex(tx, idx); err != nil {
		return err
	}

	tx.TxIn[idx].Witness = witness

	return nil
}
