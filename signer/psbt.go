// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signer

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"
)

// PrevOutsFromPacket returns the outputs spent by the inputs of the packet's
// unsigned transaction, in input order. The full previous transaction is
// preferred over the witness UTXO when both are present.
func PrevOutsFromPacket(packet *psbt.Packet) ([]*wire.TxOut, error) {
	if packet == nil || packet.UnsignedTx == nil {
		return nil, fmt.Errorf("%w: nil packet", ErrInvalidSignParam)
	}
	if len(packet.Inputs) != len(packet.UnsignedTx.TxIn) {
		return nil, fmt.Errorf("%w: %d psbt inputs for %d tx inputs",
			ErrPrevoutCountMismatch, len(packet.Inputs),
			len(packet.UnsignedTx.TxIn))
	}

	prevOuts := make([]*wire.TxOut, len(packet.UnsignedTx.TxIn))
	for idx, txIn := range packet.UnsignedTx.TxIn {
		in := packet.Inputs[idx]
		outPoint := txIn.PreviousOutPoint

		switch {
		case in.NonWitnessUtxo != nil:
			prevTx := in.NonWitnessUtxo
			if prevTx.TxHash() != outPoint.Hash {
				return nil, fmt.Errorf("%w: input %d: previous "+
					"tx %v does not match outpoint %v",
					ErrMissingPrevOut, idx, prevTx.TxHash(),
					outPoint)
			}
			if int(outPoint.Index) >= len(prevTx.TxOut) {
				return nil, fmt.Errorf("%w: input %d: outpoint "+
					"%v out of range", ErrMissingPrevOut,
					idx, outPoint)
			}

			prevOuts[idx] = prevTx.TxOut[outPoint.Index]

		case in.WitnessUtxo != nil:
			prevOuts[idx] = in.WitnessUtxo

		default:
			return nil, fmt.Errorf("%w: input %d (%v)",
				ErrMissingPrevOut, idx, outPoint)
		}
	}

	return prevOuts, nil
}

// InputValues returns the values of the passed outputs, for use with
// SignP2WPKH.
func InputValues(prevOuts []*wire.TxOut) ([]btcutil.Amount, error) {
	values := make([]btcutil.Amount, len(prevOuts))
	for i, prevOut := range prevOuts {
		if prevOut == nil {
			return nil, fmt.Errorf("%w: input %d", ErrMissingPrevOut,
				i)
		}

		values[i] = btcutil.Amount(prevOut.Value)
	}

	return values, nil
}
