// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signer

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcsigner/pkg/btcunit"
	"github.com/btcsuite/btcwallet/wallet/txrules"
)

// TxSummary describes a signed transaction.
type TxSummary struct {
	// TxHash is the transaction id.
	TxHash chainhash.Hash

	// Weight is the BIP141 weight including witnesses.
	Weight btcunit.WeightUnit

	// VSize is the virtual size the fee rate is computed over.
	VSize btcunit.VByte

	// Fee is the difference between the spent and created values.
	Fee btcutil.Amount

	// FeeRate is Fee divided by VSize.
	FeeRate btcunit.SatPerVByte

	// BelowRelayFee is true if FeeRate is lower than the default minimum
	// relay fee.
	BelowRelayFee bool

	// DustOutputs lists the indices of outputs below the dust limit.
	DustOutputs []int
}

// String returns a one line description of the summary.
func (s *TxSummary) String() string {
	return fmt.Sprintf("txid=%v weight=%v vsize=%v fee=%v feerate=%v "+
		"dust_outputs=%v", s.TxHash, s.Weight, s.VSize, s.Fee,
		s.FeeRate, s.DustOutputs)
}

// Summarize computes the size and fee figures of tx given the outputs its
// inputs spend.
func Summarize(tx *wire.MsgTx, prevOuts []*wire.TxOut) (*TxSummary, error) {
	if tx == nil {
		return nil, fmt.Errorf("%w: nil transaction", ErrInvalidSignParam)
	}
	if len(prevOuts) != len(tx.TxIn) {
		return nil, fmt.Errorf("%w: got %d previous outputs for %d "+
			"inputs", ErrPrevoutCountMismatch, len(prevOuts),
			len(tx.TxIn))
	}

	values, err := InputValues(prevOuts)
	if err != nil {
		return nil, err
	}

	var totalIn, totalOut btcutil.Amount
	for _, value := range values {
		totalIn += value
	}

	var dust []int
	for i, txOut := range tx.TxOut {
		totalOut += btcutil.Amount(txOut.Value)

		err := txrules.CheckOutput(txOut, txrules.DefaultRelayFeePerKb)
		switch {
		case errors.Is(err, txrules.ErrOutputIsDust):
			dust = append(dust, i)

		case err != nil:
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
	}

	fee := totalIn - totalOut
	if fee < 0 {
		return nil, fmt.Errorf("%w: inputs %v, outputs %v",
			ErrNegativeFee, totalIn, totalOut)
	}

	weight := btcunit.TxWeight(tx)
	vsize := weight.ToVB()
	feeRate := btcunit.CalcSatPerVByte(fee, vsize)
	minRelayFee := btcunit.NewSatPerKVByte(txrules.DefaultRelayFeePerKb)

	return &TxSummary{
		TxHash:        tx.TxHash(),
		Weight:        weight,
		VSize:         vsize,
		Fee:           fee,
		FeeRate:       feeRate,
		BelowRelayFee: feeRate.LessThan(minRelayFee),
		DustOutputs:   dust,
	}, nil
}
