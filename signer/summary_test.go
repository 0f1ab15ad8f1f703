// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signer

import (
	"testing"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcsigner/pkg/btcunit"
	"github.com/stretchr/testify/require"
)

// TestSummarize checks the figures reported for a signed transaction.
func TestSummarize(t *testing.T) {
	t.Parallel()

	privKey, pubKey := deterministicPrivKey(t)
	pkScript := p2wpkhScript(t, pubKey)

	tx := createTestTx(1)
	prevOuts := []*wire.TxOut{wire.NewTxOut(100000, pkScript)}
	require.NoError(t, SignP2WPKH(tx, []btcutil.Amount{100000}, privKey))

	summary, err := Summarize(tx, prevOuts)
	require.NoError(t, err)

	weight := blockchain.GetTransactionWeight(btcutil.NewTx(tx))
	vsize := btcunit.NewWeightUnit(uint64(weight)).ToVB()

	require.Equal(t, tx.TxHash(), summary.TxHash)
	require.Equal(t, uint64(weight), summary.Weight.Uint64())
	require.Equal(t, vsize, summary.VSize)
	require.Equal(t, btcutil.Amount(10000), summary.Fee)
	require.True(t, summary.FeeRate.Equal(
		btcunit.CalcSatPerVByte(10000, vsize),
	))
	require.False(t, summary.BelowRelayFee)
	require.Empty(t, summary.DustOutputs)
	require.Contains(t, summary.String(), tx.TxHash().String())
}

// TestSummarizeDustAndLowFee checks that dust outputs and fees below the
// relay policy are flagged.
func TestSummarizeDustAndLowFee(t *testing.T) {
	t.Parallel()

	_, pubKey := deterministicPrivKey(t)
	pkScript := p2wpkhScript(t, pubKey)

	tx := createTestTx(1)
	tx.AddTxOut(wire.NewTxOut(100, pkScript))
	prevOuts := []*wire.TxOut{wire.NewTxOut(90100, pkScript)}

	summary, err := Summarize(tx, prevOuts)
	require.NoError(t, err)
	require.Equal(t, btcutil.Amount(0), summary.Fee)
	require.True(t, summary.BelowRelayFee)
	require.Equal(t, []int{2}, summary.DustOutputs)
}

// TestSummarizeErrors checks the failure modes of the summary.
func TestSummarizeErrors(t *testing.T) {
	t.Parallel()

	_, pubKey := deterministicPrivKey(t)
	pkScript := p2wpkhScript(t, pubKey)
	tx := createTestTx(2)
	prevOut := wire.NewTxOut(1000, pkScript)

	_, err := Summarize(tx, []*wire.TxOut{prevOut})
	require.ErrorIs(t, err, ErrPrevoutCountMismatch)

	_, err = Summarize(tx, []*wire.TxOut{prevOut, nil})
	require.ErrorIs(t, err, ErrMissingPrevOut)

	_, err = Summarize(tx, []*wire.TxOut{prevOut, prevOut})
	require.ErrorIs(t, err, ErrNegativeFee)

	_, err = Summarize(nil, nil)
	require.ErrorIs(t, err, ErrInvalidSignParam)
}
