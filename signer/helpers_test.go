// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signer

import (
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txauthor"
	"github.com/stretchr/testify/require"
)

// deterministicPrivKey returns a fixed private key so signatures are
// reproducible across runs.
func deterministicPrivKey(t testing.TB) (*btcec.PrivateKey,
	*btcec.PublicKey) {

	t.Helper()

	pkBytes, err := hex.DecodeString("22a47fa09a223f2aa079edf85a7c2d4f87" +
		"20ee63e502ee2869afab7de234b80c")
	require.NoError(t, err)

	privKey, pubKey := btcec.PrivKeyFromBytes(pkBytes)

	return privKey, pubKey
}

// secondPrivKey returns a fixed private key different from
// deterministicPrivKey.
func secondPrivKey(t testing.TB) (*btcec.PrivateKey, *btcec.PublicKey) {
	t.Helper()

	pkBytes, err := hex.DecodeString("5b2cb1a5e1c1a4d0c1b1f7b4d61d7d2f1d" +
		"9a3cfc4f52e5bb0c0ef3ee3ec5a6b1")
	require.NoError(t, err)

	privKey, pubKey := btcec.PrivKeyFromBytes(pkBytes)

	return privKey, pubKey
}

// createTestTx returns a version 2 transaction spending numInputs distinct
// outpoints into two outputs.
func createTestTx(numInputs int) *wire.MsgTx {
	tx := wire.NewMsgTx(2)
	for i := 0; i < numInputs; i++ {
		prevHash := chainhash.HashH([]byte(fmt.Sprintf("prev-%d", i)))
		tx.AddTxIn(wire.NewTxIn(
			wire.NewOutPoint(&prevHash, uint32(i)), nil, nil,
		))
		tx.TxIn[i].Sequence = wire.MaxTxInSequenceNum - uint32(i)
	}

	tx.AddTxOut(wire.NewTxOut(60000, []byte{
		txscript.OP_0, txscript.OP_DATA_20,
		0, 1, 2, 3, 4, 5, 6, 7, 8, 9,
		10, 11, 12, 13, 14, 15, 16, 17, 18, 19,
	}))
	tx.AddTxOut(wire.NewTxOut(30000, []byte{txscript.OP_RETURN}))
	tx.LockTime = 800000

	return tx
}

// p2wpkhScript returns the P2WPKH script of the public key.
func p2wpkhScript(t testing.TB, pubKey *btcec.PublicKey) []byte {
	t.Helper()

	addr, err := btcutil.NewAddressWitnessPubKeyHash(
		btcutil.Hash160(pubKey.SerializeCompressed()),
		&chaincfg.RegressionNetParams,
	)
	require.NoError(t, err)

	pkScript, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)

	return pkScript
}

// tapscriptFixture is a taproot output committing to a single leaf.
type tapscriptFixture struct {
	leafScript   []byte
	leafHash     chainhash.Hash
	controlBlock []byte
	pkScript     []byte
}

// newTapscriptFixture builds a taproot output with one leaf script, using the
// passed key as internal key.
func newTapscriptFixture(t testing.TB, internalKey *btcec.PublicKey,
	leafScript []byte) *tapscriptFixture {

	t.Helper()

	leaf := txscript.NewBaseTapLeaf(leafScript)
	tapScriptTree := txscript.AssembleTaprootScriptTree(leaf)
	rootHash := tapScriptTree.RootNode.TapHash()
	outputKey := txscript.ComputeTaprootOutputKey(internalKey, rootHash[:])

	addr, err := btcutil.NewAddressTaproot(
		schnorr.SerializePubKey(outputKey),
		&chaincfg.RegressionNetParams,
	)
	require.NoError(t, err)

	pkScript, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)

	ctrlBlock := tapScriptTree.LeafMerkleProofs[0].ToControlBlock(
		internalKey,
	)
	ctrlBlockBytes, err := ctrlBlock.ToBytes()
	require.NoError(t, err)

	return &tapscriptFixture{
		leafScript:   leafScript,
		leafHash:     leaf.TapHash(),
		controlBlock: ctrlBlockBytes,
		pkScript:     pkScript,
	}
}

// checkSigScript returns the leaf script <pubkey> OP_CHECKSIG.
func checkSigScript(t testing.TB, pubKey *btcec.PublicKey) []byte {
	t.Helper()

	script, err := txscript.NewScriptBuilder().
		AddData(schnorr.SerializePubKey(pubKey)).
		AddOp(txscript.OP_CHECKSIG).
		Script()
	require.NoError(t, err)

	return script
}

// prevOutScripts splits a previous output set into scripts and values.
func prevOutScripts(prevOuts []*wire.TxOut) ([][]byte, []btcutil.Amount) {
	scripts := make([][]byte, len(prevOuts))
	values := make([]btcutil.Amount, len(prevOuts))
	for i, prevOut := range prevOuts {
		scripts[i] = prevOut.PkScript
		values[i] = btcutil.Amount(prevOut.Value)
	}

	return scripts, values
}

// validateMsgTx executes the script of every input and fails the test if any
// of them does not verify.
func validateMsgTx(t testing.TB, tx *wire.MsgTx, prevOuts []*wire.TxOut) {
	t.Helper()

	prevScripts, inputValues := prevOutScripts(prevOuts)
	inputFetcher, err := txauthor.TXPrevOutFetcher(
		tx, prevScripts, inputValues,
	)
	require.NoError(t, err)

	hashCache := txscript.NewTxSigHashes(tx, inputFetcher)
	for i, prevScript := range prevScripts {
		vm, err := txscript.NewEngine(
			prevScript, tx, i, txscript.StandardVerifyFlags, nil,
			hashCache, int64(inputValues[i]), inputFetcher,
		)
		require.NoError(t, err)
		require.NoError(t, vm.Execute(), "input %d failed", i)
	}
}
