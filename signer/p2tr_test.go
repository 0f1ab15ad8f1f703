// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signer

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// TestSignP2TRSingleLeaf signs a script-path spend of a single checksig leaf
// with each supported sighash and nonce mode.
func TestSignP2TRSingleLeaf(t *testing.T) {
	t.Parallel()

	privKey, pubKey := deterministicPrivKey(t)
	fixture := newTapscriptFixture(t, pubKey, checkSigScript(t, pubKey))

	testCases := []struct {
		name      string
		hashType  txscript.SigHashType
		nonceMode NonceMode
		sigLen    int
	}{{
		name:     "default hash type",
		hashType: txscript.SigHashDefault,
		sigLen:   schnorr.SignatureSize,
	}, {
		name:     "sighash all",
		hashType: txscript.SigHashAll,
		sigLen:   schnorr.SignatureSize + 1,
	}, {
		name: "single anyone can pay",
		hashType: txscript.SigHashSingle |
			txscript.SigHashAnyOneCanPay,
		sigLen: schnorr.SignatureSize + 1,
	}, {
		name:      "randomized nonce",
		hashType:  txscript.SigHashDefault,
		nonceMode: NonceRandomized,
		sigLen:    schnorr.SignatureSize,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, err := New(&Config{NonceMode: tc.nonceMode})
			require.NoError(t, err)

			tx := createTestTx(1)
			prevOuts := []*wire.TxOut{
				wire.NewTxOut(100000, fixture.pkScript),
			}

			err = s.SignP2TR(tx, &TaprootSignParams{
				LeafHash: fixture.leafHash,
				HashType: tc.hashType,
				PrevOuts: prevOuts,
				Witness: TapscriptWitness{
					LeafScript:   fixture.leafScript,
					ControlBlock: fixture.controlBlock,
				},
			}, privKey)
			require.NoError(t, err)

			witness := tx.TxIn[0].Witness
			require.Len(t, witness, 3)
			require.Len(t, witness[0], tc.sigLen)
			require.Equal(t, fixture.leafScript, witness[1])
			require.Equal(t, fixture.controlBlock, witness[2])

			validateMsgTx(t, tx, prevOuts)
		})
	}
}

// TestSignP2TRTwoInputsTwoKeys signs two inputs of 50000 sats spending the
// same 2-of-2 leaf, passing the first signature as an extra witness item.
func TestSignP2TRTwoInputsTwoKeys(t *testing.T) {
	t.Parallel()

	privKey1, pubKey1 := deterministicPrivKey(t)
	privKey2, pubKey2 := secondPrivKey(t)

	leafScript, err := txscript.NewScriptBuilder().
		AddData(schnorr.SerializePubKey(pubKey1)).
		AddOp(txscript.OP_CHECKSIGVERIFY).
		AddData(schnorr.SerializePubKey(pubKey2)).
		AddOp(txscript.OP_CHECKSIG).
		Script()
	require.NoError(t, err)

	fixture := newTapscriptFixture(t, pubKey1, leafScript)
	tx := createTestTx(2)
	prevOut := wire.NewTxOut(50000, fixture.pkScript)
	prevOuts := []*wire.TxOut{prevOut, prevOut}

	// A single prevout does not describe both inputs.
	err = SignP2TR(tx, &TaprootSignParams{
		LeafHash: fixture.leafHash,
		PrevOuts: prevOuts[:1],
		Witness: TapscriptWitness{
			LeafScript:   fixture.leafScript,
			ControlBlock: fixture.controlBlock,
		},
	}, privKey1)
	require.ErrorIs(t, err, ErrPrevoutCountMismatch)
	require.Empty(t, tx.TxIn[0].Witness)

	for idx := range tx.TxIn {
		digest, err := TaprootScriptDigest(
			tx, idx, prevOuts, fixture.leafHash,
			txscript.SigHashDefault,
		)
		require.NoError(t, err)

		sig1, err := SignSchnorr(digest, privKey1, NonceDeterministic)
		require.NoError(t, err)

		err = SignP2TR(tx, &TaprootSignParams{
			InputIndex: idx,
			LeafHash:   fixture.leafHash,
			PrevOuts:   prevOuts,
			Witness: TapscriptWitness{
				ExtraItems:   [][]byte{sig1.Serialize()},
				LeafScript:   fixture.leafScript,
				ControlBlock: fixture.controlBlock,
			},
		}, privKey2)
		require.NoError(t, err)

		witness := tx.TxIn[idx].Witness
		require.Len(t, witness, 4)
		require.Equal(t, sig1.Serialize(), witness[1])
	}

	validateMsgTx(t, tx, prevOuts)
}

// TestSignP2TRIdempotent checks that re-signing replaces the witness.
func TestSignP2TRIdempotent(t *testing.T) {
	t.Parallel()

	privKey, pubKey := deterministicPrivKey(t)
	fixture := newTapscriptFixture(t, pubKey, checkSigScript(t, pubKey))
	tx := createTestTx(1)
	params := &TaprootSignParams{
		LeafHash: fixture.leafHash,
		PrevOuts: []*wire.TxOut{wire.NewTxOut(100000, fixture.pkScript)},
		Witness: TapscriptWitness{
			LeafScript:   fixture.leafScript,
			ControlBlock: fixture.controlBlock,
		},
	}

	require.NoError(t, SignP2TR(tx, params, privKey))
	first := tx.TxIn[0].Witness

	require.NoError(t, SignP2TR(tx, params, privKey))
	require.Equal(t, first, tx.TxIn[0].Witness)
	require.Len(t, tx.TxIn[0].Witness, 3)
}

// TestSignP2TRErrors checks the failure modes of taproot signing and that
// the witness is left untouched on failure.
func TestSignP2TRErrors(t *testing.T) {
	t.Parallel()

	privKey, pubKey := deterministicPrivKey(t)
	fixture := newTapscriptFixture(t, pubKey, checkSigScript(t, pubKey))
	existing := wire.TxWitness{{0xbb}}
	v0Script := p2wpkhScript(t, pubKey)

	validParams := func() *TaprootSignParams {
		return &TaprootSignParams{
			LeafHash: fixture.leafHash,
			PrevOuts: []*wire.TxOut{
				wire.NewTxOut(100000, fixture.pkScript),
			},
			Witness: TapscriptWitness{
				LeafScript:   fixture.leafScript,
				ControlBlock: fixture.controlBlock,
			},
		}
	}

	testCases := []struct {
		name   string
		modify func(p *TaprootSignParams) *TaprootSignParams
		err    error
	}{{
		name: "nil params",
		modify: func(*TaprootSignParams) *TaprootSignParams {
			return nil
		},
		err: ErrInvalidSignParam,
	}, {
		name: "index equal to input count",
		modify: func(p *TaprootSignParams) *TaprootSignParams {
			p.InputIndex = 1
			return p
		},
		err: ErrIndexOutOfRange,
	}, {
		name: "missing control block",
		modify: func(p *TaprootSignParams) *TaprootSignParams {
			p.Witness.ControlBlock = nil
			return p
		},
		err: ErrMissingWitnessItem,
	}, {
		name: "leaf hash of another script",
		modify: func(p *TaprootSignParams) *TaprootSignParams {
			p.LeafHash = LeafHash([]byte{txscript.OP_TRUE})
			return p
		},
		err: ErrLeafHashMismatch,
	}, {
		name: "invalid hash type",
		modify: func(p *TaprootSignParams) *TaprootSignParams {
			p.HashType = 0x7f
			return p
		},
		err: ErrInvalidSigHashType,
	}, {
		name: "spends a p2wpkh output",
		modify: func(p *TaprootSignParams) *TaprootSignParams {
			p.PrevOuts[0].PkScript = v0Script
			return p
		},
		err: ErrScript,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tx := createTestTx(1)
			tx.TxIn[0].Witness = existing

			err := SignP2TR(tx, tc.modify(validParams()), privKey)
			require.ErrorIs(t, err, tc.err)
			require.Equal(t, existing, tx.TxIn[0].Witness)
		})
	}

	err := SignP2TR(createTestTx(1), validParams(), nil)
	require.ErrorIs(t, err, ErrInvalidKey)
}
