// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signer

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/davecgh/go-spew/spew"
	"golang.org/x/sync/errgroup"
)

// P2WPKHScript returns the P2WPKH output script paying to the compressed
// public key.
func P2WPKHScript(pubKey *btcec.PublicKey) ([]byte, error) {
	if pubKey == nil {
		return nil, fmt.Errorf("%w: nil public key", ErrInvalidKey)
	}

	// The network only selects the address encoding, the script is the
	// same on every network.
	addr, err := btcutil.NewAddressWitnessPubKeyHash(
		btcutil.Hash160(pubKey.SerializeCompressed()),
		&chaincfg.MainNetParams,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}

	pkScript, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}

	return pkScript, nil
}

// SignP2WPKH signs inputs 0 through len(values)-1 of tx, each spending a
// P2WPKH output of the given value locked to privKey, with SIGHASH_ALL. The
// witnesses are only written once every input was signed successfully, so a
// failure leaves tx untouched.
func (s *Signer) SignP2WPKH(tx *wire.MsgTx, values []btcutil.Amount,
	privKey *btcec.PrivateKey) error {

	if tx == nil {
		return fmt.Errorf("%w: nil transaction", ErrInvalidSignParam)
	}
	if len(values) > len(tx.TxIn) {
		return fmt.Errorf("%w: %d values for %d inputs",
			ErrIndexOutOfRange, len(values), len(tx.TxIn))
	}
	if err := checkPrivKey(privKey); err != nil {
		return err
	}

	pubKey := privKey.PubKey()
	pkScript, err := P2WPKHScript(pubKey)
	if err != nil {
		return err
	}

	builder, err := NewDigestBuilder(tx)
	if err != nil {
		return err
	}

	log.Debugf("Signing %d p2wpkh inputs of tx %v", len(values),
		tx.TxHash())

	// Each worker only reads the transaction and writes its own slot.
	witnesses := make([]wire.TxWitness, len(values))

	eg := &errgroup.Group{}
	eg.SetLimit(s.cfg.MaxWorkers)

	for i, value := range values {
		eg.Go(func() error {
			witness, err := signP2WPKHInput(
				builder, i, value, pkScript, privKey,
			)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}

			witnesses[i] = witness

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		log.Errorf("Failed to sign tx %v: %v", tx.TxHash(), err)

		return err
	}

	for i, witness := range witnesses {
		tx.TxIn[i].Witness = witness
	}

	log.Tracef("Signed tx: %v", newLogClosure(func() string {
		return spew.Sdump(tx)
	}))

	return nil
}

// signP2WPKHInput computes the witness of a single P2WPKH input.
func signP2WPKHInput(builder *DigestBuilder, idx int, value btcutil.Amount,
	pkScript []byte, privKey *btcec.PrivateKey) (wire.TxWitness, error) {

	digest, err := builder.SegwitV0Digest(
		idx, value, pkScript, txscript.SigHashAll,
	)
	if err != nil {
		return nil, err
	}

	sig, err := SignECDSA(digest, privKey)
	if err != nil {
		return nil, err
	}

	return P2WPKHWitness(sig, txscript.SigHashAll, privKey.PubKey()), nil
}

// SignP2WPKH signs the P2WPKH inputs of tx with the default signer.
func SignP2WPKH(tx *wire.MsgTx, values []btcutil.Amount,
	privKey *btcec.PrivateKey) error {

	return defaultSigner.SignP2WPKH(tx, values, privKey)
}
