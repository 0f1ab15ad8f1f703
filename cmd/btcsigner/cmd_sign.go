// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcsigner/indexer"
	"github.com/btcsuite/btcsigner/signer"
	"github.com/jessevdk/go-flags"
)

// signP2WPKHCommand signs the P2WPKH inputs of a transaction.
//
//nolint:ll
type signP2WPKHCommand struct {
	txInput

	Values        string `long:"values" description:"Comma separated values in satoshis of the outputs spent by inputs 0..n-1; read from the PSBT when not set"`
	FetchPrevOuts bool   `long:"fetchprevouts" description:"Fetch the spent outputs from the Esplora API instead of passing --values"`

	cfg *config
	out io.Writer
}

func newSignP2WPKHCommand(cfg *config, out io.Writer) *signP2WPKHCommand {
	return &signP2WPKHCommand{cfg: cfg, out: out}
}

func (x *signP2WPKHCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"signp2wpkh",
		"Sign the P2WPKH inputs of a transaction",
		"Sign inputs 0..n-1 of a transaction, each spending a P2WPKH "+
			"output locked to the given key, with SIGHASH_ALL and "+
			"print the signed transaction as hex",
		x,
	)
	return err
}

func (x *signP2WPKHCommand) Execute(_ []string) error {
	utx, err := x.decode()
	if err != nil {
		return err
	}

	privKey, err := readPrivKey(x.WIF, x.cfg.netParams)
	if err != nil {
		return err
	}

	values, err := parseValues(x.Values)
	if err != nil {
		return err
	}

	prevOuts := utx.prevOuts
	if x.FetchPrevOuts {
		prevOuts, err = fetchPrevOuts(x.cfg, utx.tx)
		if err != nil {
			return err
		}
	}

	// When only the values are known, the spent outputs all pay to the
	// key being signed with.
	if prevOuts == nil && len(values) > 0 {
		pkScript, err := signer.P2WPKHScript(privKey.PubKey())
		if err != nil {
			return err
		}

		prevOuts = make([]*wire.TxOut, len(values))
		for i, value := range values {
			prevOuts[i] = wire.NewTxOut(int64(value), pkScript)
		}
	}

	if prevOuts == nil {
		return errors.New("one of --values, --psbt or " +
			"--fetchprevouts is required")
	}

	if len(values) == 0 {
		values, err = signer.InputValues(prevOuts)
		if err != nil {
			return err
		}
	}

	s, err := signer.New(x.cfg.signerConfig())
	if err != nil {
		return err
	}

	if err := s.SignP2WPKH(utx.tx, values, privKey); err != nil {
		return err
	}

	log.Infof("Signed %d p2wpkh inputs of %v", len(values),
		utx.tx.TxHash())

	// The summary needs a spent output for every input, which is only
	// known when all inputs were signed here or described elsewhere.
	if len(prevOuts) != len(utx.tx.TxIn) {
		txHex, err := encodeTxHex(utx.tx)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(x.out, txHex)

		return err
	}

	return writeResult(x.out, utx.tx, prevOuts)
}

// signP2TRCommand signs one taproot script-path input of a transaction.
//
//nolint:ll
type signP2TRCommand struct {
	txInput

	Input         int      `long:"input" short:"i" description:"The index of the input to sign"`
	LeafScript    string   `long:"leafscript" description:"The hex encoded tapscript leaf being executed" required:"true"`
	ControlBlock  string   `long:"controlblock" description:"The hex encoded control block of the leaf" required:"true"`
	Extra         []string `long:"extra" description:"A hex encoded witness item placed after the signature; may be repeated"`
	SigHash       uint8    `long:"sighash" description:"The sighash type; 0 signs with SIGHASH_DEFAULT"`
	FetchPrevOuts bool     `long:"fetchprevouts" description:"Fetch the outputs spent by every input from the Esplora API; required unless --psbt is used"`

	cfg *config
	out io.Writer
}

func newSignP2TRCommand(cfg *config, out io.Writer) *signP2TRCommand {
	return &signP2TRCommand{cfg: cfg, out: out}
}

func (x *signP2TRCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"signp2tr",
		"Sign a taproot script-path input of a transaction",
		"Sign one input spending a taproot output through the given "+
			"leaf script and print the signed transaction as hex; "+
			"the outputs spent by all inputs must be known, either "+
			"from the PSBT or fetched with --fetchprevouts",
		x,
	)
	return err
}

func (x *signP2TRCommand) Execute(_ []string) error {
	utx, err := x.decode()
	if err != nil {
		return err
	}

	items, err := decodeHexItems(
		append([]string{x.LeafScript, x.ControlBlock}, x.Extra...),
	)
	if err != nil {
		return err
	}
	leafScript, ctrlBlockBytes, extra := items[0], items[1], items[2:]

	ctrlBlock, err := txscript.ParseControlBlock(ctrlBlockBytes)
	if err != nil {
		return fmt.Errorf("%w: control block: %v", signer.ErrScript,
			err)
	}
	leafHash := txscript.NewTapLeaf(
		ctrlBlock.LeafVersion, leafScript,
	).TapHash()

	prevOuts := utx.prevOuts
	if x.FetchPrevOuts {
		prevOuts, err = fetchPrevOuts(x.cfg, utx.tx)
		if err != nil {
			return err
		}
	}
	if prevOuts == nil {
		return errors.New("one of --psbt or --fetchprevouts is " +
			"required")
	}

	privKey, err := readPrivKey(x.WIF, x.cfg.netParams)
	if err != nil {
		return err
	}

	s, err := signer.New(x.cfg.signerConfig())
	if err != nil {
		return err
	}

	err = s.SignP2TR(utx.tx, &signer.TaprootSignParams{
		InputIndex: x.Input,
		LeafHash:   leafHash,
		HashType:   txscript.SigHashType(x.SigHash),
		PrevOuts:   prevOuts,
		Witness: signer.TapscriptWitness{
			ExtraItems:   extra,
			LeafScript:   leafScript,
			ControlBlock: ctrlBlockBytes,
		},
	}, privKey)
	if err != nil {
		return err
	}

	log.Infof("Signed taproot input %d of %v", x.Input, utx.tx.TxHash())

	return writeResult(x.out, utx.tx, prevOuts)
}

// fetchPrevOuts looks up the outputs spent by tx on the Esplora API.
func fetchPrevOuts(cfg *config, tx *wire.MsgTx) ([]*wire.TxOut, error) {
	client, err := indexer.NewClient(cfg.Esplora)
	if err != nil {
		return nil, err
	}

	prevOuts, err := client.GetPrevOuts(context.Background(), tx)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch previous outputs: %w",
			err)
	}

	var total btcutil.Amount
	for _, prevOut := range prevOuts {
		total += btcutil.Amount(prevOut.Value)
	}
	log.Debugf("Fetched %d previous outputs worth %v", len(prevOuts),
		total)

	return prevOuts, nil
}
