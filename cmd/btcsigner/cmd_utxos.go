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
	"github.com/btcsuite/btcsigner/indexer"
	"github.com/jessevdk/go-flags"
)

// utxosCommand lists the unspent outputs of an address.
//
//nolint:ll
type utxosCommand struct {
	Address string `long:"address" short:"a" description:"The address to list unspent outputs for" required:"true"`
	Amount  int64  `long:"amount" description:"Only list the outputs needed to cover this many satoshis"`

	cfg *config
	out io.Writer
}

func newUtxosCommand(cfg *config, out io.Writer) *utxosCommand {
	return &utxosCommand{cfg: cfg, out: out}
}

func (x *utxosCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"utxos",
		"List the unspent outputs of an address",
		"Query the Esplora API for the unspent outputs of an address; "+
			"with --amount, only the outputs needed to reach the "+
			"amount are listed, in the order the API returns them",
		x,
	)
	return err
}

func (x *utxosCommand) Execute(_ []string) error {
	addr, err := btcutil.DecodeAddress(x.Address, x.cfg.netParams)
	if err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}
	if !addr.IsForNet(x.cfg.netParams) {
		return fmt.Errorf("address %v is not for network %s", addr,
			x.cfg.netParams.Name)
	}

	client, err := indexer.NewClient(x.cfg.Esplora)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var utxos []*indexer.UTXO
	switch {
	case x.Amount < 0:
		return errors.New("amount must not be negative")

	case x.Amount > 0:
		utxos, err = client.GetUTXOsForAmount(
			ctx, addr.EncodeAddress(), btcutil.Amount(x.Amount),
		)

	default:
		utxos, err = client.GetUTXOs(ctx, addr.EncodeAddress())
	}
	if err != nil {
		return err
	}

	var total btcutil.Amount
	for _, utxo := range utxos {
		total += utxo.Amount()

		confs := "unconfirmed"
		if utxo.Status.Confirmed {
			confs = fmt.Sprintf("height %d", utxo.Status.BlockHeight)
		}
		fmt.Fprintf(x.out, "%s:%d %d %s\n", utxo.TxID, utxo.Vout,
			utxo.Value, confs)
	}

	log.Infof("Listed %d utxos of %v totalling %v", len(utxos), addr,
		total)

	return nil
}
