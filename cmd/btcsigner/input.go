// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcsigner/signer"
	"golang.org/x/term"
)

var (
	// errSerialization is returned when a transaction or packet passed on
	// the command line cannot be decoded.
	errSerialization = errors.New("serialization error")

	// errNoTxInput is returned when neither --tx nor --psbt is set.
	errNoTxInput = errors.New("one of --tx or --psbt is required")
)

// txInput holds the transaction options shared by the sign commands.
//
//nolint:ll
type txInput struct {
	TxHex      string `long:"tx" description:"The unsigned transaction as consensus encoded hex"`
	PsbtBase64 string `long:"psbt" description:"The unsigned transaction as a base64 encoded PSBT carrying the spent outputs"`
	WIF        string `long:"wif" description:"The private key in wallet import format; prompted for when not set"`
}

// unsignedTx is a transaction to sign plus whatever is known about the
// outputs it spends.
type unsignedTx struct {
	tx *wire.MsgTx

	// prevOuts is set when the input was a PSBT.
	prevOuts []*wire.TxOut
}

// decode parses the transaction from the option that was set.
func (t *txInput) decode() (*unsignedTx, error) {
	switch {
	case t.TxHex != "" && t.PsbtBase64 != "":
		return nil, errors.New("--tx and --psbt are mutually " +
			"exclusive")

	case t.TxHex != "":
		tx, err := decodeTxHex(t.TxHex)
		if err != nil {
			return nil, err
		}

		return &unsignedTx{tx: tx}, nil

	case t.PsbtBase64 != "":
		packet, err := psbt.NewFromRawBytes(
			strings.NewReader(strings.TrimSpace(t.PsbtBase64)),
			true,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: psbt: %v", errSerialization,
				err)
		}

		prevOuts, err := signer.PrevOutsFromPacket(packet)
		if err != nil {
			return nil, err
		}

		return &unsignedTx{
			tx:       packet.UnsignedTx.Copy(),
			prevOuts: prevOuts,
		}, nil

	default:
		return nil, errNoTxInput
	}
}

// decodeTxHex deserializes a consensus encoded transaction.
func decodeTxHex(txHex string) (*wire.MsgTx, error) {
	txBytes, err := hex.DecodeString(strings.TrimSpace(txHex))
	if err != nil {
		return nil, fmt.Errorf("%w: tx hex: %v", errSerialization, err)
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(txBytes)); err != nil {
		return nil, fmt.Errorf("%w: tx: %v", errSerialization, err)
	}

	return tx, nil
}

// encodeTxHex serializes a transaction to hex.
func encodeTxHex(tx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf.Bytes()), nil
}

// parseValues parses a comma separated list of satoshi amounts.
func parseValues(list string) ([]btcutil.Amount, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}

	fields := strings.Split(list, ",")
	values := make([]btcutil.Amount, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", field, err)
		}
		if value < 0 || value > btcutil.MaxSatoshi {
			return nil, fmt.Errorf("value %d out of range", value)
		}

		values = append(values, btcutil.Amount(value))
	}

	return values, nil
}

// decodeHexItems decodes a list of hex encoded witness items.
func decodeHexItems(items []string) ([][]byte, error) {
	decoded := make([][]byte, len(items))
	for i, item := range items {
		b, err := hex.DecodeString(item)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v",
				errSerialization, i, err)
		}

		decoded[i] = b
	}

	return decoded, nil
}

// passwordReader reads a secret from the terminal without echo.
var passwordReader = func(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}

	return string(secret), nil
}

// readPrivKey returns the key given by --wif or prompts for one. The key must
// belong to the selected network.
func readPrivKey(wif string, params *chaincfg.Params) (*btcec.PrivateKey,
	error) {

	if wif == "" {
		var err error
		wif, err = passwordReader("Private key (WIF): ")
		if err != nil {
			return nil, fmt.Errorf("unable to read key: %w", err)
		}
	}

	decoded, err := signer.DecodeWIF(strings.TrimSpace(wif))
	if err != nil {
		return nil, err
	}
	if !decoded.IsForNet(params) {
		return nil, fmt.Errorf("%w: key is not for network %s",
			signer.ErrInvalidKey, params.Name)
	}

	return decoded.PrivKey, nil
}

// writeResult prints the signed transaction and its summary.
func writeResult(w io.Writer, tx *wire.MsgTx, prevOuts []*wire.TxOut) error {
	txHex, err := encodeTxHex(tx)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, txHex); err != nil {
		return err
	}

	summary, err := signer.Summarize(tx, prevOuts)
	if err != nil {
		return err
	}

	if summary.BelowRelayFee {
		log.Warnf("Fee rate %v is below the minimum relay fee",
			summary.FeeRate)
	}
	if len(summary.DustOutputs) > 0 {
		log.Warnf("Outputs %v are dust", summary.DustOutputs)
	}

	_, err = fmt.Fprintln(w, summary)

	return err
}
