// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package indexer

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightningnetwork/lnd/fn/v2"
)

var (
	// ErrUnexpectedStatus is returned when the API answers with a status
	// other than 200 OK.
	ErrUnexpectedStatus = errors.New("unexpected API status")

	// ErrSerialization is returned when a response cannot be decoded.
	ErrSerialization = errors.New("malformed API response")

	// ErrInsufficientBalance is returned when the UTXOs of an address do
	// not add up to the requested amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidParam is returned when a request is made with a missing
	// or malformed argument.
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrPrevOutNotFound is returned when a previous transaction does not
	// have the output an input refers to.
	ErrPrevOutNotFound = errors.New("previous output not found")
)

// Client is an HTTP client for the subset of the Esplora REST API needed to
// build and sign transactions.
type Client struct {
	cfg *Config

	httpClient *http.Client
}

// NewClient creates a new Esplora client with the given configuration.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("esplora url must be set")
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("invalid max retries %d", cfg.MaxRetries)
	}

	log.Debugf("Creating Esplora client, url=%s", cfg.URL)

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}, nil
}

// doRequest performs a GET request, retrying transport failures and server
// errors with a linear backoff.
func (c *Client) doRequest(ctx context.Context, path string) (*http.Response,
	error) {

	reqURL := strings.TrimSuffix(c.cfg.URL, "/") + path

	var lastErr error
	for i := 0; i <= c.cfg.MaxRetries; i++ {
		if i > 0 {
			delay := time.Duration(i) * retryBackoff

			log.Debugf("Retrying %s in %v (attempt %d): %v", path,
				delay, i+1, lastErr)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(
			ctx, http.MethodGet, reqURL, nil,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			lastErr = err

			continue
		}

		// Server side failures are usually transient, anything else is
		// returned to the caller as is.
		if resp.StatusCode >= http.StatusInternalServerError ||
			resp.StatusCode == http.StatusTooManyRequests {

			lastErr = fmt.Errorf("%w: %d", ErrUnexpectedStatus,
				resp.StatusCode)
			resp.Body.Close()

			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w",
		c.cfg.MaxRetries+1, lastErr)
}

// doGet performs a GET request and returns the response body.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.doRequest(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus,
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}

// GetUTXOs fetches the unspent outputs of an address.
func (c *Client) GetUTXOs(ctx context.Context, address string) ([]*UTXO,
	error) {

	body, err := c.doGet(ctx, "/address/"+url.PathEscape(address)+"/utxo")
	if err != nil {
		return nil, err
	}

	var utxos []*UTXO
	if err := json.Unmarshal(body, &utxos); err != nil {
		return nil, fmt.Errorf("%w: failed to decode utxos: %v",
			ErrSerialization, err)
	}

	log.Debugf("Fetched %d utxos for %s", len(utxos), address)

	return utxos, nil
}

// GetUTXOsForAmount returns UTXOs of the address, in the order the API lists
// them, until their total value reaches amount. Outputs listed more than once
// are only counted once.
func (c *Client) GetUTXOsForAmount(ctx context.Context, address string,
	amount btcutil.Amount) ([]*UTXO, error) {

	utxos, err := c.GetUTXOs(ctx, address)
	if err != nil {
		return nil, err
	}

	var (
		selected []*UTXO
		total    btcutil.Amount
		seen     = fn.NewSet[wire.OutPoint]()
	)
	for _, utxo := range utxos {
		if total >= amount {
			break
		}

		outPoint, err := utxo.OutPoint()
		if err != nil {
			return nil, err
		}
		if seen.Contains(outPoint) {
			log.Warnf("Skipping duplicate utxo %v", outPoint)
			continue
		}
		seen.Add(outPoint)

		selected = append(selected, utxo)
		total += utxo.Amount()
	}

	if total < amount {
		return nil, fmt.Errorf("%w: need %v, have %v",
			ErrInsufficientBalance, amount, total)
	}

	return selected, nil
}

// GetTx fetches and deserializes a transaction.
func (c *Client) GetTx(ctx context.Context, txid string) (*wire.MsgTx,
	error) {

	body, err := c.doGet(ctx, "/tx/"+url.PathEscape(txid)+"/hex")
	if err != nil {
		return nil, err
	}

	txBytes, err := hex.DecodeString(strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode tx hex: %v",
			ErrSerialization, err)
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(txBytes)); err != nil {
		return nil, fmt.Errorf("%w: failed to deserialize tx: %v",
			ErrSerialization, err)
	}

	if tx.TxHash().String() != txid {
		return nil, fmt.Errorf("%w: requested tx %s, got %v",
			ErrSerialization, txid, tx.TxHash())
	}

	return tx, nil
}

// GetPrevOuts fetches the output spent by every input of tx, in input order.
// Each previous transaction is only fetched once.
func (c *Client) GetPrevOuts(ctx context.Context,
	tx *wire.MsgTx) ([]*wire.TxOut, error) {

	if tx == nil {
		return nil, fmt.Errorf("%w: nil transaction", ErrInvalidParam)
	}

	prevTxs := make(map[chainhash.Hash]*wire.MsgTx)
	prevOuts := make([]*wire.TxOut, len(tx.TxIn))
	for i, txIn := range tx.TxIn {
		outPoint := txIn.PreviousOutPoint

		prevTx, ok := prevTxs[outPoint.Hash]
		if !ok {
			var err error
			prevTx, err = c.GetTx(ctx, outPoint.Hash.String())
			if err != nil {
				return nil, fmt.Errorf("input %d: %w", i, err)
			}

			prevTxs[outPoint.Hash] = prevTx
		}

		if int(outPoint.Index) >= len(prevTx.TxOut) {
			return nil, fmt.Errorf("%w: input %d spends %v",
				ErrPrevOutNotFound, i, outPoint)
		}

		prevOuts[i] = prevTx.TxOut[outPoint.Index]
	}

	return prevOuts, nil
}
