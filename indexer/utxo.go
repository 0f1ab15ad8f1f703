// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package indexer

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// TxStatus represents transaction confirmation status.
type TxStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight int64  `json:"block_height,omitempty"`
	BlockHash   string `json:"block_hash,omitempty"`
	BlockTime   int64  `json:"block_time,omitempty"`
}

// UTXO represents an unspent transaction output.
type UTXO struct {
	TxID   string   `json:"txid"`
	Vout   uint32   `json:"vout"`
	Status TxStatus `json:"status"`
	Value  int64    `json:"value"`
}

// OutPoint returns the outpoint the UTXO is located at.
func (u *UTXO) OutPoint() (wire.OutPoint, error) {
	hash, err := chainhash.NewHashFromStr(u.TxID)
	if err != nil {
		return wire.OutPoint{}, fmt.Errorf("%w: txid %q: %v",
			ErrSerialization, u.TxID, err)
	}

	return wire.OutPoint{Hash: *hash, Index: u.Vout}, nil
}

// Amount returns the value of the UTXO.
func (u *UTXO) Amount() btcutil.Amount {
	return btcutil.Amount(u.Value)
}

// String returns the outpoint and value of the UTXO.
func (u *UTXO) String() string {
	return fmt.Sprintf("%s:%d (%v)", u.TxID, u.Vout, u.Amount())
}
