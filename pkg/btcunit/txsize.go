// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcunit

import (
	"fmt"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
)

// WeightUnit is the BIP141 size of a transaction, computed as
// `base size * 3 + total size`, where the base size excludes the witness.
type WeightUnit struct {
	wu uint64
}

// NewWeightUnit creates a new WeightUnit from a uint64 value.
func NewWeightUnit(val uint64) WeightUnit {
	return WeightUnit{wu: val}
}

// TxWeight returns the weight of a transaction including its witnesses.
func TxWeight(tx *wire.MsgTx) WeightUnit {
	weight := blockchain.GetTransactionWeight(btcutil.NewTx(tx))

	return NewWeightUnit(uint64(weight))
}

// ToVB converts the weight to virtual bytes, rounding up.
func (w WeightUnit) ToVB() VByte {
	return VByte{
		vb: (w.wu + blockchain.WitnessScaleFactor - 1) /
			blockchain.WitnessScaleFactor,
	}
}

// Uint64 returns the weight as a plain integer.
func (w WeightUnit) Uint64() uint64 {
	return w.wu
}

// String returns the string representation of the weight unit.
func (w WeightUnit) String() string {
	return fmt.Sprintf("%d wu", w.wu)
}

// VByte is a virtual byte, a quarter of a weight unit.
type VByte struct {
	vb uint64
}

// NewVByte creates a new VByte from a uint64 value.
func NewVByte(val uint64) VByte {
	return VByte{vb: val}
}

// ToWU converts the virtual size to weight units.
func (v VByte) ToWU() WeightUnit {
	return NewWeightUnit(v.vb * blockchain.WitnessScaleFactor)
}

// Uint64 returns the virtual size as a plain integer.
func (v VByte) Uint64() uint64 {
	return v.vb
}

// String returns the string representation of the virtual byte.
func (v VByte) String() string {
	return fmt.Sprintf("%d vb", v.vb)
}
