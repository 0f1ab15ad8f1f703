// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package btcunit provides size and fee rate types used to describe signed
// transactions.
package btcunit

import (
	"math"
	"math/big"

	"github.com/btcsuite/btcd/btcutil"
)

const (
	// kilo is a generic multiplier for kilo units.
	kilo = 1000

	// floatStringPrecision is the number of decimal places used when a fee
	// rate is printed, so that rates below 1 sat/vb are not shown as zero.
	floatStringPrecision = 3
)

// SatPerVByte is a fee rate in satoshis per virtual byte. The rate is kept as
// an exact fraction, rounding only happens when it is printed or applied to
// a size.
type SatPerVByte struct {
	rate *big.Rat
}

// NewSatPerVByte creates a fee rate of the given satoshis per vbyte.
func NewSatPerVByte(rate btcutil.Amount) SatPerVByte {
	return CalcSatPerVByte(rate, NewVByte(1))
}

// NewSatPerKVByte creates a fee rate from a rate in satoshis per kvbyte, the
// unit relay policies are expressed in.
func NewSatPerKVByte(rate btcutil.Amount) SatPerVByte {
	return CalcSatPerVByte(rate, NewVByte(kilo))
}

// CalcSatPerVByte returns the rate of paying fee for a transaction of size
// vb. A zero size yields a zero rate.
func CalcSatPerVByte(fee btcutil.Amount, vb VByte) SatPerVByte {
	if vb.vb == 0 {
		return SatPerVByte{rate: big.NewRat(0, 1)}
	}

	return SatPerVByte{
		rate: big.NewRat(int64(fee), safeUint64ToInt64(vb.vb)),
	}
}

// FeeForVSize returns the fee paid by a transaction of size vb at this rate,
// rounded down to the satoshi.
func (s SatPerVByte) FeeForVSize(vb VByte) btcutil.Amount {
	fee := new(big.Rat).Mul(
		s.value(), new(big.Rat).SetInt64(safeUint64ToInt64(vb.vb)),
	)

	quotient := new(big.Int).Quo(fee.Num(), fee.Denom())

	return btcutil.Amount(quotient.Int64())
}

// LessThan returns true if the fee rate is lower than the other fee rate.
func (s SatPerVByte) LessThan(other SatPerVByte) bool {
	return s.value().Cmp(other.value()) < 0
}

// Equal returns true if both fee rates are equal.
func (s SatPerVByte) Equal(other SatPerVByte) bool {
	return s.value().Cmp(other.value()) == 0
}

// String returns a human-readable string of the fee rate.
func (s SatPerVByte) String() string {
	return s.value().FloatString(floatStringPrecision) + " sat/vb"
}

// value returns the rate, treating the zero value as a zero rate.
func (s SatPerVByte) value() *big.Rat {
	if s.rate == nil {
		return new(big.Rat)
	}

	return s.rate
}

// safeUint64ToInt64 converts a uint64 to an int64, capping at math.MaxInt64.
// Transaction sizes are bounded by consensus and never reach the cap.
func safeUint64ToInt64(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(u)
}
