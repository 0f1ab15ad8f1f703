// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcunit

import (
	"math"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"
)

// TestCalcSatPerVByte checks fee rate construction and formatting.
func TestCalcSatPerVByte(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		rate     SatPerVByte
		expected string
	}{{
		name:     "whole rate",
		rate:     CalcSatPerVByte(1410, NewVByte(141)),
		expected: "10.000 sat/vb",
	}, {
		name:     "fractional rate",
		rate:     CalcSatPerVByte(1000, NewVByte(141)),
		expected: "7.092 sat/vb",
	}, {
		name:     "relay policy rate",
		rate:     NewSatPerKVByte(1000),
		expected: "1.000 sat/vb",
	}, {
		name:     "below one sat per kvbyte",
		rate:     NewSatPerKVByte(1),
		expected: "0.001 sat/vb",
	}, {
		name:     "zero size",
		rate:     CalcSatPerVByte(1000, NewVByte(0)),
		expected: "0.000 sat/vb",
	}, {
		name:     "zero value",
		rate:     SatPerVByte{},
		expected: "0.000 sat/vb",
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.expected, tc.rate.String())
		})
	}
}

// TestFeeRateComparisons checks the ordering of fee rates expressed in
// different units.
func TestFeeRateComparisons(t *testing.T) {
	t.Parallel()

	oneSatPerVByte := NewSatPerVByte(1)
	require.True(t, oneSatPerVByte.Equal(NewSatPerKVByte(1000)))
	require.True(t, NewSatPerKVByte(999).LessThan(oneSatPerVByte))
	require.False(t, oneSatPerVByte.LessThan(NewSatPerKVByte(1000)))
	require.True(t, SatPerVByte{}.LessThan(NewSatPerKVByte(1)))
}

// TestFeeForVSize checks that fees are rounded down.
func TestFeeForVSize(t *testing.T) {
	t.Parallel()

	rate := NewSatPerKVByte(1500)
	require.Equal(t, btcutil.Amount(1500), rate.FeeForVSize(NewVByte(1000)))
	require.Equal(t, btcutil.Amount(1), rate.FeeForVSize(NewVByte(1)))
	require.Equal(t, btcutil.Amount(0), SatPerVByte{}.FeeForVSize(
		NewVByte(1000),
	))
}

// TestSafeUint64ToInt64Overflow checks that large values are capped.
func TestSafeUint64ToInt64Overflow(t *testing.T) {
	t.Parallel()

	require.Equal(t, int64(42), safeUint64ToInt64(42))
	require.Equal(t, int64(math.MaxInt64), safeUint64ToInt64(math.MaxUint64))
}
