package gf

import (
	"math/bits"

	"github.com/ka9q-tools/gf256/poly"
)

// This file holds the generic 2W-bit pair arithmetic (W = bit width
// of the container type T) that table construction and the naive/
// Barrett reduction paths share. Go has no generic "double the width
// of T" type, so a (lo, hi T) pair stands in for one, exactly as
// poly.Poly128 stands in for a 128-bit word in the xmul package.

// shlPair shifts a 2W-bit value (lo, hi) left by k < 2W bits.
func shlPair[T poly.Unsigned](lo, hi T, k uint) (T, T) {
	w := poly.BitWidth[T]()
	switch {
	case k == 0:
		return lo, hi
	case k < w:
		return lo << k, (hi << k) | (lo >> (w - k))
	default:
		return 0, lo << (k - w)
	}
}

// shrPair shifts a 2W-bit value (lo, hi) right by k < 2W bits.
func shrPair[T poly.Unsigned](lo, hi T, k uint) (T, T) {
	w := poly.BitWidth[T]()
	switch {
	case k == 0:
		return lo, hi
	case k < w:
		return (lo >> k) | (hi << (w - k)), hi >> k
	default:
		return hi >> (k - w), 0
	}
}

// bitLenT returns the number of bits required to represent v, i.e.
// 1 + the index of its highest set bit (0 for v == 0).
func bitLenT[T poly.Unsigned](v T) int {
	return bits.Len64(uint64(v))
}

// degreePair returns the index of the highest set bit across a 2W-bit
// (lo, hi) pair, or -1 if both halves are zero.
func degreePair[T poly.Unsigned](lo, hi T) int {
	w := poly.BitWidth[T]()
	if hi != 0 {
		return int(w) + bitLenT(hi) - 1
	}
	if lo != 0 {
		return bitLenT(lo) - 1
	}
	return -1
}

// pairDivRem performs polynomial long division of a 2W-bit dividend
// (lo, hi) by a 2W-bit divisor (dlo, dhi), returning quotient and
// remainder pairs. ok is false when the divisor is zero.
func pairDivRem[T poly.Unsigned](lo, hi, dlo, dhi T) (qlo, qhi, rlo, rhi T, ok bool) {
	if dlo == 0 && dhi == 0 {
		return 0, 0, 0, 0, false
	}
	degD := degreePair(dlo, dhi)
	remLo, remHi := lo, hi
	var qLo, qHi T
	for {
		d := degreePair(remLo, remHi)
		if d < degD {
			break
		}
		shift := uint(d - degD)
		pLo, pHi := shlPair(dlo, dhi, shift)
		remLo ^= pLo
		remHi ^= pHi
		oLo, oHi := shlPair[T](1, 0, shift)
		qLo ^= oLo
		qHi ^= oHi
	}
	return qLo, qHi, remLo, remHi, true
}

// buildPiPair represents the (width+1)-bit defining polynomial
// (implicit leading x^width term, low bits from polyLow) as a 2W-bit
// pair, where W is the container's bit width.
func buildPiPair[T poly.Unsigned](polyLow T, width uint) (lo, hi T) {
	leadLo, leadHi := shlPair[T](1, 0, width)
	return polyLow ^ leadLo, leadHi
}
