// Package crc implements cyclic redundancy checks as polynomial
// remainders over a gf.Field reduction, the same four reduction
// strategies gf itself offers (naive, byte table, nibble table,
// Barrett), parameterised by a defining polynomial, an input-bit
// reflection flag, and an output xor mask.
//
// The fold is incremental, one byte per step, so a tag can be
// computed across multiple Calc calls by threading the previous tag
// through as the next seed.
package crc

import (
	"math/bits"

	"github.com/ka9q-tools/gf256/gf"
	"github.com/ka9q-tools/gf256/poly"
	"github.com/ka9q-tools/gf256/xmul"
)

// CRC computes a w-bit cyclic redundancy check: the remainder of the
// message (with w zero bits conceptually appended, folded in one
// byte at a time) modulo a defining polynomial π, optionally
// bit-reversing each input byte and always xor-masking the result.
//
// The xor mask is applied to both the incoming seed and the outgoing
// tag (cancelling out across a chain of calls, since xor is its own
// inverse), which is what makes Calc(b, Calc(a, seed)) equal
// Calc(a++b, seed): the masked value returned by one call is exactly
// the value the next call expects as its seed.
type CRC[T poly.Unsigned] struct {
	field     *gf.Field[T]
	reflected bool
	xorMask   T
}

// New builds a CRC of the given width and defining polynomial (its
// low w bits; the leading x^w term is implicit, matching gf.Field's
// PolyLow convention), choosing Barrett reduction when hardware
// carry-less multiplication is available and the byte remainder
// table otherwise.
func New[T poly.Unsigned](width uint, polyLow T, reflected bool, xorMask T) (*CRC[T], error) {
	mode := gf.RemTable
	if xmul.HasXMUL {
		mode = gf.Barrett
	}
	return NewMode(width, polyLow, reflected, xorMask, mode)
}

// NewMode is New with an explicit reduction strategy, for callers
// that want to pin a specific mode (e.g. to verify all modes agree).
func NewMode[T poly.Unsigned](width uint, polyLow T, reflected bool, xorMask T, mode gf.Mode) (*CRC[T], error) {
	field, err := gf.NewReducer[T](width, polyLow, mode)
	if err != nil {
		return nil, err
	}
	return &CRC[T]{field: field, reflected: reflected, xorMask: xorMask}, nil
}

// Mode returns the reduction strategy this CRC was built with.
func (c *CRC[T]) Mode() gf.Mode { return c.field.Mode() }

// Calc folds data into seed and returns the resulting w-bit tag.
// Calc(nil, seed) returns seed unchanged, so the tag of the empty
// message is 0.
//
// For a reflected CRC the register is kept bit-reversed internally so
// the per-byte fold can run most-significant-bit first regardless of
// reflection; the reversal is undone on the way out, and cancels
// against the seed reversal of a chained call.
func (c *CRC[T]) Calc(data []byte, seed T) T {
	acc := seed ^ c.xorMask
	if c.reflected {
		acc = poly.New(acc).ReverseBits().Get()
	}
	for _, b := range data {
		if c.reflected {
			b = bits.Reverse8(b)
		}
		acc = c.field.FoldByte(acc, b)
	}
	if c.reflected {
		acc = poly.New(acc).ReverseBits().Get()
	}
	return acc ^ c.xorMask
}
