package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestAddSub(t *testing.T) {
	a := New[uint8](0x12)
	b := New[uint8](0x34)
	assert.Equal(t, uint8(0x26), a.Add(b).Get())
	assert.Equal(t, a, a.Add(b).Sub(b))
}

func TestNaiveWideningMul8(t *testing.T) {
	// 0x12 * 0x12 carry-less == 0x104: squaring spreads each set bit
	// to twice its position, with no cross terms in characteristic 2.
	a := New[uint8](0x12)
	lo, hi := a.NaiveWideningMul(a)
	assert.Equal(t, uint8(0x04), lo.Get())
	assert.Equal(t, uint8(0x01), hi.Get())
}

func TestNaiveWideningMul16(t *testing.T) {
	a := New[uint16](0x1234)
	lo, hi := a.NaiveWideningMul(a)
	assert.Equal(t, uint16(0x0510), lo.Get())
	assert.Equal(t, uint16(0x0104), hi.Get())
}

func TestNaiveWideningMul32(t *testing.T) {
	a := New[uint32](0x12345678)
	lo, hi := a.NaiveWideningMul(a)
	assert.Equal(t, uint32(0x11141540), lo.Get())
	assert.Equal(t, uint32(0x01040510), hi.Get())
}

func TestNaiveWideningMul64(t *testing.T) {
	a := New[uint64](0x123456789abcdef1)
	lo, hi := a.NaiveWideningMul(a)
	assert.Equal(t, uint64(0x4144455051545501), lo.Get())
	assert.Equal(t, uint64(0x0104051011141540), hi.Get())
}

func TestDivRem(t *testing.T) {
	a := New[uint8](0x0f)
	b := New[uint8](0x05)
	q, r, ok := a.NaiveCheckedDivRem(b)
	require.True(t, ok)
	// q*b + r == a (XOR, since + and - are both XOR)
	assert.Equal(t, a, q.NaiveWrappingMul(b).Add(r))
}

func TestDivByZero(t *testing.T) {
	a := New[uint8](0x0f)
	_, ok := a.NaiveCheckedDiv(New[uint8](0))
	assert.False(t, ok)
}

func TestPow(t *testing.T) {
	a := New[uint8](0x03)
	got, ok := a.CheckedPow(3)
	require.True(t, ok)
	want := a.WrappingMul(a).WrappingMul(a)
	assert.Equal(t, want, got)
}

func TestOverflowingPow(t *testing.T) {
	// x^3 cubed is x^9, which needs 10 bits: overflows uint8, fits wrapped
	a := New[uint8](0x08)
	got, overflowed := a.OverflowingPow(3)
	assert.True(t, overflowed)
	assert.Equal(t, a.WrappingMul(a).WrappingMul(a), got)

	b := New[uint8](0x02)
	got, overflowed = b.OverflowingPow(3)
	assert.False(t, overflowed)
	assert.Equal(t, uint8(0x08), got.Get())
}

func TestTryFromUint64(t *testing.T) {
	w, ok := TryFromUint64[uint8](0xff)
	require.True(t, ok)
	assert.Equal(t, uint8(0xff), w.Get())

	_, ok = TryFromUint64[uint8](0x100)
	assert.False(t, ok)
}

func TestReverseBitsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint8().Draw(t, "v")
		a := New[uint8](v)
		assert.Equal(t, a, a.ReverseBits().ReverseBits())
	})
}

func TestWideningMulMatchesWrapping(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		av := rapid.Uint16().Draw(t, "a")
		bv := rapid.Uint16().Draw(t, "b")
		a, b := New[uint16](av), New[uint16](bv)
		lo, _ := a.NaiveWideningMul(b)
		assert.Equal(t, lo, a.NaiveWrappingMul(b))
	})
}

func TestAddCommutativeAssociative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		av := rapid.Uint32().Draw(t, "a")
		bv := rapid.Uint32().Draw(t, "b")
		cv := rapid.Uint32().Draw(t, "c")
		a, b, c := New[uint32](av), New[uint32](bv), New[uint32](cv)
		assert.Equal(t, a.Add(b), b.Add(a))
		assert.Equal(t, a.Add(b).Add(c), a.Add(b.Add(c)))
	})
}

func TestDivRemLaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		av := rapid.Uint16().Draw(t, "a")
		bv := rapid.Uint16Range(1, 0xffff).Draw(t, "b")
		a, b := New[uint16](av), New[uint16](bv)
		q, r, ok := a.NaiveCheckedDivRem(b)
		require.True(t, ok)
		assert.Equal(t, a, q.NaiveWrappingMul(b).Add(r))
		if r.Get() != 0 {
			// degree(r) < degree(b), i.e. r has strictly more leading zeros
			assert.Greater(t, r.LeadingZeros(), b.LeadingZeros())
		}
	})
}

func TestPoly128WideningMul(t *testing.T) {
	x := NewPoly128(0xa3456789abcdef12, 0x123456789abcdef1)
	lo, hi := x.NaiveWideningMul(x)
	// self-consistency: widening mul of a value with itself must be
	// reproducible and its wrapping (low) half must match WrappingMul.
	assert.Equal(t, lo, x.WrappingMul(x))
	assert.NotEqual(t, lo, hi) // sanity: product isn't degenerate
}

func TestPoly128DivRemLaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		alo := rapid.Uint64().Draw(t, "alo")
		ahi := rapid.Uint64().Draw(t, "ahi")
		blo := rapid.Uint64Range(1, ^uint64(0)).Draw(t, "blo")
		a := NewPoly128(alo, ahi)
		b := NewPoly128(blo, 0)
		q, r, ok := a.NaiveCheckedDivRem(b)
		require.True(t, ok)
		assert.Equal(t, a, q.WrappingMul(b).Add(r))
	})
}
