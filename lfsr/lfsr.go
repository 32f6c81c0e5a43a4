// Package lfsr implements a maximum-length linear feedback shift
// register over GF(2^n): stepping forward multiplies the state by x
// (the generator), stepping backward multiplies by x^-1, both carried
// out as field multiplication modulo the defining polynomial π.
//
// Forward stepping is `state *= x^k; output = state div π; state =
// state mod π`, and backward stepping uses the reciprocal-polynomial
// trick (bit-reverse state and π, run the same forward division,
// bit-reverse the results back) rather than a second independent
// derivation.
package lfsr

import (
	"io"

	"github.com/ka9q-tools/gf256/gf"
	"github.com/ka9q-tools/gf256/internal/diag"
	"github.com/ka9q-tools/gf256/poly"
)

// State is a maximum-length LFSR of the given width, generator fixed
// to x (2) so every nonzero seed visits all 2^n-1 nonzero states
// before repeating.
type State[T poly.Unsigned] struct {
	field      *gf.Field[T]
	reciprocal *gf.Field[T]
	width      uint
	state      T
}

// reverseBitsN reverses the low n bits of v, leaving higher bits (if
// any) as zero.
func reverseBitsN[T poly.Unsigned](v T, n uint) T {
	var r T
	for i := uint(0); i < n; i++ {
		r <<= 1
		r |= (v >> i) & 1
	}
	return r
}

// reciprocalPolyLow computes the low-n-bits representation of π's
// reciprocal polynomial: bit-reverse the full (n+1)-bit π (valid
// because an irreducible polynomial always has a nonzero, i.e. 1,
// constant term, so the reversed polynomial's top bit is also 1 and
// it remains representable with an implicit leading x^n term).
func reciprocalPolyLow[T poly.Unsigned](polyLow T, width uint) T {
	full := polyLow | (T(1) << width)
	rev := reverseBitsN(full, width+1)
	// When width fills the container, π's x^n bit does not fit in T and
	// is lost from full; its reversed image is the constant term 1.
	return (rev &^ (T(1) << width)) | 1
}

// New seeds a width-bit LFSR with the given defining polynomial (its
// low n bits; the leading x^n term is implicit) and seed. A zero seed
// is promoted to 1 (logged via internal/diag), since the all-zero
// state never advances under pure multiplication.
//
// The field uses Barrett mode regardless of hardware carry-less
// multiplication support, so stepping never touches a data-dependent
// table index.
func New[T poly.Unsigned](width uint, polyLow, seed T) (*State[T], error) {
	field, err := gf.NewField[T](width, polyLow, 2, gf.Barrett)
	if err != nil {
		return nil, err
	}
	recipField, err := gf.NewReducer[T](width, reciprocalPolyLow(polyLow, width), gf.Barrett)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		diag.Debugf("lfsr: zero seed promoted to 1 (width=%d)", width)
		seed = 1
	}
	return &State[T]{field: field, reciprocal: recipField, width: width, state: seed}, nil
}

// State returns the current n-bit register contents.
func (s *State[T]) State() T { return s.state }

// SetState overwrites the register contents directly (e.g. to resume
// a previously saved state).
func (s *State[T]) SetState(state T) { s.state = state }

// Next advances the register by k bits (0 <= k <= width) and returns
// the k output bits extracted in the process, as the low k bits of
// the returned value.
func (s *State[T]) Next(k uint) T {
	quot, rem := s.field.QuotRem(s.state, k)
	s.state = rem
	return quot
}

// Prev reverses Next: it returns the k bits that the most recent
// Next(k) call would have consumed, rewinding the register to the
// state it held before that call.
func (s *State[T]) Prev(k uint) T {
	stateRev := reverseBitsN(s.state, s.width)
	quotRev, remRev := s.reciprocal.QuotRem(stateRev, k)
	s.state = reverseBitsN(remRev, s.width)
	return reverseBitsN(quotRev, k)
}

// Skip advances the register by n single-bit steps without producing
// output, via exponentiation by squaring of the generator (state *=
// x^n mod π).
func (s *State[T]) Skip(n uint64) {
	s.state = s.field.Mul(s.state, s.field.Pow(s.field.Generator(), n))
}

// SkipBackwards rewinds the register by n single-bit steps, via
// exponentiation by squaring of the generator's reciprocal.
func (s *State[T]) SkipBackwards(n uint64) {
	recip, _ := s.field.Recip(s.field.Generator())
	s.state = s.field.Mul(s.state, s.field.Pow(recip, n))
}

// Fill writes len(dst) bytes of LFSR output, one Next(8) call per
// byte; the resulting byte sequence is identical to calling Next(8)
// repeatedly and collecting the results.
func (s *State[T]) Fill(dst []byte) {
	for i := range dst {
		dst[i] = byte(s.Next(8))
	}
}

// Reader returns an io.Reader that fills reads from successive
// Next(8) calls.
func (s *State[T]) Reader() io.Reader { return &reader[T]{s: s} }

type reader[T poly.Unsigned] struct{ s *State[T] }

func (r *reader[T]) Read(p []byte) (int, error) {
	r.s.Fill(p)
	return len(p), nil
}

// ReverseReader returns an io.Reader that fills reads from successive
// Prev(8) calls, the mirror image of Reader.
func (s *State[T]) ReverseReader() io.Reader { return &reverseReader[T]{s: s} }

type reverseReader[T poly.Unsigned] struct{ s *State[T] }

func (r *reverseReader[T]) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.s.Prev(8))
	}
	return len(p), nil
}
