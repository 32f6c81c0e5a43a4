// Package xmul provides carry-less widening multiplies for 8- to
// 128-bit operands, along with HasXMUL: a
// capability flag reporting whether the host CPU exposes a hardware
// carry-less multiply instruction (PCLMULQDQ on amd64, PMULL on
// arm64).
//
// Every function here is contract-equal to the corresponding poly
// package's NaiveWideningMul: xmul is purely a performance concern,
// never a semantic one. All widths currently run the same portable
// branchless algorithm; HasXMUL exists so callers such as crc can
// decide which reduction strategy pays off on the current host (see
// crc.New's default mode), without this package needing a cgo
// or assembly dependency to report it.
package xmul

import (
	"golang.org/x/sys/cpu"

	"github.com/ka9q-tools/gf256/poly"
)

// HasXMUL reports whether the host CPU advertises a hardware
// carry-less multiply instruction. It does not by itself change how
// the functions below compute their result — see the package doc.
var HasXMUL = detectXMUL()

func detectXMUL() bool {
	return cpu.X86.HasPCLMULQDQ || cpu.ARM64.HasPMULL
}

// Widening8 is the widening carry-less multiply for 8-bit operands.
func Widening8(a, b uint8) (lo, hi uint8) {
	l, h := poly.New(a).NaiveWideningMul(poly.New(b))
	return l.Get(), h.Get()
}

// Widening16 is the widening carry-less multiply for 16-bit operands.
func Widening16(a, b uint16) (lo, hi uint16) {
	l, h := poly.New(a).NaiveWideningMul(poly.New(b))
	return l.Get(), h.Get()
}

// Widening32 is the widening carry-less multiply for 32-bit operands.
func Widening32(a, b uint32) (lo, hi uint32) {
	l, h := poly.New(a).NaiveWideningMul(poly.New(b))
	return l.Get(), h.Get()
}

// Widening64 is the widening carry-less multiply for 64-bit operands.
func Widening64(a, b uint64) (lo, hi uint64) {
	l, h := poly.New(a).NaiveWideningMul(poly.New(b))
	return l.Get(), h.Get()
}

// Widening128 synthesises a 128x128 -> 256-bit carry-less multiply
// from four 64-bit widening multiplies, XORing the cross-products
// into the middle 128 bits. This is the same decomposition as the
// hardware PCLMULQDQ/PMULL path used by four-instruction xmul128
// implementations: given a = (a0, a1) and b = (b0, b1) in (lo, hi)
// halves,
//
//	x = a0*b0, y = a0*b1, z = a1*b0, w = a1*b1
//	lolo = x.lo
//	lohi = x.hi ^ y.lo ^ z.lo
//	hilo = w.lo ^ y.hi ^ z.hi
//	hihi = w.hi
func Widening128(a, b poly.Poly128) (lo, hi poly.Poly128) {
	x0, x1 := Widening64(a.Lo, b.Lo)
	y0, y1 := Widening64(a.Lo, b.Hi)
	z0, z1 := Widening64(a.Hi, b.Lo)
	w0, w1 := Widening64(a.Hi, b.Hi)

	lolo := x0
	lohi := x1 ^ y0 ^ z0
	hilo := w0 ^ y1 ^ z1
	hihi := w1

	return poly.NewPoly128(lolo, lohi), poly.NewPoly128(hilo, hihi)
}
