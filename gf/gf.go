// Package gf implements arithmetic over binary-extension finite
// fields GF(2^n): addition, subtraction, multiplication, division,
// exponentiation and reciprocal, modulo a caller-chosen irreducible
// polynomial and with a caller-chosen (or searched-for) generator.
//
// Five reduction strategies are available, selected at field
// construction time (Mode), all of which must and do agree
// bit-for-bit:
//
//	Naive          - widening multiply then long-division remainder
//	Table          - log/antilog tables, practical for small n
//	RemTable       - 256-entry byte remainder table
//	SmallRemTable  - 16-entry nibble remainder table
//	Barrett        - constant-time reduction via a precomputed constant
//
// The defining polynomial is stored as PolyLow: the low n bits of π,
// with the implicit leading x^n coefficient never materialized in the
// container. This sidesteps the "π needs n+1 bits but the element
// container only has n" overflow problem; the full (n+1)-bit π is
// reconstituted in a double-width pair only where division actually
// needs it.
package gf

import (
	"errors"
	"unsafe"

	"github.com/ka9q-tools/gf256/internal/diag"
	"github.com/ka9q-tools/gf256/poly"
)

// Mode selects the reduction strategy a Field uses for Mul/Pow/Recip/Div.
type Mode int

const (
	Naive Mode = iota
	Table
	RemTable
	SmallRemTable
	Barrett
)

var (
	// ErrDivideByZero is returned by the checked_ division and
	// reciprocal operations when the divisor is zero.
	ErrDivideByZero = errors.New("gf: divide by zero")
	// ErrNotPrimitive is returned when a supplied generator fails to
	// generate the full nonzero subgroup, and by FindGenerator when no
	// candidate in the search range works.
	ErrNotPrimitive = errors.New("gf: generator is not primitive")
	// ErrValueOutOfRange is returned by New when the argument isn't
	// representable in the field's width.
	ErrValueOutOfRange = errors.New("gf: value out of range for field width")
)

// Field is an instance of GF(2^n) for a chosen irreducible polynomial
// and generator.
type Field[T poly.Unsigned] struct {
	width     uint
	polyLow   T
	generator T
	nonzeros  T
	mode      Mode

	logTable []T // Table mode: element -> discrete log
	expTable []T // Table mode: discrete log -> element

	remTable      []T // RemTable mode: 256 entries
	smallRemTable []T // SmallRemTable mode: 16 entries

	barrettConstant T
	shiftAlign      uint // W - width, W = poly.BitWidth[T]()
}

// Width returns n, the field's bit width.
func (f *Field[T]) Width() uint { return f.width }

// PolyLow returns the low n bits of the defining polynomial π.
func (f *Field[T]) PolyLow() T { return f.polyLow }

// Generator returns the field's chosen multiplicative generator.
func (f *Field[T]) Generator() T { return f.generator }

// Nonzeros returns 2^n - 1, the size of the field's multiplicative group.
func (f *Field[T]) Nonzeros() T { return f.nonzeros }

// Mode returns the reduction strategy this field was built with.
func (f *Field[T]) Mode() Mode { return f.mode }

func nonzerosFor[T poly.Unsigned](width uint) T {
	w := poly.BitWidth[T]()
	if width == w {
		return ^T(0)
	}
	return (T(1) << width) - 1
}

// NewField constructs a field of the given width and defining
// polynomial (its low n bits; the leading x^n term is implicit), with
// an explicit generator, in the requested mode.
//
// It returns ErrNotPrimitive if generator does not generate the full
// nonzero subgroup under naive multiplication modulo π — that check
// is itself run in Naive mode, since no mode-specific tables exist
// yet to check with.
func NewField[T poly.Unsigned](width uint, polyLow, generator T, mode Mode) (*Field[T], error) {
	f := newFieldBase[T](width, polyLow, generator)
	if !f.isPrimitive(generator) {
		return nil, ErrNotPrimitive
	}
	f.buildMode(mode)
	return f, nil
}

// NewReducer builds a Field restricted to Naive/RemTable/SmallRemTable/
// Barrett modes, skipping the generator-primitivity check entirely:
// used for moduli that aren't required to be irreducible, such as a
// CRC polynomial (crc) or a reversed LFSR feedback polynomial (lfsr),
// where only the XOR/reduction machinery is needed, never a discrete
// log, reciprocal, or generator search.
func NewReducer[T poly.Unsigned](width uint, polyLow T, mode Mode) (*Field[T], error) {
	if mode == Table {
		return nil, errors.New("gf: table mode requires a genuine generator; use NewField")
	}
	f := newFieldBase[T](width, polyLow, 0)
	f.buildMode(mode)
	return f, nil
}

func newFieldBase[T poly.Unsigned](width uint, polyLow, generator T) *Field[T] {
	w := poly.BitWidth[T]()
	if width > w {
		panic("gf: width exceeds container bit width")
	}
	return &Field[T]{
		width:      width,
		polyLow:    polyLow,
		generator:  generator,
		nonzeros:   nonzerosFor[T](width),
		mode:       Naive,
		shiftAlign: w - width,
	}
}

func (f *Field[T]) buildMode(mode Mode) {
	switch mode {
	case Naive:
		// nothing further to precompute
	case Table:
		f.buildLogTables()
	case RemTable:
		f.buildRemTable()
	case SmallRemTable:
		f.buildSmallRemTable()
	case Barrett:
		f.buildBarrettConstant()
	default:
		panic("gf: unknown mode")
	}
	f.mode = mode
}

// NewFieldAutoGenerator is like NewField but searches for a generator
// rather than taking one:
// candidates g = 2, 3, 4, ... are tried in order and the first whose
// multiplicative orbit visits every nonzero element is selected.
func NewFieldAutoGenerator[T poly.Unsigned](width uint, polyLow T, mode Mode) (*Field[T], error) {
	g, err := FindGenerator[T](width, polyLow)
	if err != nil {
		return nil, err
	}
	return NewField[T](width, polyLow, g, mode)
}

// FindGenerator brute-forces candidates g = 2, 3, 4, ... and returns
// the first that generates the field's full nonzero multiplicative
// subgroup, reporting the number of candidates tried via internal/diag.
func FindGenerator[T poly.Unsigned](width uint, polyLow T) (T, error) {
	nonzeros := nonzerosFor[T](width)
	tmp := &Field[T]{width: width, polyLow: polyLow, nonzeros: nonzeros}
	tried := 0
	for g := T(2); g != 0; g++ {
		tried++
		if tmp.isPrimitive(g) {
			diag.Debugf("gf: found generator %d after %d candidates (width=%d)", g, tried, width)
			return g, nil
		}
		if g == nonzeros {
			break
		}
	}
	return 0, ErrNotPrimitive
}

// isPrimitive checks whether g's multiplicative orbit under naive
// multiplication modulo this field's polynomial visits all NONZEROS
// distinct nonzero values before returning to 1.
func (f *Field[T]) isPrimitive(g T) bool {
	if g == 0 {
		return false
	}
	x := T(1)
	var count uint64
	for {
		x = f.naiveMul(x, g)
		count++
		if x == 1 {
			break
		}
		if count > uint64(f.nonzeros)+1 {
			// guards against a buggy polynomial causing an infinite loop
			return false
		}
	}
	return count == uint64(f.nonzeros)
}

// naiveMul is (a*b) mod π, always computed via widening multiply plus
// generic pair long-division, independent of f.mode. Used for table
// construction and the Naive mode itself.
func (f *Field[T]) naiveMul(a, b T) T {
	lo, hi := poly.New(a).NaiveWideningMul(poly.New(b))
	piLo, piHi := buildPiPair(f.polyLow, f.width)
	_, _, rlo, _, _ := pairDivRem(lo.Get(), hi.Get(), piLo, piHi)
	return rlo
}

// New validates x is representable in the field (x < 2^width) and
// returns it as an element, i.e. this package doesn't wrap elements
// in a distinct type: any T value less than 2^width is an element.
func (f *Field[T]) New(x T) (T, error) {
	if x > f.nonzeros {
		return 0, ErrValueOutOfRange
	}
	return x, nil
}

// Add is field addition, i.e. XOR; it cannot overflow.
func (f *Field[T]) Add(a, b T) T { return a ^ b }

// Sub is field subtraction, identical to Add in characteristic 2.
func (f *Field[T]) Sub(a, b T) T { return a ^ b }

// Mul is field multiplication, dispatching to the configured mode.
func (f *Field[T]) Mul(a, b T) T {
	switch f.mode {
	case Table:
		return f.mulTable(a, b)
	case RemTable:
		return f.mulRemTable(a, b, 8)
	case SmallRemTable:
		return f.mulRemTable(a, b, 4)
	case Barrett:
		return f.mulBarrett(a, b)
	default:
		return f.naiveMul(a, b)
	}
}

// Pow computes a^exp by exponentiation by squaring (table mode takes
// a direct discrete-log shortcut). Not constant-time even in Barrett
// mode.
func (f *Field[T]) Pow(a T, exp uint64) T {
	if f.mode == Table {
		if exp == 0 {
			return 1
		}
		if a == 0 {
			return 0
		}
		nz := uint64(f.nonzeros)
		x := (uint64(f.logTable[a]) * (exp % nz)) % nz
		return f.expTable[x]
	}

	base := a
	result := T(1)
	for exp > 0 {
		if exp&1 != 0 {
			result = f.Mul(result, base)
		}
		exp >>= 1
		if exp == 0 {
			break
		}
		base = f.Mul(base, base)
	}
	return result
}

// CheckedRecip returns a's multiplicative inverse, or ok=false if a == 0.
func (f *Field[T]) CheckedRecip(a T) (T, bool) {
	if a == 0 {
		return 0, false
	}
	if f.mode == Table {
		nz := f.nonzeros
		idx := nz - f.logTable[a]
		return f.expTable[idx], true
	}
	return f.Pow(a, uint64(f.nonzeros)-1), true
}

// Recip returns a's multiplicative inverse, returning ErrDivideByZero
// if a == 0.
func (f *Field[T]) Recip(a T) (T, error) {
	x, ok := f.CheckedRecip(a)
	if !ok {
		return 0, ErrDivideByZero
	}
	return x, nil
}

// CheckedDiv returns a/b, or ok=false if b == 0.
func (f *Field[T]) CheckedDiv(a, b T) (T, bool) {
	if b == 0 {
		return 0, false
	}
	if f.mode == Table {
		if a == 0 {
			return 0, true
		}
		nz := uint64(f.nonzeros)
		x := (uint64(f.logTable[a]) + nz - uint64(f.logTable[b])) % nz
		return f.expTable[x], true
	}
	bRecip, _ := f.CheckedRecip(b)
	return f.Mul(a, bRecip), true
}

// Div returns a/b, returning ErrDivideByZero if b == 0.
func (f *Field[T]) Div(a, b T) (T, error) {
	x, ok := f.CheckedDiv(a, b)
	if !ok {
		return 0, ErrDivideByZero
	}
	return x, nil
}

// SliceFromBytes reinterprets a byte buffer as a []T slice of field
// elements in O(1), for widths that are a power of two and at least 8 bits
// (the same layout condition the underlying type already satisfies).
// The caller is responsible for ensuring every value is < 2^width
// when width isn't the full container width.
func SliceFromBytes[T poly.Unsigned](buf []byte) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 || len(buf)%size != 0 {
		panic("gf: buffer length not a multiple of element size")
	}
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), len(buf)/size)
}

// BytesFromSlice is the inverse of SliceFromBytes.
func BytesFromSlice[T poly.Unsigned](buf []T) []byte {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&buf[0])), len(buf)*size)
}
