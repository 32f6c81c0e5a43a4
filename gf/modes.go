package gf

import "github.com/ka9q-tools/gf256/poly"

// buildLogTables constructs the log/antilog tables used by Table
// mode: expTable[i] = generator^i, logTable[generator^i] = i, for
// i in [0, NONZEROS). logTable[0] is left as NONZEROS, a sentinel
// for "log of zero is undefined" that can never collide with a real
// log value (those range over [0, NONZEROS)).
//
// Built by iteratively multiplying by the generator and recording
// each element's position in the orbit.
func (f *Field[T]) buildLogTables() {
	size := int(f.nonzeros) + 1
	f.logTable = make([]T, size)
	f.expTable = make([]T, size)

	f.logTable[0] = f.nonzeros
	x := T(1)
	for i := 0; i < int(f.nonzeros); i++ {
		f.expTable[i] = x
		f.logTable[x] = T(i)
		x = f.naiveMul(x, f.generator)
	}
	// wrap the antilog table so indices computed mod NONZEROS that
	// land exactly on NONZEROS itself still resolve to element 1.
	f.expTable[f.nonzeros] = f.expTable[0]
}

func (f *Field[T]) mulTable(a, b T) T {
	if a == 0 || b == 0 {
		return 0
	}
	nz := uint64(f.nonzeros)
	x := (uint64(f.logTable[a]) + uint64(f.logTable[b])) % nz
	return f.expTable[x]
}

// buildRemTableGeneric precomputes table[i] = (i * x^W) mod (π * x^(W-n))
// for every i below 2^step, with step 8 for RemTable and 4 for
// SmallRemTable: the per-chunk reduction constant both mulRemTable's
// top-down fold and FoldByte's per-byte fold consume.
func (f *Field[T]) buildRemTableGeneric(step uint) []T {
	piLo, piHi := buildPiPair(f.polyLow, f.width)
	alignedLo, alignedHi := shlPair(piLo, piHi, f.shiftAlign)

	size := 1 << step
	table := make([]T, size)
	for i := 0; i < size; i++ {
		_, _, rlo, _, _ := pairDivRem[T](0, T(i), alignedLo, alignedHi)
		table[i] = rlo
	}
	return table
}

func (f *Field[T]) buildRemTable() {
	f.remTable = f.buildRemTableGeneric(8)
}

func (f *Field[T]) buildSmallRemTable() {
	f.smallRemTable = f.buildRemTableGeneric(4)
}

// mulRemTable multiplies using a table built with the given step
// (8 for the byte table, 4 for the nibble table), keeping the
// reduction top-aligned: the first operand
// is pre-shifted so the field's top coefficient sits at the
// container's most significant bit, the product is reduced table
// entry by table entry from the top byte down, and the final result
// is shifted back down by the same amount.
func (f *Field[T]) mulRemTable(a, b T, step uint) T {
	w := poly.BitWidth[T]()
	table := f.remTable
	if step == 4 {
		table = f.smallRemTable
	}

	aTop := a << f.shiftAlign
	lo, hi := poly.New(aTop).NaiveWideningMul(poly.New(b))

	var x T
	hiBytes := hi.Get()
	chunks := w / step
	for c := uint(0); c < chunks; c++ {
		shiftAmt := w - step*(c+1)
		chunk := T((uint64(hiBytes) >> shiftAmt) & ((1 << step) - 1))
		topBits := (x >> (w - step)) & T((1<<step)-1)
		x = (x << step) ^ table[topBits^chunk]
	}

	result := (lo.Get() ^ x) >> f.shiftAlign
	return result
}

// FoldByte folds one message byte into a running polynomial-division
// accumulator: acc = (acc * x^8 XOR b * x^W) mod π, which is exactly
// the per-byte step CRC algorithms use to process a message
// incrementally. Valid in RemTable, SmallRemTable, Naive and Barrett
// modes; requires width == the container's full bit width (true for
// every CRC preset in the crc package, whose registers are always
// exactly 8/16/32/64 bits).
func (f *Field[T]) FoldByte(acc T, b byte) T {
	w := poly.BitWidth[T]()
	if f.width != w {
		panic("gf: FoldByte requires a full-width field")
	}
	switch f.mode {
	case RemTable:
		idx := byte(acc>>(w-8)) ^ b
		return (acc << 8) ^ f.remTable[idx]
	case SmallRemTable:
		hiIdx := byte(acc>>(w-4))&0xf ^ (b >> 4)
		acc = (acc << 4) ^ f.smallRemTable[hiIdx&0xf]
		loIdx := byte(acc>>(w-4))&0xf ^ (b & 0xf)
		return (acc << 4) ^ f.smallRemTable[loIdx&0xf]
	case Barrett:
		// Same widening-multiply-by-barrettConstant reduction mulBarrett
		// uses, applied to the (W+8)-bit dividend acc*x^8 XOR b*x^W,
		// whose overflow half is the single byte hi: no data-dependent
		// branch, no table lookup.
		hi := (acc >> (w - 8)) ^ T(b)
		lo := acc << 8
		_, muHi := poly.New(hi).NaiveWideningMul(poly.New(f.barrettConstant))
		q := muHi.Get() ^ hi
		qlo := poly.New(q).NaiveWrappingMul(poly.New(f.polyLow))
		return lo ^ qlo.Get()
	default:
		// naive reduces via the textbook bit-at-a-time shift-and-
		// conditionally-xor reduction, 8 steps for one byte; not
		// claimed constant-time (only Barrett mode is).
		acc ^= T(b) << (w - 8)
		top := T(1) << (w - 1)
		for i := 0; i < 8; i++ {
			carry := acc&top != 0
			acc <<= 1
			if carry {
				acc ^= f.polyLow
			}
		}
		return acc
	}
}

// QuotRem computes the quotient and remainder of (a * x^k) divided by
// the field's defining polynomial π, for 0 <= k <= width. This is a
// raw polynomial operation independent of the field's configured
// mode (no mode-specific table is consulted). lfsr uses it to
// extract k output bits from an n-bit register while advancing the
// state by x^k in the same division: output = quotient, new state =
// remainder.
func (f *Field[T]) QuotRem(a T, k uint) (quot, rem T) {
	lo, hi := shlPair(a, 0, k)
	piLo, piHi := buildPiPair(f.polyLow, f.width)
	qlo, _, rlo, _, _ := pairDivRem(lo, hi, piLo, piHi)
	return qlo, rlo
}

// buildBarrettConstant derives μ = floor(x^(2n) / π) via one step of
// polynomial long division, performed eagerly so no container wider
// than 2W bits is ever needed:
// μ = ((π & NONZEROS) << (shiftAlign + W)) / (π << shiftAlign), all
// computed in the 2W-bit pair representation.
func (f *Field[T]) buildBarrettConstant() {
	w := poly.BitWidth[T]()
	numLo, numHi := shlPair[T](f.polyLow&f.nonzeros, 0, f.shiftAlign+w)
	piLo, piHi := buildPiPair(f.polyLow, f.width)
	denLo, denHi := shlPair(piLo, piHi, f.shiftAlign)
	qlo, _, _, _, _ := pairDivRem(numLo, numHi, denLo, denHi)
	f.barrettConstant = qlo
}

// mulBarrett reduces the widening product of a and b via Barrett
// reduction: constant-time with respect to the operand bits (no
// data-dependent branches or table lookups). This is the path the
// lfsr and shamir packages rely on for their timing guarantees.
func (f *Field[T]) mulBarrett(a, b T) T {
	aTop := a << f.shiftAlign
	lo, hi := poly.New(aTop).NaiveWideningMul(poly.New(b))

	_, muHi := poly.New(hi.Get()).NaiveWideningMul(poly.New(f.barrettConstant))
	q := muHi.Get() ^ hi.Get()
	piLowAligned := f.polyLow << f.shiftAlign
	qlo := poly.New(q).NaiveWrappingMul(poly.New(piLowAligned))
	x := lo.Get() ^ qlo.Get()
	return x >> f.shiftAlign
}
