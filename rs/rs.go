// Package rs implements a systematic Reed-Solomon codec over GF(2^n):
// a BCH-view encoder/decoder with generator roots g^0..g^(N-K-1),
// syndrome-based decoding via Berlekamp-Massey, Chien search and
// Forney's algorithm.
//
// The decoder follows Phil Karn's classic layout (syndromes,
// erasure-seeded Berlekamp-Massey, Chien search, Forney), expressed
// over gf.Field's Add/Mul/Pow/Recip rather than raw log/antilog
// tables so the field's reduction mode stays the caller's choice.
//
// Codewords are viewed as descending-power polynomials: codeword[0]
// is the coefficient of x^(N-1), codeword[N-1] is the coefficient of
// x^0. This puts the K data bytes at the high-degree end and the
// N-K ECC bytes at the low-degree end, which is what lets systematic
// encoding work by straight polynomial division (the degree-<(N-K)
// remainder lands exactly in the ECC slot) rather than needing an
// extra modular inverse.
package rs

import (
	"errors"

	"github.com/ka9q-tools/gf256/gf"
	"github.com/ka9q-tools/gf256/internal/diag"
	"github.com/ka9q-tools/gf256/poly"
)

var (
	// ErrMalformedInput is returned when a codeword length doesn't
	// match N, or erasure positions are out of range or duplicated.
	ErrMalformedInput = errors.New("rs: malformed input")
	// ErrTooManyErrors is returned when Berlekamp-Massey or Chien
	// search cannot produce a consistent error-locator polynomial:
	// 2*(unknown errors) + (known erasures) exceeds N-K.
	ErrTooManyErrors = errors.New("rs: too many errors or erasures to correct")
)

// Codec is a Reed-Solomon encoder/decoder for a fixed (N, K) over a
// chosen field. The generator polynomial is built once at
// construction and reused by every Encode/Decode call.
type Codec[T poly.Unsigned] struct {
	field     *gf.Field[T]
	n, k      int
	generator []T // degree N-K, increasing power; generator[N-K] == 1 (monic)
}

// New builds a codec for codeword length n and data length k over
// field. n must be at most the field's number of nonzero elements,
// the largest codeword length for which the position locators
// g^0..g^(n-1) are pairwise distinct.
func New[T poly.Unsigned](field *gf.Field[T], n, k int) (*Codec[T], error) {
	if k <= 0 || n <= k || uint64(n) > uint64(field.Nonzeros()) {
		return nil, ErrMalformedInput
	}
	return &Codec[T]{field: field, n: n, k: k, generator: buildGenerator(field, n-k)}, nil
}

// NewRS255W223 builds the widely deployed (255, 223) code: 32 ECC
// bytes over GF(256) with π=0x11d, g=0x02.
func NewRS255W223() (*Codec[uint8], error) {
	field, err := gf.NewField[uint8](8, 0x1d, 0x02, gf.Barrett)
	if err != nil {
		return nil, err
	}
	return New(field, 255, 223)
}

// N is the codeword length.
func (c *Codec[T]) N() int { return c.n }

// K is the data length.
func (c *Codec[T]) K() int { return c.k }

// buildGenerator constructs G(x) = prod_{i=0}^{nroots-1} (x - g^i) in
// increasing-power coefficient form (gen[0] is the constant term,
// gen[nroots] is always 1). Each iteration multiplies the running
// product by (x - g^i); since subtraction is XOR in characteristic 2
// this is the same update used by raid's parity-row arithmetic.
func buildGenerator[T poly.Unsigned](field *gf.Field[T], nroots int) []T {
	gen := make([]T, nroots+1)
	gen[0] = 1
	for i := 0; i < nroots; i++ {
		root := field.Pow(field.Generator(), uint64(i))
		for j := i + 1; j > 0; j-- {
			gen[j] = field.Add(gen[j-1], field.Mul(gen[j], root))
		}
		gen[0] = field.Mul(gen[0], root)
	}
	return gen
}

// Encode computes the N-K ECC bytes for codeword[0:K] and writes
// them into codeword[K:N]. codeword must be exactly N elements long;
// the trailing N-K are ignored on input and always overwritten.
//
// This is the standard LFSR-based systematic encoder: codeword[0:K]
// is shifted through a feedback register tapped by the generator's
// non-leading coefficients, leaving the division remainder in the
// register, which becomes the ECC.
func (c *Codec[T]) Encode(codeword []T) error {
	if len(codeword) != c.n {
		return ErrMalformedInput
	}
	nroots := c.n - c.k
	parity := make([]T, nroots)
	for i := 0; i < c.k; i++ {
		feedback := c.field.Add(codeword[i], parity[0])
		if feedback != 0 {
			for j := 1; j < nroots; j++ {
				parity[j-1] = c.field.Add(parity[j], c.field.Mul(feedback, c.generator[nroots-j]))
			}
			parity[nroots-1] = c.field.Mul(feedback, c.generator[0])
		} else {
			copy(parity, parity[1:])
			parity[nroots-1] = 0
		}
	}
	copy(codeword[c.k:], parity)
	return nil
}

// syndromes evaluates the codeword polynomial at g^0..g^(N-K-1) via
// Horner's method over the array directly (array index 0 is the
// highest power, so a left-to-right Horner pass computes exactly
// c(g^i)).
func (c *Codec[T]) syndromes(codeword []T) []T {
	nroots := c.n - c.k
	s := make([]T, nroots)
	for i := 0; i < nroots; i++ {
		root := c.field.Pow(c.field.Generator(), uint64(i))
		var acc T
		for _, b := range codeword {
			acc = c.field.Add(c.field.Mul(acc, root), b)
		}
		s[i] = acc
	}
	return s
}

// powerToIndex converts an x-power (as used internally by the
// locator/Chien-search algebra) to a codeword array index, inverting
// the descending-power layout: power 0 is the lowest-degree term,
// which sits at the last array slot.
func (c *Codec[T]) powerToIndex(power uint64) int { return c.n - 1 - int(power) }

func indexToPower(n, idx int) uint64 { return uint64(n - 1 - idx) }

// seedErasureLocator initialises lambda to the erasure-locator
// polynomial Lambda_0(x) = prod_l (1 - X_l x), one factor per known
// erasure power X_l = g^power. Each factor is folded in with the
// same descending-index update buildGenerator uses, so the
// in-progress higher coefficients are never read after being
// overwritten.
func seedErasureLocator[T poly.Unsigned](field *gf.Field[T], lambda []T, erasurePowers []uint64) {
	lambda[0] = 1
	deg := 0
	for _, p := range erasurePowers {
		xl := field.Pow(field.Generator(), p)
		for j := deg + 1; j > 0; j-- {
			lambda[j] = field.Add(lambda[j], field.Mul(xl, lambda[j-1]))
		}
		deg++
	}
}

// Decode corrects errors (and, for any positions supplied in
// erasures, erasures) in codeword in place, returning the number of
// positions corrected. It succeeds whenever 2*(unknown errors) +
// len(erasures) <= N-K. Beyond that bound it returns
// ErrTooManyErrors when the error locator's roots do not check out;
// a pattern the locator happens to fit is miscorrected without error.
func (c *Codec[T]) Decode(codeword []T, erasures []int) (int, error) {
	if len(codeword) != c.n {
		return 0, ErrMalformedInput
	}
	nroots := c.n - c.k
	if len(erasures) > nroots {
		return 0, ErrTooManyErrors
	}
	seen := make(map[int]bool, len(erasures))
	erasurePowers := make([]uint64, len(erasures))
	for i, pos := range erasures {
		if pos < 0 || pos >= c.n || seen[pos] {
			return 0, ErrMalformedInput
		}
		seen[pos] = true
		erasurePowers[i] = indexToPower(c.n, pos)
	}

	syn := c.syndromes(codeword)
	clean := true
	for _, v := range syn {
		if v != 0 {
			clean = false
			break
		}
	}
	if clean {
		return 0, nil
	}

	lambda := make([]T, nroots+1)
	b := make([]T, nroots+1)
	t := make([]T, nroots+1)
	seedErasureLocator(c.field, lambda, erasurePowers)
	copy(b, lambda)

	noEras := len(erasures)
	r, el := noEras, noEras
	for r < nroots {
		r++
		var discr T
		for i := 0; i < r; i++ {
			if lambda[i] != 0 && syn[r-i-1] != 0 {
				discr = c.field.Add(discr, c.field.Mul(lambda[i], syn[r-i-1]))
			}
		}
		if discr == 0 {
			copy(b[1:], b[:nroots])
			b[0] = 0
			continue
		}
		copy(t, lambda)
		for i := 0; i < nroots; i++ {
			t[i+1] = c.field.Add(lambda[i+1], c.field.Mul(discr, b[i]))
		}
		if 2*el <= r+noEras-1 {
			el = r + noEras - el
			inv, _ := c.field.Recip(discr)
			for i := 0; i <= nroots; i++ {
				b[i] = c.field.Mul(lambda[i], inv)
			}
		} else {
			copy(b[1:], b[:nroots])
			b[0] = 0
		}
		copy(lambda, t)
	}

	degLambda := 0
	for i := 0; i <= nroots; i++ {
		if lambda[i] != 0 {
			degLambda = i
		}
	}

	type errRoot struct {
		power uint64
		x     T
	}
	var roots []errRoot
	for p := 0; p < c.n; p++ {
		x := c.field.Pow(c.field.Generator(), uint64(p))
		invX, _ := c.field.Recip(x)
		var val T
		for i := degLambda; i >= 0; i-- {
			val = c.field.Add(c.field.Mul(val, invX), lambda[i])
		}
		if val == 0 {
			roots = append(roots, errRoot{power: uint64(p), x: x})
			if len(roots) == degLambda {
				break
			}
		}
	}
	if len(roots) != degLambda {
		return 0, ErrTooManyErrors
	}

	omega := make([]T, nroots)
	degOmega := 0
	for i := 0; i < nroots; i++ {
		var tmp T
		maxJ := i
		if degLambda < maxJ {
			maxJ = degLambda
		}
		for j := 0; j <= maxJ; j++ {
			if syn[i-j] != 0 && lambda[j] != 0 {
				tmp = c.field.Add(tmp, c.field.Mul(syn[i-j], lambda[j]))
			}
		}
		if tmp != 0 {
			degOmega = i
		}
		omega[i] = tmp
	}

	for _, rt := range roots {
		invX, _ := c.field.Recip(rt.x)
		var num T
		for i := degOmega; i >= 0; i-- {
			num = c.field.Add(c.field.Mul(num, invX), omega[i])
		}

		// Lambda'(y): characteristic-2 formal derivative keeps only
		// odd-index coefficients of lambda, evaluated with the
		// exponent shifted down by one.
		var den T
		for i := 1; i <= nroots; i += 2 {
			den = c.field.Add(den, c.field.Mul(lambda[i], c.field.Pow(invX, uint64(i-1))))
		}
		if den == 0 {
			return 0, ErrTooManyErrors
		}
		denInv, _ := c.field.Recip(den)
		y := c.field.Mul(c.field.Mul(rt.x, num), denInv)

		pos := c.powerToIndex(rt.power)
		codeword[pos] = c.field.Add(codeword[pos], y)
	}
	diag.Debugf("rs: corrected %d positions (n=%d, k=%d, erasures=%d)", len(roots), c.n, c.k, noEras)
	return len(roots), nil
}

// CorrectErrors decodes codeword with no known erasure positions,
// correcting up to floor((N-K)/2) byte errors anywhere in it.
func (c *Codec[T]) CorrectErrors(codeword []T) (int, error) {
	return c.Decode(codeword, nil)
}
