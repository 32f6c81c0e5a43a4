// Package shamir implements Shamir's secret sharing over GF(2^8): a
// secret byte string is split into n shares, any k of which recover
// it, by evaluating one random degree-(k-1) polynomial per secret
// byte and reconstructing via Lagrange interpolation at x=0.
//
// Evaluation uses Horner's method; reconstruction is Lagrange
// interpolation at zero. Both run over a gf.Field, so the caller
// chooses the reduction mode, and the RNG is an explicit io.Reader
// rather than a hardwired source.
package shamir

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/ka9q-tools/gf256/gf"
)

var (
	// ErrInvalidParams is returned by Split for threshold/share counts
	// outside [1, NONZEROS] or with n < k.
	ErrInvalidParams = errors.New("shamir: invalid share/threshold parameters")
	// ErrMalformedShares is returned by Combine when shares disagree in
	// length, carry a zero or duplicate identifier, or there are none.
	ErrMalformedShares = errors.New("shamir: malformed or inconsistent shares")
)

// Sharing splits and reconstructs secrets over a chosen GF(2^8)
// field; the field's mode controls whether Split/Combine run
// constant-time with respect to the secret bytes (Barrett mode does;
// table-driven modes touch data-dependent indices).
type Sharing struct {
	field *gf.Field[uint8]
}

// New builds a Sharing over an already-constructed field.
func New(field *gf.Field[uint8]) *Sharing {
	return &Sharing{field: field}
}

// NewGF256 is a convenience constructor for the common case: GF(256)
// with π = 0x11d, g = 0x02, Barrett mode (constant-time in the secret
// bytes).
func NewGF256() (*Sharing, error) {
	field, err := gf.NewField[uint8](8, 0x1d, 0x02, gf.Barrett)
	if err != nil {
		return nil, err
	}
	return New(field), nil
}

// Split divides secret into n shares, any k of which are sufficient
// to reconstruct it (fewer reveal nothing, given a secure rng). rng
// defaults to crypto/rand.Reader when nil; supplying a deterministic
// reader is occasionally useful for tests but defeats the scheme's
// security in production use.
//
// Each returned share is len(secret)+1 bytes: a one-byte identifier
// x in [1, NONZEROS], distinct per share, followed by the y-values
// of that share's point on each byte's polynomial, one per secret
// byte, in order.
func (s *Sharing) Split(secret []byte, n, k int, rng io.Reader) ([][]byte, error) {
	if rng == nil {
		rng = rand.Reader
	}
	if k < 1 || n < k || uint64(n) > uint64(s.field.Nonzeros()) {
		return nil, ErrInvalidParams
	}

	ids, err := s.distinctIDs(n, rng)
	if err != nil {
		return nil, err
	}

	shares := make([][]byte, n)
	for i, id := range ids {
		shares[i] = make([]byte, 1+len(secret))
		shares[i][0] = id
	}

	coeffs := make([]byte, k)
	for pos, b := range secret {
		coeffs[0] = b
		if _, err := io.ReadFull(rng, coeffs[1:]); err != nil {
			return nil, err
		}
		for i, id := range ids {
			shares[i][1+pos] = s.evaluate(coeffs, id)
		}
	}
	return shares, nil
}

// evaluate computes the polynomial with coefficients (lowest degree
// first, coeffs[0] is the secret byte) at x, via Horner's method.
func (s *Sharing) evaluate(coeffs []byte, x byte) byte {
	if x == 0 {
		return coeffs[0]
	}
	out := coeffs[len(coeffs)-1]
	for i := len(coeffs) - 2; i >= 0; i-- {
		out = s.field.Add(s.field.Mul(out, x), coeffs[i])
	}
	return out
}

// distinctIDs draws n distinct nonzero field elements via a
// Fisher-Yates shuffle of [1, NONZEROS] drawn from rng, so every
// share's identifier is unique without revealing anything about
// which identifiers weren't chosen.
func (s *Sharing) distinctIDs(n int, rng io.Reader) ([]byte, error) {
	nz := int(s.field.Nonzeros())
	perm := make([]int, nz)
	for i := range perm {
		perm[i] = i + 1
	}
	for i := len(perm) - 1; i > 0; i-- {
		j, err := randIntn(rng, i+1)
		if err != nil {
			return nil, err
		}
		perm[i], perm[j] = perm[j], perm[i]
	}
	ids := make([]byte, n)
	for i := 0; i < n; i++ {
		ids[i] = byte(perm[i])
	}
	return ids, nil
}

// randIntn returns a uniform random int in [0, n) read from rng,
// via rejection sampling on a single byte (n never exceeds 255 here,
// since NONZEROS for an 8-bit field is at most 255).
func randIntn(rng io.Reader, n int) (int, error) {
	if n <= 1 {
		return 0, nil
	}
	limit := 256 - (256 % n)
	var b [1]byte
	for {
		if _, err := io.ReadFull(rng, b[:]); err != nil {
			return 0, err
		}
		if int(b[0]) < limit {
			return int(b[0]) % n, nil
		}
	}
}

// Combine reconstructs a secret from any subset of shares. It is
// total with respect to share count: it never errors for "too few
// shares" (only a subset of size >= k recovers the original secret;
// fewer produce a meaningless but still-returned byte string, which
// is indistinguishable from random). It does error on structurally
// malformed input — empty, mismatched lengths, or duplicate/zero
// identifiers, any of which would make interpolation nonsensical.
func (s *Sharing) Combine(shares [][]byte) ([]byte, error) {
	if len(shares) == 0 {
		return nil, ErrMalformedShares
	}
	shareLen := len(shares[0])
	if shareLen < 1 {
		return nil, ErrMalformedShares
	}

	ids := make([]byte, len(shares))
	seen := make(map[byte]bool, len(shares))
	for i, sh := range shares {
		if len(sh) != shareLen {
			return nil, ErrMalformedShares
		}
		id := sh[0]
		if id == 0 || seen[id] {
			return nil, ErrMalformedShares
		}
		seen[id] = true
		ids[i] = id
	}

	secret := make([]byte, shareLen-1)
	ys := make([]byte, len(shares))
	for pos := range secret {
		for i, sh := range shares {
			ys[i] = sh[1+pos]
		}
		secret[pos] = s.interpolateAtZero(ids, ys)
	}
	return secret, nil
}

// interpolateAtZero evaluates the Lagrange interpolation of (xs, ys)
// at x=0: Σ_i y_i * Π_{j!=i} (0 - x_j) / (x_i - x_j), with
// subtraction folding to the numerator x_j directly since it's XOR
// in characteristic 2.
func (s *Sharing) interpolateAtZero(xs, ys []byte) byte {
	var result byte
	for i := range xs {
		basis := byte(1)
		for j := range xs {
			if i == j {
				continue
			}
			num := xs[j]
			denom := s.field.Sub(xs[i], xs[j])
			term, _ := s.field.Div(num, denom)
			basis = s.field.Mul(basis, term)
		}
		result = s.field.Add(result, s.field.Mul(ys[i], basis))
	}
	return result
}
