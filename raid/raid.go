// Package raid implements RAID-style parity over an array of
// equal-length data blocks: single (RAID 5), double (RAID 6), or
// triple (RAID 7) parity, each able to repair as many bad blocks
// (data or parity) as it carries parity blocks.
//
// Parity block k is
//
//	parity_k = Σ d_i * g^(k*i)
//	            i
//
// so parity 0 (P) is the plain XOR of every block (g^0 == 1 for any
// i), parity 1 (Q) weights block i by g^i, and parity 2 (R) weights
// block i by g^(2i). Losing up to len(parities) blocks — data or
// parity, in any combination — leaves a square linear system in the
// surviving equations that is always solvable, because distinct
// powers of a generator are pairwise distinct nonzero field elements.
package raid

import (
	"errors"

	"github.com/ka9q-tools/gf256/gf"
	"github.com/ka9q-tools/gf256/poly"
)

var (
	// ErrTooManyBadBlocks is returned by Repair when the bad block
	// count exceeds the number of parity blocks, or when the
	// surviving parity rows turn out not to be linearly independent
	// for the requested repair (the latter cannot happen with the
	// g^(k*i) row family below NONZEROS blocks).
	ErrTooManyBadBlocks = errors.New("raid: bad block count exceeds parity count")
	// ErrBlockSizeMismatch is returned when data and parity slices
	// passed to the same call don't share one common byte length.
	ErrBlockSizeMismatch = errors.New("raid: block size mismatch")
	// ErrInvalidParityCount is returned by New for parity counts
	// outside [1,3], and by the per-call methods when the number of
	// parity slices passed doesn't match the Set's configured count.
	ErrInvalidParityCount = errors.New("raid: parity count must be 1, 2, or 3")
	// ErrBadIndexOutOfRange is returned by Repair when a bad index
	// names neither a data block nor one of the configured parity
	// blocks.
	ErrBadIndexOutOfRange = errors.New("raid: bad index out of range")
)

// Set describes a RAID-parity scheme over a field: the generator's
// powers supply the per-block weighting constants, so K data blocks
// are supported for K <= field.Nonzeros().
type Set[T poly.Unsigned] struct {
	field  *gf.Field[T]
	parity int
}

// New returns a Set with 1, 2, or 3 parity blocks (RAID 5/6/7
// respectively) over the given field.
func New[T poly.Unsigned](field *gf.Field[T], parity int) (*Set[T], error) {
	if parity < 1 || parity > 3 {
		return nil, ErrInvalidParityCount
	}
	return &Set[T]{field: field, parity: parity}, nil
}

// NewGF256 is a convenience constructor for the common case of RAID
// over GF(256) (π = 0x11d, g = 0x02, Barrett-mode), the conventional
// field for byte-oriented parity.
func NewGF256(parity int) (*Set[uint8], error) {
	field, err := gf.NewField[uint8](8, 0x1d, 0x02, gf.Barrett)
	if err != nil {
		return nil, err
	}
	return New[uint8](field, parity)
}

// Parity returns the number of parity blocks this Set was configured
// with.
func (s *Set[T]) Parity() int { return s.parity }

// coeff returns the weighting constant g^(row*i) block i contributes
// to parity row `row` (row 0 is P, row 1 is Q, row 2 is R).
func (s *Set[T]) coeff(row, i int) T {
	return s.field.Pow(s.field.Generator(), uint64(row*i))
}

func (s *Set[T]) checkLengths(blocks, parities [][]byte) error {
	want := -1
	check := func(b []byte) error {
		if want == -1 {
			want = len(b)
		} else if len(b) != want {
			return ErrBlockSizeMismatch
		}
		return nil
	}
	for _, b := range blocks {
		if err := check(b); err != nil {
			return err
		}
	}
	for _, p := range parities {
		if err := check(p); err != nil {
			return err
		}
	}
	return nil
}

// accumulate adds (XORs) block i's contribution into every parity
// slice in place; calling it twice on the same block undoes the
// first call, which is what Remove and the "old" half of Update rely
// on.
func (s *Set[T]) accumulate(i int, block []byte, parities [][]byte) {
	be := gf.SliceFromBytes[T](block)
	for row := 0; row < s.parity; row++ {
		c := s.coeff(row, i)
		pe := gf.SliceFromBytes[T](parities[row])
		for j := range be {
			pe[j] = s.field.Add(pe[j], s.field.Mul(c, be[j]))
		}
	}
}

// Format computes every parity block from scratch given the full set
// of K data blocks. parities must contain exactly s.Parity() slices,
// ordered P, Q, R, each the same byte length as every data block.
func (s *Set[T]) Format(data [][]byte, parities [][]byte) error {
	if len(parities) != s.parity {
		return ErrInvalidParityCount
	}
	if err := s.checkLengths(data, parities); err != nil {
		return err
	}
	for _, par := range parities {
		clear(par)
	}
	for i, d := range data {
		s.accumulate(i, d, parities)
	}
	return nil
}

// Add folds a newly-added data block at index i into every parity
// block, in O(block size) without touching any other data block.
func (s *Set[T]) Add(i int, block []byte, parities [][]byte) error {
	if len(parities) != s.parity {
		return ErrInvalidParityCount
	}
	if err := s.checkLengths([][]byte{block}, parities); err != nil {
		return err
	}
	s.accumulate(i, block, parities)
	return nil
}

// Remove folds a departing data block at index i out of every parity
// block. Subtraction coincides with addition in characteristic 2, so
// this is literally the same update Add performs.
func (s *Set[T]) Remove(i int, block []byte, parities [][]byte) error {
	return s.Add(i, block, parities)
}

// Update replaces data block i's contents from old to new, adjusting
// every parity block in O(block size) without reading any other data
// block.
func (s *Set[T]) Update(i int, oldBlock, newBlock []byte, parities [][]byte) error {
	if len(parities) != s.parity {
		return ErrInvalidParityCount
	}
	if err := s.checkLengths([][]byte{oldBlock, newBlock}, parities); err != nil {
		return err
	}
	s.accumulate(i, oldBlock, parities)
	s.accumulate(i, newBlock, parities)
	return nil
}

// recomputeParityRow rebuilds parity row `row` from scratch once
// every data block is known-good, for the case where a parity block
// itself was among the bad indices passed to Repair.
func (s *Set[T]) recomputeParityRow(data [][]byte, parities [][]byte, row int) {
	pe := gf.SliceFromBytes[T](parities[row])
	for j := range pe {
		pe[j] = 0
	}
	for i, block := range data {
		c := s.coeff(row, i)
		be := gf.SliceFromBytes[T](block)
		for j := range be {
			pe[j] = s.field.Add(pe[j], s.field.Mul(c, be[j]))
		}
	}
}

// invert computes the inverse of a small (len(mat) <= 3) square
// matrix over the field via Gauss-Jordan elimination with an
// identity-augmented matrix, returning ErrTooManyBadBlocks if mat
// turns out singular (the chosen parity rows weren't independent for
// the requested unknowns).
func (s *Set[T]) invert(mat [][]T) ([][]T, error) {
	m := len(mat)
	aug := make([][]T, m)
	for i := range aug {
		aug[i] = make([]T, 2*m)
		copy(aug[i], mat[i])
		aug[i][m+i] = 1
	}
	for col := 0; col < m; col++ {
		piv := -1
		for r := col; r < m; r++ {
			if aug[r][col] != 0 {
				piv = r
				break
			}
		}
		if piv == -1 {
			return nil, ErrTooManyBadBlocks
		}
		aug[col], aug[piv] = aug[piv], aug[col]
		inv, err := s.field.Recip(aug[col][col])
		if err != nil {
			return nil, err
		}
		for c := 0; c < 2*m; c++ {
			aug[col][c] = s.field.Mul(aug[col][c], inv)
		}
		for r := 0; r < m; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for c := 0; c < 2*m; c++ {
				aug[r][c] = s.field.Sub(aug[r][c], s.field.Mul(factor, aug[col][c]))
			}
		}
	}
	result := make([][]T, m)
	for i := range result {
		result[i] = aug[i][m:]
	}
	return result, nil
}

// solveData reconstructs every bad data block using the surviving
// ("good") parity rows, per block byte position: the m good rows
// name an m-unknown linear system (m = len(badData)), independent of
// byte position, so its inverse is computed once and reused for
// every byte in the block rather than running a fresh elimination
// per byte; the auxiliary arrays stay bounded by the parity count.
func (s *Set[T]) solveData(data, parities [][]byte, badData, badParity []int) error {
	isBadParity := make(map[int]bool, len(badParity))
	for _, r := range badParity {
		isBadParity[r] = true
	}
	var goodRows []int
	for r := 0; r < s.parity; r++ {
		if !isBadParity[r] {
			goodRows = append(goodRows, r)
		}
	}
	m := len(badData)
	if len(goodRows) < m {
		return ErrTooManyBadBlocks
	}
	rows := goodRows[:m]

	isBadData := make(map[int]bool, len(badData))
	for _, x := range badData {
		isBadData[x] = true
	}

	coefMat := make([][]T, m)
	for r, row := range rows {
		coefMat[r] = make([]T, m)
		for c, x := range badData {
			coefMat[r][c] = s.coeff(row, x)
		}
	}
	invMat, err := s.invert(coefMat)
	if err != nil {
		return err
	}

	blockLen := len(gf.SliceFromBytes[T](parities[rows[0]]))

	for j := 0; j < blockLen; j++ {
		rhs := make([]T, m)
		for r, row := range rows {
			pe := gf.SliceFromBytes[T](parities[row])
			v := pe[j]
			for i, block := range data {
				if isBadData[i] {
					continue
				}
				be := gf.SliceFromBytes[T](block)
				v = s.field.Sub(v, s.field.Mul(s.coeff(row, i), be[j]))
			}
			rhs[r] = v
		}
		for c, x := range badData {
			var sol T
			for r := 0; r < m; r++ {
				sol = s.field.Add(sol, s.field.Mul(invMat[c][r], rhs[r]))
			}
			be := gf.SliceFromBytes[T](data[x])
			be[j] = sol
		}
	}
	return nil
}

// Repair reconstructs the data and/or parity blocks named by bad
// (data indices 0..len(data)-1, or parity indices len(data)+0..
// len(data)+s.Parity()-1 for P/Q/R respectively), using whichever
// blocks are not themselves named as bad. Bad data blocks are solved
// first from the surviving parity rows; any bad parity blocks are
// then recomputed from the now-complete data. Returns
// ErrTooManyBadBlocks if len(bad) exceeds s.Parity().
func (s *Set[T]) Repair(data, parities [][]byte, bad []int) error {
	if len(bad) > s.parity {
		return ErrTooManyBadBlocks
	}
	if len(parities) != s.parity {
		return ErrInvalidParityCount
	}
	if err := s.checkLengths(data, parities); err != nil {
		return err
	}

	k := len(data)
	var badData, badParity []int
	for _, b := range bad {
		switch {
		case b < 0:
			return ErrBadIndexOutOfRange
		case b < k:
			badData = append(badData, b)
		case b < k+s.parity:
			badParity = append(badParity, b-k)
		default:
			return ErrBadIndexOutOfRange
		}
	}

	if len(badData) > 0 {
		if err := s.solveData(data, parities, badData, badParity); err != nil {
			return err
		}
	}
	for _, row := range badParity {
		s.recomputeParityRow(data, parities, row)
	}
	return nil
}
