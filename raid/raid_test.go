package raid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockCopy(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func newParities(n, size int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = make([]byte, size)
	}
	return out
}

// TestRAID5Scenario: parity starts zeroed, after format it's the XOR
// of the three data blocks, and overwriting the middle block with
// "xxxx" is repaired exactly.
func TestRAID5Scenario(t *testing.T) {
	s, err := NewGF256(1)
	require.NoError(t, err)

	data := [][]byte{[]byte("Hell"), []byte("o Wo"), []byte("rld!")}
	parities := newParities(1, 4)
	require.NoError(t, s.Format(data, parities))

	want := make([]byte, 4)
	for _, d := range data {
		for j := range want {
			want[j] ^= d[j]
		}
	}
	assert.Equal(t, want, parities[0])

	corrupted := [][]byte{blockCopy(data[0]), blockCopy(data[1]), blockCopy(data[2])}
	corrupted[1] = []byte("xxxx")
	require.NoError(t, s.Repair(corrupted, parities, []int{1}))
	assert.Equal(t, []byte("o Wo"), corrupted[1])
}

// TestRAID7Scenario: repair succeeds for every choice of 1, 2, or 3
// bad-block indices among the three data blocks and three parity
// blocks.
func TestRAID7Scenario(t *testing.T) {
	s, err := NewGF256(3)
	require.NoError(t, err)

	original := [][]byte{[]byte("Hell"), []byte("o Wo"), []byte("rld!")}
	parities := newParities(3, 4)
	require.NoError(t, s.Format(original, parities))

	indices := []int{0, 1, 2, 3, 4, 5}
	for _, combo := range combinations(indices, 1) {
		checkRepair(t, s, original, parities, combo)
	}
	for _, combo := range combinations(indices, 2) {
		checkRepair(t, s, original, parities, combo)
	}
	for _, combo := range combinations(indices, 3) {
		checkRepair(t, s, original, parities, combo)
	}
}

func checkRepair(t *testing.T, s *Set[uint8], original [][]byte, parities [][]byte, bad []int) {
	t.Helper()
	data := make([][]byte, len(original))
	for i, d := range original {
		data[i] = blockCopy(d)
	}
	par := make([][]byte, len(parities))
	for i, p := range parities {
		par[i] = blockCopy(p)
	}
	for _, b := range bad {
		if b < len(data) {
			data[b] = []byte("xxxx")
		} else {
			row := b - len(data)
			for j := range par[row] {
				par[row][j] = 0xff
			}
		}
	}

	require.NoError(t, s.Repair(data, par, bad), "bad=%v", bad)
	for i, d := range original {
		assert.Equal(t, d, data[i], "data block %d mismatch for bad=%v", i, bad)
	}
	want := make([][]byte, len(parities))
	for i := range want {
		want[i] = make([]byte, len(parities[i]))
		copy(want[i], parities[i])
	}
	assert.Equal(t, want, par, "parity mismatch for bad=%v", bad)
}

// combinations returns every n-element subset of items, order preserved.
func combinations(items []int, n int) [][]int {
	var out [][]int
	var rec func(start int, chosen []int)
	rec = func(start int, chosen []int) {
		if len(chosen) == n {
			cp := make([]int, n)
			copy(cp, chosen)
			out = append(out, cp)
			return
		}
		for i := start; i < len(items); i++ {
			rec(i+1, append(chosen, items[i]))
		}
	}
	rec(0, nil)
	return out
}

func TestRAIDTooManyBadBlocks(t *testing.T) {
	s, err := NewGF256(2)
	require.NoError(t, err)

	data := [][]byte{[]byte("abcd"), []byte("efgh"), []byte("ijkl")}
	parities := newParities(2, 4)
	require.NoError(t, s.Format(data, parities))

	err = s.Repair(data, parities, []int{0, 1, 2})
	assert.ErrorIs(t, err, ErrTooManyBadBlocks)
}

func TestRAIDUpdate(t *testing.T) {
	s, err := NewGF256(2)
	require.NoError(t, err)

	data := [][]byte{[]byte("abcd"), []byte("efgh"), []byte("ijkl")}
	parities := newParities(2, 4)
	require.NoError(t, s.Format(data, parities))

	oldBlock := blockCopy(data[1])
	newBlock := []byte("EFGH")
	require.NoError(t, s.Update(1, oldBlock, newBlock, parities))

	reformatted := newParities(2, 4)
	require.NoError(t, s.Format([][]byte{data[0], newBlock, data[2]}, reformatted))
	assert.Equal(t, reformatted, parities)
}

func TestRAIDAddRemove(t *testing.T) {
	s, err := NewGF256(1)
	require.NoError(t, err)

	data := [][]byte{[]byte("abcd"), []byte("efgh")}
	parities := newParities(1, 4)
	require.NoError(t, s.Format(data, parities))

	extra := []byte("ijkl")
	require.NoError(t, s.Add(2, extra, parities))

	full := newParities(1, 4)
	require.NoError(t, s.Format([][]byte{data[0], data[1], extra}, full))
	assert.Equal(t, full, parities)

	require.NoError(t, s.Remove(2, extra, parities))
	assert.Equal(t, newParitiesFromXOR(data), parities)
}

func newParitiesFromXOR(data [][]byte) [][]byte {
	out := make([]byte, len(data[0]))
	for _, d := range data {
		for j := range out {
			out[j] ^= d[j]
		}
	}
	return [][]byte{out}
}
