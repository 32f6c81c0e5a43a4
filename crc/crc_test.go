package crc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ka9q-tools/gf256/gf"
)

// Known-answer checks against the widely published values for these
// polynomials.
func TestCRC32CKnownAnswer(t *testing.T) {
	assert.Equal(t, uint32(0xFE6CF1DC), CRC32C([]byte("Hello World!"), 0))
}

func TestCRC32KnownAnswer(t *testing.T) {
	assert.Equal(t, uint32(0x1C291CA3), CRC32([]byte("Hello World!"), 0))
}

func TestPresetVectors(t *testing.T) {
	assert.Equal(t, uint8(0xb3), CRC8([]byte("Hello World!"), 0))
	assert.Equal(t, uint16(0x0bbb), CRC16([]byte("Hello World!"), 0))
	assert.Equal(t, uint64(0x75045245c9ea6fe2), CRC64([]byte("Hello World!"), 0))
}

// TestIncrementalComposition verifies crc(a++b, seed) ==
// crc(b, crc(a, seed)) for every split point.
func TestIncrementalComposition(t *testing.T) {
	msg := []byte("Hello World!! More data here to split across calls.")
	for split := 0; split <= len(msg); split++ {
		whole := CRC32C(msg, 0)
		parts := CRC32C(msg[split:], CRC32C(msg[:split], 0))
		assert.Equal(t, whole, parts, "split at %d", split)
	}
}

// TestModesAgree checks naive/table/small_table/barrett all produce
// identical tags.
func TestModesAgree(t *testing.T) {
	msgs := [][]byte{
		nil,
		[]byte("a"),
		[]byte("Hello World!"),
		[]byte("The quick brown fox jumps over the lazy dog."),
	}
	modes := []gf.Mode{gf.Naive, gf.RemTable, gf.SmallRemTable, gf.Barrett}
	for _, msg := range msgs {
		var want uint32
		for i, mode := range modes {
			c, err := NewMode[uint32](32, 0x04c11db7, true, 0xffffffff, mode)
			require.NoError(t, err)
			got := c.Calc(msg, 0)
			if i == 0 {
				want = got
			} else {
				assert.Equal(t, want, got, "mode %d mismatch on %q", mode, msg)
			}
		}
	}
}

func TestUnreflectedNoXor(t *testing.T) {
	c, err := New[uint8](8, 0x07, false, 0)
	require.NoError(t, err)
	got := c.Calc([]byte{0b01101000, 0b01101001}, 0)
	assert.Equal(t, uint8(0b01000101), got)
}
