package rs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCorrectsSixteenErrors: rs255w223 encodes "Hello World!"
// (zero-padded to K=223 data bytes), any 16 bytes anywhere in the
// 255-byte codeword are flipped, and CorrectErrors restores the
// whole codeword.
func TestCorrectsSixteenErrors(t *testing.T) {
	codec, err := NewRS255W223()
	require.NoError(t, err)

	message := []byte("Hello World!")

	flipSets := [][]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		{0, 20, 40, 60, 80, 100, 120, 140, 160, 180, 200, 220, 230, 240, 250, 254},
		{222, 223, 224, 225, 226, 227, 228, 229, 230, 231, 232, 233, 234, 235, 236, 237},
	}

	for _, flips := range flipSets {
		codeword := make([]byte, 255)
		copy(codeword, message)
		require.NoError(t, codec.Encode(codeword))

		corrupted := make([]byte, len(codeword))
		copy(corrupted, codeword)
		for _, pos := range flips {
			corrupted[pos] ^= 0xff
		}

		n, err := codec.CorrectErrors(corrupted)
		require.NoError(t, err, "flips=%v", flips)
		assert.Equal(t, len(flips), n)
		assert.Equal(t, message, corrupted[:len(message)], "flips=%v", flips)
		assert.Equal(t, codeword, corrupted, "full codeword should be fully restored, flips=%v", flips)
	}
}

func TestEncodeIsDivisibleByGenerator(t *testing.T) {
	codec, err := NewRS255W223()
	require.NoError(t, err)

	codeword := make([]byte, 255)
	copy(codeword, []byte("the quick brown fox jumps over"))
	require.NoError(t, codec.Encode(codeword))

	syn := codec.syndromes(codeword)
	for _, s := range syn {
		assert.Zero(t, s)
	}
}

func TestDecodeCleanCodewordIsNoop(t *testing.T) {
	codec, err := NewRS255W223()
	require.NoError(t, err)

	codeword := make([]byte, 255)
	copy(codeword, []byte("no errors here"))
	require.NoError(t, codec.Encode(codeword))

	n, err := codec.CorrectErrors(codeword)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDecodeTooManyErrors(t *testing.T) {
	codec, err := NewRS255W223()
	require.NoError(t, err)

	codeword := make([]byte, 255)
	copy(codeword, []byte("too many flipped bytes to fix"))
	require.NoError(t, codec.Encode(codeword))

	for i := 0; i < 17; i++ {
		codeword[i*10] ^= 0xff
	}

	_, err = codec.CorrectErrors(codeword)
	assert.ErrorIs(t, err, ErrTooManyErrors)
}

func TestDecodeWithErasures(t *testing.T) {
	codec, err := NewRS255W223()
	require.NoError(t, err)

	codeword := make([]byte, 255)
	copy(codeword, []byte("erasures known in advance"))
	require.NoError(t, codec.Encode(codeword))
	original := make([]byte, len(codeword))
	copy(original, codeword)

	erasures := []int{3, 40, 100, 150, 200, 230, 240, 250}
	for _, pos := range erasures {
		codeword[pos] = 0
	}
	for i := 0; i < 12; i++ {
		codeword[i*7+1] ^= 0xaa
	}

	n, err := codec.Decode(codeword, erasures)
	require.NoError(t, err)
	assert.Equal(t, len(erasures)+12, n)
	assert.Equal(t, original, codeword)
}

func TestMalformedInput(t *testing.T) {
	codec, err := NewRS255W223()
	require.NoError(t, err)

	err = codec.Encode(make([]byte, 10))
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = codec.Decode(make([]byte, 10), nil)
	assert.ErrorIs(t, err, ErrMalformedInput)

	codeword := make([]byte, 255)
	_, err = codec.Decode(codeword, []int{3, 3})
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = codec.Decode(codeword, []int{-1})
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = codec.Decode(codeword, []int{255})
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestNewRejectsInvalidParams(t *testing.T) {
	field, err := NewRS255W223()
	require.NoError(t, err)
	_, err = New(field.field, 10, 10)
	assert.ErrorIs(t, err, ErrMalformedInput)
	_, err = New(field.field, 10, 20)
	assert.ErrorIs(t, err, ErrMalformedInput)
}
