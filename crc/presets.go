package crc

import "github.com/ka9q-tools/gf256/poly"

// Pre-parameterised entry points for the common CRC polynomials, all
// reflected with an all-ones xor mask, the convention the widely
// deployed variants of these polynomials share.
var (
	crc8Inst   = mustNew[uint8](8, 0x07, true, 0xff)
	crc16Inst  = mustNew[uint16](16, 0x1021, true, 0xffff)
	crc32Inst  = mustNew[uint32](32, 0x04c11db7, true, 0xffffffff)
	crc32cInst = mustNew[uint32](32, 0x1edc6f41, true, 0xffffffff)
	crc64Inst  = mustNew[uint64](64, 0x42f0e1eba9ea3693, true, 0xffffffffffffffff)
)

func mustNew[T poly.Unsigned](width uint, polyLow T, reflected bool, xorMask T) *CRC[T] {
	c, err := New[T](width, polyLow, reflected, xorMask)
	if err != nil {
		panic(err)
	}
	return c
}

// CRC8 computes the CRC-8 (π = 0x107) of data, folded onto seed.
func CRC8(data []byte, seed uint8) uint8 { return crc8Inst.Calc(data, seed) }

// CRC16 computes the CRC-16/CCITT (π = 0x11021) of data, folded onto seed.
func CRC16(data []byte, seed uint16) uint16 { return crc16Inst.Calc(data, seed) }

// CRC32 computes the classic CRC-32 (π = 0x104c11db7, as used by
// zip/gzip/ethernet) of data, folded onto seed.
func CRC32(data []byte, seed uint32) uint32 { return crc32Inst.Calc(data, seed) }

// CRC32C computes CRC-32C (π = 0x11edc6f41, Castagnoli), recommended
// for new applications over plain CRC32, folded onto seed.
func CRC32C(data []byte, seed uint32) uint32 { return crc32cInst.Calc(data, seed) }

// CRC64 computes CRC-64/XZ (π = 0x142f0e1eba9ea3693) of data, folded onto seed.
func CRC64(data []byte, seed uint64) uint64 { return crc64Inst.Calc(data, seed) }
