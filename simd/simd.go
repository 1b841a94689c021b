// Package simd provides word-at-a-time byte scanning for the prefilters and
// the position tracker of the matcher.
//
// Every routine works on 64-bit words read from the input (SWAR, SIMD
// within a register). On CPUs with wide vector units the loops are unrolled
// to four words per iteration, which lets the out-of-order core overlap the
// loads; elsewhere a single-word loop is used. No assembly is involved, so
// the package builds unchanged on every GOARCH.
package simd

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// wide selects the four-word unrolled loops.
var wide = cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// zeroBytes sets the high bit of every zero byte of v. Bits above the
// lowest zero byte may be spurious; the lowest set bit is always exact.
func zeroBytes(v uint64) uint64 {
	return (v - lo8) &^ v & hi8
}

func matchAny(w, m1, m2, m3 uint64) uint64 {
	return zeroBytes(w^m1) | zeroBytes(w^m2) | zeroBytes(w^m3)
}

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present.
func Memchr(haystack []byte, needle byte) int {
	return indexAny(haystack, needle, needle, needle)
}

// Memchr2 returns the index of the first byte equal to needle1 or needle2,
// or -1 if neither is present.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	return indexAny(haystack, needle1, needle2, needle2)
}

// Memchr3 returns the index of the first byte equal to any of the three
// needles, or -1 if none is present.
func Memchr3(haystack []byte, needle1, needle2, needle3 byte) int {
	return indexAny(haystack, needle1, needle2, needle3)
}

func indexAny(h []byte, n1, n2, n3 byte) int {
	m1, m2, m3 := uint64(n1)*lo8, uint64(n2)*lo8, uint64(n3)*lo8
	i := 0
	if wide {
		// Skip whole blocks; the word loop below pinpoints the hit.
		for ; i+32 <= len(h); i += 32 {
			a := binary.LittleEndian.Uint64(h[i:])
			b := binary.LittleEndian.Uint64(h[i+8:])
			c := binary.LittleEndian.Uint64(h[i+16:])
			d := binary.LittleEndian.Uint64(h[i+24:])
			if matchAny(a, m1, m2, m3)|matchAny(b, m1, m2, m3)|matchAny(c, m1, m2, m3)|matchAny(d, m1, m2, m3) != 0 {
				break
			}
		}
	}
	for ; i+8 <= len(h); i += 8 {
		if z := matchAny(binary.LittleEndian.Uint64(h[i:]), m1, m2, m3); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < len(h); i++ {
		if c := h[i]; c == n1 || c == n2 || c == n3 {
			return i
		}
	}
	return -1
}

// IsASCII reports whether every byte of data is below 0x80.
func IsASCII(data []byte) bool {
	i := 0
	if wide {
		for ; i+32 <= len(data); i += 32 {
			w := binary.LittleEndian.Uint64(data[i:]) |
				binary.LittleEndian.Uint64(data[i+8:]) |
				binary.LittleEndian.Uint64(data[i+16:]) |
				binary.LittleEndian.Uint64(data[i+24:])
			if w&hi8 != 0 {
				return false
			}
		}
	}
	for ; i+8 <= len(data); i += 8 {
		if binary.LittleEndian.Uint64(data[i:])&hi8 != 0 {
			return false
		}
	}
	for ; i < len(data); i++ {
		if data[i] >= 0x80 {
			return false
		}
	}
	return true
}
