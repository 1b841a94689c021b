package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present. An empty needle matches at 0.
//
// Candidates are found by scanning for the rarest byte of the needle with
// Memchr and then verified in full.
func Memmem(haystack, needle []byte) int {
	switch {
	case len(needle) == 0:
		return 0
	case len(needle) > len(haystack):
		return -1
	case len(needle) == 1:
		return Memchr(haystack, needle[0])
	}

	rare, idx := RareByte(needle)
	// the rare byte of a match that fits in haystack lies in [idx, last]
	last := len(haystack) - len(needle) + idx
	for p := idx; p <= last; p++ {
		j := Memchr(haystack[p:last+1], rare)
		if j < 0 {
			return -1
		}
		p += j
		if s := p - idx; bytes.Equal(haystack[s:s+len(needle)], needle) {
			return s
		}
	}
	return -1
}
