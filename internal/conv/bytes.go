package conv

import "unsafe"

// StringBytes returns the bytes of s without copying.
// The result must not be modified.
func StringBytes(s string) []byte {
	if s == "" {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
