package internal

import "unsafe"

// StringToBytes returns the bytes of s without copying. The result must not be modified.
func StringToBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// BytesToString returns b as a string without copying. b must not be modified afterwards.
func BytesToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
