// Package ascii detects pure ASCII input a word at a time.
//
// ASCII text needs no UTF-8 decoding: every byte is one character, so
// callers can step through it byte by byte.
package ascii

import "encoding/binary"

// hi8 has the high bit of every byte in a word set. A byte is ASCII iff its
// high bit is clear.
const hi8 = uint64(0x8080808080808080)

// Valid reports whether every byte of data is below 0x80.
// It checks 8 bytes per iteration and the tail byte by byte.
func Valid(data []byte) bool {
	i := 0
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
