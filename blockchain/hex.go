package blockchain

import "encoding/hex"

func hexEncode(b []byte) string { return hex.EncodeToString(b) }

// hexDecode32 decodes a hex string into a 32-byte array. ok is false
// if the string is not valid hex of the right length. Callers treat
// this as "not valid" rather than propagating a distinct error, since
// the hash is always freshly constructed and a decode failure here
// implies a bug rather than bad external input.
func hexDecode32(s string) (out Hash32, ok bool) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return out, false
	}
	copy(out[:], b)
	return out, true
}
