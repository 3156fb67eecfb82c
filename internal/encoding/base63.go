// Package encoding turns 64-bit values into short identifiers that are safe
// to use as HTML ids and URL fragments.
//
// Alphabet: A-Z (0-25), a-z (26-51), 0-9 (52-61), _ (62)
package encoding

const (
	Base63     = 63
	Alphabet63 = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_"
)

// Base63Encode encodes value most significant digit first. Zero encodes as "A".
func Base63Encode(value uint64) string {
	if value == 0 {
		return "A"
	}

	// 63^11 > 2^64
	var buf [11]byte
	pos := len(buf)
	for value > 0 {
		pos--
		buf[pos] = Alphabet63[value%Base63]
		value /= Base63
	}
	return string(buf[pos:])
}
