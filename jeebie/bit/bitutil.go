package bit

// IsSet will check if the bit at the specified index is Set to 1 or not.
func IsSet(index, byte uint8) bool {
	return ((byte >> index) & 1) == 1
}

// Set will return the passed byte with the bit at the specified index Set to 1.
func Set(index, byte uint8) uint8 {
	return byte | (1 << index)
}

// GetBitValue returns a byte set to the value of the bit at the specified index.
func GetBitValue(index, byte uint8) uint8 {
	if IsSet(index, byte) {
		return 1
	}

	return 0
}

// ExtractBits extracts bits from highBit to lowBit (inclusive)
// Example: ExtractBits(0b11010110, 6, 4) -> 0b101 (extracts bits 6, 5, 4)
func ExtractBits(value uint8, highBit, lowBit uint8) uint8 {
	shift := lowBit
	width := highBit - lowBit + 1
	mask := uint8((1 << width) - 1)
	return (value >> shift) & mask
}

// Interleave merges two bit planes into 2-bit values, one per bit position.
// Element i of the result takes bit (7-i) from both planes, low plane providing
// bit 0 and high plane bit 1. With reverse set, element i takes bit i instead.
func Interleave(low, high uint8, reverse bool) [8]uint8 {
	var out [8]uint8
	for i := range 8 {
		index := uint8(7 - i)
		if reverse {
			index = uint8(i)
		}
		out[i] = GetBitValue(index, low) | GetBitValue(index, high)<<1
	}
	return out
}
