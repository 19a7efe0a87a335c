package video

// ByteToColor maps a DMG shade (0-3) to its display color.
func ByteToColor(shade byte) GBColor {
	switch shade & 0x03 {
	case 0:
		return WhiteColor
	case 1:
		return LightGreyColor
	case 2:
		return DarkGreyColor
	default:
		return BlackColor
	}
}

// applyPalette maps a color index through a DMG palette register (BGP, OBP0
// or OBP1). Each index selects 2 bits: index 0 is bits 1-0, index 3 bits 7-6.
func applyPalette(register byte, index uint8) byte {
	return (register >> (index * 2)) & 0x03
}

// ColorFromBGR555 converts a little-endian CGB palette entry to an RGBA color.
// The 5 bit channels are widened by replicating their top bits.
func ColorFromBGR555(low, high byte) GBColor {
	value := uint16(high)<<8 | uint16(low)
	r := expand5(uint8(value & 0x1F))
	g := expand5(uint8((value >> 5) & 0x1F))
	b := expand5(uint8((value >> 10) & 0x1F))
	return GBColor(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | 0xFF)
}

func expand5(c uint8) uint8 {
	return c<<3 | c>>2
}

// colorPaletteEntry reads one color of one CGB palette from palette RAM.
// Each palette holds 4 colors of 2 bytes.
func colorPaletteEntry(mem Memory, object bool, palette, index uint8) GBColor {
	offset := (palette&0x07)*8 + (index&0x03)*2
	return ColorFromBGR555(mem.ReadPaletteRAM(object, offset), mem.ReadPaletteRAM(object, offset+1))
}
