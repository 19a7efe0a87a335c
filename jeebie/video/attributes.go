package video

import "github.com/valerio/jeebie-ppu/jeebie/bit"

// TileAttributes is an attribute byte as found in OAM (sprites) or in VRAM
// bank 1 (CGB background map).
//
//	Bit 7    - priority: BG-to-OAM priority for tiles, behind-background for sprites
//	Bit 6    - vertical flip
//	Bit 5    - horizontal flip
//	Bit 4    - DMG object palette (0=OBP0, 1=OBP1)
//	Bit 3    - CGB tile VRAM bank
//	Bit 2-0  - CGB palette number
//
// Reference: https://gbdev.io/pandocs/OAM.html#byte-3--attributesflags
type TileAttributes uint8

func (a TileAttributes) Priority() bool {
	return bit.IsSet(7, uint8(a))
}

func (a TileAttributes) FlipY() bool {
	return bit.IsSet(6, uint8(a))
}

func (a TileAttributes) FlipX() bool {
	return bit.IsSet(5, uint8(a))
}

// DMGPalette returns 0 for OBP0 and 1 for OBP1.
func (a TileAttributes) DMGPalette() uint8 {
	return bit.GetBitValue(4, uint8(a))
}

func (a TileAttributes) Bank() uint8 {
	return bit.GetBitValue(3, uint8(a))
}

// ColorPalette returns the CGB palette number (0-7).
func (a TileAttributes) ColorPalette() uint8 {
	return bit.ExtractBits(uint8(a), 2, 0)
}
