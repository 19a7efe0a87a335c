package video

import "github.com/valerio/jeebie-ppu/jeebie/bit"

const (
	// pixelsPerTile is the width of every strip the fetcher produces.
	pixelsPerTile = 8
	// bytesPerTile is the size of one 8x8 tile in VRAM.
	bytesPerTile = 16
	// tileMapWidth is the number of tiles in one tile map row.
	tileMapWidth = 32
)

// PixelLine is one 8 pixel strip of 2-bit color indices, leftmost pixel
// first. For sprites, index 0 is transparent.
type PixelLine [pixelsPerTile]uint8

// TileRow represents one row of a tile pattern (8 pixels).
//
// Game Boy tiles are 8x8 pixels, with 2 bits per pixel allowing 4 colors.
// Each tile row uses 2 bytes in a bit-plane format:
//
//	Byte 1 (Low):  Bit plane 0 - provides bit 0 of each pixel's color
//	Byte 2 (High): Bit plane 1 - provides bit 1 of each pixel's color
//
// Bit 7 represents the leftmost pixel, bit 0 the rightmost:
//
//	Bit:     7 6 5 4 3 2 1 0
//	Pixel:   0 1 2 3 4 5 6 7
//
// Example: Bytes $3C and $7E represent a row:
//
//	Low  (0x3C): 0 0 1 1 1 1 0 0
//	High (0x7E): 0 1 1 1 1 1 1 0
//	            -----------------
//	Colors:      0 2 3 3 3 3 2 0
//
// Reference: https://gbdev.io/pandocs/Tile_Data.html
type TileRow struct {
	Low  byte
	High byte
}

// GetPixel extracts a pixel color (0-3) from the tile row.
// pixelX should be 0-7, where 0 is the leftmost pixel.
func (t TileRow) GetPixel(pixelX int) uint8 {
	// bit 7 is leftmost pixel, bit 0 is rightmost
	index := uint8(7 - pixelX)
	return bit.GetBitValue(index, t.Low) | bit.GetBitValue(index, t.High)<<1
}

// Pixels unpacks the whole row. With flipX set the row is mirrored, so bit 0
// ends up as the leftmost pixel.
func (t TileRow) Pixels(flipX bool) PixelLine {
	return PixelLine(bit.Interleave(t.Low, t.High, flipX))
}

// tileAddress returns the address of the first byte of a tile.
//
// In unsigned mode the base is 0x8000 and ids 0-255 map upward. In signed mode
// the base is 0x9000 and the id is a signed offset, so ids 0x80-0xFF land in
// 0x8800-0x8FFF.
func tileAddress(base uint16, id uint8, signed bool) uint16 {
	if signed {
		return uint16(int32(base) + int32(int8(id))*bytesPerTile)
	}
	return base + uint16(id)*bytesPerTile
}
