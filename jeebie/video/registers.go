package video

import (
	"github.com/valerio/jeebie-ppu/jeebie/addr"
	"github.com/valerio/jeebie-ppu/jeebie/bit"
)

// Memory is the read-only view of video state the pipeline works from.
// The pipeline never writes to memory.
type Memory interface {
	// Read returns I/O registers, OAM and VRAM as seen on the bus.
	Read(address uint16) byte
	// ReadVRAM reads an explicit VRAM bank. Only bank 0 exists on DMG.
	ReadVRAM(bank uint8, address uint16) byte
	// ReadPaletteRAM reads the CGB background (object=false) or object color palette RAM.
	ReadPaletteRAM(object bool, offset uint8) byte
}

// Bus is what the scanline scheduler needs on top of Memory to publish its
// progress back to the rest of the system.
type Bus interface {
	Memory
	SetLY(value uint8)
	SetSTAT(value uint8)
	RequestInterrupt(interrupt addr.Interrupt)
}

// LCDC (LCD Control) Register bit values
// Bit 7 - LCD Display Enable (0=Off, 1=On)
// Bit 6 - Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
// Bit 5 - Window Display Enable (0=Off, 1=On)
// Bit 4 - BG & Window Tile Data Select (0=8800-97FF, 1=8000-8FFF)
// Bit 3 - BG Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
// Bit 2 - OBJ (Sprite) Size (0=8x8, 1=8x16)
// Bit 1 - OBJ (Sprite) Display Enable (0=Off, 1=On)
// Bit 0 - BG Display (0=Off, 1=On). On CGB: BG/window master priority.

type lcdcFlag uint8

const (
	lcdDisplayEnable       lcdcFlag = 7
	windowTileMapSelect    lcdcFlag = 6
	windowDisplayEnable    lcdcFlag = 5
	bgWindowTileDataSelect lcdcFlag = 4
	bgTileMapDisplaySelect lcdcFlag = 3
	spriteSize             lcdcFlag = 2
	spriteDisplayEnable    lcdcFlag = 1
	bgDisplay              lcdcFlag = 0
)

type lcdc uint8

func readLCDC(mem Memory) lcdc {
	return lcdc(mem.Read(addr.LCDC))
}

func (l lcdc) isSet(flag lcdcFlag) bool {
	return bit.IsSet(uint8(flag), uint8(l))
}

func (l lcdc) spriteHeight() int {
	if l.isSet(spriteSize) {
		return 16
	}
	return 8
}

func (l lcdc) bgTileMap() uint16 {
	if l.isSet(bgTileMapDisplaySelect) {
		return addr.TileMap1
	}
	return addr.TileMap0
}

func (l lcdc) windowTileMap() uint16 {
	if l.isSet(windowTileMapSelect) {
		return addr.TileMap1
	}
	return addr.TileMap0
}

// tileData returns the base address used for background and window tiles, and
// whether tile ids index it as signed values.
func (l lcdc) tileData() (base uint16, signed bool) {
	if l.isSet(bgWindowTileDataSelect) {
		return addr.TileData0, false
	}
	return addr.TileData2, true
}

// windowEnabled reports whether the window layer may be drawn at all. On DMG,
// clearing the BG bit also hides the window.
func (l lcdc) windowEnabled(color bool) bool {
	if !l.isSet(windowDisplayEnable) {
		return false
	}
	return color || l.isSet(bgDisplay)
}
