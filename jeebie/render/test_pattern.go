package render

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/valerio/jeebie-ppu/jeebie/addr"
	"github.com/valerio/jeebie-ppu/jeebie/memory"
)

// Pattern is a synthetic scene drawn through the real pixel pipeline, used
// when no memory dump is available.
type Pattern int

const (
	PatternCheckerboard Pattern = iota
	PatternStripes
	PatternDiagonal
	PatternSprites
	testPatternCount
)

var patternNames = [...]string{
	PatternCheckerboard: "checkerboard",
	PatternStripes:      "stripes",
	PatternDiagonal:     "diagonal",
	PatternSprites:      "sprites",
}

func (p Pattern) String() string {
	if p >= 0 && p < testPatternCount {
		return patternNames[p]
	}
	return fmt.Sprintf("Pattern(%d)", int(p))
}

// ParsePattern looks a pattern up by name.
func ParsePattern(name string) (Pattern, error) {
	for i, n := range patternNames {
		if strings.EqualFold(n, name) {
			return Pattern(i), nil
		}
	}
	return 0, fmt.Errorf("unknown test pattern %q, expected one of %s", name, strings.Join(patternNames[:], ", "))
}

const (
	tileBlank = iota
	tileSolid
	tileStripes
	tileDiagonal
	tileBall

	spriteCount  = 10
	spriteRowY   = 56
	windowStartY = 120
)

var ballLow = [8]byte{0x3C, 0x7E, 0xFF, 0xFF, 0xFF, 0xFF, 0x7E, 0x3C}
var ballHigh = [8]byte{0x00, 0x18, 0x3C, 0x7E, 0x7E, 0x3C, 0x18, 0x00}

// LoadTestPattern programs tile data, tile maps, OAM and the LCD registers so
// the pipeline draws the given pattern. On CGB memory the color palettes are
// set up as well.
func LoadTestPattern(mmu *memory.MMU, pattern Pattern) {
	writeTiles(mmu)

	mmu.Write(addr.SCX, 0)
	mmu.Write(addr.SCY, 0)
	mmu.Write(addr.BGP, 0xE4)
	mmu.Write(addr.OBP0, 0xE4)
	mmu.Write(addr.OBP1, 0x1B)
	if mmu.IsCGB() {
		writePalettes(mmu)
	}

	lcdc := byte(0x91)
	switch pattern {
	case PatternCheckerboard:
		fillMap(mmu, addr.TileMap0, func(x, y int) byte { return byte((x + y) % 2) })
	case PatternStripes:
		fillMap(mmu, addr.TileMap0, func(x, y int) byte { return tileStripes })
	case PatternDiagonal:
		fillMap(mmu, addr.TileMap0, func(x, y int) byte { return tileDiagonal })
	case PatternSprites:
		lcdc = 0xF3
		mmu.Write(addr.BGP, 0x54)
		fillMap(mmu, addr.TileMap0, func(x, y int) byte { return byte((x + y) % 2) })
		fillMap(mmu, addr.TileMap1, func(x, y int) byte { return tileStripes })
		mmu.Write(addr.WX, 7)
		mmu.Write(addr.WY, windowStartY)
		for i := range spriteCount {
			base := addr.OAMStart + uint16(i*4)
			mmu.Write(base, byte(spriteRowY+16+(i%2)*4))
			mmu.Write(base+1, byte(8+i*12))
			mmu.Write(base+2, tileBall)
			mmu.Write(base+3, byte(i%2)<<4)
		}
	}
	mmu.Write(addr.LCDC, lcdc)
}

// AnimateTestPattern moves the scene to the given frame number.
func AnimateTestPattern(mmu *memory.MMU, pattern Pattern, frame int) {
	switch pattern {
	case PatternStripes:
		mmu.Write(addr.SCX, byte(frame))
	case PatternDiagonal:
		mmu.Write(addr.SCY, byte(frame))
	case PatternSprites:
		for i := range spriteCount {
			base := addr.OAMStart + uint16(i*4)
			mmu.Write(base+1, byte((i*12+frame)%176))
		}
	}
}

func writeTiles(mmu *memory.MMU) {
	for row := range uint16(8) {
		tile := func(id int) uint16 { return addr.TileData0 + uint16(id)*16 + row*2 }

		mmu.Write(tile(tileBlank), 0x00)
		mmu.Write(tile(tileBlank)+1, 0x00)
		mmu.Write(tile(tileSolid), 0xFF)
		mmu.Write(tile(tileSolid)+1, 0xFF)
		mmu.Write(tile(tileStripes), 0x00)
		mmu.Write(tile(tileStripes)+1, 0xF0)

		diagonal := bits.RotateLeft8(0xC0, -int(row))
		mmu.Write(tile(tileDiagonal), diagonal)
		mmu.Write(tile(tileDiagonal)+1, diagonal)

		mmu.Write(tile(tileBall), ballLow[row])
		mmu.Write(tile(tileBall)+1, ballHigh[row])
	}
}

func fillMap(mmu *memory.MMU, base uint16, tileAt func(x, y int) byte) {
	for y := range 32 {
		for x := range 32 {
			mmu.Write(base+uint16(y*32+x), tileAt(x, y))
		}
	}
}

var (
	bgColors  = [4]uint16{0x7FFF, 0x03E0, 0x7C00, 0x0000}
	objColors = [4]uint16{0x0000, 0x001F, 0x03FF, 0x0000}
)

func writePalettes(mmu *memory.MMU) {
	// palette 0 of each kind, auto-increment from index 0
	mmu.Write(addr.BCPS, 0x80)
	mmu.Write(addr.OCPS, 0x80)
	for i := range 4 {
		mmu.Write(addr.BCPD, byte(bgColors[i]))
		mmu.Write(addr.BCPD, byte(bgColors[i]>>8))
		mmu.Write(addr.OCPD, byte(objColors[i]))
		mmu.Write(addr.OCPD, byte(objColors[i]>>8))
	}
}
