package video

import (
	"github.com/valerio/jeebie-ppu/jeebie/addr"
	"github.com/valerio/jeebie-ppu/jeebie/state"
)

const (
	// oamEntries is the number of sprites held in OAM (0xFE00-0xFE9F).
	oamEntries = 40
	// MaxSpritesPerLine is the hardware limit of sprites selected per scanline.
	MaxSpritesPerLine = 10

	mode3BaseDots = 172
	mode3MaxDots  = 289
	windowPenalty = 6
	// windowMaxX is the largest WX value that still puts the window on screen.
	windowMaxX = 166
)

// OamSearch performs the mode 2 scan: it selects the sprites overlapping a
// scanline and estimates how long the following transfer phase will take.
type OamSearch struct {
	mem           Memory
	color         bool
	spritePenalty int

	slots    [MaxSpritesPerLine]SpriteSlot
	count    int
	duration int
}

func NewOamSearch(mem Memory, config Config) *OamSearch {
	return &OamSearch{
		mem:           mem,
		color:         config.isColor(),
		spritePenalty: config.SpritePenalty,
	}
}

// Scan walks OAM in index order and keeps the first 10 sprites whose rows
// cover the scanline. The X coordinate plays no part in the selection, so
// off-screen sprites still count towards the limit.
func (o *OamSearch) Scan(scanline int) []SpriteSlot {
	l := readLCDC(o.mem)
	spriteHeight := l.spriteHeight()

	o.count = 0
	for i := range oamEntries {
		baseAddr := addr.OAMStart + uint16(i*4)

		// sprite is visible if: spriteY <= scanline < spriteY + height
		spriteY := int(o.mem.Read(baseAddr)) - 16
		if scanline < spriteY || scanline >= spriteY+spriteHeight {
			continue
		}

		o.slots[o.count] = SpriteSlot{
			X:       o.mem.Read(baseAddr + 1),
			Y:       o.mem.Read(baseAddr),
			Address: baseAddr,
			Index:   i,
			enabled: true,
		}
		o.count++

		if o.count == MaxSpritesPerLine {
			break
		}
	}

	o.duration = o.mode3Duration(l, scanline)
	return o.Slots()
}

// Slots returns the sprites selected by the last Scan, in OAM index order.
func (o *OamSearch) Slots() []SpriteSlot {
	return o.slots[:o.count]
}

// Mode3Duration returns the estimated transfer phase length for the last
// scanned line, in dots.
func (o *OamSearch) Mode3Duration() int {
	return o.duration
}

func (o *OamSearch) mode3Duration(l lcdc, scanline int) int {
	scx := o.mem.Read(addr.SCX)

	duration := mode3BaseDots + int(scx%8)
	if l.isSet(spriteDisplayEnable) {
		duration += o.count * o.spritePenalty
	}

	wx := o.mem.Read(addr.WX)
	wy := o.mem.Read(addr.WY)
	if l.windowEnabled(o.color) && scanline >= int(wy) && wx <= windowMaxX {
		if wx == 0 && scx%8 != 0 {
			duration += windowPenalty - 1
		} else {
			duration += windowPenalty
		}
	}

	return min(duration, mode3MaxDots)
}

func (o *OamSearch) Save(s *state.State) {
	s.Write8(uint8(o.count))
	s.Write16(uint16(o.duration))
	for i := range o.slots {
		o.slots[i].Save(s)
	}
}

func (o *OamSearch) Load(s *state.State) {
	o.count = int(s.Read8())
	o.duration = int(s.Read16())
	for i := range o.slots {
		o.slots[i].Load(s)
	}
	o.count = min(o.count, MaxSpritesPerLine)
}
