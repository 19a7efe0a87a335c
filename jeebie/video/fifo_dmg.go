package video

import "github.com/valerio/jeebie-ppu/jeebie/addr"

// DmgPixelFifo implements the monochrome priority rules.
//
// Sprite to sprite: the sprite with the lower X coordinate wins, and on equal
// X the lower OAM index wins, see https://gbdev.io/pandocs/OAM.html#drawing-priority.
//
// Sprite to background: a sprite with the behind-background attribute only
// shows over background color 0. Sprite color 0 is always transparent.
type DmgPixelFifo struct {
	pixelQueues
	mem Memory
}

func NewDmgPixelFifo(mem Memory) *DmgPixelFifo {
	return &DmgPixelFifo{mem: mem}
}

func (f *DmgPixelFifo) Enqueue8Pixels(line PixelLine, _ TileAttributes) {
	for _, p := range line {
		f.enqueue(pixelMeta{bgColor: p})
	}
}

func (f *DmgPixelFifo) EnqueueBlank() {
	for range pixelsPerTile {
		f.enqueue(pixelMeta{bgBlank: true})
	}
}

func (f *DmgPixelFifo) enqueue(meta pixelMeta) {
	meta.sprite = f.carried(f.Len())
	f.push(f.resolve(&meta), meta)
}

func (f *DmgPixelFifo) SetOverlay(line PixelLine, offset int, attrs TileAttributes, oamIndex int, spriteX uint8) {
	for j := offset; j < len(line); j++ {
		p := line[j]
		if p == 0 {
			continue
		}

		i := j - offset
		meta := f.meta.get(i)
		if meta.sprite.present && !dmgSpriteWins(spriteX, uint8(oamIndex), meta.sprite) {
			continue
		}

		meta.sprite = spritePixel{
			present:  true,
			color:    p,
			palette:  attrs.DMGPalette(),
			behind:   attrs.Priority(),
			oamIndex: uint8(oamIndex),
			x:        spriteX,
		}
		f.update(i, f.resolve(&meta), meta)
	}
}

// dmgSpriteWins reports whether a new sprite takes a position owned by another.
func dmgSpriteWins(x, oamIndex uint8, owner spritePixel) bool {
	if x != owner.x {
		return x < owner.x
	}
	return oamIndex < owner.oamIndex
}

func (f *DmgPixelFifo) resolve(meta *pixelMeta) uint8 {
	s := meta.sprite
	if !s.present || (s.behind && meta.bgColor != 0) {
		return meta.background()
	}
	return meta.foreground()
}

func (f *DmgPixelFifo) Dequeue() GBColor {
	p, meta := f.pop()

	switch meta.origin {
	case originBlank:
		return ByteToColor(0)
	case originSprite:
		register := addr.OBP0
		if meta.palette == 1 {
			register = addr.OBP1
		}
		return ByteToColor(applyPalette(f.mem.Read(register), p))
	default:
		return ByteToColor(applyPalette(f.mem.Read(addr.BGP), p))
	}
}
