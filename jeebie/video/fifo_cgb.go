package video

// ColorPixelFifo implements the CGB priority rules.
//
// Sprite to sprite: only the OAM index matters, the lower index wins wherever
// the sprites overlap.
//
// Sprite to background, in order:
//  1. background color 0 never hides a sprite
//  2. with LCDC bit 0 cleared sprites always win (master priority)
//  3. a background tile with its priority attribute set wins
//  4. a sprite with the behind-background attribute loses
//  5. otherwise the sprite wins
//
// Reference: https://gbdev.io/pandocs/Tile_Maps.html#bg-to-obj-priority-in-cgb-mode
type ColorPixelFifo struct {
	pixelQueues
	mem Memory
}

func NewColorPixelFifo(mem Memory) *ColorPixelFifo {
	return &ColorPixelFifo{mem: mem}
}

func (f *ColorPixelFifo) Enqueue8Pixels(line PixelLine, attrs TileAttributes) {
	master := f.masterPriority()
	for _, p := range line {
		f.enqueue(pixelMeta{
			bgColor:    p,
			bgPalette:  attrs.ColorPalette(),
			bgPriority: attrs.Priority(),
		}, master)
	}
}

func (f *ColorPixelFifo) EnqueueBlank() {
	master := f.masterPriority()
	for range pixelsPerTile {
		f.enqueue(pixelMeta{bgBlank: true}, master)
	}
}

func (f *ColorPixelFifo) enqueue(meta pixelMeta, master bool) {
	meta.sprite = f.carried(f.Len())
	f.push(resolveColor(&meta, master), meta)
}

func (f *ColorPixelFifo) SetOverlay(line PixelLine, offset int, attrs TileAttributes, oamIndex int, spriteX uint8) {
	master := f.masterPriority()
	for j := offset; j < len(line); j++ {
		p := line[j]
		if p == 0 {
			continue
		}

		i := j - offset
		meta := f.meta.get(i)
		if meta.sprite.present && meta.sprite.oamIndex < uint8(oamIndex) {
			continue
		}

		meta.sprite = spritePixel{
			present:  true,
			color:    p,
			palette:  attrs.ColorPalette(),
			behind:   attrs.Priority(),
			oamIndex: uint8(oamIndex),
			x:        spriteX,
		}
		f.update(i, resolveColor(&meta, master), meta)
	}
}

func (f *ColorPixelFifo) masterPriority() bool {
	return readLCDC(f.mem).isSet(bgDisplay)
}

func resolveColor(meta *pixelMeta, master bool) uint8 {
	s := meta.sprite
	switch {
	case !s.present:
		return meta.background()
	case meta.bgColor == 0, !master:
		return meta.foreground()
	case meta.bgPriority, s.behind:
		return meta.background()
	default:
		return meta.foreground()
	}
}

func (f *ColorPixelFifo) Dequeue() GBColor {
	p, meta := f.pop()

	switch meta.origin {
	case originBlank:
		return WhiteColor
	case originSprite:
		return colorPaletteEntry(f.mem, true, meta.palette, p)
	default:
		return colorPaletteEntry(f.mem, false, meta.palette, p)
	}
}

