package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/jeebie-ppu/jeebie/addr"
	"github.com/valerio/jeebie-ppu/jeebie/memory"
)

func newDmgFifo() (*memory.MMU, *DmgPixelFifo) {
	mmu := memory.New()
	mmu.Write(addr.BGP, defaultPalette)
	mmu.Write(addr.OBP0, 0xFF) // every sprite color is black
	mmu.Write(addr.OBP1, 0x55) // every sprite color is light grey
	return mmu, NewDmgPixelFifo(mmu)
}

func solid(index uint8) PixelLine {
	var line PixelLine
	for i := range line {
		line[i] = index
	}
	return line
}

func dequeueAll(fifo PixelFifo, n int) []GBColor {
	out := make([]GBColor, 0, n)
	for range n {
		out = append(out, fifo.Dequeue())
	}
	return out
}

func TestDmgSpriteOverBackground(t *testing.T) {
	tests := []struct {
		name   string
		bg     uint8
		sprite uint8
		attrs  TileAttributes
		want   GBColor
	}{
		{"sprite above background", 2, 1, 0x00, BlackColor},
		{"behind sprite hidden by non-zero background", 2, 1, 0x80, DarkGreyColor},
		{"behind sprite shows over background color 0", 0, 1, 0x80, BlackColor},
		{"transparent sprite pixel", 2, 0, 0x00, DarkGreyColor},
		{"second object palette", 3, 2, 0x10, LightGreyColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, fifo := newDmgFifo()
			fifo.Enqueue8Pixels(solid(tt.bg), 0)
			fifo.Enqueue8Pixels(solid(tt.bg), 0)

			fifo.SetOverlay(solid(tt.sprite), 0, tt.attrs, 0, 8)

			assert.Equal(t, repeatColor(tt.want, 8), dequeueAll(fifo, 8))
			// the second strip was not touched
			assert.Equal(t, ByteToColor(applyPalette(defaultPalette, tt.bg)), fifo.Dequeue())
		})
	}
}

func TestDmgSpriteOverlapPriority(t *testing.T) {
	type overlay struct {
		color uint8
		attrs TileAttributes
		oam   int
		x     uint8
	}
	black := func(oam int, x uint8) overlay { return overlay{1, 0x00, oam, x} }
	grey := func(oam int, x uint8) overlay { return overlay{1, 0x10, oam, x} }

	tests := []struct {
		name     string
		overlays []overlay
		want     GBColor
	}{
		{"lower X wins when merged later", []overlay{black(5, 20), grey(7, 18)}, LightGreyColor},
		{"higher X never replaces", []overlay{black(5, 18), grey(2, 20)}, BlackColor},
		{"equal X, lower OAM index merged later", []overlay{black(5, 20), grey(2, 20)}, LightGreyColor},
		{"equal X, higher OAM index merged later", []overlay{black(2, 20), grey(5, 20)}, BlackColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, fifo := newDmgFifo()
			fifo.Enqueue8Pixels(solid(0), 0)
			fifo.Enqueue8Pixels(solid(0), 0)

			for _, o := range tt.overlays {
				fifo.SetOverlay(solid(o.color), 0, o.attrs, o.oam, o.x)
			}
			assert.Equal(t, repeatColor(tt.want, 8), dequeueAll(fifo, 8))
		})
	}
}

func TestDmgHiddenSpriteStillMasksOthers(t *testing.T) {
	_, fifo := newDmgFifo()
	fifo.Enqueue8Pixels(solid(2), 0)
	fifo.Enqueue8Pixels(solid(2), 0)

	// sprite A is behind the background and therefore invisible
	fifo.SetOverlay(solid(1), 0, 0x80, 0, 10)
	// sprite B would be visible but A has priority over it
	fifo.SetOverlay(solid(3), 0, 0x00, 1, 12)

	assert.Equal(t, repeatColor(DarkGreyColor, 8), dequeueAll(fifo, 8))
}

func TestDmgTransparentPixelsDoNotClaim(t *testing.T) {
	_, fifo := newDmgFifo()
	fifo.Enqueue8Pixels(solid(0), 0)
	fifo.Enqueue8Pixels(solid(0), 0)

	fifo.SetOverlay(PixelLine{1, 0, 1, 0, 1, 0, 1, 0}, 0, 0x00, 0, 8)
	fifo.SetOverlay(solid(1), 0, 0x10, 1, 9)

	want := []GBColor{
		BlackColor, LightGreyColor, BlackColor, LightGreyColor,
		BlackColor, LightGreyColor, BlackColor, LightGreyColor,
	}
	assert.Equal(t, want, dequeueAll(fifo, 8))
}

func TestDmgOverlayOffset(t *testing.T) {
	_, fifo := newDmgFifo()
	fifo.Enqueue8Pixels(solid(0), 0)
	fifo.Enqueue8Pixels(solid(0), 0)

	// three leading pixels are off screen, line[3] lands on the front
	fifo.SetOverlay(PixelLine{1, 1, 1, 0, 1, 0, 0, 1}, 3, 0x00, 0, 5)

	want := []GBColor{WhiteColor, BlackColor, WhiteColor, WhiteColor, BlackColor, WhiteColor}
	assert.Equal(t, want, dequeueAll(fifo, 6))
}

func TestDmgBlankPixels(t *testing.T) {
	mmu, fifo := newDmgFifo()
	mmu.Write(addr.BGP, 0xFF)

	fifo.EnqueueBlank()
	fifo.EnqueueBlank()
	fifo.SetOverlay(PixelLine{0, 0, 0, 0, 0, 0, 1, 1}, 0, 0x80, 0, 8)

	want := append(repeatColor(WhiteColor, 6), BlackColor, BlackColor)
	assert.Equal(t, want, dequeueAll(fifo, 8), "blank pixels ignore BGP and count as color 0")
}

func TestDmgPaletteReadAtDequeue(t *testing.T) {
	mmu, fifo := newDmgFifo()
	fifo.Enqueue8Pixels(solid(1), 0)
	fifo.Enqueue8Pixels(solid(1), 0)

	assert.Equal(t, LightGreyColor, fifo.Dequeue())
	mmu.Write(addr.BGP, 0x0C) // index 1 -> shade 3
	assert.Equal(t, BlackColor, fifo.Dequeue())
}
