package video

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valerio/jeebie-ppu/jeebie/addr"
	"github.com/valerio/jeebie-ppu/jeebie/memory"
)

const defaultPalette = 0xE4

// fillTile writes the same row pattern to all 8 rows of the tile at tileAddr.
func fillTile(mmu *memory.MMU, tileAddr uint16, low, high byte) {
	for row := range uint16(8) {
		mmu.Write(tileAddr+row*2, low)
		mmu.Write(tileAddr+row*2+1, high)
	}
}

// setSprite writes an OAM entry using screen coordinates.
func setSprite(mmu *memory.MMU, index int, screenX, screenY int, tile, flags byte) {
	base := addr.OAMStart + uint16(index*4)
	mmu.Write(base, byte(screenY+16))
	mmu.Write(base+1, byte(screenX+8))
	mmu.Write(base+2, tile)
	mmu.Write(base+3, flags)
}

// writeColor stores one BGR555 color in CGB palette RAM.
func writeColor(mmu *memory.MMU, object bool, palette, index uint8, color uint16) {
	selector, data := addr.BCPS, addr.BCPD
	if object {
		selector, data = addr.OCPS, addr.OCPD
	}
	mmu.Write(selector, 0x80|(palette*8+index*2))
	mmu.Write(data, byte(color))
	mmu.Write(data, byte(color>>8))
}

const (
	bgr555Red   uint16 = 0x001F
	bgr555Green uint16 = 0x03E0
	bgr555Blue  uint16 = 0x7C00

	rgbaRed   GBColor = 0xFF0000FF
	rgbaGreen GBColor = 0x00FF00FF
	rgbaBlue  GBColor = 0x0000FFFF
)

func newTransfer(mmu *memory.MMU, model Model) (*PixelTransfer, *FrameBuffer) {
	fb := NewFrameBuffer()
	return NewPixelTransfer(mmu, fb, DefaultConfig(model)), fb
}

// runLine scans OAM for the current LY and ticks the transfer to completion.
func runLine(t *testing.T, mmu *memory.MMU, transfer *PixelTransfer) int {
	t.Helper()
	search := NewOamSearch(mmu, DefaultConfig(ModelDMG))
	transfer.Start(search.Scan(int(mmu.Read(addr.LY))))
	finishLine(t, transfer)
	return transfer.Dots()
}

func finishLine(t *testing.T, transfer *PixelTransfer) {
	t.Helper()
	for range 1000 {
		if !transfer.Tick() {
			return
		}
	}
	require.FailNow(t, "transfer did not complete", "x=%d after 1000 dots", transfer.X())
}

// backRow returns the colors written on a line of the frame being drawn.
func backRow(fb *FrameBuffer, y uint, from, to uint) []GBColor {
	row := make([]GBColor, 0, to-from)
	for x := from; x < to; x++ {
		row = append(row, GBColor(fb.BackPixel(x, y)))
	}
	return row
}

func repeatColor(c GBColor, n int) []GBColor {
	out := make([]GBColor, n)
	for i := range out {
		out[i] = c
	}
	return out
}
