package video

import "github.com/valerio/jeebie-ppu/jeebie/addr"

// tileMapPixels is the side of a full 32x32 tile map, in pixels.
const tileMapPixels = tileMapWidth * pixelsPerTile

// LayerFramebuffer represents a single rendering layer's framebuffer
type LayerFramebuffer struct {
	Buffer []uint32 // RGBA pixels, same format as main framebuffer
	Width  int
	Height int
}

func newLayer() *LayerFramebuffer {
	return &LayerFramebuffer{
		Buffer: make([]uint32, tileMapPixels*tileMapPixels),
		Width:  tileMapPixels,
		Height: tileMapPixels,
	}
}

// RenderLayers holds whole tile map renders of the background and window, for
// inspection outside the visible 160x144 area.
type RenderLayers struct {
	Background *LayerFramebuffer // 256x256 full tilemap
	Window     *LayerFramebuffer // 256x256 full tilemap
	color      bool
}

// NewRenderLayers creates a new set of render layer framebuffers
func NewRenderLayers(config Config) *RenderLayers {
	return &RenderLayers{
		Background: newLayer(),
		Window:     newLayer(),
		color:      config.isColor(),
	}
}

// Capture renders both tile maps as currently selected by LCDC, using the same
// tile addressing, attributes and palettes as the pixel pipeline. Scroll and
// window position are ignored.
func (r *RenderLayers) Capture(mem Memory) {
	l := readLCDC(mem)
	r.renderMap(mem, l, l.bgTileMap(), r.Background)
	r.renderMap(mem, l, l.windowTileMap(), r.Window)
}

func (r *RenderLayers) renderMap(mem Memory, l lcdc, mapAddress uint16, layer *LayerFramebuffer) {
	base, signed := l.tileData()
	bgp := mem.Read(addr.BGP)

	for ty := range uint16(tileMapWidth) {
		for tx := range uint16(tileMapWidth) {
			entry := mapAddress + ty*tileMapWidth + tx
			id := mem.ReadVRAM(0, entry)
			var attrs TileAttributes
			if r.color {
				attrs = TileAttributes(mem.ReadVRAM(1, entry))
			}

			for row := range uint16(pixelsPerTile) {
				line := row
				if attrs.FlipY() {
					line = pixelsPerTile - 1 - row
				}
				address := tileAddress(base, id, signed) + line*2
				tileRow := TileRow{
					Low:  mem.ReadVRAM(attrs.Bank(), address),
					High: mem.ReadVRAM(attrs.Bank(), address+1),
				}

				y := int(ty*pixelsPerTile + row)
				for i, p := range tileRow.Pixels(attrs.FlipX()) {
					var c GBColor
					if r.color {
						c = colorPaletteEntry(mem, false, attrs.ColorPalette(), p)
					} else {
						c = ByteToColor(applyPalette(bgp, p))
					}
					x := int(tx)*pixelsPerTile + i
					layer.Buffer[y*layer.Width+x] = uint32(c)
				}
			}
		}
	}
}
