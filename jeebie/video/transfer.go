package video

import (
	"github.com/valerio/jeebie-ppu/jeebie/addr"
	"github.com/valerio/jeebie-ppu/jeebie/state"
)

// windowXOffset is the difference between WX and the screen column where the
// window starts.
const windowXOffset = 7

// PixelTransfer drives mode 3 for one scanline: it clocks the fetcher, decides
// when to interrupt it for sprites or the window, and moves pixels from the
// FIFO to the frame buffer, one per dot.
type PixelTransfer struct {
	mem         Memory
	fifo        PixelFifo
	fetcher     *Fetcher
	framebuffer *FrameBuffer
	color       bool

	slots []SpriteSlot
	line  uint8

	x          int
	dropped    int
	dropTarget int
	dots       int

	// window state, windowLine survives across scanlines
	window     bool
	windowLine int
	windowUsed bool
	lastLY     int
}

func NewPixelTransfer(mem Memory, framebuffer *FrameBuffer, config Config) *PixelTransfer {
	fifo := NewPixelFifo(mem, config)
	return &PixelTransfer{
		mem:         mem,
		fifo:        fifo,
		fetcher:     NewFetcher(mem, fifo, config),
		framebuffer: framebuffer,
		color:       config.isColor(),
		lastLY:      -1,
	}
}

// Start prepares the transfer of the scanline currently in LY, with the
// sprites selected by OamSearch. Any progress from a previous call is reset.
func (t *PixelTransfer) Start(slots []SpriteSlot) {
	t.slots = slots
	t.x = 0
	t.dropped = 0
	t.dots = 0
	t.window = false

	ly := t.mem.Read(addr.LY)
	t.line = ly
	t.advanceWindowLine(int(ly))

	t.dropTarget = int(t.mem.Read(addr.SCX) % 8)
	t.fifo.Clear()

	l := readLCDC(t.mem)
	if t.color || l.isSet(bgDisplay) {
		t.startBackground(l)
	} else {
		t.fetcher.Disable()
	}
}

// advanceWindowLine moves the window's own line counter. It only advances
// after a line that actually drew the window, and resets when LY jumps back
// (new frame, or the LCD was switched off and on).
func (t *PixelTransfer) advanceWindowLine(ly int) {
	switch {
	case ly < t.lastLY:
		t.windowLine = 0
		t.windowUsed = false
	case ly > t.lastLY:
		if t.windowUsed {
			t.windowLine++
		}
		t.windowUsed = false
	}
	t.lastLY = ly
}

func (t *PixelTransfer) startBackground(l lcdc) {
	scx := t.mem.Read(addr.SCX)
	scy := t.mem.Read(addr.SCY)

	y := uint16(t.line+scy) & 0xFF
	mapAddress := l.bgTileMap() + (y/pixelsPerTile)*tileMapWidth
	base, signed := l.tileData()
	t.fetcher.Start(mapAddress, base, scx/pixelsPerTile, signed, uint8(y%pixelsPerTile))
}

func (t *PixelTransfer) startWindow(l lcdc) {
	t.window = true
	t.windowUsed = true

	line := uint16(t.windowLine)
	mapAddress := l.windowTileMap() + (line/pixelsPerTile)*tileMapWidth
	base, signed := l.tileData()

	t.fifo.RestartBackground()
	t.fetcher.Start(mapAddress, base, 0, signed, uint8(line%pixelsPerTile))

	// with WX < 7 the window starts past the left edge and its first pixels
	// are thrown away, replacing any pending fine scroll
	t.dropped = 0
	t.dropTarget = 0
	if wx := int(t.mem.Read(addr.WX)); wx < windowXOffset {
		t.dropTarget = windowXOffset - wx
	}
}

func (t *PixelTransfer) windowStartsHere(l lcdc) bool {
	if t.window || !l.windowEnabled(t.color) {
		return false
	}
	wy := t.mem.Read(addr.WY)
	wx := t.mem.Read(addr.WX)
	if t.line < wy || wx > windowMaxX {
		return false
	}
	return t.x == max(int(wx)-windowXOffset, 0)
}

// Tick advances the transfer by one dot. It returns false once all 160
// pixels of the line have been written.
func (t *PixelTransfer) Tick() bool {
	if t.x >= FramebufferWidth {
		return false
	}
	t.dots++

	t.fetcher.Tick()
	if t.fetcher.SpriteInProgress() {
		// sprite fetch stall
		return true
	}

	l := readLCDC(t.mem)
	if t.windowStartsHere(l) {
		t.startWindow(l)
		return true
	}

	// keep at least one strip queued so sprites always have pixels to merge into
	if t.fifo.Len() <= pixelsPerTile {
		if t.fetcher.Disabled() {
			t.fifo.EnqueueBlank()
		}
		return true
	}

	if t.dropped < t.dropTarget {
		t.fifo.DropPixel()
		t.dropped++
		return true
	}

	if l.isSet(spriteDisplayEnable) && t.scheduleSprite() {
		return true
	}

	t.framebuffer.SetPixel(uint(t.x), uint(t.line), t.fifo.Dequeue())
	t.x++
	return t.x < FramebufferWidth
}

// scheduleSprite hands the fetcher the next sprite starting at the current X,
// if any. At X=0 this includes sprites hanging off the left edge, whose hidden
// leading pixels are skipped.
func (t *PixelTransfer) scheduleSprite() bool {
	var next *SpriteSlot
	for i := range t.slots {
		s := &t.slots[i]
		if !s.Enabled() {
			continue
		}

		screenX := s.ScreenX()
		if t.x == 0 && screenX <= -pixelsPerTile {
			// fully hidden
			s.Disable()
			continue
		}
		if screenX != t.x && !(t.x == 0 && screenX < 0) {
			continue
		}

		if next == nil {
			next = s
			if !t.color {
				// slots are in OAM order already
				break
			}
			continue
		}
		// leftmost first, then OAM order
		if screenX < next.ScreenX() {
			next = s
		}
	}

	if next == nil {
		return false
	}

	next.Latch(t.mem)
	next.Disable()
	t.fetcher.AddSprite(next, max(-next.ScreenX(), 0), next.Index)
	return true
}

// X returns the number of pixels committed on the current line.
func (t *PixelTransfer) X() int {
	return t.x
}

// Dropped returns how many pixels were discarded for fine scroll or window
// clipping since the last restart of the background.
func (t *PixelTransfer) Dropped() int {
	return t.dropped
}

// Dots returns the number of dots spent on the current line so far.
func (t *PixelTransfer) Dots() int {
	return t.dots
}

// WindowLine returns the window row drawn on the current line.
func (t *PixelTransfer) WindowLine() int {
	return t.windowLine
}

// WindowActive reports whether the fetcher switched to the window on this line.
func (t *PixelTransfer) WindowActive() bool {
	return t.window
}

// Save captures the driver counters, the fetcher and the FIFO contents. The
// sprite slots belong to OamSearch and are saved there.
func (t *PixelTransfer) Save(s *state.State) {
	s.Write8(t.line)
	s.Write16(uint16(t.x))
	s.Write8(uint8(t.dropped))
	s.Write8(uint8(t.dropTarget))
	s.Write16(uint16(t.dots))
	s.WriteBool(t.window)
	s.Write16(uint16(t.windowLine))
	s.WriteBool(t.windowUsed)
	s.Write16(uint16(int16(t.lastLY)))
	t.fetcher.Save(s)
	t.fifo.Save(s)
}

func (t *PixelTransfer) Load(s *state.State) {
	t.line = s.Read8()
	t.x = int(s.Read16())
	t.dropped = int(s.Read8())
	t.dropTarget = int(s.Read8())
	t.dots = int(s.Read16())
	t.window = s.ReadBool()
	t.windowLine = int(s.Read16())
	t.windowUsed = s.ReadBool()
	t.lastLY = int(int16(s.Read16()))
	t.fetcher.Load(s)
	t.fifo.Load(s)
}

// Resume attaches the sprite slots restored by OamSearch after a Load.
func (t *PixelTransfer) Resume(slots []SpriteSlot) {
	t.slots = slots
}
