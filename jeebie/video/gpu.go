package video

import (
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie-ppu/jeebie/addr"
	"github.com/valerio/jeebie-ppu/jeebie/bit"
	"github.com/valerio/jeebie-ppu/jeebie/state"
)

type GpuMode int

// modes as reported in STAT bits 0-1
const (
	hblank GpuMode = iota
	vblank
	oamRead
	vramRead
)

func (m GpuMode) String() string {
	switch m {
	case hblank:
		return "hblank"
	case vblank:
		return "vblank"
	case oamRead:
		return "oam-search"
	case vramRead:
		return "pixel-transfer"
	default:
		return "unknown"
	}
}

const (
	oamScanlineCycles = 80
	scanlineCycles    = 456
	visibleLines      = 144
	totalLines        = 154
	// FrameCycles is the number of dots in a full frame, VBlank included.
	FrameCycles = scanlineCycles * totalLines
)

// STAT interrupt source selection bits
const (
	statHBlankSource = 3
	statVBlankSource = 4
	statOAMSource    = 5
	statLYCSource    = 6
)

// GPU is the scanline scheduler: it walks the mode 2/3/0/1 sequence, runs
// OamSearch and PixelTransfer at the right time, publishes LY and STAT, and
// presents the frame buffer at VBlank.
type GPU struct {
	memory      Bus
	framebuffer *FrameBuffer
	oamSearch   *OamSearch
	transfer    *PixelTransfer
	logger      *slog.Logger

	line      uint8
	mode      GpuMode
	cycles    int
	mode3Dots int
	lcdOn     bool
	statLine  bool
	frames    uint64
}

func NewGpu(memory Bus, config Config) *GPU {
	fb := NewFrameBuffer()
	return &GPU{
		memory:      memory,
		framebuffer: fb,
		oamSearch:   NewOamSearch(memory, config),
		transfer:    NewPixelTransfer(memory, fb, config),
		logger:      config.logger(),
		mode:        hblank,
	}
}

func (g *GPU) GetFrameBuffer() *FrameBuffer {
	return g.framebuffer
}

// Frames returns the number of frames presented so far.
func (g *GPU) Frames() uint64 {
	return g.frames
}

// Mode3Dots returns how long the last transfer phase actually took, to be
// compared with OamSearch's estimate.
func (g *GPU) Mode3Dots() int {
	return g.mode3Dots
}

// Tick simulates gpu behaviour for a certain amount of dots.
func (g *GPU) Tick(cycles int) {
	for range cycles {
		g.step()
	}
}

// RunFrame ticks until the next frame is presented. With the LCD off it
// returns after one frame worth of dots.
func (g *GPU) RunFrame() {
	start := g.frames
	for range FrameCycles {
		g.step()
		if g.frames != start {
			return
		}
	}
}

func (g *GPU) step() {
	if !readLCDC(g.memory).isSet(lcdDisplayEnable) {
		if g.lcdOn {
			g.turnOff()
		}
		return
	}
	if !g.lcdOn {
		g.turnOn()
	}

	g.cycles++

	switch g.mode {
	case oamRead:
		if g.cycles >= oamScanlineCycles {
			g.transfer.Start(g.oamSearch.Slots())
			g.setMode(vramRead)
		}
	case vramRead:
		if g.transfer.Tick() {
			return
		}
		g.mode3Dots = g.transfer.Dots()
		// the estimate sizes the phase, the pipeline may only extend it
		if g.cycles-oamScanlineCycles >= g.oamSearch.Mode3Duration() {
			g.setMode(hblank)
		}
	case hblank:
		if g.cycles >= scanlineCycles {
			g.nextLine()
		}
	case vblank:
		if g.cycles >= scanlineCycles {
			g.nextLine()
		}
	}
}

func (g *GPU) nextLine() {
	g.cycles = 0
	g.line++

	switch {
	case g.line == visibleLines:
		g.setLY(g.line)
		g.setMode(vblank)
		g.memory.RequestInterrupt(addr.VBlankInterrupt)
		g.framebuffer.Swap()
		g.frames++
	case g.line == totalLines:
		g.line = 0
		g.setLY(0)
		g.startOAMSearch()
	case g.line < visibleLines:
		g.setLY(g.line)
		g.startOAMSearch()
	default:
		g.setLY(g.line)
	}
}

func (g *GPU) startOAMSearch() {
	g.oamSearch.Scan(int(g.line))
	g.setMode(oamRead)
}

func (g *GPU) turnOn() {
	g.logger.Debug("LCD turned on")
	g.lcdOn = true
	g.line = 0
	g.cycles = 0
	g.setLY(0)
	g.startOAMSearch()
}

// turnOff blanks the screen and parks the scheduler at LY 0, mode 0.
func (g *GPU) turnOff() {
	g.logger.Debug("LCD turned off", "line", g.line, "frames", g.frames)
	g.lcdOn = false
	g.line = 0
	g.cycles = 0
	g.setLY(0)
	g.setMode(hblank)
	g.framebuffer.Fill(WhiteColor)
	g.framebuffer.Swap()
	g.framebuffer.Fill(WhiteColor)
}

func (g *GPU) setLY(line uint8) {
	g.memory.SetLY(line)
	g.updateSTAT()
}

func (g *GPU) setMode(mode GpuMode) {
	g.mode = mode
	g.updateSTAT()
}

// updateSTAT publishes mode and coincidence bits and raises the STAT
// interrupt on a rising edge of the combined interrupt line.
func (g *GPU) updateSTAT() {
	coincidence := g.memory.Read(addr.LYC) == g.line
	value := uint8(g.mode)
	if coincidence {
		value = bit.Set(2, value)
	}
	g.memory.SetSTAT(value)

	stat := g.memory.Read(addr.STAT)
	statLine := (coincidence && bit.IsSet(statLYCSource, stat)) ||
		(g.mode == hblank && bit.IsSet(statHBlankSource, stat)) ||
		(g.mode == vblank && bit.IsSet(statVBlankSource, stat)) ||
		(g.mode == oamRead && bit.IsSet(statOAMSource, stat))

	if statLine && !g.statLine {
		g.memory.RequestInterrupt(addr.LCDSTATInterrupt)
	}
	g.statLine = statLine
}

func (g *GPU) Save(s *state.State) {
	s.Write8(g.line)
	s.Write8(uint8(g.mode))
	s.Write16(uint16(g.cycles))
	s.Write16(uint16(g.mode3Dots))
	s.WriteBool(g.lcdOn)
	s.WriteBool(g.statLine)
	s.Write32(uint32(g.frames))
	g.oamSearch.Save(s)
	g.transfer.Save(s)
	g.framebuffer.Save(s)
}

// Load restores a snapshot taken by Save. A truncated snapshot is reported as
// state.ErrShortRead.
func (g *GPU) Load(s *state.State) error {
	g.line = s.Read8()
	g.mode = GpuMode(s.Read8() & 0x03)
	g.cycles = int(s.Read16())
	g.mode3Dots = int(s.Read16())
	g.lcdOn = s.ReadBool()
	g.statLine = s.ReadBool()
	g.frames = uint64(s.Read32())
	g.oamSearch.Load(s)
	g.transfer.Load(s)
	g.transfer.Resume(g.oamSearch.Slots())
	g.framebuffer.Load(s)
	if err := s.Err(); err != nil {
		return fmt.Errorf("restoring video state: %w", err)
	}
	return nil
}
