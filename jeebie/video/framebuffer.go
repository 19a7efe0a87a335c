package video

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
	"github.com/valerio/jeebie-ppu/jeebie/state"
)

// GBColor is a packed RGBA color, red in the most significant byte.
type GBColor uint32

const (
	WhiteColor     GBColor = 0xFFFFFFFF
	LightGreyColor GBColor = 0x989898FF
	DarkGreyColor  GBColor = 0x4C4C4CFF
	BlackColor     GBColor = 0x000000FF
)

const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
)

// FrameBuffer is a double-buffered pixel surface. The pipeline writes the back
// buffer, readers only ever see the front buffer, and Swap exchanges them
// once a frame is complete.
type FrameBuffer struct {
	width  uint
	height uint
	front  []uint32
	back   []uint32
}

// NewFrameBuffer creates a frame buffer with the screen size, both buffers white.
func NewFrameBuffer() *FrameBuffer {
	size := FramebufferWidth * FramebufferHeight
	fb := &FrameBuffer{
		width:  FramebufferWidth,
		height: FramebufferHeight,
		front:  make([]uint32, size),
		back:   make([]uint32, size),
	}
	for i := range fb.front {
		fb.front[i] = uint32(WhiteColor)
		fb.back[i] = uint32(WhiteColor)
	}
	return fb
}

// GetPixel reads from the front buffer.
func (fb *FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.front[y*fb.width+x]
}

// SetPixel writes to the back buffer.
func (fb *FrameBuffer) SetPixel(x, y uint, color GBColor) {
	fb.back[y*fb.width+x] = uint32(color)
}

// BackPixel reads a pixel of the frame being drawn.
func (fb *FrameBuffer) BackPixel(x, y uint) uint32 {
	return fb.back[y*fb.width+x]
}

// Fill sets the whole back buffer to a single color.
func (fb *FrameBuffer) Fill(color GBColor) {
	for i := range fb.back {
		fb.back[i] = uint32(color)
	}
}

// Swap presents the back buffer.
func (fb *FrameBuffer) Swap() {
	fb.front, fb.back = fb.back, fb.front
}

// ToSlice returns the front buffer, row-major.
func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.front
}

// Checksum returns the xxhash64 digest of the front buffer.
func (fb *FrameBuffer) Checksum() uint64 {
	h := xxhash.New()
	row := make([]byte, 4*fb.width)
	for y := uint(0); y < fb.height; y++ {
		for x := uint(0); x < fb.width; x++ {
			binary.LittleEndian.PutUint32(row[x*4:], fb.front[y*fb.width+x])
		}
		h.Write(row)
	}
	return h.Sum64()
}

// Save writes both buffers, front first, as little-endian pixels.
func (fb *FrameBuffer) Save(s *state.State) {
	data := make([]byte, 4*len(fb.front))
	for _, buffer := range [][]uint32{fb.front, fb.back} {
		for i, pixel := range buffer {
			binary.LittleEndian.PutUint32(data[i*4:], pixel)
		}
		s.WriteData(data)
	}
}

func (fb *FrameBuffer) Load(s *state.State) {
	data := make([]byte, 4*len(fb.front))
	for _, buffer := range [][]uint32{fb.front, fb.back} {
		s.ReadData(data)
		if s.Err() != nil {
			return
		}
		for i := range buffer {
			buffer[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	}
}
