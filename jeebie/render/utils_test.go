package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/jeebie-ppu/jeebie/video"
)

func TestPixelToShade(t *testing.T) {
	tests := []struct {
		pixel uint32
		want  int
	}{
		{uint32(video.BlackColor), 0},
		{uint32(video.DarkGreyColor), 1},
		{uint32(video.LightGreyColor), 2},
		{uint32(video.WhiteColor), 3},
		// pure red: luma 76
		{0xFF0000FF, 1},
		// pure green: luma 149
		{0x00FF00FF, 2},
		// pure blue: luma 29
		{0x0000FFFF, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PixelToShade(tt.pixel), "pixel 0x%08X", tt.pixel)
	}
}

func TestGetHalfBlockChar(t *testing.T) {
	assert.Equal(t, '█', GetHalfBlockChar(2, 2))
	assert.Equal(t, '▄', GetHalfBlockChar(3, 0))
	assert.Equal(t, '▀', GetHalfBlockChar(0, 3))
	assert.Equal(t, '▀', GetHalfBlockChar(1, 2))
}

func TestRenderFrameToHalfBlocks(t *testing.T) {
	assert.Empty(t, RenderFrameToHalfBlocks(make([]uint32, 3), 2, 2))

	white, black := uint32(video.WhiteColor), uint32(video.BlackColor)
	frame := []uint32{
		black, white,
		black, black,
		white, black,
	}

	lines := RenderFrameToHalfBlocks(frame, 2, 3)
	assert.Equal(t, []string{"█▄", "█▀"}, lines)

	fb := video.NewFrameBuffer()
	lines = RenderFrameToHalfBlocks(fb.ToSlice(), video.FramebufferWidth, video.FramebufferHeight)
	assert.Len(t, lines, video.FramebufferHeight/2)
}
