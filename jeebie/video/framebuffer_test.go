package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/jeebie-ppu/jeebie/state"
)

func TestFrameBufferDoubleBuffering(t *testing.T) {
	fb := NewFrameBuffer()
	require.Len(t, fb.ToSlice(), FramebufferWidth*FramebufferHeight)
	assert.Equal(t, uint32(WhiteColor), fb.GetPixel(159, 143))

	fb.SetPixel(3, 4, BlackColor)
	assert.Equal(t, uint32(BlackColor), fb.BackPixel(3, 4))
	assert.Equal(t, uint32(WhiteColor), fb.GetPixel(3, 4), "readers never see a frame in progress")

	fb.Swap()
	assert.Equal(t, uint32(BlackColor), fb.GetPixel(3, 4))
	assert.Equal(t, uint32(BlackColor), fb.ToSlice()[4*FramebufferWidth+3])
	assert.Equal(t, uint32(WhiteColor), fb.BackPixel(3, 4))

	fb.Fill(DarkGreyColor)
	assert.Equal(t, uint32(BlackColor), fb.GetPixel(3, 4))
	fb.Swap()
	assert.Equal(t, uint32(DarkGreyColor), fb.GetPixel(0, 0))
}

func TestFrameBufferChecksum(t *testing.T) {
	a, b := NewFrameBuffer(), NewFrameBuffer()
	assert.Equal(t, a.Checksum(), b.Checksum())

	a.SetPixel(80, 72, LightGreyColor)
	assert.Equal(t, a.Checksum(), b.Checksum(), "only the front buffer is hashed")

	a.Swap()
	assert.NotEqual(t, a.Checksum(), b.Checksum())

	b.SetPixel(80, 72, LightGreyColor)
	b.Swap()
	assert.Equal(t, a.Checksum(), b.Checksum())
}

func TestFrameBufferStateRoundTrip(t *testing.T) {
	original := NewFrameBuffer()
	original.SetPixel(1, 1, BlackColor)
	original.Swap()
	original.SetPixel(2, 2, DarkGreyColor)

	s := state.New()
	original.Save(s)
	require.Len(t, s.Bytes(), 2*4*FramebufferWidth*FramebufferHeight)
	front := (1*FramebufferWidth + 1) * 4
	assert.Equal(t, []byte{0xFF, 0x00, 0x00, 0x00}, s.Bytes()[front:front+4], "pixels are stored little-endian")

	restored := NewFrameBuffer()
	loaded := state.FromBytes(s.Bytes())
	restored.Load(loaded)
	require.NoError(t, loaded.Err())

	assert.Equal(t, original.ToSlice(), restored.ToSlice())
	assert.Equal(t, original.BackPixel(2, 2), restored.BackPixel(2, 2))
}
