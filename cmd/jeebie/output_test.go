package main

import (
	"bufio"
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/jeebie-ppu/jeebie/addr"
	"github.com/valerio/jeebie-ppu/jeebie/memory"
	"github.com/valerio/jeebie-ppu/jeebie/render"
	"github.com/valerio/jeebie-ppu/jeebie/timing"
	"github.com/valerio/jeebie-ppu/jeebie/video"
)

type countingLimiter struct {
	waits  int
	resets int
}

func (l *countingLimiter) WaitForNextFrame() { l.waits++ }
func (l *countingLimiter) Reset()            { l.resets++ }

func TestRunFramesWaitsBeforeEachFrame(t *testing.T) {
	mmu := memory.New()
	render.LoadTestPattern(mmu, render.PatternCheckerboard)
	gpu := video.NewGpu(mmu, video.DefaultConfig(video.ModelDMG))

	limiter := &countingLimiter{}
	var animated []int
	runFrames(gpu, 3, limiter, func(frame int) { animated = append(animated, frame) })

	assert.Equal(t, 3, limiter.waits)
	assert.Equal(t, []int{0, 1, 2}, animated)
	assert.Equal(t, uint64(3), gpu.Frames())
}

func TestRunFramesWithoutLimit(t *testing.T) {
	mmu := memory.New()
	render.LoadTestPattern(mmu, render.PatternStripes)
	gpu := video.NewGpu(mmu, video.DefaultConfig(video.ModelDMG))

	runFrames(gpu, 2, timing.NewNoOpLimiter(), func(int) {})
	assert.Equal(t, uint64(2), gpu.Frames())
	assert.NotZero(t, mmu.Read(addr.LCDC)&0x80)
}

func TestSaveFramePNG(t *testing.T) {
	fb := video.NewFrameBuffer()
	fb.SetPixel(1, 2, video.DarkGreyColor)
	fb.Swap()

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, saveFramePNG(fb.ToSlice(), video.FramebufferWidth, video.FramebufferHeight, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, video.FramebufferWidth, img.Bounds().Dx())

	r, g, b, a := img.At(1, 2).RGBA()
	assert.Equal(t, []uint32{0x4C4C, 0x4C4C, 0x4C4C, 0xFFFF}, []uint32{r, g, b, a})
}

func TestWriteSnapshot(t *testing.T) {
	fb := video.NewFrameBuffer()

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	writeSnapshot(w, fb, 3)
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "# Game Boy Frame Snapshot", lines[0])
	assert.Contains(t, lines[1], "Frame: 3")
	assert.Len(t, lines, 4+video.FramebufferHeight/2)
	assert.Equal(t, strings.Repeat("█", video.FramebufferWidth), lines[4])
}

func TestSaveLayers(t *testing.T) {
	layers := video.NewRenderLayers(video.DefaultConfig(video.ModelDMG))
	layers.Capture(memory.New())

	dir := filepath.Join(t.TempDir(), "layers")
	require.NoError(t, saveLayers(layers, dir))
	assert.FileExists(t, filepath.Join(dir, "background.png"))
	assert.FileExists(t, filepath.Join(dir, "window.png"))
}

func TestLoadDumps(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "dump.bin")
	require.NoError(t, os.WriteFile(dump, make([]byte, memory.DumpSize), 0o644))
	short := filepath.Join(dir, "short.bin")
	require.NoError(t, os.WriteFile(short, make([]byte, 16), 0o644))

	mmu := memory.NewCGB()
	require.NoError(t, loadDumps(mmu, dump, "", ""))
	assert.ErrorIs(t, loadDumps(mmu, short, "", ""), memory.ErrDumpSize)
	assert.ErrorIs(t, loadDumps(mmu, dump, short, ""), memory.ErrDumpSize)
	assert.ErrorIs(t, loadDumps(mmu, dump, "", short), memory.ErrDumpSize)
	assert.ErrorIs(t, loadDumps(mmu, filepath.Join(dir, "missing.bin"), "", ""), os.ErrNotExist)
}

func TestParseModel(t *testing.T) {
	model, err := parseModel("cgb")
	require.NoError(t, err)
	assert.Equal(t, video.ModelCGB, model)

	_, err = parseModel("gba")
	assert.Error(t, err)
}
