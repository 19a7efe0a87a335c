package main

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/valerio/jeebie-ppu/jeebie/render"
	"github.com/valerio/jeebie-ppu/jeebie/video"
)

// frameImage converts RGBA pixels (red in the most significant byte) to an image.
func frameImage(frame []uint32, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			pixel := frame[y*width+x]
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(pixel >> 24),
				G: uint8(pixel >> 16),
				B: uint8(pixel >> 8),
				A: uint8(pixel),
			})
		}
	}
	return img
}

func saveFramePNG(frame []uint32, width, height int, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, frameImage(frame, width, height)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return file.Close()
}

func saveLayers(layers *video.RenderLayers, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create layer directory: %w", err)
	}
	for name, layer := range map[string]*video.LayerFramebuffer{
		"background.png": layers.Background,
		"window.png":     layers.Window,
	} {
		path := filepath.Join(dir, name)
		if err := saveFramePNG(layer.Buffer, layer.Width, layer.Height, path); err != nil {
			return err
		}
	}
	return nil
}

// saveFrameSnapshot saves the current frame as a text representation
func saveFrameSnapshot(fb *video.FrameBuffer, frames uint64, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	writeSnapshot(w, fb, frames)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return file.Close()
}

func writeSnapshot(w *bufio.Writer, fb *video.FrameBuffer, frames uint64) {
	fmt.Fprintf(w, "# Game Boy Frame Snapshot\n")
	fmt.Fprintf(w, "# Frame: %d, Checksum: %016x\n", frames, fb.Checksum())
	fmt.Fprintf(w, "# Resolution: %dx%d pixels, two rows per line\n", video.FramebufferWidth, video.FramebufferHeight)
	fmt.Fprintf(w, "#\n")

	for _, line := range render.RenderFrameToHalfBlocks(fb.ToSlice(), video.FramebufferWidth, video.FramebufferHeight) {
		fmt.Fprintln(w, line)
	}
}
