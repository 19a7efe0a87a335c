package render

import "github.com/valerio/jeebie-ppu/jeebie/video"

// SharedRenderUtils contains common rendering utilities for both terminal and snapshot rendering

// PixelToShade converts a pixel value to a shade level (0-3), 0 being black.
// Colors outside the monochrome set are bucketed by luminance.
func PixelToShade(pixel uint32) int {
	switch video.GBColor(pixel) {
	case video.BlackColor:
		return 0
	case video.DarkGreyColor:
		return 1
	case video.LightGreyColor:
		return 2
	case video.WhiteColor:
		return 3
	}
	r, g, b := channels(pixel)
	// Rec. 601 luma, integer weights summing to 1000
	luma := (299*r + 587*g + 114*b) / 1000
	return min(int(luma)/64, 3)
}

func channels(pixel uint32) (r, g, b uint32) {
	return (pixel >> 24) & 0xFF, (pixel >> 16) & 0xFF, (pixel >> 8) & 0xFF
}

// GetHalfBlockChar returns the appropriate half-block character for two shades
func GetHalfBlockChar(topShade, bottomShade int) rune {
	if topShade == bottomShade {
		// Both pixels same shade - use full block
		return '█'
	} else if topShade == 3 && bottomShade != 3 {
		// Top white, bottom not - use lower half block
		return '▄'
	} else if topShade != 3 && bottomShade == 3 {
		// Top not white, bottom white - use upper half block
		return '▀'
	} else {
		// Mixed shades - use upper half block with appropriate colors
		return '▀'
	}
}

// RenderFrameToHalfBlocks converts a frame buffer to half-block text representation
// Returns a slice of strings, one per text row (72 rows for 144 pixel rows)
func RenderFrameToHalfBlocks(frame []uint32, width, height int) []string {
	if len(frame) < width*height {
		// Handle incomplete frame buffer
		return []string{}
	}

	textHeight := height / 2
	if height%2 != 0 {
		textHeight++ // Add extra row if height is odd
	}

	lines := make([]string, textHeight)

	// Process two pixel rows at a time
	for textRow := 0; textRow < textHeight; textRow++ {
		line := make([]rune, width)

		for x := 0; x < width; x++ {
			topPixel, bottomPixel := pixelPair(frame, width, height, x, textRow)
			line[x] = GetHalfBlockChar(PixelToShade(topPixel), PixelToShade(bottomPixel))
		}

		lines[textRow] = string(line)
	}

	return lines
}

// pixelPair returns the two pixels covered by one text cell. Rows past the
// bottom edge read as white.
func pixelPair(frame []uint32, width, height, x, textRow int) (top, bottom uint32) {
	top, bottom = uint32(video.WhiteColor), uint32(video.WhiteColor)
	if row := textRow * 2; row < height {
		top = frame[row*width+x]
	}
	if row := textRow*2 + 1; row < height {
		bottom = frame[row*width+x]
	}
	return top, bottom
}
