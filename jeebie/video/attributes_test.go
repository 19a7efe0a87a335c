package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTileAttributes(t *testing.T) {
	tests := []struct {
		attrs        TileAttributes
		priority     bool
		flipY        bool
		flipX        bool
		dmgPalette   uint8
		bank         uint8
		colorPalette uint8
	}{
		{0x00, false, false, false, 0, 0, 0},
		{0xFF, true, true, true, 1, 1, 7},
		{0x80, true, false, false, 0, 0, 0},
		{0x40, false, true, false, 0, 0, 0},
		{0x20, false, false, true, 0, 0, 0},
		{0x10, false, false, false, 1, 0, 0},
		{0x0D, false, false, false, 0, 1, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.priority, tt.attrs.Priority(), "priority of 0x%02X", uint8(tt.attrs))
		assert.Equal(t, tt.flipY, tt.attrs.FlipY(), "flipY of 0x%02X", uint8(tt.attrs))
		assert.Equal(t, tt.flipX, tt.attrs.FlipX(), "flipX of 0x%02X", uint8(tt.attrs))
		assert.Equal(t, tt.dmgPalette, tt.attrs.DMGPalette(), "DMG palette of 0x%02X", uint8(tt.attrs))
		assert.Equal(t, tt.bank, tt.attrs.Bank(), "bank of 0x%02X", uint8(tt.attrs))
		assert.Equal(t, tt.colorPalette, tt.attrs.ColorPalette(), "CGB palette of 0x%02X", uint8(tt.attrs))
	}
}
