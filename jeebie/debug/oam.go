package debug

import (
	"fmt"
	"strings"

	"github.com/valerio/jeebie-ppu/jeebie/addr"
	"github.com/valerio/jeebie-ppu/jeebie/video"
)

const (
	OAMSpriteCount    = 40
	OAMBytesPerSprite = 4
	SpriteYOffset     = 16
	SpriteXOffset     = 8
)

// SpriteInfo is one decoded OAM entry, in screen coordinates.
type SpriteInfo struct {
	Index      int
	Y          int
	X          int
	TileIndex  uint8
	Attributes video.TileAttributes
	// OnLine is set when the sprite's rows cover the inspected line.
	OnLine bool
	// Selected is set when OAM search kept the sprite for the line. Sprites on
	// the line past the first 10 are dropped.
	Selected bool
}

type OAMData struct {
	Sprites       []SpriteInfo
	CurrentLine   int
	ActiveSprites int
	SpriteHeight  int
	// Mode3Estimate is the transfer phase length OAM search predicts for the line.
	Mode3Estimate int
}

// ExtractOAMData decodes all of OAM and runs the same sprite selection the
// pixel pipeline uses for currentLine.
func ExtractOAMData(mem video.Memory, config video.Config, currentLine int) *OAMData {
	search := video.NewOamSearch(mem, config)
	selected := search.Scan(currentLine)

	spriteHeight := 8
	if mem.Read(addr.LCDC)&0x04 != 0 {
		spriteHeight = 16
	}

	data := &OAMData{
		Sprites:       make([]SpriteInfo, OAMSpriteCount),
		CurrentLine:   currentLine,
		ActiveSprites: len(selected),
		SpriteHeight:  spriteHeight,
		Mode3Estimate: search.Mode3Duration(),
	}

	for i := range OAMSpriteCount {
		baseAddr := addr.OAMStart + uint16(i*OAMBytesPerSprite)
		y := int(mem.Read(baseAddr)) - SpriteYOffset

		data.Sprites[i] = SpriteInfo{
			Index:      i,
			Y:          y,
			X:          int(mem.Read(baseAddr+1)) - SpriteXOffset,
			TileIndex:  mem.Read(baseAddr + 2),
			Attributes: video.TileAttributes(mem.Read(baseAddr + 3)),
			OnLine:     y <= currentLine && currentLine < y+spriteHeight,
		}
	}
	for _, slot := range selected {
		data.Sprites[slot.Index].Selected = true
	}

	return data
}

func (s *SpriteInfo) String() string {
	status := "OFF"
	switch {
	case s.Selected:
		status = "ACTIVE"
	case s.OnLine:
		status = "DROPPED"
	}
	return fmt.Sprintf("Sprite %2d: Y=%4d X=%4d  Tile=0x%02X Flags=0x%02X [%s]",
		s.Index, s.Y, s.X, s.TileIndex, uint8(s.Attributes), status)
}

func (data *OAMData) GetVisibleSprites() []SpriteInfo {
	visible := make([]SpriteInfo, 0, data.ActiveSprites)
	for _, sprite := range data.Sprites {
		if sprite.Selected {
			visible = append(visible, sprite)
		}
	}
	return visible
}

func (data *OAMData) FormatSummary() string {
	return fmt.Sprintf("Current Line: %d | Active Sprites: %d/%d | Height: %dpx | Mode 3: %d dots",
		data.CurrentLine, data.ActiveSprites, video.MaxSpritesPerLine, data.SpriteHeight, data.Mode3Estimate)
}

// Report lists the summary followed by every sprite that covers the line.
func (data *OAMData) Report() string {
	var b strings.Builder
	b.WriteString(data.FormatSummary())
	b.WriteByte('\n')
	for i := range data.Sprites {
		if data.Sprites[i].OnLine {
			b.WriteString(data.Sprites[i].String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
