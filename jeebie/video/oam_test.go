package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/jeebie-ppu/jeebie/addr"
	"github.com/valerio/jeebie-ppu/jeebie/memory"
	"github.com/valerio/jeebie-ppu/jeebie/state"
)

func indices(slots []SpriteSlot) []int {
	out := make([]int, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Index)
	}
	return out
}

func TestOamSearchSelectsByRow(t *testing.T) {
	mmu := memory.New()
	mmu.Write(addr.LCDC, 0x93)

	setSprite(mmu, 0, 10, 0, 0, 0)   // rows 0-7
	setSprite(mmu, 1, 10, 5, 0, 0)   // rows 5-12
	setSprite(mmu, 2, 10, -3, 0, 0)  // rows -3..4
	setSprite(mmu, 3, 10, -10, 0, 0) // rows -10..-3 in 8x8 mode
	setSprite(mmu, 4, -8, 4, 0, 0)   // off screen horizontally but on the row

	search := NewOamSearch(mmu, DefaultConfig(ModelDMG))
	slots := search.Scan(4)
	assert.Equal(t, []int{0, 2, 4}, indices(slots))
	assert.Equal(t, uint8(0), slots[2].X)
	assert.Equal(t, addr.OAMStart+8, slots[1].Address)
	assert.True(t, slots[0].Enabled())

	// 8x16 sprites reach further down
	mmu.Write(addr.LCDC, 0x97)
	assert.Equal(t, []int{0, 2, 3, 4}, indices(search.Scan(4)))
	assert.Equal(t, []int{0, 1, 2}, indices(search.Scan(6))[:3])
}

func TestOamSearchLimit(t *testing.T) {
	mmu := memory.New()
	mmu.Write(addr.LCDC, 0x93)

	// fill OAM in reverse so the limit has to follow OAM order, not X
	for i := range 14 {
		setSprite(mmu, i, 150-i*10, 20, 0, 0)
	}

	search := NewOamSearch(mmu, DefaultConfig(ModelDMG))
	slots := search.Scan(20)
	require.Len(t, slots, MaxSpritesPerLine)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, indices(slots))
	assert.Len(t, search.Scan(30), 0)
}

func TestMode3Duration(t *testing.T) {
	tests := []struct {
		name    string
		lcdc    byte
		scx     byte
		wx, wy  byte
		sprites int
		penalty int
		model   Model
		want    int
	}{
		{"plain line", 0x93, 0, 0xFF, 0, 0, 6, ModelDMG, 172},
		{"fine scroll", 0x93, 0x0B, 0xFF, 0, 0, 6, ModelDMG, 175},
		{"two sprites", 0x93, 0, 0xFF, 0, 2, 6, ModelDMG, 184},
		{"sprites ignored with OBJ off", 0x91, 0, 0xFF, 0, 2, 6, ModelDMG, 172},
		{"window", 0xB3, 0, 7, 0, 0, 6, ModelDMG, 178},
		{"window at WX 0 with fine scroll", 0xB3, 3, 0, 0, 0, 6, ModelDMG, 180},
		{"window at WX 0 without fine scroll", 0xB3, 0, 0, 0, 0, 6, ModelDMG, 178},
		{"window off screen", 0xB3, 0, 167, 0, 0, 6, ModelDMG, 172},
		{"window below the line", 0xB3, 0, 7, 50, 0, 6, ModelDMG, 172},
		{"window hidden by BG bit on DMG", 0xB2, 0, 7, 0, 0, 6, ModelDMG, 172},
		{"window kept without BG bit on CGB", 0xB2, 0, 7, 0, 0, 6, ModelCGB, 178},
		{"capped", 0xB3, 7, 7, 0, 10, 11, ModelDMG, 289},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mmu := memory.New()
			mmu.Write(addr.LCDC, tt.lcdc)
			mmu.Write(addr.SCX, tt.scx)
			mmu.Write(addr.WX, tt.wx)
			mmu.Write(addr.WY, tt.wy)
			for i := range tt.sprites {
				setSprite(mmu, i, i*8, 10, 0, 0)
			}

			config := DefaultConfig(tt.model)
			config.SpritePenalty = tt.penalty
			search := NewOamSearch(mmu, config)
			search.Scan(10)

			assert.Equal(t, tt.want, search.Mode3Duration())
		})
	}
}

func TestOamSearchStateRoundTrip(t *testing.T) {
	mmu := memory.New()
	mmu.Write(addr.LCDC, 0x93)
	setSprite(mmu, 3, 20, 0, 7, 0x20)
	setSprite(mmu, 9, 40, 0, 7, 0x00)

	original := NewOamSearch(mmu, DefaultConfig(ModelDMG))
	original.Scan(2)
	original.Slots()[0].Latch(mmu)
	original.Slots()[0].Disable()

	s := state.New()
	original.Save(s)

	restored := NewOamSearch(mmu, DefaultConfig(ModelDMG))
	restored.Load(state.FromBytes(s.Bytes()))

	assert.Equal(t, original.Slots(), restored.Slots())
	assert.Equal(t, original.Mode3Duration(), restored.Mode3Duration())
	assert.False(t, restored.Slots()[0].Enabled())
	assert.Equal(t, TileAttributes(0x20), restored.Slots()[0].Attributes)
}
