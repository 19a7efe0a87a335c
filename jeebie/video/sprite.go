package video

import "github.com/valerio/jeebie-ppu/jeebie/state"

// SpriteSlot is a sprite selected by OamSearch for the current scanline.
// Slots are reused every line; a slot is disabled as soon as the transfer
// phase schedules its fetch, so every sprite is drawn at most once.
type SpriteSlot struct {
	// X and Y are the raw OAM coordinates (screen position + 8 and + 16).
	X uint8
	Y uint8
	// Address is the OAM address of the entry's first byte.
	Address uint16
	// Index is the OAM index (0-39).
	Index int
	// Attributes are latched when the fetch is scheduled and used for every
	// priority decision afterwards, even if OAM changes in the meantime.
	Attributes TileAttributes

	enabled bool
}

// ScreenX is the horizontal position of the sprite's leftmost pixel, negative
// when it is partially hidden past the left edge.
func (s *SpriteSlot) ScreenX() int {
	return int(s.X) - 8
}

func (s *SpriteSlot) Enabled() bool {
	return s.enabled
}

func (s *SpriteSlot) Disable() {
	s.enabled = false
}

// Latch captures the attribute byte from OAM.
func (s *SpriteSlot) Latch(mem Memory) {
	s.Attributes = TileAttributes(mem.Read(s.Address + 3))
}

func (s *SpriteSlot) Save(st *state.State) {
	st.Write8(s.X)
	st.Write8(s.Y)
	st.Write16(s.Address)
	st.Write8(uint8(s.Index))
	st.Write8(uint8(s.Attributes))
	st.WriteBool(s.enabled)
}

func (s *SpriteSlot) Load(st *state.State) {
	s.X = st.Read8()
	s.Y = st.Read8()
	s.Address = st.Read16()
	s.Index = int(st.Read8())
	s.Attributes = TileAttributes(st.Read8())
	s.enabled = st.ReadBool()
}
