package video

import (
	"fmt"

	"github.com/valerio/jeebie-ppu/jeebie/addr"
	"github.com/valerio/jeebie-ppu/jeebie/state"
)

type fetcherState uint8

const (
	stateReadTileID fetcherState = iota
	stateReadTileLow
	stateReadTileHigh
	statePush
	stateReadSpriteID
	stateReadSpriteFlags
	stateReadSpriteLow
	stateReadSpriteHigh
	statePushSprite
)

var fetcherStateNames = [...]string{
	stateReadTileID:      "read-tile-id",
	stateReadTileLow:     "read-tile-low",
	stateReadTileHigh:    "read-tile-high",
	statePush:            "push",
	stateReadSpriteID:    "read-sprite-id",
	stateReadSpriteFlags: "read-sprite-flags",
	stateReadSpriteLow:   "read-sprite-low",
	stateReadSpriteHigh:  "read-sprite-high",
	statePushSprite:      "push-sprite",
}

func (s fetcherState) String() string {
	if int(s) < len(fetcherStateNames) {
		return fetcherStateNames[s]
	}
	return fmt.Sprintf("fetcherState(%d)", uint8(s))
}

// nextFetcherState is the successor of every state once its work is done.
// pushSprite has no fixed successor: it resumes the interrupted background state.
var nextFetcherState = [...]fetcherState{
	stateReadTileID:      stateReadTileLow,
	stateReadTileLow:     stateReadTileHigh,
	stateReadTileHigh:    statePush,
	statePush:            stateReadTileID,
	stateReadSpriteID:    stateReadSpriteFlags,
	stateReadSpriteFlags: stateReadSpriteLow,
	stateReadSpriteLow:   stateReadSpriteHigh,
	stateReadSpriteHigh:  statePushSprite,
}

// Fetcher reads one 8 pixel strip at a time from VRAM and pushes it into the
// pixel FIFO. Every state takes one dot; push waits until the FIFO has room.
//
// A sprite fetch can be started at any point of a background fetch. The
// background progress is kept aside and resumed once the sprite strip has
// been merged.
type Fetcher struct {
	mem   Memory
	fifo  PixelFifo
	color bool

	state       fetcherState
	resumeState fetcherState
	disabled    bool

	// background/window strip
	mapAddress uint16
	dataBase   uint16
	signedIDs  bool
	xOffset    uint8
	tileLine   uint8
	tileID     uint8
	tileAttrs  TileAttributes
	low        uint8
	high       uint8

	// sprite strip
	sprite       SpriteSlot
	spriteOffset int
	spriteIndex  int
	spriteTileID uint8
	spriteFlags  TileAttributes
	spriteLow    uint8
	spriteHigh   uint8
}

func NewFetcher(mem Memory, fifo PixelFifo, config Config) *Fetcher {
	return &Fetcher{
		mem:   mem,
		fifo:  fifo,
		color: config.isColor(),
	}
}

// Start begins fetching a background or window row.
//
// mapAddress is the first tile of the row in the tile map, xOffset the tile
// column to start from (wrapping at 32) and line the pixel row within the tile.
func (f *Fetcher) Start(mapAddress, tileDataBase uint16, xOffset uint8, signedIDs bool, line uint8) {
	f.mapAddress = mapAddress
	f.dataBase = tileDataBase
	f.signedIDs = signedIDs
	f.xOffset = xOffset % tileMapWidth
	f.tileLine = line % pixelsPerTile
	f.state = stateReadTileID
	f.resumeState = stateReadTileID
	f.disabled = false
}

// Disable parks background fetching. Sprites can still be fetched.
func (f *Fetcher) Disable() {
	f.disabled = true
	f.state = stateReadTileID
	f.resumeState = stateReadTileID
}

func (f *Fetcher) Disabled() bool {
	return f.disabled
}

// AddSprite interrupts background fetching to fetch a sprite strip. offset is
// the number of leading pixels hidden past the left screen edge.
func (f *Fetcher) AddSprite(slot *SpriteSlot, offset, oamIndex int) {
	if f.SpriteInProgress() {
		panic("fetcher: sprite fetch already in progress")
	}
	f.sprite = *slot
	f.spriteOffset = offset
	f.spriteIndex = oamIndex
	f.resumeState = f.state
	f.state = stateReadSpriteID
}

func (f *Fetcher) SpriteInProgress() bool {
	return f.state >= stateReadSpriteID
}

// Tick advances the fetcher by one dot.
func (f *Fetcher) Tick() {
	switch f.state {
	case stateReadTileID:
		if f.disabled {
			return
		}
		f.readTileID()
	case stateReadTileLow:
		f.low = f.readTileData(0)
	case stateReadTileHigh:
		f.high = f.readTileData(1)
	case statePush:
		if !f.push() {
			return
		}
	case stateReadSpriteID:
		f.spriteTileID = f.mem.Read(f.sprite.Address + 2)
	case stateReadSpriteFlags:
		f.spriteFlags = TileAttributes(f.mem.Read(f.sprite.Address + 3))
	case stateReadSpriteLow:
		f.spriteLow = f.readSpriteData(0)
	case stateReadSpriteHigh:
		f.spriteHigh = f.readSpriteData(1)
	case statePushSprite:
		f.pushSprite()
		f.state = f.resumeState
		return
	default:
		panic(fmt.Sprintf("fetcher: invalid state %v", f.state))
	}
	f.state = nextFetcherState[f.state]
}

func (f *Fetcher) readTileID() {
	address := f.mapAddress + uint16(f.xOffset)
	f.tileID = f.mem.ReadVRAM(0, address)
	if f.color {
		f.tileAttrs = TileAttributes(f.mem.ReadVRAM(1, address))
	} else {
		f.tileAttrs = 0
	}
}

func (f *Fetcher) readTileData(plane uint16) uint8 {
	line := uint16(f.tileLine)
	if f.tileAttrs.FlipY() {
		line = pixelsPerTile - 1 - line
	}
	address := tileAddress(f.dataBase, f.tileID, f.signedIDs) + line*2 + plane
	return f.mem.ReadVRAM(f.tileAttrs.Bank(), address)
}

// push hands the strip to the FIFO, unless that would overflow it.
func (f *Fetcher) push() bool {
	if f.fifo.Len() > pixelsPerTile {
		return false
	}
	row := TileRow{Low: f.low, High: f.high}
	f.fifo.Enqueue8Pixels(row.Pixels(f.tileAttrs.FlipX()), f.tileAttrs)
	f.xOffset = (f.xOffset + 1) % tileMapWidth
	return true
}

// readSpriteData reads one plane of the sprite row crossing LY. Only the tile
// graphics come from live OAM; priority data stays latched in the slot.
func (f *Fetcher) readSpriteData(plane uint16) uint8 {
	l := readLCDC(f.mem)
	height := l.spriteHeight()

	tileID := f.spriteTileID
	if height == 16 {
		tileID &= 0xFE
	}

	ly := int(f.mem.Read(addr.LY))
	line := (ly - (int(f.sprite.Y) - 16)) & (height - 1)
	if f.spriteFlags.FlipY() {
		line = height - 1 - line
	}

	address := tileAddress(addr.TileData0, tileID, false) + uint16(line)*2 + plane
	bank := uint8(0)
	if f.color {
		bank = f.spriteFlags.Bank()
	}
	return f.mem.ReadVRAM(bank, address)
}

func (f *Fetcher) pushSprite() {
	row := TileRow{Low: f.spriteLow, High: f.spriteHigh}
	f.fifo.SetOverlay(row.Pixels(f.spriteFlags.FlipX()), f.spriteOffset, f.sprite.Attributes, f.spriteIndex, f.sprite.X)
}

// validFetcherState maps tags from a foreign or corrupt snapshot to the start
// of a background fetch.
func validFetcherState(tag uint8) fetcherState {
	if int(tag) >= len(fetcherStateNames) {
		return stateReadTileID
	}
	return fetcherState(tag)
}

func (f *Fetcher) Save(s *state.State) {
	s.Write8(uint8(f.state))
	s.Write8(uint8(f.resumeState))
	s.WriteBool(f.disabled)
	s.Write16(f.mapAddress)
	s.Write16(f.dataBase)
	s.WriteBool(f.signedIDs)
	s.Write8(f.xOffset)
	s.Write8(f.tileLine)
	s.Write8(f.tileID)
	s.Write8(uint8(f.tileAttrs))
	s.Write8(f.low)
	s.Write8(f.high)
	f.sprite.Save(s)
	s.Write8(uint8(f.spriteOffset))
	s.Write8(uint8(f.spriteIndex))
	s.Write8(f.spriteTileID)
	s.Write8(uint8(f.spriteFlags))
	s.Write8(f.spriteLow)
	s.Write8(f.spriteHigh)
}

func (f *Fetcher) Load(s *state.State) {
	f.state = validFetcherState(s.Read8())
	f.resumeState = validFetcherState(s.Read8())
	if f.resumeState >= stateReadSpriteID {
		// only background states can be interrupted
		f.resumeState = stateReadTileID
	}
	f.disabled = s.ReadBool()
	f.mapAddress = s.Read16()
	f.dataBase = s.Read16()
	f.signedIDs = s.ReadBool()
	f.xOffset = s.Read8()
	f.tileLine = s.Read8()
	f.tileID = s.Read8()
	f.tileAttrs = TileAttributes(s.Read8())
	f.low = s.Read8()
	f.high = s.Read8()
	f.sprite.Load(s)
	f.spriteOffset = int(s.Read8())
	f.spriteIndex = int(s.Read8())
	f.spriteTileID = s.Read8()
	f.spriteFlags = TileAttributes(s.Read8())
	f.spriteLow = s.Read8()
	f.spriteHigh = s.Read8()
}
