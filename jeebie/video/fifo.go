package video

import (
	"fmt"

	"github.com/valerio/jeebie-ppu/jeebie/state"
)

// fifoCapacity bounds the pixel queues: the fetcher only pushes a strip of 8
// while 8 or fewer pixels are queued.
const fifoCapacity = 16

// PixelFifo merges background and sprite strips and hands out one resolved
// pixel per dot. The monochrome and color implementations differ in their
// priority rules and in how palettes are resolved.
type PixelFifo interface {
	Len() int
	// Enqueue8Pixels appends a background or window strip.
	Enqueue8Pixels(line PixelLine, attrs TileAttributes)
	// EnqueueBlank appends a strip of transparent pixels, used while
	// background fetching is disabled.
	EnqueueBlank()
	// SetOverlay merges a sprite strip over the queued pixels, starting with
	// line[offset] at the front of the queue. attrs and spriteX are the values
	// latched when the sprite was scheduled.
	SetOverlay(line PixelLine, offset int, attrs TileAttributes, oamIndex int, spriteX uint8)
	// Dequeue pops the front pixel and resolves it to a display color.
	Dequeue() GBColor
	// DropPixel pops the front pixel without displaying it.
	DropPixel()
	// Clear empties the queues for a new scanline.
	Clear()
	// RestartBackground discards queued background pixels when fetching
	// switches to the window, keeping already merged sprite pixels for the
	// strips that replace them.
	RestartBackground()
	state.Stater
}

// NewPixelFifo returns the implementation matching the configured model.
func NewPixelFifo(mem Memory, config Config) PixelFifo {
	if config.isColor() {
		return NewColorPixelFifo(mem)
	}
	return NewDmgPixelFifo(mem)
}

type pixelOrigin uint8

const (
	originBackground pixelOrigin = iota
	originBlank
	originSprite
)

// spritePixel is the sprite claim on one queue position. It is kept even when
// the background ends up displayed, because a hidden sprite pixel still masks
// lower priority sprites.
type spritePixel struct {
	present bool
	color   uint8
	// palette is the OBP selector (0/1) on DMG, the palette number on CGB.
	palette  uint8
	behind   bool
	oamIndex uint8
	x        uint8
}

// pixelMeta is the metadata stream entry matching one queued color index.
type pixelMeta struct {
	origin  pixelOrigin
	palette uint8

	bgColor    uint8
	bgPalette  uint8
	bgPriority bool
	bgBlank    bool

	sprite spritePixel
}

// background restores the displayed pixel to the background layer.
func (m *pixelMeta) background() uint8 {
	m.origin = originBackground
	if m.bgBlank {
		m.origin = originBlank
	}
	m.palette = m.bgPalette
	return m.bgColor
}

func (m *pixelMeta) foreground() uint8 {
	m.origin = originSprite
	m.palette = m.sprite.palette
	return m.sprite.color
}

type queue[T any] struct {
	elements [fifoCapacity]T
	head     int
	count    int
}

func (q *queue[T]) len() int {
	return q.count
}

func (q *queue[T]) push(value T) {
	if q.count == fifoCapacity {
		panic("pixel fifo: overflow")
	}
	q.elements[(q.head+q.count)%fifoCapacity] = value
	q.count++
}

func (q *queue[T]) pop() T {
	if q.count == 0 {
		panic("pixel fifo: underflow")
	}
	value := q.elements[q.head]
	q.head = (q.head + 1) % fifoCapacity
	q.count--
	return value
}

func (q *queue[T]) get(index int) T {
	q.checkIndex(index)
	return q.elements[(q.head+index)%fifoCapacity]
}

func (q *queue[T]) set(index int, value T) {
	q.checkIndex(index)
	q.elements[(q.head+index)%fifoCapacity] = value
}

func (q *queue[T]) checkIndex(index int) {
	if index < 0 || index >= q.count {
		panic(fmt.Sprintf("pixel fifo: index %d out of range [0,%d)", index, q.count))
	}
}

func (q *queue[T]) clear() {
	q.head = 0
	q.count = 0
}

// pixelQueues holds the two lock-step queues shared by both FIFO variants:
// displayed color indices and their metadata. Every mutation goes through
// here so the lengths never diverge.
type pixelQueues struct {
	pixels queue[uint8]
	meta   queue[pixelMeta]

	// sprite claims that outlived a background restart, indexed relative to
	// the queue front
	carry     [fifoCapacity]spritePixel
	carryHead int
	carryLen  int
}

func (q *pixelQueues) Len() int {
	return q.pixels.len()
}

func (q *pixelQueues) push(pixel uint8, meta pixelMeta) {
	q.pixels.push(pixel)
	q.meta.push(meta)
}

func (q *pixelQueues) pop() (uint8, pixelMeta) {
	if q.carryLen > 0 {
		q.carryHead++
		q.carryLen--
	}
	return q.pixels.pop(), q.meta.pop()
}

func (q *pixelQueues) update(index int, pixel uint8, meta pixelMeta) {
	q.pixels.set(index, pixel)
	q.meta.set(index, meta)
}

func (q *pixelQueues) DropPixel() {
	q.pop()
}

func (q *pixelQueues) Clear() {
	q.pixels.clear()
	q.meta.clear()
	q.carryHead = 0
	q.carryLen = 0
}

func (q *pixelQueues) RestartBackground() {
	count := q.Len()
	for i := range count {
		q.carry[i] = q.meta.get(i).sprite
	}
	q.pixels.clear()
	q.meta.clear()
	q.carryHead = 0
	q.carryLen = count
}

// carried returns the surviving sprite claim for a queue position, if any.
func (q *pixelQueues) carried(index int) spritePixel {
	if index >= q.carryLen {
		return spritePixel{}
	}
	return q.carry[q.carryHead+index]
}

func (q *pixelQueues) Save(s *state.State) {
	count := q.Len()
	s.Write8(uint8(count))
	for i := range count {
		s.Write8(q.pixels.get(i))
		q.meta.get(i).save(s)
	}
	s.Write8(uint8(q.carryLen))
	for i := range q.carryLen {
		q.carry[q.carryHead+i].save(s)
	}
}

func (q *pixelQueues) Load(s *state.State) {
	q.Clear()
	count := min(int(s.Read8()), fifoCapacity)
	for range count {
		pixel := s.Read8()
		var meta pixelMeta
		meta.load(s)
		q.push(pixel, meta)
	}
	q.carryLen = min(int(s.Read8()), fifoCapacity)
	for i := range q.carryLen {
		q.carry[i].load(s)
	}
}

func (m pixelMeta) save(s *state.State) {
	s.Write8(uint8(m.origin))
	s.Write8(m.palette)
	s.Write8(m.bgColor)
	s.Write8(m.bgPalette)
	s.WriteBool(m.bgPriority)
	s.WriteBool(m.bgBlank)
	m.sprite.save(s)
}

func (m *pixelMeta) load(s *state.State) {
	m.origin = pixelOrigin(s.Read8())
	m.palette = s.Read8()
	m.bgColor = s.Read8()
	m.bgPalette = s.Read8()
	m.bgPriority = s.ReadBool()
	m.bgBlank = s.ReadBool()
	m.sprite.load(s)
}

func (p spritePixel) save(s *state.State) {
	s.WriteBool(p.present)
	s.Write8(p.color)
	s.Write8(p.palette)
	s.WriteBool(p.behind)
	s.Write8(p.oamIndex)
	s.Write8(p.x)
}

func (p *spritePixel) load(s *state.State) {
	p.present = s.ReadBool()
	p.color = s.Read8()
	p.palette = s.Read8()
	p.behind = s.ReadBool()
	p.oamIndex = s.Read8()
	p.x = s.Read8()
}
