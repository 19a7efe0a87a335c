package memory

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie-ppu/jeebie/addr"
	"github.com/valerio/jeebie-ppu/jeebie/bit"
)

// ErrDumpSize is returned when a memory image doesn't have the expected length.
var ErrDumpSize = errors.New("memory: unexpected dump size")

const (
	vramBankSize   = 0x2000
	oamSize        = 0xA0
	paletteRAMSize = 0x40

	// DumpSize is the size of a full address space image accepted by LoadDump.
	DumpSize = 0x10000
)

type memRegion uint8

const (
	regionUnmapped memRegion = iota
	regionVRAM
	regionOAM
	regionIO
)

// MMU holds the memory mapped state the video pipeline reads: both VRAM banks,
// OAM, the I/O register page, HRAM and the CGB color palette RAM.
//
// Everything outside those regions (cartridge, WRAM) belongs to other
// components and reads as 0xFF.
type MMU struct {
	vram [2][vramBankSize]byte
	oam  [oamSize]byte
	// high page 0xFF00-0xFFFF: I/O registers, HRAM and IE
	high [0x100]byte

	bgPaletteRAM  [paletteRAMSize]byte
	objPaletteRAM [paletteRAMSize]byte

	vramBank  uint8
	color     bool
	regionMap [256]memRegion
}

// New creates a monochrome (DMG) memory unit with all registers cleared.
func New() *MMU {
	mmu := &MMU{}
	initRegionMap(mmu)
	return mmu
}

// NewCGB creates a memory unit with the color hardware (second VRAM bank,
// palette RAM) enabled.
func NewCGB() *MMU {
	mmu := New()
	mmu.color = true
	return mmu
}

func initRegionMap(m *MMU) {
	// VRAM: 0x8000-0x9FFF
	for i := 0x80; i <= 0x9F; i++ {
		m.regionMap[i] = regionVRAM
	}
	// OAM: 0xFE00-0xFE9F, Unused: 0xFEA0-0xFEFF
	m.regionMap[0xFE] = regionOAM
	// IO + HRAM: 0xFF00-0xFFFF
	m.regionMap[0xFF] = regionIO
}

// IsCGB reports whether the color hardware is enabled.
func (m *MMU) IsCGB() bool {
	return m.color
}

// RequestInterrupt sets the bit of the chosen interrupt in the IF register.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	m.high[addr.IF&0xFF] |= uint8(interrupt)
}

// SetLY publishes the current scanline. LY is read-only for the CPU, so this
// bypasses Write.
func (m *MMU) SetLY(value uint8) {
	m.high[addr.LY&0xFF] = value
}

// SetSTAT replaces the read-only part of STAT (mode and coincidence bits 0-2),
// keeping the CPU-writable interrupt source selection.
func (m *MMU) SetSTAT(value uint8) {
	stat := m.high[addr.STAT&0xFF]
	m.high[addr.STAT&0xFF] = (stat & 0x78) | (value & 0x07)
}

func (m *MMU) ReadBit(index uint8, address uint16) bool {
	return bit.IsSet(index, m.Read(address))
}

// ReadVRAM reads from an explicit VRAM bank regardless of VBK.
func (m *MMU) ReadVRAM(bank uint8, address uint16) byte {
	return m.vram[bank&1][(address-addr.VRAMStart)&(vramBankSize-1)]
}

// ReadPaletteRAM returns a byte of the background (object=false) or object
// color palette RAM. Each palette is 4 little-endian BGR555 colors.
func (m *MMU) ReadPaletteRAM(object bool, offset uint8) byte {
	if object {
		return m.objPaletteRAM[offset&(paletteRAMSize-1)]
	}
	return m.bgPaletteRAM[offset&(paletteRAMSize-1)]
}

func (m *MMU) Read(address uint16) byte {
	switch m.regionMap[address>>8] {
	case regionVRAM:
		return m.vram[m.vramBank][address-addr.VRAMStart]
	case regionOAM:
		if address <= addr.OAMEnd {
			return m.oam[address-addr.OAMStart]
		}
		// Unused area 0xFEA0-0xFEFF
		return 0x00
	case regionIO:
		return m.readHigh(address)
	default:
		slog.Debug("Reading outside of video memory", "addr", fmt.Sprintf("0x%04X", address))
		return 0xFF
	}
}

func (m *MMU) readHigh(address uint16) byte {
	switch address {
	case addr.IF:
		// upper 3 bits of IF always read as 1
		return m.high[address&0xFF] | 0xE0
	case addr.STAT:
		return m.high[address&0xFF] | 0x80
	case addr.VBK:
		if !m.color {
			return 0xFF
		}
		return 0xFE | m.vramBank
	case addr.BCPD:
		return m.bgPaletteRAM[m.high[addr.BCPS&0xFF]&0x3F]
	case addr.OCPD:
		return m.objPaletteRAM[m.high[addr.OCPS&0xFF]&0x3F]
	}
	return m.high[address&0xFF]
}

func (m *MMU) Write(address uint16, value byte) {
	switch m.regionMap[address>>8] {
	case regionVRAM:
		m.vram[m.vramBank][address-addr.VRAMStart] = value
	case regionOAM:
		if address <= addr.OAMEnd {
			m.oam[address-addr.OAMStart] = value
		}
	case regionIO:
		m.writeHigh(address, value)
	default:
		slog.Debug("Writing outside of video memory", "addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
	}
}

func (m *MMU) writeHigh(address uint16, value byte) {
	switch address {
	case addr.LY:
		// read-only, published by the scanline scheduler through SetLY
		return
	case addr.STAT:
		// only the interrupt source selection (bits 3-6) is writable
		stat := m.high[address&0xFF]
		m.high[address&0xFF] = (stat & 0x07) | (value & 0x78)
		return
	case addr.IF:
		m.high[address&0xFF] = value | 0xE0
		return
	case addr.DMA:
		sourceAddr := uint16(value) << 8
		// DMA transfer copies 160 bytes from source to OAM
		for i := range uint16(oamSize) {
			m.oam[i] = m.Read(sourceAddr + i)
		}
	case addr.VBK:
		if m.color {
			m.vramBank = value & 0x01
		}
	case addr.BCPD:
		if m.color {
			m.high[addr.BCPS&0xFF] = writePaletteRAM(&m.bgPaletteRAM, m.high[addr.BCPS&0xFF], value)
		}
		return
	case addr.OCPD:
		if m.color {
			m.high[addr.OCPS&0xFF] = writePaletteRAM(&m.objPaletteRAM, m.high[addr.OCPS&0xFF], value)
		}
		return
	}
	m.high[address&0xFF] = value
}

// writePaletteRAM stores value at the index held by the selector register and
// returns the updated selector, incremented when its bit 7 is set.
func writePaletteRAM(ram *[paletteRAMSize]byte, selector, value byte) byte {
	index := selector & 0x3F
	ram[index] = value
	if bit.IsSet(7, selector) {
		index = (index + 1) & 0x3F
	}
	return (selector & 0x80) | index
}

// LoadDump loads a full 64 KiB address space image. Only the regions owned by
// this unit are kept: VRAM (into bank 0), OAM and the high page.
// LY and STAT mode bits are loaded as-is.
func (m *MMU) LoadDump(data []byte) error {
	if len(data) != DumpSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrDumpSize, len(data), DumpSize)
	}
	copy(m.vram[0][:], data[addr.VRAMStart:addr.VRAMEnd+1])
	copy(m.oam[:], data[addr.OAMStart:addr.OAMEnd+1])
	copy(m.high[:], data[0xFF00:])
	if m.color {
		m.vramBank = data[addr.VBK] & 0x01
	}
	return nil
}

// LoadBank1 loads the 8 KiB image of the second VRAM bank (tile attributes and
// extra tile data on CGB).
func (m *MMU) LoadBank1(data []byte) error {
	if len(data) != vramBankSize {
		return fmt.Errorf("%w: VRAM bank 1 got %d bytes, want %d", ErrDumpSize, len(data), vramBankSize)
	}
	copy(m.vram[1][:], data)
	return nil
}

// LoadPaletteRAM loads 128 bytes of color palette RAM: 64 bytes of background
// palettes followed by 64 bytes of object palettes.
func (m *MMU) LoadPaletteRAM(data []byte) error {
	if len(data) != 2*paletteRAMSize {
		return fmt.Errorf("%w: palette RAM got %d bytes, want %d", ErrDumpSize, len(data), 2*paletteRAMSize)
	}
	copy(m.bgPaletteRAM[:], data[:paletteRAMSize])
	copy(m.objPaletteRAM[:], data[paletteRAMSize:])
	return nil
}
