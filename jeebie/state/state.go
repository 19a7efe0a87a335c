// Package state provides the byte-level snapshot format used to capture and
// restore mid-scanline video pipeline progress.
package state

import "errors"

// ErrShortRead is reported by Err when a Read* call ran past the end of the data.
var ErrShortRead = errors.New("state: read past end of data")

// Stater is implemented by every component that can be captured in a State.
type Stater interface {
	Save(*State)
	Load(*State)
}

// State is a little-endian byte stream. Writes append, reads consume from a
// separate cursor. A read past the end yields zero values and sets a sticky
// error, so Load implementations don't need to check every field.
type State struct {
	raw          []byte
	readPosition int
	err          error
}

// New creates an empty state ready for writing.
func New() *State {
	return &State{raw: make([]byte, 0, 256)}
}

// FromBytes wraps previously saved data for reading.
func FromBytes(raw []byte) *State {
	return &State{raw: raw}
}

// Bytes returns the data written so far.
func (s *State) Bytes() []byte {
	return s.raw
}

// Err returns ErrShortRead if any read ran out of data.
func (s *State) Err() error {
	return s.err
}

// Rewind moves the read cursor back to the beginning and clears the read error.
func (s *State) Rewind() {
	s.readPosition = 0
	s.err = nil
}

func (s *State) Write8(value uint8) {
	s.raw = append(s.raw, value)
}

func (s *State) Write16(value uint16) {
	s.raw = append(s.raw, byte(value), byte(value>>8))
}

func (s *State) Write32(value uint32) {
	s.raw = append(s.raw, byte(value), byte(value>>8), byte(value>>16), byte(value>>24))
}

func (s *State) WriteBool(value bool) {
	if value {
		s.raw = append(s.raw, 1)
	} else {
		s.raw = append(s.raw, 0)
	}
}

func (s *State) WriteData(data []byte) {
	s.raw = append(s.raw, data...)
}

// take returns the next n bytes, or nil once the data is exhausted.
func (s *State) take(n int) []byte {
	if s.err != nil || s.readPosition+n > len(s.raw) {
		s.err = ErrShortRead
		return nil
	}
	b := s.raw[s.readPosition : s.readPosition+n]
	s.readPosition += n
	return b
}

func (s *State) Read8() uint8 {
	b := s.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (s *State) Read16() uint16 {
	b := s.take(2)
	if b == nil {
		return 0
	}
	return uint16(b[0]) | uint16(b[1])<<8
}

func (s *State) Read32() uint32 {
	b := s.take(4)
	if b == nil {
		return 0
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func (s *State) ReadBool() bool {
	return s.Read8() != 0
}

func (s *State) ReadData(p []byte) {
	b := s.take(len(p))
	if b == nil {
		return
	}
	copy(p, b)
}
