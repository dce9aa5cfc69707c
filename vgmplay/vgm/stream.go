package vgm

import (
	"bytes"
	"encoding/binary"
)

// Header layout
// Reference: https://vgmrips.net/wiki/VGM_Specification
const (
	magicAddress      = 0x00
	versionAddress    = 0x08
	psgClockAddress   = 0x0C
	ym2413ClockAddr   = 0x10
	gd3OffsetAddress  = 0x14
	streamEndAddress  = 0x18
	loopOffsetAddress = 0x1C
	loopSamplesAddr   = 0x20
	fmClockAddress    = 0x2C
	dataOffsetAddress = 0x34

	// headerSize is the size of the legacy header, which is also the data
	// start of every stream up to version 1.50.
	headerSize = 0x40

	// legacyVersion is the last version without a relative data offset.
	legacyVersion = 0x150

	// fmClockVersion is the first version with a dedicated YM2612 clock field.
	fmClockVersion = 0x110
)

var magic = []byte("Vgm ")

// Stream is a validated, immutable VGM command log.
type Stream struct {
	data []byte

	Version     uint16
	DataStart   int
	StreamEnd   int
	LoopAddress int // 0 when the stream does not loop

	LoopSamples uint32
	PSGClock    uint32
	FMClock     uint32

	// Tag is nil when the stream has no GD3 tag or the tag is malformed.
	Tag *Tag
}

// Parse validates the header of data and returns the resulting stream.
// Nothing is retained from a failed parse, so a session can validate a new
// stream before replacing the one it is playing.
func Parse(data []byte) (*Stream, error) {
	if len(data) < headerSize {
		return nil, formatErrorf(0, "file too short for a VGM header (%d bytes)", len(data))
	}
	if !bytes.Equal(data[magicAddress:magicAddress+4], magic) {
		return nil, formatErrorf(magicAddress, "not a VGM file")
	}

	s := &Stream{
		data:         data,
		Version:     binary.LittleEndian.Uint16(data[versionAddress:]),
		LoopSamples: binary.LittleEndian.Uint32(data[loopSamplesAddr:]),
		PSGClock:    binary.LittleEndian.Uint32(data[psgClockAddress:]),
	}

	if s.Version >= fmClockVersion {
		s.FMClock = binary.LittleEndian.Uint32(data[fmClockAddress:])
	} else {
		// pre-1.10 streams share the YM2413 clock with the YM2612
		s.FMClock = binary.LittleEndian.Uint32(data[ym2413ClockAddr:])
	}

	s.DataStart = headerSize
	if s.Version > legacyVersion {
		if rel := binary.LittleEndian.Uint32(data[dataOffsetAddress:]); rel != 0 {
			s.DataStart = dataOffsetAddress + int(rel)
		}
	}

	s.StreamEnd = streamEndAddress + int(binary.LittleEndian.Uint32(data[streamEndAddress:]))
	if s.StreamEnd > len(data) || s.StreamEnd < streamEndAddress {
		s.StreamEnd = len(data)
	}

	if s.DataStart >= s.StreamEnd {
		return nil, formatErrorf(dataOffsetAddress, "data start 0x%X is past stream end 0x%X", s.DataStart, s.StreamEnd)
	}

	if loop := binary.LittleEndian.Uint32(data[loopOffsetAddress:]); loop != 0 {
		s.LoopAddress = loopOffsetAddress + int(loop)
		if s.LoopAddress < s.DataStart || s.LoopAddress >= s.StreamEnd {
			return nil, formatErrorf(loopOffsetAddress, "loop address 0x%X outside data [0x%X, 0x%X)", s.LoopAddress, s.DataStart, s.StreamEnd)
		}
	}

	if rel := binary.LittleEndian.Uint32(data[gd3OffsetAddress:]); rel != 0 {
		if tag, err := ParseTag(data, gd3OffsetAddress+int(rel)); err == nil {
			s.Tag = tag
		}
	}

	return s, nil
}

// Len returns the size of the underlying file image.
func (s *Stream) Len() int {
	return len(s.data)
}

// Loops reports whether the stream has a loop point.
func (s *Stream) Loops() bool {
	return s.LoopAddress != 0
}
