// Package vgmtest builds VGM images for tests.
package vgmtest

import (
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
)

// Builder assembles a VGM image command by command.
type Builder struct {
	version    uint16
	headerSize int
	psgClock   uint32
	fmClock    uint32
	loopAt     int
	tag        []string
	trailing   []byte
	cmds       []byte
}

// New returns a version 1.50 builder with a 0x40 byte header.
func New() *Builder {
	return &Builder{
		version:    0x150,
		headerSize: 0x40,
		psgClock:   3579545,
		fmClock:    7670453,
		loopAt:     -1,
	}
}

// Version sets the header version. Versions after 1.50 use a relative data
// offset, so HeaderSize can move the data start.
func (b *Builder) Version(v uint16) *Builder {
	b.version = v
	return b
}

// HeaderSize sets where command data begins for versions after 1.50.
func (b *Builder) HeaderSize(n int) *Builder {
	b.headerSize = n
	return b
}

// Clocks sets the PSG and FM clock fields.
func (b *Builder) Clocks(psg, fm uint32) *Builder {
	b.psgClock, b.fmClock = psg, fm
	return b
}

// Loop marks the current position as the loop point.
func (b *Builder) Loop() *Builder {
	b.loopAt = len(b.cmds)
	return b
}

// Tag appends a GD3 tag after the command data.
func (b *Builder) Tag(fields ...string) *Builder {
	b.tag = fields
	return b
}

// Trailing appends bytes after the stream end that the decoder must ignore.
func (b *Builder) Trailing(p ...byte) *Builder {
	b.trailing = append(b.trailing, p...)
	return b
}

// Raw appends command bytes as is.
func (b *Builder) Raw(p ...byte) *Builder {
	b.cmds = append(b.cmds, p...)
	return b
}

func (b *Builder) Port1(reg, value uint8) *Builder { return b.Raw(0x52, reg, value) }
func (b *Builder) Port2(reg, value uint8) *Builder { return b.Raw(0x53, reg, value) }
func (b *Builder) PSG(cmd uint8) *Builder          { return b.Raw(0x50, cmd) }
func (b *Builder) End() *Builder                   { return b.Raw(0x66) }

// Wait appends a 0x61 wait.
func (b *Builder) Wait(n uint16) *Builder {
	return b.Raw(0x61, byte(n), byte(n>>8))
}

// PCM appends a type 0 data block.
func (b *Builder) PCM(data ...byte) *Builder {
	b.Raw(0x67, 0x66, 0x00)
	b.cmds = binary.LittleEndian.AppendUint32(b.cmds, uint32(len(data)))
	return b.Raw(data...)
}

// Seek appends a 0xE0 PCM seek.
func (b *Builder) Seek(offset uint32) *Builder {
	b.Raw(0xE0)
	b.cmds = binary.LittleEndian.AppendUint32(b.cmds, offset)
	return b
}

// DataStart returns the absolute offset of the first command.
func (b *Builder) DataStart() int {
	if b.version <= 0x150 {
		return 0x40
	}
	return b.headerSize
}

// Bytes renders the image.
func (b *Builder) Bytes() []byte {
	start := b.DataStart()
	out := make([]byte, start, start+len(b.cmds)+len(b.trailing)+64)
	copy(out, "Vgm ")
	le := binary.LittleEndian

	le.PutUint16(out[0x08:], b.version)
	le.PutUint32(out[0x0C:], b.psgClock)
	le.PutUint32(out[0x2C:], b.fmClock)
	if b.version > 0x150 {
		le.PutUint32(out[0x34:], uint32(start-0x34))
	}

	out = append(out, b.cmds...)
	le.PutUint32(out[0x18:], uint32(len(out)-0x18))
	if b.loopAt >= 0 {
		le.PutUint32(out[0x1C:], uint32(start+b.loopAt-0x1C))
	}

	out = append(out, b.trailing...)

	if b.tag != nil {
		le.PutUint32(out[0x14:], uint32(len(out)-0x14))
		out = append(out, encodeTag(b.tag)...)
	}
	le.PutUint32(out[0x04:], uint32(len(out)-0x04))
	return out
}

func encodeTag(fields []string) []byte {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()

	var text []byte
	for i := range 11 {
		if i < len(fields) {
			s, _ := enc.Bytes([]byte(fields[i]))
			text = append(text, s...)
		}
		text = append(text, 0, 0)
	}

	out := []byte("Gd3 ")
	out = binary.LittleEndian.AppendUint32(out, 0x100)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(text)))
	return append(out, text...)
}
