package vgm

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
)

var gd3Magic = []byte("Gd3 ")

// gd3Fields is the number of NUL-terminated strings in a GD3 tag.
const gd3Fields = 11

// Tag holds the GD3 metadata of a stream. Japanese variants are kept when
// present but most players only show the English ones.
type Tag struct {
	Version uint32

	Track, TrackJP   string
	Game, GameJP     string
	System, SystemJP string
	Author, AuthorJP string
	Date             string
	RippedBy         string
	Notes            string
}

// ParseTag decodes the GD3 tag starting at offset in data.
func ParseTag(data []byte, offset int) (*Tag, error) {
	if offset < 0 || offset+12 > len(data) {
		return nil, formatErrorf(offset, "GD3 tag out of range")
	}
	if !bytes.Equal(data[offset:offset+4], gd3Magic) {
		return nil, formatErrorf(offset, "missing GD3 magic")
	}

	version := binary.LittleEndian.Uint32(data[offset+4:])
	length := int(binary.LittleEndian.Uint32(data[offset+8:]))
	start := offset + 12
	if length < 0 || start+length > len(data) {
		return nil, formatErrorf(offset+8, "GD3 length %d exceeds file", length)
	}

	fields, err := splitUTF16(data[start : start+length])
	if err != nil {
		return nil, formatErrorf(start, "GD3 text: %v", err)
	}
	for len(fields) < gd3Fields {
		fields = append(fields, "")
	}

	return &Tag{
		Version:  version,
		Track:    fields[0],
		TrackJP:  fields[1],
		Game:     fields[2],
		GameJP:   fields[3],
		System:   fields[4],
		SystemJP: fields[5],
		Author:   fields[6],
		AuthorJP: fields[7],
		Date:     fields[8],
		RippedBy: fields[9],
		Notes:    fields[10],
	}, nil
}

// splitUTF16 splits a block of UTF-16LE text on 16-bit NUL terminators.
func splitUTF16(b []byte) ([]string, error) {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

	var fields []string
	begin := 0
	for i := 0; i+1 < len(b) && len(fields) < gd3Fields; i += 2 {
		if b[i] != 0 || b[i+1] != 0 {
			continue
		}
		s, err := dec.Bytes(b[begin:i])
		if err != nil {
			return nil, err
		}
		fields = append(fields, string(s))
		begin = i + 2
	}
	return fields, nil
}
