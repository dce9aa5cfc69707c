package vgm_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-vgmplay/vgmplay/vgm"
	"github.com/valerio/go-vgmplay/vgmplay/vgm/vgmtest"
)

func TestParse(t *testing.T) {
	t.Run("legacy header", func(t *testing.T) {
		data := vgmtest.New().Wait(735).End().Bytes()

		s, err := vgm.Parse(data)
		require.NoError(t, err)

		assert.Equal(t, uint16(0x150), s.Version)
		assert.Equal(t, 0x40, s.DataStart)
		assert.Equal(t, len(data), s.StreamEnd)
		assert.Equal(t, 0, s.LoopAddress)
		assert.False(t, s.Loops())
		assert.Equal(t, uint32(3579545), s.PSGClock)
		assert.Equal(t, uint32(7670453), s.FMClock)
		assert.Nil(t, s.Tag)
	})

	t.Run("legacy header ignores data offset field", func(t *testing.T) {
		data := vgmtest.New().Wait(1).End().Bytes()
		binary.LittleEndian.PutUint32(data[0x34:], 0x1000)

		s, err := vgm.Parse(data)
		require.NoError(t, err)
		assert.Equal(t, 0x40, s.DataStart)
	})

	t.Run("relative data offset", func(t *testing.T) {
		data := vgmtest.New().Version(0x171).HeaderSize(0x100).Wait(1).End().Bytes()

		s, err := vgm.Parse(data)
		require.NoError(t, err)
		assert.Equal(t, 0x100, s.DataStart)
	})

	t.Run("zero data offset means 0x40", func(t *testing.T) {
		data := vgmtest.New().Version(0x160).HeaderSize(0x80).Wait(1).End().Bytes()
		binary.LittleEndian.PutUint32(data[0x34:], 0)

		s, err := vgm.Parse(data)
		require.NoError(t, err)
		assert.Equal(t, 0x40, s.DataStart)
	})

	t.Run("loop address", func(t *testing.T) {
		b := vgmtest.New().Wait(100).Loop().Wait(200).End()

		s, err := vgm.Parse(b.Bytes())
		require.NoError(t, err)
		assert.Equal(t, b.DataStart()+3, s.LoopAddress)
		assert.True(t, s.Loops())
	})

	t.Run("stream end clamped to file", func(t *testing.T) {
		data := vgmtest.New().Wait(1).End().Bytes()
		binary.LittleEndian.PutUint32(data[0x18:], 0xFFFFFF)

		s, err := vgm.Parse(data)
		require.NoError(t, err)
		assert.Equal(t, len(data), s.StreamEnd)
	})

	t.Run("old FM clock location", func(t *testing.T) {
		data := vgmtest.New().Version(0x101).Wait(1).End().Bytes()
		binary.LittleEndian.PutUint32(data[0x10:], 3579545)

		s, err := vgm.Parse(data)
		require.NoError(t, err)
		assert.Equal(t, uint32(3579545), s.FMClock)
	})

	t.Run("GD3 tag", func(t *testing.T) {
		data := vgmtest.New().Wait(1).End().
			Tag("Green Hill Zone", "", "Sonic the Hedgehog", "", "Sega Mega Drive", "", "Masato Nakamura").
			Bytes()

		s, err := vgm.Parse(data)
		require.NoError(t, err)
		require.NotNil(t, s.Tag)
		assert.Equal(t, "Green Hill Zone", s.Tag.Track)
		assert.Equal(t, "Sonic the Hedgehog", s.Tag.Game)
		assert.Equal(t, "Sega Mega Drive", s.Tag.System)
		assert.Equal(t, "Masato Nakamura", s.Tag.Author)
		assert.Empty(t, s.Tag.Notes)
	})

	t.Run("broken GD3 tag is ignored", func(t *testing.T) {
		data := vgmtest.New().Wait(1).End().Bytes()
		binary.LittleEndian.PutUint32(data[0x14:], 0x8000)

		s, err := vgm.Parse(data)
		require.NoError(t, err)
		assert.Nil(t, s.Tag)
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		data       func() []byte
		wantOffset int
	}{
		{
			name:       "too short",
			data:       func() []byte { return []byte("Vgm ") },
			wantOffset: 0,
		},
		{
			name: "bad magic",
			data: func() []byte {
				data := vgmtest.New().End().Bytes()
				copy(data, "RIFF")
				return data
			},
			wantOffset: 0,
		},
		{
			name: "loop before data start",
			data: func() []byte {
				data := vgmtest.New().Wait(1).End().Bytes()
				binary.LittleEndian.PutUint32(data[0x1C:], 4)
				return data
			},
			wantOffset: 0x1C,
		},
		{
			name: "loop past stream end",
			data: func() []byte {
				data := vgmtest.New().Wait(1).End().Bytes()
				binary.LittleEndian.PutUint32(data[0x1C:], uint32(len(data)))
				return data
			},
			wantOffset: 0x1C,
		},
		{
			name: "data start past stream end",
			data: func() []byte {
				return vgmtest.New().Version(0x170).HeaderSize(0x100).Bytes()
			},
			wantOffset: 0x34,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := vgm.Parse(tt.data())
			assert.Nil(t, s)

			var fe *vgm.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantOffset, fe.Offset)
		})
	}
}
