package vgm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPCMBlock(t *testing.T) {
	t.Run("empty block", func(t *testing.T) {
		var b PCMBlock
		_, ok := b.Next()
		assert.False(t, ok)
		b.Seek(5)
		assert.Equal(t, 0, b.Cursor())
	})

	t.Run("append drops consumed bytes", func(t *testing.T) {
		var b PCMBlock
		b.Append([]byte{1, 2, 3})
		b.Next()
		b.Next()
		b.Append([]byte{4, 5})

		assert.Equal(t, 3, b.Len())
		assert.Equal(t, 0, b.Cursor())
		for _, want := range []byte{3, 4, 5} {
			v, ok := b.Next()
			assert.True(t, ok)
			assert.Equal(t, want, v)
		}
	})

	t.Run("append does not alias the caller", func(t *testing.T) {
		var b PCMBlock
		src := []byte{1, 2}
		b.Append(src)
		src[0] = 9

		v, _ := b.Next()
		assert.Equal(t, byte(1), v)
	})

	t.Run("seek is clamped", func(t *testing.T) {
		var b PCMBlock
		b.Append([]byte{1, 2, 3})

		b.Seek(1)
		assert.Equal(t, 1, b.Cursor())
		b.Seek(3)
		assert.Equal(t, 3, b.Cursor())
		b.Seek(1 << 31)
		assert.Equal(t, 3, b.Cursor())
	})

	t.Run("reset", func(t *testing.T) {
		var b PCMBlock
		b.Append([]byte{1})
		b.Reset()
		assert.Equal(t, 0, b.Len())
		assert.Equal(t, 0, b.Cursor())
	})
}

func TestLoopController(t *testing.T) {
	tests := []struct {
		name      string
		address   int
		limit     int
		calls     int
		wantCount int
		wantLast  bool
	}{
		{name: "no loop point", address: 0, calls: 1, wantCount: 0, wantLast: false},
		{name: "loops forever", address: 0x40, calls: 100, wantCount: 100, wantLast: true},
		{name: "limit reached", address: 0x40, limit: 3, calls: 4, wantCount: 3, wantLast: false},
		{name: "within limit", address: 0x40, limit: 3, calls: 3, wantCount: 3, wantLast: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoopController(tt.address, tt.limit)

			var addr int
			var ok bool
			for range tt.calls {
				addr, ok = l.Redirect()
			}
			assert.Equal(t, tt.wantLast, ok)
			assert.Equal(t, tt.wantCount, l.Count())
			if ok {
				assert.Equal(t, tt.address, addr)
			}
		})
	}
}

func TestParseTag(t *testing.T) {
	t.Run("out of range", func(t *testing.T) {
		_, err := ParseTag(make([]byte, 16), 8)
		assert.Error(t, err)
	})

	t.Run("bad magic", func(t *testing.T) {
		_, err := ParseTag(make([]byte, 32), 0)
		var fe *FormatError
		assert.ErrorAs(t, err, &fe)
	})

	t.Run("fields", func(t *testing.T) {
		data := append([]byte("Gd3 \x00\x01\x00\x00"), 12, 0, 0, 0)
		data = append(data, 'A', 0, 0, 0, 0x42, 0x30, 0, 0, 'B', 0, 0, 0)

		tag, err := ParseTag(data, 0)
		assert.NoError(t, err)
		assert.Equal(t, uint32(0x100), tag.Version)
		assert.Equal(t, "A", tag.Track)
		assert.Equal(t, "あ", tag.TrackJP)
		assert.Equal(t, "B", tag.Game)
		assert.Empty(t, tag.System)
	})
}
