package output

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/go-audio/wav"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestWAV(t *testing.T) {
	fs := afero.NewMemMapFs()
	w, err := CreateWAV(fs, "/out.wav", 44100)
	require.NoError(t, err)

	require.NoError(t, w.WriteChunk(chunk(100, -100, 32767, -32768)))
	require.NoError(t, w.WriteChunk(chunk(1, 2)))
	assert.Equal(t, uint64(3), w.Frames())
	require.NoError(t, w.Close())

	f, err := fs.Open("/out.wav")
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, 2, buf.Format.NumChannels)
	assert.Equal(t, 44100, buf.Format.SampleRate)
	assert.Equal(t, []int{100, -100, 32767, -32768, 1, 2}, buf.Data)
}

func TestCreateWAVFails(t *testing.T) {
	_, err := CreateWAV(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/out.wav", 44100)
	assert.Error(t, err)
}

type failingSink struct{ closed bool }

func (f *failingSink) WriteChunk([]byte) error { return errors.New("disk full") }
func (f *failingSink) Close() error {
	f.closed = true
	return errors.New("close failed")
}

func TestMulti(t *testing.T) {
	d := &Discard{}
	bad := &failingSink{}
	m := Multi{d, bad}

	assert.EqualError(t, m.WriteChunk(make([]byte, 40)), "disk full")
	assert.Equal(t, uint64(10), d.Frames)

	assert.EqualError(t, m.Close(), "close failed")
	assert.True(t, bad.closed)
}

func TestMeasure(t *testing.T) {
	t.Run("silence", func(t *testing.T) {
		assert.Equal(t, Level{}, Measure(make([]byte, 64)))
		assert.Equal(t, Level{}, Measure(nil))
	})

	t.Run("square wave", func(t *testing.T) {
		lvl := Measure(chunk(16384, 0, -16384, 0))
		assert.InDelta(t, 0.5, lvl.PeakL, 1e-9)
		assert.InDelta(t, 0.5, lvl.RMSL, 1e-9)
		assert.Zero(t, lvl.PeakR)
		assert.Zero(t, lvl.RMSR)
	})

	t.Run("decibels", func(t *testing.T) {
		assert.InDelta(t, 0, Decibels(1), 1e-9)
		assert.InDelta(t, -6.02, Decibels(0.5), 0.01)
		assert.Equal(t, -96.0, Decibels(0))
		assert.Equal(t, -96.0, Decibels(1e-9))
	})
}
