package player_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-vgmplay/vgmplay"
	"github.com/valerio/go-vgmplay/vgmplay/backend"
	"github.com/valerio/go-vgmplay/vgmplay/backend/headless"
	"github.com/valerio/go-vgmplay/vgmplay/chip"
	"github.com/valerio/go-vgmplay/vgmplay/chip/megadrive"
	"github.com/valerio/go-vgmplay/vgmplay/chip/null"
	"github.com/valerio/go-vgmplay/vgmplay/input/action"
	"github.com/valerio/go-vgmplay/vgmplay/input/event"
	"github.com/valerio/go-vgmplay/vgmplay/output"
	"github.com/valerio/go-vgmplay/vgmplay/player"
	"github.com/valerio/go-vgmplay/vgmplay/vgm"
	"github.com/valerio/go-vgmplay/vgmplay/vgm/vgmtest"
)

const rate = 44100

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newPlayer(t *testing.T, c chip.Chip, b *vgmtest.Builder, opts ...player.Option) *player.Player {
	t.Helper()
	d := vgmplay.New(vgmplay.WithLogger(quiet))
	require.NoError(t, d.Init(rate, chip.Config{}, c))
	require.NoError(t, d.PlayData("test.vgm", b.Bytes()))
	return player.New(d, c, append([]player.Option{player.WithLogger(quiet)}, opts...)...)
}

func TestPlayer_Read(t *testing.T) {
	p := newPlayer(t, null.New(), vgmtest.New().Wait(100).End())

	b := make([]byte, 10)
	n, err := p.Read(b)
	require.NoError(t, err)
	assert.Equal(t, 8, n, "whole frames only")

	n, err = p.Read(make([]byte, 3))
	require.NoError(t, err)
	assert.Zero(t, n)

	s := p.Status()
	assert.Equal(t, 1, s.Chunks)
	assert.Equal(t, 2*time.Second/rate, s.Position)
}

func TestPlayer_DecodeError(t *testing.T) {
	p := newPlayer(t, null.New(), vgmtest.New().Wait(2).Raw(0x01).End())

	_, err := p.Render(10)
	var unsupported *vgm.UnsupportedCommandError
	require.ErrorAs(t, err, &unsupported)

	s := p.Status()
	assert.Equal(t, "stopped", s.State)
	assert.ErrorAs(t, s.Err, &unsupported)
	assert.True(t, s.Done())

	b := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	n, err := p.Read(b)
	require.NoError(t, err, "the device only ever sees silence")
	assert.Equal(t, 8, n)
	assert.Equal(t, make([]byte, 8), b)

	require.NoError(t, p.TogglePause())
	assert.NoError(t, p.Err(), "resuming a failed session restarts it")
	assert.Equal(t, "playing", p.Status().State)
}

func TestPlayer_TogglePause(t *testing.T) {
	p := newPlayer(t, null.New(), vgmtest.New().Wait(10).Wait(10).End())

	_, err := p.Render(5)
	require.NoError(t, err)

	require.NoError(t, p.TogglePause())
	assert.Equal(t, "stopped", p.Status().State)

	before := p.Status().Position
	_, err = p.Render(5)
	require.NoError(t, err)
	assert.Equal(t, before, p.Status().Position, "stopped sessions do not advance")

	require.NoError(t, p.TogglePause())
	assert.Equal(t, "playing", p.Status().State)

	_, err = p.Render(100)
	require.NoError(t, err)
	assert.True(t, p.Status().Ended)

	require.NoError(t, p.TogglePause())
	require.NoError(t, p.TogglePause())
	s := p.Status()
	assert.False(t, s.Ended, "resuming an ended session restarts it")
	assert.Zero(t, s.Position)
}

func TestPlayer_Volume(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		delta float64
		want  float64
	}{
		{"step up", 1, player.VolumeStep, 1.1},
		{"step down", 1, -player.VolumeStep, 0.9},
		{"floor", 0.05, -player.VolumeStep, 0},
		{"ceiling", player.MaxVolume, player.VolumeStep, player.MaxVolume},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayer(t, null.New(), vgmtest.New().End(), player.WithVolume(tt.start))
			assert.InDelta(t, tt.want, p.AdjustVolume(tt.delta), 1e-9)
			assert.InDelta(t, tt.want, p.Status().Volume, 1e-9)
		})
	}

	p := newPlayer(t, null.New(), vgmtest.New().End())
	p.SetVolume(5)
	assert.Equal(t, player.MaxVolume, p.Status().Volume)
}

func TestPlayer_Mute(t *testing.T) {
	t.Run("megadrive", func(t *testing.T) {
		p := newPlayer(t, megadrive.New(), vgmtest.New().Wait(10).End())

		require.NoError(t, p.ToggleMute("psg1"))
		require.NoError(t, p.SetMute("DAC", true))
		assert.Equal(t, []string{"DAC", "PSG1"}, p.Status().Muted)

		require.NoError(t, p.ToggleMute("PSG1"))
		assert.Equal(t, []string{"DAC"}, p.Status().Muted)

		assert.Error(t, p.SetMute("FM1", true), "FM is not rendered")
		assert.Error(t, p.SetMute("FM9", true))

		require.NoError(t, p.Restart())
		assert.Equal(t, []string{"DAC"}, p.Status().Muted, "mutes survive a restart")
	})

	t.Run("chip without mute support", func(t *testing.T) {
		p := newPlayer(t, null.New(), vgmtest.New().End())
		assert.Error(t, p.ToggleMute("DAC"))
		assert.Empty(t, p.Status().Muted)
	})
}

func TestPlayer_Status(t *testing.T) {
	b := vgmtest.New().
		Wait(rate / 2).Loop().Wait(rate / 2).End().
		Tag("Green Hill Zone", "", "Sonic the Hedgehog", "", "Mega Drive", "", "Masato Nakamura")
	p := newPlayer(t, null.New(), b)

	s := p.Status()
	assert.Equal(t, "test.vgm", s.Name)
	assert.Equal(t, "Green Hill Zone", s.Track)
	assert.Equal(t, "Sonic the Hedgehog", s.Game)
	assert.Equal(t, "Mega Drive", s.System)
	assert.Equal(t, "Masato Nakamura", s.Author)
	assert.Equal(t, time.Second, s.Duration)
	assert.Equal(t, 1.0, s.Volume)
	assert.NoError(t, s.Err)
}

// scriptedBackend returns one batch of events per Update call.
type scriptedBackend struct {
	script   [][]backend.InputEvent
	statuses []backend.Status
}

func (b *scriptedBackend) Init(backend.Config) error { return nil }
func (b *scriptedBackend) Cleanup() error            { return nil }

func (b *scriptedBackend) Update(status backend.Status) ([]backend.InputEvent, error) {
	b.statuses = append(b.statuses, status)
	if len(b.script) == 0 {
		return nil, nil
	}
	events := b.script[0]
	b.script = b.script[1:]
	return events, nil
}

func press(act action.Action) []backend.InputEvent {
	return []backend.InputEvent{{Action: act, Type: event.Press}}
}

type failingSink struct{}

func (failingSink) WriteChunk([]byte) error { return errors.New("disk full") }
func (failingSink) Close() error            { return nil }

func TestRun(t *testing.T) {
	t.Run("headless chunk limit", func(t *testing.T) {
		p := newPlayer(t, null.New(), vgmtest.New().Wait(5000).End())
		h := headless.New(3)
		require.NoError(t, h.Init(backend.Config{}))

		sink := &output.Discard{}
		err := p.Run(context.Background(), player.RunConfig{Backend: h, Sink: sink, Chunk: 100})
		require.NoError(t, err)
		assert.Equal(t, uint64(300), sink.Frames)
		assert.Equal(t, 3, h.Chunks())
	})

	t.Run("headless stops at end of stream", func(t *testing.T) {
		p := newPlayer(t, null.New(), vgmtest.New().Wait(250).End())
		h := headless.New(0)
		require.NoError(t, h.Init(backend.Config{}))

		sink := &output.Discard{}
		require.NoError(t, p.Run(context.Background(), player.RunConfig{Backend: h, Sink: sink, Chunk: 100}))
		assert.Equal(t, uint64(300), sink.Frames, "the chunk that hits the end is written whole")
	})

	t.Run("events drive the player", func(t *testing.T) {
		p := newPlayer(t, megadrive.New(), vgmtest.New().Wait(5000).End())
		b := &scriptedBackend{script: [][]backend.InputEvent{
			press(action.VolumeUp),
			press(action.MuteTogglePSG2),
			press(action.PlayerPauseToggle),
			press(action.PlayerQuit),
		}}

		err := p.Run(context.Background(), player.RunConfig{Backend: b, Sink: &output.Discard{}, Chunk: 10})
		require.NoError(t, err)
		require.Len(t, b.statuses, 4)

		s := p.Status()
		assert.InDelta(t, 1.1, s.Volume, 1e-9)
		assert.Equal(t, []string{"PSG2"}, s.Muted)
		assert.Equal(t, "stopped", s.State)
		assert.Equal(t, 30*time.Second/rate, s.Position, "the fourth chunk is rendered while paused")
	})

	t.Run("pull mode renders nothing itself", func(t *testing.T) {
		p := newPlayer(t, null.New(), vgmtest.New().Wait(5000).End())
		b := &scriptedBackend{script: [][]backend.InputEvent{nil, press(action.PlayerQuit)}}

		require.NoError(t, p.Run(context.Background(), player.RunConfig{Backend: b, Chunk: 10}))
		assert.Zero(t, p.Status().Chunks)
	})

	t.Run("sink failure", func(t *testing.T) {
		p := newPlayer(t, null.New(), vgmtest.New().Wait(5000).End())
		err := p.Run(context.Background(), player.RunConfig{Backend: &scriptedBackend{}, Sink: failingSink{}, Chunk: 10})
		assert.ErrorContains(t, err, "disk full")
	})

	t.Run("cancelled", func(t *testing.T) {
		p := newPlayer(t, null.New(), vgmtest.New().Wait(5000).End())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := p.Run(ctx, player.RunConfig{Backend: &scriptedBackend{}, Chunk: 10})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid config", func(t *testing.T) {
		p := newPlayer(t, null.New(), vgmtest.New().End())
		assert.Error(t, p.Run(context.Background(), player.RunConfig{Chunk: 10}))
		assert.Error(t, p.Run(context.Background(), player.RunConfig{Backend: &scriptedBackend{}}))
	})
}
