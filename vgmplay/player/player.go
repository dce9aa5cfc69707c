// Package player hosts a playback session for the CLI. It serializes every
// call into the driver so an audio device can pull samples while the UI loop
// handles input and status.
package player

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/valerio/go-vgmplay/vgmplay"
	"github.com/valerio/go-vgmplay/vgmplay/backend"
	"github.com/valerio/go-vgmplay/vgmplay/chip"
	"github.com/valerio/go-vgmplay/vgmplay/output"
	"github.com/valerio/go-vgmplay/vgmplay/vgm"
)

const (
	// MaxVolume is the loudest master volume the player accepts.
	MaxVolume = 2.0
	// VolumeStep is the change applied by one volume key press.
	VolumeStep = 0.1
)

// Player wraps a Driver with a mutex. It implements io.Reader so it can be
// handed to a pull model audio device.
type Player struct {
	mu sync.Mutex

	driver *vgmplay.Driver
	muter  chip.Muter // nil when the chip cannot mute channels

	volume float64
	muted  map[string]bool
	level  output.Level
	chunks int
	err    error

	// length of measured, computed once per stream
	measured *vgm.Stream
	length   vgm.Length

	logger *slog.Logger
}

type Option func(*Player)

// WithVolume sets the initial master volume.
func WithVolume(v float64) Option {
	return func(p *Player) { p.volume = clampVolume(v) }
}

// WithLogger sets the player logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) { p.logger = l }
}

// New wraps an initialized driver. c is the chip attached to d and is only
// used for channel muting.
func New(d *vgmplay.Driver, c chip.Chip, opts ...Option) *Player {
	p := &Player{
		driver: d,
		volume: 1,
		muted:  make(map[string]bool),
		logger: slog.Default(),
	}
	if m, ok := c.(chip.Muter); ok {
		p.muter = m
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Render produces frames stereo frames. A decode error stops the session
// and is kept for Status; the caller gets the error once.
func (p *Player) Render(frames int) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	buf, err := p.render(frames)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), buf...), nil
}

// Read fills b with whole frames. Errors never reach the audio device:
// after a failure the player keeps returning silence.
func (p *Player) Read(b []byte) (int, error) {
	frames := len(b) / vgmplay.BytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	n := frames * vgmplay.BytesPerFrame

	p.mu.Lock()
	defer p.mu.Unlock()

	buf, err := p.render(frames)
	if err != nil {
		clear(b[:n])
		return n, nil
	}
	copy(b, buf)
	return n, nil
}

func (p *Player) render(frames int) ([]byte, error) {
	buf, err := p.driver.Buffer(frames, p.volume)
	if err != nil {
		if p.err == nil {
			p.logger.Error("Playback stopped", "name", p.driver.Name(), "offset", p.driver.Offset(), "error", err)
		}
		p.err = err
		p.driver.Stop()
		return nil, err
	}
	p.level = output.Measure(buf)
	p.chunks++
	return buf, nil
}

// TogglePause flips between playing and stopped. Resuming an ended or
// failed session restarts it from the top.
func (p *Player) TogglePause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.driver.State() == vgmplay.Playing {
		p.driver.Stop()
		p.logger.Info("Paused", "position", p.position())
		return nil
	}
	if p.driver.Ended() || p.err != nil {
		return p.restart()
	}
	if err := p.driver.Play(); err != nil {
		return err
	}
	p.logger.Info("Resumed", "position", p.position())
	return nil
}

// Restart replays the stream from its data start with a reset chip.
func (p *Player) Restart() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.restart()
}

func (p *Player) restart() error {
	if err := p.driver.Restart(); err != nil {
		return err
	}
	p.err = nil
	p.reapplyMutes()
	p.logger.Info("Restarted", "name", p.driver.Name())
	return nil
}

// reapplyMutes restores channel mutes after a chip reset.
func (p *Player) reapplyMutes() {
	if p.muter == nil {
		return
	}
	for name, muted := range p.muted {
		p.muter.MuteChannel(name, muted)
	}
}

// SetVolume sets the master volume, clamped to [0, MaxVolume].
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampVolume(v)
}

// AdjustVolume changes the master volume by delta and returns the new value.
func (p *Player) AdjustVolume(delta float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampVolume(p.volume + delta)
	p.logger.Debug("Volume changed", "volume", p.volume)
	return p.volume
}

func clampVolume(v float64) float64 {
	return min(max(v, 0), MaxVolume)
}

// SetMute silences or restores a channel by name.
func (p *Player) SetMute(channel string, muted bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setMute(channel, muted)
}

// ToggleMute flips the mute state of a channel.
func (p *Player) ToggleMute(channel string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setMute(channel, !p.muted[strings.ToUpper(channel)])
}

func (p *Player) setMute(channel string, muted bool) error {
	channel = strings.ToUpper(channel)
	if p.muter == nil {
		return fmt.Errorf("mute %s: chip does not support channel muting", channel)
	}
	if !p.muter.MuteChannel(channel, muted) {
		return fmt.Errorf("mute %s: unknown or silent channel", channel)
	}
	if muted {
		p.muted[channel] = true
	} else {
		delete(p.muted, channel)
	}
	p.logger.Info("Channel mute changed", "channel", channel, "muted", muted)
	return nil
}

// Err returns the error that stopped playback, if any.
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Status takes a snapshot of the session for the backends.
func (p *Player) Status() backend.Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := backend.Status{
		Name:     p.driver.Name(),
		State:    p.driver.State().String(),
		Ended:    p.driver.Ended(),
		Chunks:   p.chunks,
		Position: p.position(),
		Loops:    p.driver.Loops(),
		Volume:   p.volume,
		Level:    p.level,
		Err:      p.err,
	}
	for name := range p.muted {
		s.Muted = append(s.Muted, name)
	}
	sort.Strings(s.Muted)

	if stream := p.driver.Stream(); stream != nil {
		s.Duration = p.samplesToDuration(p.lengthOf(stream).Total)
		if tag := stream.Tag; tag != nil {
			s.Track = tag.Track
			s.Game = tag.Game
			s.System = tag.System
			s.Author = tag.Author
		}
	}
	return s
}

func (p *Player) lengthOf(stream *vgm.Stream) vgm.Length {
	if p.measured != stream {
		length, err := vgm.MeasureLength(stream)
		if err != nil {
			p.logger.Debug("Stream length is partial", "error", err)
		}
		p.measured, p.length = stream, length
	}
	return p.length
}

func (p *Player) position() time.Duration {
	return p.samplesToDuration(p.driver.Position())
}

func (p *Player) samplesToDuration(samples uint64) time.Duration {
	rate := p.driver.SampleRate()
	if rate <= 0 {
		return 0
	}
	return time.Duration(samples * uint64(time.Second) / uint64(rate))
}
