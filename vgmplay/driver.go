// Package vgmplay replays VGM command logs against a pluggable sound chip,
// producing sample-accurate audio in chunks of any size.
package vgmplay

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-vgmplay/vgmplay/chip"
	"github.com/valerio/go-vgmplay/vgmplay/vgm"
)

// BytesPerFrame is the size of one 16-bit stereo output frame.
const BytesPerFrame = 4

// Source resolves a path to a VGM image. The loader package provides one
// backed by a filesystem.
type Source interface {
	Load(path string) ([]byte, error)
}

// Driver is one playback session. It is not safe for concurrent use: the
// host must serialize Buffer, Load, Play, PlayFile and Stop.
type Driver struct {
	chip       chip.Chip
	sampleRate int

	name    string
	stream  *vgm.Stream
	decoder *vgm.Decoder

	state   State
	pending int // samples owed from the last decoded delay
	ended   bool
	played  uint64

	source    Source
	loopLimit int
	trace     func(vgm.Op)
	logger    *slog.Logger
}

// New creates an idle session. Init must be called before Buffer.
func New(opts ...Option) *Driver {
	d := &Driver{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init attaches and initializes the chip.
func (d *Driver) Init(sampleRate int, cfg chip.Config, c chip.Chip) error {
	if c == nil {
		return &vgm.InvariantError{Reason: "no chip attached"}
	}
	if err := c.Init(sampleRate, cfg); err != nil {
		return fmt.Errorf("init chip: %w", err)
	}
	d.chip = c
	d.sampleRate = sampleRate
	if d.stream != nil {
		d.rewind()
	}
	return nil
}

// Load validates data and installs it as the current stream, positioned at
// its data start with an empty PCM block. The session is left stopped. On
// error the previous stream is kept untouched.
func (d *Driver) Load(name string, data []byte) error {
	s, err := vgm.Parse(data)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}

	d.name = name
	d.stream = s
	d.state = Stopped
	d.rewind()

	d.logger.Info("Loaded VGM stream",
		"name", name,
		"version", fmt.Sprintf("%X.%02X", s.Version>>8, s.Version&0xFF),
		"data_start", s.DataStart,
		"stream_end", s.StreamEnd,
		"loop", s.LoopAddress)
	return nil
}

// PlayFile loads path through the configured source, resets the chip and
// starts playing from the beginning.
func (d *Driver) PlayFile(path string) error {
	if d.source == nil {
		return &vgm.InvariantError{Reason: "no stream source configured"}
	}
	data, err := d.source.Load(path)
	if err != nil {
		return err
	}
	return d.PlayData(path, data)
}

// PlayData is PlayFile for an image already in memory.
func (d *Driver) PlayData(name string, data []byte) error {
	if d.chip == nil {
		return &vgm.InvariantError{Reason: "no chip attached"}
	}
	if err := d.Load(name, data); err != nil {
		return err
	}
	d.chip.Reset()
	d.state = Playing
	return nil
}

// Play resumes from the current cursor.
func (d *Driver) Play() error {
	if d.stream == nil {
		return &vgm.InvariantError{Reason: "no stream loaded"}
	}
	d.state = Playing
	return nil
}

// Stop pauses playback without moving the cursor.
func (d *Driver) Stop() {
	d.state = Stopped
}

// Restart rewinds the current stream and resets the chip, as PlayFile does
// for a new one.
func (d *Driver) Restart() error {
	if d.stream == nil {
		return &vgm.InvariantError{Reason: "no stream loaded"}
	}
	if d.chip == nil {
		return &vgm.InvariantError{Reason: "no chip attached"}
	}
	d.rewind()
	d.chip.Reset()
	d.state = Playing
	return nil
}

func (d *Driver) rewind() {
	d.decoder = vgm.NewDecoder(d.stream, d.chip, d.loopLimit)
	if d.trace != nil {
		d.decoder.SetTracer(d.trace)
	}
	d.pending = 0
	d.ended = false
	d.played = 0
}

// Buffer renders exactly samples frames and returns them as 16-bit
// little-endian stereo. Commands are executed in step with rendering, so a
// wait that straddles two calls is carried over to the next one.
func (d *Driver) Buffer(samples int, volume float64) ([]byte, error) {
	if d.chip == nil {
		return nil, &vgm.InvariantError{Reason: "no chip attached"}
	}
	if samples < 0 {
		return nil, &vgm.InvariantError{Reason: fmt.Sprintf("negative sample count %d", samples)}
	}

	d.chip.InitBuffer(samples)

	if d.state != Playing || d.decoder == nil {
		return d.output(samples)
	}

	if d.ended {
		d.run(samples, volume)
		return d.output(samples)
	}

	if d.pending >= samples {
		d.run(samples, volume)
		d.pending -= samples
		return d.output(samples)
	}

	left := samples
	if d.pending > 0 {
		d.run(d.pending, volume)
		left -= d.pending
		d.pending = 0
	}

	for left > 0 {
		delay, err := d.decoder.Step()
		if errors.Is(err, vgm.ErrEndOfStream) {
			d.logger.Debug("End of stream", "name", d.name, "offset", d.decoder.Offset())
			d.ended = true
			d.run(left, volume)
			break
		}
		if err != nil {
			return nil, err
		}

		if delay >= left {
			d.run(left, volume)
			d.pending = delay - left
			break
		}
		if delay > 0 {
			d.run(delay, volume)
			left -= delay
		}
	}

	return d.output(samples)
}

func (d *Driver) run(samples int, volume float64) {
	d.chip.RunBuffer(samples, volume)
	d.played += uint64(samples)
}

func (d *Driver) output(samples int) ([]byte, error) {
	buf := d.chip.Buffer()
	if len(buf) != samples*BytesPerFrame {
		return nil, &vgm.InvariantError{
			Reason: fmt.Sprintf("chip returned %d bytes for %d samples", len(buf), samples),
		}
	}
	return buf, nil
}

// State returns the playback state.
func (d *Driver) State() State { return d.state }

// Ended reports whether the stream reached its end without a loop.
func (d *Driver) Ended() bool { return d.ended }

// Pending returns the samples carried over to the next Buffer call.
func (d *Driver) Pending() int { return d.pending }

// Position returns the number of frames rendered since the stream started.
func (d *Driver) Position() uint64 { return d.played }

// SampleRate returns the output rate given to Init.
func (d *Driver) SampleRate() int { return d.sampleRate }

// Name returns the name the current stream was loaded with.
func (d *Driver) Name() string { return d.name }

// Stream returns the current stream, or nil.
func (d *Driver) Stream() *vgm.Stream { return d.stream }

// Offset returns the decoder cursor, or 0 when nothing is loaded.
func (d *Driver) Offset() int {
	if d.decoder == nil {
		return 0
	}
	return d.decoder.Offset()
}

// Loops returns how many times the current stream looped.
func (d *Driver) Loops() int {
	if d.decoder == nil {
		return 0
	}
	return d.decoder.Loops()
}

// PCMCursor returns the PCM block read cursor.
func (d *Driver) PCMCursor() int {
	if d.decoder == nil {
		return 0
	}
	return d.decoder.PCM().Cursor()
}
