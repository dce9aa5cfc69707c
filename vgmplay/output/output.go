// Package output writes rendered audio chunks to files and meters.
package output

import "github.com/valerio/go-vgmplay/vgmplay"

// Sink consumes 16-bit little-endian stereo chunks as produced by
// vgmplay.Driver.Buffer.
type Sink interface {
	WriteChunk(frames []byte) error
	Close() error
}

// Discard counts frames and drops them.
type Discard struct {
	Frames uint64
}

func (d *Discard) WriteChunk(frames []byte) error {
	d.Frames += uint64(len(frames) / vgmplay.BytesPerFrame)
	return nil
}

func (d *Discard) Close() error { return nil }

// Multi fans a chunk out to several sinks, stopping at the first error.
type Multi []Sink

func (m Multi) WriteChunk(frames []byte) error {
	for _, s := range m {
		if err := s.WriteChunk(frames); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and returns the first error.
func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
