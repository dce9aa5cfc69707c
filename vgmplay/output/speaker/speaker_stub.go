//go:build headless

package speaker

import "io"

// Speaker stub for builds without an audio device
type Speaker struct{}

// New always returns ErrUnavailable.
func New(sampleRate int, src io.Reader) (*Speaker, error) {
	return nil, ErrUnavailable
}

func (s *Speaker) Start()       {}
func (s *Speaker) Close() error { return nil }
