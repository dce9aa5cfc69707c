//go:build !headless && !sdl2

package speaker

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Speaker pulls audio from a reader through an oto player.
type Speaker struct {
	ctx     *oto.Context
	player  *oto.Player
	started bool
	mutex   sync.Mutex
}

// New opens the default device. src is read from oto's audio goroutine.
func New(sampleRate int, src io.Reader) (*Speaker, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(bufferFrames) * time.Second / time.Duration(sampleRate),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	s := &Speaker{ctx: ctx}
	s.player = ctx.NewPlayer(src)
	slog.Debug("Audio device opened", "backend", "oto", "rate", sampleRate)
	return s, nil
}

func (s *Speaker) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.started {
		s.player.Play()
		s.started = true
	}
}

func (s *Speaker) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	s.started = false
	return err
}
