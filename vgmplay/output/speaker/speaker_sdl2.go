//go:build sdl2 && !headless

package speaker

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

// Speaker feeds an SDL2 audio queue from a reader.
// Note: building this requires SDL2 development libraries installed.
type Speaker struct {
	dev    sdl.AudioDeviceID
	src    io.Reader
	chunk  []byte
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
	mutex  sync.Mutex
}

// New opens the default device. src is read from a feeder goroutine once
// Start is called.
func New(sampleRate int, src io.Reader) (*Speaker, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL2 audio: %v", err)
	}

	want := sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  bufferFrames,
	}
	dev, err := sdl.OpenAudioDevice("", false, &want, nil, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, fmt.Errorf("failed to open audio device: %v", err)
	}

	slog.Debug("Audio device opened", "backend", "sdl2", "rate", sampleRate)
	return &Speaker{
		dev:   dev,
		src:   src,
		chunk: make([]byte, bufferFrames/2*bytesPerFrame),
		done:  make(chan struct{}),
	}, nil
}

func (s *Speaker) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return
	}
	sdl.PauseAudioDevice(s.dev, false)
	s.wg.Add(1)
	go s.feed()
}

// feed keeps about two device buffers queued.
func (s *Speaker) feed() {
	defer s.wg.Done()
	low := uint32(2 * bufferFrames * bytesPerFrame)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		if sdl.GetQueuedAudioSize(s.dev) >= low {
			time.Sleep(2 * time.Millisecond)
			continue
		}
		n, err := io.ReadFull(s.src, s.chunk)
		if n > 0 {
			if qerr := sdl.QueueAudio(s.dev, s.chunk[:n]); qerr != nil {
				slog.Error("Failed to queue audio", "error", qerr)
				return
			}
		}
		if err != nil {
			slog.Debug("Audio source drained", "error", err)
			return
		}
	}
}

func (s *Speaker) Close() error {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mutex.Unlock()

	s.wg.Wait()
	sdl.CloseAudioDevice(s.dev)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
