package output

import (
	"encoding/binary"
	"fmt"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

const (
	wavBitDepth = 16
	wavChannels = 2
	wavPCM      = 1
)

// WAV writes chunks to a 16-bit stereo PCM wave file.
type WAV struct {
	file   afero.File
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	frames uint64
}

// CreateWAV creates path on fs. The header is finalized by Close.
func CreateWAV(fs afero.Fs, path string, sampleRate int) (*WAV, error) {
	f, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create wav file: %w", err)
	}
	return &WAV{
		file: f,
		enc:  wav.NewEncoder(f, sampleRate, wavBitDepth, wavChannels, wavPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: wavChannels, SampleRate: sampleRate},
			SourceBitDepth: wavBitDepth,
		},
	}, nil
}

func (w *WAV) WriteChunk(frames []byte) error {
	n := len(frames) / 2
	if cap(w.buf.Data) < n {
		w.buf.Data = make([]int, n)
	}
	w.buf.Data = w.buf.Data[:n]
	for i := range n {
		w.buf.Data[i] = int(int16(binary.LittleEndian.Uint16(frames[i*2:])))
	}
	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	w.frames += uint64(n / wavChannels)
	return nil
}

// Frames returns the number of stereo frames written.
func (w *WAV) Frames() uint64 { return w.frames }

func (w *WAV) Close() error {
	if err := w.enc.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to finalize wav file: %w", err)
	}
	return w.file.Close()
}
