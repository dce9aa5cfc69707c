// Package chip defines the capability contract between the playback engine
// and sound-chip backends, and the registry used to pick one at startup.
package chip

// Chip is implemented by every sound-chip backend. The decoder only issues
// register writes, the scheduler only issues render calls.
type Chip interface {
	// Init configures the chip for the given output sample rate.
	Init(sampleRate int, cfg Config) error

	// WritePort1 writes value into register reg of FM port 1.
	WritePort1(reg, value uint8)

	// WritePort2 writes value into register reg of FM port 2.
	WritePort2(reg, value uint8)

	// WritePSG sends one command byte to the PSG.
	WritePSG(cmd uint8)

	// InitBuffer prepares a silent output buffer holding samples frames.
	InitBuffer(samples int)

	// RunBuffer emulates the chip for samples frames, appending them to the
	// buffer, and returns the buffer position in frames.
	RunBuffer(samples int, volume float64) int

	// Buffer returns the output buffer: 16-bit little-endian stereo frames,
	// left and right interleaved.
	Buffer() []byte

	// Reset returns the chip to its power-on state.
	Reset()
}

// Config is the chip configuration. Zero values select the backend default.
type Config struct {
	// FMVolume and PSGVolume are relative output levels, 1.0 = 100%.
	FMVolume  float64
	PSGVolume float64

	// PSGClock and FMClock are the input clocks in Hz.
	PSGClock int
	FMClock  int

	// MaxSamples is the largest request the host will make per buffer.
	MaxSamples int

	// Options carries backend specific settings.
	Options map[string]any
}

// Default Mega Drive clocks (NTSC).
const (
	DefaultPSGClock = 3579545
	DefaultFMClock  = 7670453
)

// WithDefaults returns a copy of c with unset fields filled in.
func (c Config) WithDefaults() Config {
	if c.FMVolume == 0 {
		c.FMVolume = 1
	}
	if c.PSGVolume == 0 {
		c.PSGVolume = 1
	}
	if c.PSGClock == 0 {
		c.PSGClock = DefaultPSGClock
	}
	if c.FMClock == 0 {
		c.FMClock = DefaultFMClock
	}
	if c.MaxSamples == 0 {
		c.MaxSamples = 4096
	}
	return c
}

// Muter is implemented by backends that can silence single channels.
type Muter interface {
	// MuteChannel silences or restores the named channel. It reports false
	// when the backend has no such channel or does not render it.
	MuteChannel(name string, muted bool) bool

	// Channels lists the channel names in a stable order.
	Channels() []string
}
