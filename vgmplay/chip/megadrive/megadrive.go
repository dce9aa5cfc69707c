// Package megadrive is the Sega Mega Drive sound backend: an SN76489 PSG
// rendered by go-chip-sn76489 and the YM2612 register file with its DAC.
//
// FM operators are latched but not synthesized; the DAC (channel 6) is
// rendered directly from register 0x2A when enabled through 0x2B.
package megadrive

import (
	"fmt"
	"strings"

	"github.com/user-none/go-chip-sn76489"
	"github.com/valerio/go-vgmplay/vgmplay/chip"
)

// YM2612 registers used by the backend
const (
	regDAC       = 0x2A
	regDACEnable = 0x2B
	regPanCh3    = 0xB6 // port 2: channel 6 panning, shared with the DAC

	dacEnableBit = 0x80
	panLeftBit   = 0x80
	panRightBit  = 0x40
	panCenter    = panLeftBit | panRightBit
)

// Channel ids, matching the Mega Drive driver layout.
const (
	FM1 = iota
	FM2
	FM3
	FM4
	FM5
	FM6
	DAC
	PSG1
	PSG2
	PSG3
	PSG4
	channelCount
)

var channelNames = [channelCount]string{
	"FM1", "FM2", "FM3", "FM4", "FM5", "FM6", "DAC", "PSG1", "PSG2", "PSG3", "PSG4",
}

// Chip implements chip.Chip for the Mega Drive.
type Chip struct {
	cfg        chip.Config
	sampleRate int

	ym  [2][256]uint8
	psg *sn76489.SN76489

	// psgClocksPerSample is the number of PSG input clocks per output frame
	psgClocksPerSample float64
	psgClockAcc        float64

	shadow psgShadow
	muted  [channelCount]bool

	buf chip.FrameBuffer
}

var _ chip.Chip = (*Chip)(nil)
var _ chip.Muter = (*Chip)(nil)

func New() chip.Chip {
	return &Chip{}
}

func (c *Chip) Init(sampleRate int, cfg chip.Config) error {
	if sampleRate <= 0 {
		return fmt.Errorf("megadrive: invalid sample rate %d", sampleRate)
	}
	c.cfg = cfg.WithDefaults()
	c.sampleRate = sampleRate
	c.psgClocksPerSample = float64(c.cfg.PSGClock) / float64(sampleRate)
	c.Reset()
	return nil
}

func (c *Chip) Reset() {
	c.ym = [2][256]uint8{}
	for reg := 0xB4; reg <= 0xB6; reg++ {
		c.ym[0][reg] = panCenter
		c.ym[1][reg] = panCenter
	}
	c.shadow = newPSGShadow()
	for ch := range c.shadow.muted {
		c.shadow.muted[ch] = c.muted[PSG1+ch]
	}
	if c.sampleRate == 0 {
		// not initialized yet
		return
	}
	c.psg = sn76489.New(c.cfg.PSGClock, c.sampleRate, c.cfg.MaxSamples, sn76489.Sega)
	c.psgClockAcc = 0
}

func (c *Chip) WritePort1(reg, value uint8) {
	c.ym[0][reg] = value
}

func (c *Chip) WritePort2(reg, value uint8) {
	c.ym[1][reg] = value
}

func (c *Chip) WritePSG(cmd uint8) {
	if c.psg == nil {
		return
	}
	c.shadow.observe(cmd)
	if ch, ok := c.shadow.volumeTarget(cmd); ok && c.muted[PSG1+ch] {
		cmd |= 0x0F
	}
	c.psg.Write(cmd)
}

func (c *Chip) InitBuffer(samples int) {
	c.buf.Init(samples)
}

func (c *Chip) RunBuffer(samples int, volume float64) int {
	samples = min(samples, c.buf.Remaining())
	if c.psg == nil {
		c.buf.Skip(samples)
		return c.buf.Pos()
	}
	for range samples {
		c.psgClockAcc += c.psgClocksPerSample
		for c.psgClockAcc >= 1 {
			c.psg.Clock()
			c.psgClockAcc--
		}

		psg := float64(c.psg.Sample()) * c.cfg.PSGVolume
		left, right := psg, psg

		if dac, ok := c.dacSample(); ok {
			pan := c.ym[1][regPanCh3]
			if pan&panLeftBit != 0 {
				left += dac
			}
			if pan&panRightBit != 0 {
				right += dac
			}
		}

		c.buf.Put(chip.ToInt16(left*volume), chip.ToInt16(right*volume))
	}
	return c.buf.Pos()
}

// dacSample returns the current DAC level scaled to [-1, 1).
func (c *Chip) dacSample() (float64, bool) {
	if c.ym[0][regDACEnable]&dacEnableBit == 0 || c.muted[DAC] {
		return 0, false
	}
	return (float64(c.ym[0][regDAC]) - 128) / 128 * c.cfg.FMVolume, true
}

func (c *Chip) Buffer() []byte {
	return c.buf.Bytes()
}

// Register returns the last value written to reg on port 1 or 2.
func (c *Chip) Register(port int, reg uint8) uint8 {
	return c.ym[port-1][reg]
}

// Mute silences or restores a channel. It returns false for unknown ids or
// channels this backend does not render.
func (c *Chip) Mute(channel int, muted bool) bool {
	if channel < 0 || channel >= channelCount {
		return false
	}
	c.muted[channel] = muted

	if channel >= PSG1 && c.psg != nil {
		ch := uint8(channel - PSG1)
		for _, cmd := range c.shadow.remute(ch, muted) {
			c.psg.Write(cmd)
		}
	}
	return channel >= DAC
}

// MuteChannel is Mute by channel name.
func (c *Chip) MuteChannel(name string, muted bool) bool {
	id, ok := ChannelID(name)
	if !ok {
		return false
	}
	return c.Mute(id, muted)
}

// Channels lists the channel names in id order.
func (c *Chip) Channels() []string {
	return Channels()
}

// ChannelID resolves a channel name such as "PSG2" or "dac".
func ChannelID(name string) (int, bool) {
	for id, n := range channelNames {
		if strings.EqualFold(n, name) {
			return id, true
		}
	}
	return 0, false
}

// Channels lists the channel names in id order.
func Channels() []string {
	return channelNames[:]
}
