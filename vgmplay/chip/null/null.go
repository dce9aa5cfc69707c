// Package null provides a silent backend that records every register write.
// It is used for headless runs and as a probe in tests.
package null

import "github.com/valerio/go-vgmplay/vgmplay/chip"

// Port identifies the destination of a write.
type Port uint8

const (
	Port1 Port = iota + 1
	Port2
	PSG
)

// Write is one recorded register write.
type Write struct {
	Port  Port
	Reg   uint8
	Value uint8
}

// Chip keeps the last value written to every register and renders silence.
type Chip struct {
	Port1Regs [256]uint8
	Port2Regs [256]uint8
	LastPSG   uint8

	// Writes holds all writes in order when recording is enabled.
	Writes    []Write
	recording bool

	// Rendered counts frames emulated since the last reset.
	Rendered int

	sampleRate int
	buf        chip.FrameBuffer
}

var _ chip.Chip = (*Chip)(nil)

// New returns a recording chip.
func New() *Chip {
	return &Chip{recording: true}
}

// Factory is the registry entry. Chips created this way keep register state
// but do not grow a write log, so they can run for hours.
func Factory() chip.Chip {
	return &Chip{}
}

func (c *Chip) Init(sampleRate int, cfg chip.Config) error {
	c.sampleRate = sampleRate
	return nil
}

func (c *Chip) WritePort1(reg, value uint8) {
	c.Port1Regs[reg] = value
	c.record(Port1, reg, value)
}

func (c *Chip) WritePort2(reg, value uint8) {
	c.Port2Regs[reg] = value
	c.record(Port2, reg, value)
}

func (c *Chip) WritePSG(cmd uint8) {
	c.LastPSG = cmd
	c.record(PSG, 0, cmd)
}

func (c *Chip) record(p Port, reg, value uint8) {
	if c.recording {
		c.Writes = append(c.Writes, Write{Port: p, Reg: reg, Value: value})
	}
}

func (c *Chip) InitBuffer(samples int) {
	c.buf.Init(samples)
}

func (c *Chip) RunBuffer(samples int, volume float64) int {
	samples = min(samples, c.buf.Remaining())
	c.buf.Skip(samples)
	c.Rendered += samples
	return c.buf.Pos()
}

func (c *Chip) Buffer() []byte {
	return c.buf.Bytes()
}

func (c *Chip) Reset() {
	c.Port1Regs = [256]uint8{}
	c.Port2Regs = [256]uint8{}
	c.LastPSG = 0
	c.Writes = nil
	c.Rendered = 0
}

// DACWrites returns the values written to the DAC register, in order.
func (c *Chip) DACWrites() []uint8 {
	var out []uint8
	for _, w := range c.Writes {
		if w.Port == Port1 && w.Reg == 0x2A {
			out = append(out, w.Value)
		}
	}
	return out
}
