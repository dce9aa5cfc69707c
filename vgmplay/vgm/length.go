package vgm

import "errors"

// Length is the playing time of a stream in samples.
type Length struct {
	// Total covers one pass: the intro plus one run of the loop body.
	Total uint64
	// Loop is the length of the loop body, 0 for streams that do not loop.
	Loop uint64
}

type discardWriter struct{}

func (discardWriter) WritePort1(reg, value uint8) {}
func (discardWriter) WritePort2(reg, value uint8) {}
func (discardWriter) WritePSG(cmd uint8)          {}

// MeasureLength decodes s without a chip and adds up its waits. On a decode
// error the length up to the failing command is returned with the error.
func MeasureLength(s *Stream) (Length, error) {
	d := NewDecoder(s, discardWriter{}, 1)

	var n, intro uint64
	for {
		if s.Loops() && d.Loops() == 0 && d.Offset() == s.LoopAddress {
			intro = n
		}
		delay, err := d.Step()
		if errors.Is(err, ErrEndOfStream) {
			return Length{Total: n}, nil
		}
		if err != nil {
			return Length{Total: n}, err
		}
		if d.Loops() > 0 {
			// first jump: one full pass is done
			return Length{Total: n, Loop: n - intro}, nil
		}
		n += uint64(delay)
	}
}
