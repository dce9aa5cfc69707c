package vgm

import "encoding/binary"

// RegisterWriter is the part of a chip the decoder drives. Rendering is
// left to the scheduler.
type RegisterWriter interface {
	WritePort1(reg, value uint8)
	WritePort2(reg, value uint8)
	WritePSG(cmd uint8)
}

// Op describes one executed command, as reported to a tracer.
type Op struct {
	Offset int
	Opcode byte
	Delay  int
}

// Decoder interprets a stream one command at a time. It owns the playback
// cursor and the PCM block; neither is safe for concurrent use.
type Decoder struct {
	stream *Stream
	chip   RegisterWriter
	pcm    PCMBlock
	loop   *LoopController
	pos    int
	trace  func(Op)

	// waited is set once a non-zero delay was produced since the last loop
	waited bool
}

// NewDecoder returns a decoder positioned at the stream's data start.
// loopLimit caps the number of loops, 0 loops forever.
func NewDecoder(s *Stream, chip RegisterWriter, loopLimit int) *Decoder {
	return &Decoder{
		stream: s,
		chip:   chip,
		loop:   NewLoopController(s.LoopAddress, loopLimit),
		pos:    s.DataStart,
	}
}

// SetTracer installs a callback invoked after every executed command.
func (d *Decoder) SetTracer(fn func(Op)) {
	d.trace = fn
}

// Offset returns the playback cursor.
func (d *Decoder) Offset() int { return d.pos }

// Loops returns how many times the stream looped so far.
func (d *Decoder) Loops() int { return d.loop.Count() }

// PCM exposes the PCM block, mostly for inspection.
func (d *Decoder) PCM() *PCMBlock { return &d.pcm }

// Step executes one command and returns the number of samples to render
// before the next one. A zero delay means the next command belongs to the
// same instant. ErrEndOfStream is returned when the stream ends without a
// loop; other errors are *FormatError or *UnsupportedCommandError and leave
// the cursor on the failing command.
func (d *Decoder) Step() (int, error) {
	if d.pos >= d.stream.StreamEnd {
		if !d.redirect() {
			return 0, ErrEndOfStream
		}
	}

	start := d.pos
	op := d.stream.data[d.pos]
	delay, err := d.execute(op, start)
	if err != nil {
		d.pos = start
		return 0, err
	}

	if delay > 0 {
		d.waited = true
	}
	if d.trace != nil {
		d.trace(Op{Offset: start, Opcode: op, Delay: delay})
	}
	return delay, nil
}

func (d *Decoder) execute(op byte, start int) (int, error) {
	d.pos++

	switch {
	case op == OpYM2612Port1 || op == OpYM2612Port2:
		args, err := d.operands(start, 2)
		if err != nil {
			return 0, err
		}
		if op == OpYM2612Port1 {
			d.chip.WritePort1(args[0], args[1])
		} else {
			d.chip.WritePort2(args[0], args[1])
		}
		return 0, nil

	case op == OpGameGearPSG || op == OpPSGWrite:
		args, err := d.operands(start, 1)
		if err != nil {
			return 0, err
		}
		d.chip.WritePSG(args[0])
		return 0, nil

	case op == OpWait:
		args, err := d.operands(start, 2)
		if err != nil {
			return 0, err
		}
		return int(binary.LittleEndian.Uint16(args)), nil

	case op == OpWaitNTSC:
		return WaitNTSC, nil

	case op == OpWaitPAL:
		return WaitPAL, nil

	case op&0xF0 == OpWaitShort:
		return int(op&0x0F) + 1, nil

	case op&0xF0 == OpDACWait:
		if value, ok := d.pcm.Next(); ok {
			d.chip.WritePort1(DACRegister, value)
		}
		// 0-15, unlike the 1-16 range of the short waits
		return int(op & 0x0F), nil

	case op == OpPCMSeek:
		args, err := d.operands(start, 4)
		if err != nil {
			return 0, err
		}
		d.pcm.Seek(binary.LittleEndian.Uint32(args))
		return 0, nil

	case op == OpDataBlock:
		return 0, d.dataBlock(start)

	case op == OpEnd:
		if !d.redirect() {
			// stay on the end command so a later Step reports it again
			d.pos = start
			return 0, ErrEndOfStream
		}
		return 0, nil

	case op >= OpDACSetup && op <= OpDACSetup+5:
		_, err := d.operands(start, dacStreamOperands[op-OpDACSetup])
		return 0, err
	}

	return 0, &UnsupportedCommandError{Opcode: op, Offset: start}
}

// dataBlock handles 0x67 0x66 tt ssssssss <data>.
func (d *Decoder) dataBlock(start int) error {
	args, err := d.operands(start, 6)
	if err != nil {
		return err
	}
	if args[0] != dataBlockMarker {
		return formatErrorf(start+1, "invalid data block")
	}

	blockType := args[1]
	length := int(binary.LittleEndian.Uint32(args[2:]))
	if blockType != blockTypeRawPCM {
		return formatErrorf(start+2, "data block type 0x%02X was not recognized", blockType)
	}

	payload, err := d.operands(start, length)
	if err != nil {
		return err
	}
	d.pcm.Append(payload)
	return nil
}

// operands consumes n bytes after the cursor.
func (d *Decoder) operands(start, n int) ([]byte, error) {
	if n < 0 || d.pos+n > d.stream.StreamEnd {
		return nil, formatErrorf(start, "command 0x%02X truncated", d.stream.data[start])
	}
	b := d.stream.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// redirect applies the loop controller. A loop body that never waits would
// spin forever inside one scheduling slice, so it ends the stream instead.
func (d *Decoder) redirect() bool {
	if d.loop.Count() > 0 && !d.waited {
		return false
	}
	addr, ok := d.loop.Redirect()
	if ok {
		d.pos = addr
		d.waited = false
	}
	return ok
}
