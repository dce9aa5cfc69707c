package chip

// FrameBuffer is the stereo output buffer shared by the bundled backends.
type FrameBuffer struct {
	data []byte
	pos  int
}

// Init resizes the buffer to samples silent frames and rewinds it.
func (f *FrameBuffer) Init(samples int) {
	size := samples * 4
	if cap(f.data) < size {
		f.data = make([]byte, size)
	} else {
		f.data = f.data[:size]
		clear(f.data)
	}
	f.pos = 0
}

// Remaining returns how many frames can still be written.
func (f *FrameBuffer) Remaining() int {
	return len(f.data)/4 - f.pos
}

// Put writes one stereo frame and advances.
func (f *FrameBuffer) Put(left, right int16) {
	i := f.pos * 4
	f.data[i] = byte(left)
	f.data[i+1] = byte(uint16(left) >> 8)
	f.data[i+2] = byte(right)
	f.data[i+3] = byte(uint16(right) >> 8)
	f.pos++
}

// Skip advances over n silent frames.
func (f *FrameBuffer) Skip(n int) {
	f.pos += n
}

func (f *FrameBuffer) Pos() int      { return f.pos }
func (f *FrameBuffer) Bytes() []byte { return f.data }

// ToInt16 converts a normalized sample to 16-bit, clipping at full scale.
func ToInt16(v float64) int16 {
	switch {
	case v >= 1:
		return 32767
	case v <= -1:
		return -32768
	}
	return int16(v * 32767)
}
