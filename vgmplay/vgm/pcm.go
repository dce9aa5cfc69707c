package vgm

// PCMBlock stores the sample bytes streamed by data blocks and the read
// cursor used by the DAC stream commands. The cursor never exceeds the
// block length.
type PCMBlock struct {
	data []byte
	pos  int
}

// Append adds a raw PCM data block. Bytes already consumed by the cursor are
// dropped, the unread tail is kept in front of the new data and the cursor
// returns to the start of the block.
func (b *PCMBlock) Append(p []byte) {
	tail := len(b.data) - b.pos
	next := make([]byte, tail+len(p))
	copy(next, b.data[b.pos:])
	copy(next[tail:], p)

	b.data = next
	b.pos = 0
}

// Seek moves the cursor to offset, clamped to the block length.
func (b *PCMBlock) Seek(offset uint32) {
	if uint64(offset) > uint64(len(b.data)) {
		b.pos = len(b.data)
		return
	}
	b.pos = int(offset)
}

// Next returns the byte under the cursor and advances it. ok is false once
// the block is exhausted.
func (b *PCMBlock) Next() (value byte, ok bool) {
	if b.pos >= len(b.data) {
		return 0, false
	}
	value = b.data[b.pos]
	b.pos++
	return value, true
}

// Reset empties the block.
func (b *PCMBlock) Reset() {
	b.data = nil
	b.pos = 0
}

func (b *PCMBlock) Len() int    { return len(b.data) }
func (b *PCMBlock) Cursor() int { return b.pos }
