package megadrive

// psgShadow mirrors the SN76489 latch protocol so channels can be muted
// without losing the attenuation the stream asked for.
//
// Latch byte: 1 CC T DDDD (channel, type 1=volume, low data)
// Data byte:  0 X DDDDDD  (applies to the latched register)
type psgShadow struct {
	latchedCh   uint8
	latchedType uint8
	tone        [3]uint16
	atten       [4]uint8
	muted       [4]bool
}

func newPSGShadow() psgShadow {
	return psgShadow{atten: [4]uint8{0x0F, 0x0F, 0x0F, 0x0F}}
}

func (s *psgShadow) observe(cmd uint8) {
	if cmd&0x80 != 0 {
		s.latchedCh = (cmd >> 5) & 0x03
		s.latchedType = (cmd >> 4) & 0x01
		data := cmd & 0x0F
		switch {
		case s.latchedType == 1:
			s.atten[s.latchedCh] = data
		case s.latchedCh < 3:
			s.tone[s.latchedCh] = (s.tone[s.latchedCh] & 0x3F0) | uint16(data)
		}
		return
	}

	switch {
	case s.latchedType == 1:
		s.atten[s.latchedCh] = cmd & 0x0F
	case s.latchedCh < 3:
		s.tone[s.latchedCh] = (s.tone[s.latchedCh] & 0x0F) | uint16(cmd&0x3F)<<4
	}
}

// volumeTarget reports which channel's attenuation cmd changes.
func (s *psgShadow) volumeTarget(cmd uint8) (uint8, bool) {
	if cmd&0x80 != 0 {
		return (cmd >> 5) & 0x03, (cmd>>4)&0x01 == 1
	}
	return s.latchedCh, s.latchedType == 1
}

// remute returns the writes that apply a mute change to ch and then put the
// latch back where the stream left it.
func (s *psgShadow) remute(ch uint8, muted bool) []uint8 {
	s.muted[ch] = muted
	cmds := []uint8{s.volumeLatch(ch)}

	switch {
	case s.latchedType == 1:
		cmds = append(cmds, s.volumeLatch(s.latchedCh))
	case s.latchedCh < 3:
		cmds = append(cmds, 0x80|s.latchedCh<<5|uint8(s.tone[s.latchedCh]&0x0F))
		// noise: data bytes are ignored by the chip, a stale latch is harmless
	}
	return cmds
}

func (s *psgShadow) volumeLatch(ch uint8) uint8 {
	value := s.atten[ch]
	if s.muted[ch] {
		value = 0x0F
	}
	return 0x90 | ch<<5 | value
}
