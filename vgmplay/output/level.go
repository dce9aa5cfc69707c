package output

import (
	"encoding/binary"
	"math"
)

// Level is the peak and RMS of one chunk per channel, normalized to [0, 1].
type Level struct {
	PeakL, PeakR float64
	RMSL, RMSR   float64
}

// Measure computes the level of a 16-bit stereo chunk.
func Measure(frames []byte) Level {
	n := len(frames) / 4
	if n == 0 {
		return Level{}
	}

	var lvl Level
	var sumL, sumR float64
	for i := range n {
		l := float64(int16(binary.LittleEndian.Uint16(frames[i*4:]))) / 32768
		r := float64(int16(binary.LittleEndian.Uint16(frames[i*4+2:]))) / 32768
		lvl.PeakL = max(lvl.PeakL, math.Abs(l))
		lvl.PeakR = max(lvl.PeakR, math.Abs(r))
		sumL += l * l
		sumR += r * r
	}
	lvl.RMSL = math.Sqrt(sumL / float64(n))
	lvl.RMSR = math.Sqrt(sumR / float64(n))
	return lvl
}

// Decibels converts a linear level to dBFS, floored at -96.
func Decibels(v float64) float64 {
	if v <= 0 {
		return -96
	}
	return max(20*math.Log10(v), -96)
}
