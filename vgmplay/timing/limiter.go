package timing

import "time"

// Limiter paces audio chunk generation in real time.
type Limiter interface {
	// WaitForNextChunk blocks until it's time to render the next chunk.
	// Returns immediately if timing is behind schedule.
	WaitForNextChunk()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextChunk() {}
func (n *noOpLimiter) Reset()            {}

// ChunkDuration returns the playback time covered by samples frames.
func ChunkDuration(sampleRate, samples int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(int64(samples) * int64(time.Second) / int64(sampleRate))
}

// ChunksPerSecond returns how many chunks of samples frames play per second.
func ChunksPerSecond(sampleRate, samples int) float64 {
	if samples <= 0 {
		return 0
	}
	return float64(sampleRate) / float64(samples)
}
