package timing

import "time"

// TickerLimiter uses time.Ticker for simple, consistent chunk timing.
// Less accurate than AdaptiveLimiter but simpler and good enough when the
// audio device buffers ahead.
type TickerLimiter struct {
	ticker   *time.Ticker
	ch       <-chan time.Time
	interval time.Duration
}

func NewTickerLimiter(sampleRate, samples int) *TickerLimiter {
	interval := max(ChunkDuration(sampleRate, samples), time.Millisecond)
	ticker := time.NewTicker(interval)
	return &TickerLimiter{
		ticker:   ticker,
		ch:       ticker.C,
		interval: interval,
	}
}

func (t *TickerLimiter) WaitForNextChunk() {
	<-t.ch
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.interval)
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
