package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy.
type AdaptiveLimiter struct {
	targetChunkTime time.Duration
	nextChunkTime   time.Time
	chunkCounter    int64
	driftCheck      int64
}

// NewAdaptiveLimiter paces chunks of samples frames at sampleRate.
func NewAdaptiveLimiter(sampleRate, samples int) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		targetChunkTime: ChunkDuration(sampleRate, samples),
		nextChunkTime:   time.Now(),
		driftCheck:      max(int64(ChunksPerSecond(sampleRate, samples)), 1),
	}
}

func (a *AdaptiveLimiter) WaitForNextChunk() {
	now := time.Now()
	sleepTime := a.nextChunkTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime < 2*time.Millisecond {
			for time.Now().Before(a.nextChunkTime) {
				// busy-wait for times under 2ms, higher accuracy.
			}
		} else {
			time.Sleep(sleepTime - time.Millisecond)
			for time.Now().Before(a.nextChunkTime) {
			}
		}
	} else if sleepTime < -5*time.Millisecond {
		a.nextChunkTime = now
	}

	a.nextChunkTime = a.nextChunkTime.Add(a.targetChunkTime)
	a.chunkCounter++

	// roughly once per second of audio
	if a.chunkCounter%a.driftCheck == 0 {
		drift := time.Since(a.nextChunkTime)
		if drift.Abs() > 10*time.Millisecond {
			a.nextChunkTime = a.nextChunkTime.Add(drift / 10)
			slog.Debug("Chunk timing drift correction", "drift_ms", drift.Milliseconds())
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextChunkTime = time.Now()
	a.chunkCounter = 0
}
