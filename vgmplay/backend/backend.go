package backend

import (
	"log/slog"
	"time"

	"github.com/valerio/go-vgmplay/vgmplay/input/action"
	"github.com/valerio/go-vgmplay/vgmplay/input/event"
	"github.com/valerio/go-vgmplay/vgmplay/output"
)

// Backend is the user facing front of the player (status display + input).
// Backends are responsible for:
// - Presenting the playback status to their specific output (terminal, log)
// - Translating platform-specific input events to Actions
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config Config) error

	// Update presents the status of the chunk just rendered and returns the
	// input events collected since the previous call.
	Update(status Status) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// Config holds configuration for backends
type Config struct {
	Title    string
	LogLevel slog.Level
}

// InputEvent represents an input event from the backend
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// Status is a snapshot of the playback session taken after each chunk.
type Status struct {
	Name   string
	Track  string
	Game   string
	System string
	Author string

	State  string
	Ended  bool
	Chunks int

	Position time.Duration
	Duration time.Duration
	Loops    int

	Volume float64
	Muted  []string
	Level  output.Level

	// Err is the error that stopped playback, if any.
	Err error
}

// Done reports whether nothing more will be played.
func (s Status) Done() bool {
	return s.Ended || s.Err != nil
}
