package headless

import (
	"log/slog"

	"github.com/valerio/go-vgmplay/vgmplay/backend"
	"github.com/valerio/go-vgmplay/vgmplay/input/action"
	"github.com/valerio/go-vgmplay/vgmplay/input/event"
)

// progressInterval is the number of chunks between progress logs.
const progressInterval = 60

// Backend implements the Backend interface for batch rendering and tests.
// It quits after maxChunks chunks (0 = no limit) or when playback is done.
type Backend struct {
	config     backend.Config
	chunkCount int
	maxChunks  int
	logger     *slog.Logger
}

func New(maxChunks int) *Backend {
	return &Backend{maxChunks: maxChunks}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config
	h.logger = slog.Default()

	h.logger.Info("Running headless mode", "title", config.Title, "chunks", h.maxChunks)
	return nil
}

// Update logs progress and requests a quit once the run is over.
func (h *Backend) Update(status backend.Status) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	h.chunkCount++

	if h.chunkCount%progressInterval == 0 {
		h.logger.Info("Chunk progress",
			"completed", h.chunkCount,
			"total", h.maxChunks,
			"position", status.Position,
			"loops", status.Loops)
	}

	limitReached := h.maxChunks > 0 && h.chunkCount >= h.maxChunks
	if limitReached || status.Done() {
		if status.Err != nil {
			h.logger.Error("Headless playback failed", "chunks", h.chunkCount, "error", status.Err)
		} else {
			h.logger.Info("Headless execution completed", "chunks", h.chunkCount, "position", status.Position)
		}

		// Signal completion via quit event
		events = append(events, backend.InputEvent{Action: action.PlayerQuit, Type: event.Press})
	}

	return events, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// Chunks returns the number of chunks seen so far.
func (h *Backend) Chunks() int {
	return h.chunkCount
}
