package headless_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-vgmplay/vgmplay/backend"
	"github.com/valerio/go-vgmplay/vgmplay/backend/headless"
	"github.com/valerio/go-vgmplay/vgmplay/input/action"
	"github.com/valerio/go-vgmplay/vgmplay/input/event"
)

func TestHeadlessBackend(t *testing.T) {
	t.Run("chunk limit", func(t *testing.T) {
		h := headless.New(3)

		err := h.Init(backend.Config{Title: "Test"})
		assert.NoError(t, err)

		for i := 0; i < 3; i++ {
			events, err := h.Update(backend.Status{State: "playing"})
			assert.NoError(t, err)

			if i < 2 {
				// Should not quit before reaching max chunks
				assert.Empty(t, events)
			} else {
				// Should send quit event on last chunk
				assert.Len(t, events, 1)
				assert.Equal(t, action.PlayerQuit, events[0].Action)
				assert.Equal(t, event.Press, events[0].Type)
			}
		}
		assert.Equal(t, 3, h.Chunks())

		err = h.Cleanup()
		assert.NoError(t, err)
	})

	t.Run("stream ended", func(t *testing.T) {
		h := headless.New(0)
		assert.NoError(t, h.Init(backend.Config{Title: "Test"}))

		events, err := h.Update(backend.Status{State: "playing"})
		assert.NoError(t, err)
		assert.Empty(t, events, "no limit, still playing")

		events, err = h.Update(backend.Status{State: "playing", Ended: true})
		assert.NoError(t, err)
		assert.Len(t, events, 1)
		assert.Equal(t, action.PlayerQuit, events[0].Action)
	})

	t.Run("playback error", func(t *testing.T) {
		h := headless.New(100)
		assert.NoError(t, h.Init(backend.Config{}))

		events, err := h.Update(backend.Status{Err: errors.New("bad opcode")})
		assert.NoError(t, err)
		assert.Len(t, events, 1)
		assert.Equal(t, action.PlayerQuit, events[0].Action)
	})
}

func TestHeadlessImplementsBackend(t *testing.T) {
	// Compile-time check that headless.Backend implements backend.Backend
	var _ backend.Backend = (*headless.Backend)(nil)
}
