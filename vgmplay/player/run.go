package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/valerio/go-vgmplay/vgmplay/backend"
	"github.com/valerio/go-vgmplay/vgmplay/input"
	"github.com/valerio/go-vgmplay/vgmplay/input/action"
	"github.com/valerio/go-vgmplay/vgmplay/input/event"
	"github.com/valerio/go-vgmplay/vgmplay/output"
	"github.com/valerio/go-vgmplay/vgmplay/timing"
)

// RunConfig wires a player to its front end.
type RunConfig struct {
	Backend backend.Backend
	Limiter timing.Limiter

	// Sink receives every chunk the loop renders. Leave it nil when an audio
	// device pulls samples through Read; the loop then only drives the UI.
	Sink output.Sink

	// Chunk is the number of frames per iteration.
	Chunk int
}

// Run drives the session until the backend asks to quit, the sink fails or
// ctx is cancelled. A decode error does not end Run: it is shown through
// the backend, which decides whether to quit.
func (p *Player) Run(ctx context.Context, cfg RunConfig) error {
	if cfg.Backend == nil {
		return errors.New("run: no backend")
	}
	if cfg.Chunk <= 0 {
		return fmt.Errorf("run: invalid chunk size %d", cfg.Chunk)
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}

	quit := false
	mgr := input.NewManager()
	p.bindActions(mgr, limiter, &quit)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if cfg.Sink != nil {
			buf, err := p.Render(cfg.Chunk)
			if err == nil {
				if err := cfg.Sink.WriteChunk(buf); err != nil {
					return fmt.Errorf("write chunk: %w", err)
				}
			}
		}

		events, err := cfg.Backend.Update(p.Status())
		if err != nil {
			return fmt.Errorf("backend update: %w", err)
		}
		for _, ev := range events {
			mgr.Trigger(ev.Action, ev.Type)
		}
		if quit {
			return nil
		}

		limiter.WaitForNextChunk()
	}
}

// bindActions registers the player controls on mgr.
func (p *Player) bindActions(mgr *input.Manager, limiter timing.Limiter, quit *bool) {
	report := func(act action.Action, err error) {
		if err != nil {
			p.logger.Warn("Action failed", "action", act.String(), "error", err)
		}
	}

	mgr.On(action.PlayerQuit, event.Press, func() { *quit = true })
	mgr.On(action.PlayerPauseToggle, event.Press, func() {
		report(action.PlayerPauseToggle, p.TogglePause())
		limiter.Reset()
	})
	mgr.On(action.PlayerRestart, event.Press, func() {
		report(action.PlayerRestart, p.Restart())
		limiter.Reset()
	})
	mgr.On(action.VolumeUp, event.Press, func() { p.AdjustVolume(VolumeStep) })
	mgr.On(action.VolumeDown, event.Press, func() { p.AdjustVolume(-VolumeStep) })

	for _, act := range []action.Action{
		action.MuteToggleDAC,
		action.MuteTogglePSG1,
		action.MuteTogglePSG2,
		action.MuteTogglePSG3,
		action.MuteTogglePSG4,
	} {
		channel, _ := action.MuteChannel(act)
		mgr.On(act, event.Press, func() {
			report(act, p.ToggleMute(channel))
		})
	}
}
