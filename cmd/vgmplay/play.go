package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/valerio/go-vgmplay/vgmplay"
	"github.com/valerio/go-vgmplay/vgmplay/backend"
	"github.com/valerio/go-vgmplay/vgmplay/backend/headless"
	"github.com/valerio/go-vgmplay/vgmplay/backend/terminal"
	"github.com/valerio/go-vgmplay/vgmplay/chip"
	"github.com/valerio/go-vgmplay/vgmplay/chip/builtin"
	"github.com/valerio/go-vgmplay/vgmplay/loader"
	"github.com/valerio/go-vgmplay/vgmplay/output"
	"github.com/valerio/go-vgmplay/vgmplay/output/speaker"
	"github.com/valerio/go-vgmplay/vgmplay/player"
	"github.com/valerio/go-vgmplay/vgmplay/timing"
	"github.com/valerio/go-vgmplay/vgmplay/vgm"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// maxSampleRate bounds --rate.
const maxSampleRate = 192000

// psgClockMask strips the dual-chip and variant flags from the PSG clock.
const psgClockMask = 0x3FFFFFFF

type playOptions struct {
	Path      string
	Chip      string
	Rate      int
	Chunk     int
	Volume    float64
	FMVolume  float64
	PSGVolume float64
	Loops     int
	Headless  bool
	Chunks    int
	Out       string
	Mute      []string
	Trace     bool
	Debug     bool
}

func optionsFromContext(c *cli.Context) playOptions {
	o := playOptions{
		Path:      c.Args().First(),
		Chip:      c.String("chip"),
		Rate:      c.Int("rate"),
		Chunk:     c.Int("chunk"),
		Volume:    c.Float64("volume"),
		FMVolume:  c.Float64("fm-volume"),
		PSGVolume: c.Float64("psg-volume"),
		Loops:     c.Int("loops"),
		Headless:  c.Bool("headless"),
		Chunks:    c.Int("chunks"),
		Out:       c.String("out"),
		Mute:      c.StringSlice("mute"),
		Trace:     c.Bool("trace"),
		Debug:     c.Bool("debug"),
	}
	if o.Out != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		o.Headless = true
	}
	return o
}

func (o playOptions) validate() error {
	switch {
	case o.Path == "":
		return errors.New("no VGM path provided")
	case o.Rate <= 0 || o.Rate > maxSampleRate:
		return fmt.Errorf("sample rate %d out of range (1-%d)", o.Rate, maxSampleRate)
	case o.Chunk <= 0:
		return fmt.Errorf("chunk size must be positive, got %d", o.Chunk)
	case o.Volume < 0 || o.FMVolume < 0 || o.PSGVolume < 0:
		return errors.New("volumes cannot be negative")
	case o.Loops < 0:
		return fmt.Errorf("loop count cannot be negative, got %d", o.Loops)
	case o.Chunks < 0:
		return fmt.Errorf("chunk count cannot be negative, got %d", o.Chunks)
	}
	return nil
}

func (o playOptions) logLevel() slog.Level {
	if o.Debug || o.Trace {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func runPlayer(c *cli.Context) error {
	o := optionsFromContext(c)
	if o.Path == "" {
		cli.ShowAppHelp(c)
	}
	if err := o.validate(); err != nil {
		return err
	}

	if o.Headless {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: o.logLevel(),
		})
		slog.SetDefault(slog.New(handler))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := play(ctx, o, afero.NewOsFs())
	if errors.Is(err, context.Canceled) {
		slog.Info("Interrupted")
		return nil
	}
	return err
}

// play runs one playback session until it ends, the user quits or ctx is
// cancelled.
func play(ctx context.Context, o playOptions, fs afero.Fs) (err error) {
	// the terminal backend captures the default logger while it owns the screen
	defer slog.SetDefault(slog.Default())

	var be backend.Backend
	if o.Headless {
		be = headless.New(o.Chunks)
	} else {
		be = terminal.New()
	}
	if err := be.Init(backend.Config{Title: o.Path, LogLevel: o.logLevel()}); err != nil {
		return err
	}
	defer be.Cleanup()

	// the backend may have replaced the default logger
	logger := slog.Default()

	if o.Out != "" && o.Loops == 0 && o.Chunks == 0 {
		logger.Info("Looping streams repeat their loop once when writing a file", "out", o.Out)
		o.Loops = 1
	}

	src := loader.New(fs, loader.WithLogger(logger))
	p, err := newPlayer(o, src, logger)
	if err != nil {
		return err
	}

	cfg := player.RunConfig{Backend: be, Chunk: o.Chunk}
	var spk *speaker.Speaker

	switch {
	case o.Out != "":
		wav, err := output.CreateWAV(fs, o.Out, o.Rate)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := wav.Close(); cerr != nil && err == nil {
				err = cerr
			}
			logger.Info("Wrote WAV file", "path", o.Out, "frames", wav.Frames())
		}()
		cfg.Sink = wav

	case o.Headless:
		cfg.Sink = &output.Discard{}

	default:
		spk, err = speaker.New(o.Rate, p)
		if err != nil {
			logger.Warn("Audio device unavailable, playing silently", "error", err)
			cfg.Sink = &output.Discard{}
			cfg.Limiter = timing.NewAdaptiveLimiter(o.Rate, o.Chunk)
			break
		}
		ticker := timing.NewTickerLimiter(o.Rate, o.Chunk)
		defer ticker.Stop()
		cfg.Limiter = ticker
		spk.Start()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return p.Run(ctx, cfg)
	})
	if spk != nil {
		g.Go(func() error {
			<-ctx.Done()
			return spk.Close()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return p.Err()
}

// newPlayer loads o.Path and returns a player ready to render it.
func newPlayer(o playOptions, src *loader.Loader, logger *slog.Logger) (*player.Player, error) {
	data, err := src.Load(o.Path)
	if err != nil {
		return nil, err
	}
	stream, err := vgm.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", o.Path, err)
	}

	c, err := builtin.Registry().New(o.Chip)
	if err != nil {
		return nil, err
	}

	opts := []vgmplay.Option{
		vgmplay.WithSource(src),
		vgmplay.WithLoopLimit(o.Loops),
		vgmplay.WithLogger(logger),
	}
	if o.Trace {
		opts = append(opts, vgmplay.WithTracer(traceCommand(logger)))
	}
	d := vgmplay.New(opts...)

	cfg := chip.Config{
		FMVolume:   o.FMVolume,
		PSGVolume:  o.PSGVolume,
		PSGClock:   int(stream.PSGClock & psgClockMask),
		FMClock:    int(stream.FMClock),
		MaxSamples: o.Chunk,
	}
	if err := d.Init(o.Rate, cfg, c); err != nil {
		return nil, err
	}
	// served from the loader cache
	if err := d.PlayFile(o.Path); err != nil {
		return nil, err
	}

	p := player.New(d, c, player.WithVolume(o.Volume), player.WithLogger(logger))
	for _, channel := range o.Mute {
		if err := p.SetMute(channel, true); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func traceCommand(logger *slog.Logger) func(vgm.Op) {
	return func(op vgm.Op) {
		logger.Debug("Command",
			"offset", fmt.Sprintf("0x%X", op.Offset),
			"opcode", fmt.Sprintf("0x%02X", op.Opcode),
			"delay", op.Delay)
	}
}
