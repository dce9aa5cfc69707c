package vgmplay

import (
	"log/slog"

	"github.com/valerio/go-vgmplay/vgmplay/vgm"
)

type Option func(*Driver)

// WithSource sets where PlayFile reads streams from.
func WithSource(s Source) Option { return func(d *Driver) { d.source = s } }

// WithLoopLimit ends playback after the stream looped n times. 0 loops forever.
func WithLoopLimit(n int) Option { return func(d *Driver) { d.loopLimit = n } }

// WithLogger sets the session logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(d *Driver) { d.logger = l } }

// WithTracer reports every executed command to fn.
func WithTracer(fn func(vgm.Op)) Option { return func(d *Driver) { d.trace = fn } }
