// Package builtin wires the bundled backends into a registry.
package builtin

import (
	"github.com/valerio/go-vgmplay/vgmplay/chip"
	"github.com/valerio/go-vgmplay/vgmplay/chip/megadrive"
	"github.com/valerio/go-vgmplay/vgmplay/chip/null"
)

// Default is the backend used when none is requested.
const Default = "megadrive"

// Registry returns a registry holding every bundled backend.
func Registry() *chip.Registry {
	r := chip.NewRegistry()
	// ids are unique literals, registration cannot fail
	_ = r.Register("megadrive", megadrive.New)
	_ = r.Register("null", null.Factory)
	return r
}
