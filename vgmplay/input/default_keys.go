package input

import "github.com/valerio/go-vgmplay/vgmplay/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
var DefaultKeyMap = map[string]action.Action{
	// Transport controls
	"Space":  action.PlayerPauseToggle,
	"p":      action.PlayerPauseToggle, // Alternative key
	"r":      action.PlayerRestart,
	"Escape": action.PlayerQuit,
	"q":      action.PlayerQuit,

	// Output controls
	"+":     action.VolumeUp,
	"=":     action.VolumeUp, // Alternative without shift
	"Up":    action.VolumeUp,
	"-":     action.VolumeDown,
	"_":     action.VolumeDown, // Alternative with shift
	"Down":  action.VolumeDown,
	"d":     action.MuteToggleDAC,
	"1":     action.MuteTogglePSG1,
	"2":     action.MuteTogglePSG2,
	"3":     action.MuteTogglePSG3,
	"4":     action.MuteTogglePSG4,

	// Debug controls
	"F11": action.DebugLogLevelDecrease,
	"F12": action.DebugLogLevelIncrease,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
