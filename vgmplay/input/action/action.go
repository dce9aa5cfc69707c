package action

// Action represents input actions that can be performed in the player
type Action int

const (
	// Transport controls
	PlayerPauseToggle Action = iota
	PlayerRestart
	PlayerQuit

	// Output controls
	VolumeUp
	VolumeDown
	MuteToggleDAC
	MuteTogglePSG1
	MuteTogglePSG2
	MuteTogglePSG3
	MuteTogglePSG4

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions for display
type Category int

const (
	CategoryTransport Category = iota
	CategoryAudio
	CategoryDebug
)

// Info describes an action for logs and the help line.
type Info struct {
	Description string
	Category    Category
}

var infos = map[Action]Info{
	PlayerPauseToggle:     {"Pause/Resume", CategoryTransport},
	PlayerRestart:         {"Restart", CategoryTransport},
	PlayerQuit:            {"Quit", CategoryTransport},
	VolumeUp:              {"Volume up", CategoryAudio},
	VolumeDown:            {"Volume down", CategoryAudio},
	MuteToggleDAC:         {"Toggle DAC", CategoryAudio},
	MuteTogglePSG1:        {"Toggle PSG 1", CategoryAudio},
	MuteTogglePSG2:        {"Toggle PSG 2", CategoryAudio},
	MuteTogglePSG3:        {"Toggle PSG 3", CategoryAudio},
	MuteTogglePSG4:        {"Toggle PSG 4", CategoryAudio},
	DebugLogLevelIncrease: {"More logs", CategoryDebug},
	DebugLogLevelDecrease: {"Fewer logs", CategoryDebug},
}

// GetInfo returns the description of act.
func GetInfo(act Action) Info {
	if info, ok := infos[act]; ok {
		return info
	}
	return Info{Description: "Unknown", Category: CategoryDebug}
}

func (a Action) String() string {
	return GetInfo(a).Description
}

// MuteChannel returns the channel name toggled by a mute action.
func MuteChannel(act Action) (string, bool) {
	switch act {
	case MuteToggleDAC:
		return "DAC", true
	case MuteTogglePSG1:
		return "PSG1", true
	case MuteTogglePSG2:
		return "PSG2", true
	case MuteTogglePSG3:
		return "PSG3", true
	case MuteTogglePSG4:
		return "PSG4", true
	}
	return "", false
}
