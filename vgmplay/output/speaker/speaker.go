// Package speaker plays a pull-based 16-bit stereo stream on the host audio
// device. The default build uses oto; build with -tags sdl2 for SDL2 audio
// or -tags headless to compile without any audio device.
package speaker

import "errors"

// ErrUnavailable is returned by New when the binary was built without an
// audio device.
var ErrUnavailable = errors.New("audio output not available in this build")

// bufferFrames is the device buffer size requested from the backend.
const bufferFrames = 2048

const bytesPerFrame = 4
