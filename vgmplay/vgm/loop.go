package vgm

// LoopController decides where decoding continues once the stream ends.
// Looping only moves the cursor: chip registers and the PCM block are left
// alone so voices already configured keep sounding across the jump.
type LoopController struct {
	address int
	limit   int
	count   int
}

// NewLoopController returns a controller for the given loop address. A zero
// address disables looping; limit caps the number of jumps, 0 means forever.
func NewLoopController(address, limit int) *LoopController {
	return &LoopController{address: address, limit: limit}
}

// Redirect returns the cursor to resume from, or false when the stream has
// really ended.
func (l *LoopController) Redirect() (int, bool) {
	if l.address == 0 {
		return 0, false
	}
	if l.limit > 0 && l.count >= l.limit {
		return 0, false
	}
	l.count++
	return l.address, true
}

// Count returns how many times the stream looped.
func (l *LoopController) Count() int {
	return l.count
}
