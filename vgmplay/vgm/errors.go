package vgm

import (
	"errors"
	"fmt"
)

// ErrEndOfStream is returned by Decoder.Step when the stream ends and no
// loop point is available. Schedulers treat it as an infinite delay.
var ErrEndOfStream = errors.New("vgm: end of stream")

// FormatError reports malformed stream data: a bad header, a truncated
// command or an unsupported data block type.
type FormatError struct {
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("vgm: format error at 0x%X: %s", e.Offset, e.Reason)
}

// UnsupportedCommandError reports an opcode the decoder does not implement.
type UnsupportedCommandError struct {
	Opcode byte
	Offset int
}

func (e *UnsupportedCommandError) Error() string {
	return fmt.Sprintf("vgm: command 0x%02X at 0x%X was not recognized", e.Opcode, e.Offset)
}

// InvariantError reports a broken session precondition, such as a missing
// chip or a chip that violates the render contract.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return "vgm: " + e.Reason
}

func formatErrorf(offset int, format string, args ...any) error {
	return &FormatError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
