package vgm

// Command opcodes understood by the decoder.
const (
	OpGameGearPSG = 0x4F
	OpPSGWrite    = 0x50
	OpYM2612Port1 = 0x52
	OpYM2612Port2 = 0x53
	OpWait        = 0x61
	OpWaitNTSC    = 0x62
	OpWaitPAL     = 0x63
	OpEnd         = 0x66
	OpDataBlock   = 0x67
	OpWaitShort   = 0x70 // 0x70-0x7F: wait n+1 samples
	OpDACWait     = 0x80 // 0x80-0x8F: DAC write then wait n samples
	OpDACSetup    = 0x90 // 0x90-0x95: DAC stream control, skipped
	OpPCMSeek     = 0xE0
)

const (
	// WaitNTSC is one 60 Hz video frame at 44100 Hz.
	WaitNTSC = 735
	// WaitPAL is one 50 Hz video frame at 44100 Hz.
	WaitPAL = 882

	// DACRegister is the YM2612 port 1 register fed by DAC stream commands.
	DACRegister = 0x2A

	// dataBlockMarker follows OpDataBlock for compatibility with players
	// that treat 0x66 as end of stream.
	dataBlockMarker = 0x66

	// blockTypeRawPCM is the only data block type supported: YM2612 PCM.
	blockTypeRawPCM = 0x00
)

// dacStreamOperands are the operand widths of the skipped 0x90-0x95
// DAC stream control commands.
var dacStreamOperands = [...]int{4, 4, 5, 10, 1, 4}
