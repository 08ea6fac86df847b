package protocol

import (
	"fmt"
	"time"
)

// Command payloads in ASCII-hex wire format, captured from the official app.
const (
	payloadQueryStatus = "303030308003"
	payloadPowerOff    = "303030308010"
	payloadBurner2On   = "30303030802001"
	payloadBurner2Off  = "30303030802000"

	// Flame level commands are flamePrefix + two hex digits (0x80-0xFF).
	flamePrefix = "303030308016"
)

// powerOnSequence is the three-command ignition sequence. The payloads are
// opaque device constants with no known encoding rule.
var powerOnSequence = []string{
	"3030303080FE00", // initialize
	"303030308001",   // firmware query
	"30303030801A",   // ignite trigger
}

// PowerOnStepDelay is the mandatory pause between ignition sequence steps.
const PowerOnStepDelay = 500 * time.Millisecond

// Command is one logical device action, expressed as the frame payload(s)
// it sends on the wire. Multi-payload commands must be executed as a single
// atomic unit with StepDelay between payloads.
type Command struct {
	Name      string
	Payloads  []string
	StepDelay time.Duration
	// WantState marks commands whose response decodes to device state.
	WantState bool
}

// Multi reports whether the command sends more than one frame.
func (c Command) Multi() bool {
	return len(c.Payloads) > 1
}

// QueryStatus returns the status query command.
func QueryStatus() Command {
	return Command{Name: "query_status", Payloads: []string{payloadQueryStatus}, WantState: true}
}

// PowerOff returns the power-off (network standby) command.
func PowerOff() Command {
	return Command{Name: "power_off", Payloads: []string{payloadPowerOff}}
}

// PowerOn returns the three-step ignition sequence command.
func PowerOn() Command {
	return Command{Name: "power_on", Payloads: powerOnSequence, StepDelay: PowerOnStepDelay}
}

// Burner2On returns the command enabling the secondary burner.
func Burner2On() Command {
	return Command{Name: "burner2_on", Payloads: []string{payloadBurner2On}}
}

// Burner2Off returns the command disabling the secondary burner.
func Burner2Off() Command {
	return Command{Name: "burner2_off", Payloads: []string{payloadBurner2Off}}
}

// SetFlame returns the flame level command for a 0-100 percentage. It fails
// with *ValidationError for out-of-range levels, before anything reaches the
// device.
func SetFlame(level int) (Command, error) {
	if err := ValidateFlameLevel(level); err != nil {
		return Command{}, err
	}
	payload := fmt.Sprintf("%s%02X", flamePrefix, FlameLevelToByte(level))
	return Command{Name: "set_flame", Payloads: []string{payload}}, nil
}

// ValidateFlameLevel checks that a flame percentage is within 0-100.
func ValidateFlameLevel(level int) error {
	if level < 0 || level > 100 {
		return &ValidationError{Reason: fmt.Sprintf("flame level %d out of range 0-100", level)}
	}
	return nil
}

// FlameLevelToByte maps a 0-100 percentage onto the device byte range
// 0x80-0xFF. Truncating integer math matches the official app: 50 -> 0xBF.
func FlameLevelToByte(level int) byte {
	if level <= 0 {
		return 0x80
	}
	if level >= 100 {
		return 0xFF
	}
	return byte(0x80 + level*0x7F/100)
}

// FlameByteToLevel maps a device flame byte back to a 0-100 percentage,
// rounding to the nearest percent. Bytes at or below 0x80 decode to 0.
func FlameByteToLevel(b byte) int {
	if b <= 0x80 {
		return 0
	}
	level := (int(b-0x80)*100 + 0x7F/2) / 0x7F
	if level > 100 {
		level = 100
	}
	return level
}
