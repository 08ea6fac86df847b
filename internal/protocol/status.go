package protocol

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Status response layout, verified against live captures.
const (
	// StatusLength is the exact decoded length of a status response.
	StatusLength = 53

	offsetFlame     = 7  // 0x00 = off, 0x80-0xFF = on with level
	offsetFlags     = 9  // bit 3 = burner2, bit 7 = pilot
	offsetNameStart = 18 // device name, 16 bytes padded with 0xFF/0x00
	offsetNameEnd   = 34

	flagBurner2 = 0x08
	flagPilot   = 0x80
)

// State is a decoded status snapshot. It is a fresh value per query with no
// cross-call memory.
type State struct {
	Power      bool   `json:"power"`
	FlameLevel int    `json:"flame_level"`
	Burner2    bool   `json:"burner2"`
	Pilot      bool   `json:"pilot"`
	DeviceName string `json:"device_name"`
	Raw        string `json:"raw,omitempty"`
}

// ParseStatus decodes the 53-byte status payload into a State. It fails with
// *ParseError for any other length, never partially decoding.
func ParseStatus(payload []byte) (State, error) {
	if len(payload) != StatusLength {
		return State{}, &ParseError{
			Reason: fmt.Sprintf("unexpected response length %d, want %d", len(payload), StatusLength),
		}
	}

	flame := payload[offsetFlame]
	flags := payload[offsetFlags]

	st := State{
		Power:      flame != 0x00,
		FlameLevel: FlameByteToLevel(flame),
		Burner2:    flags&flagBurner2 != 0,
		Pilot:      flags&flagPilot != 0,
		DeviceName: parseDeviceName(payload[offsetNameStart:offsetNameEnd]),
		Raw:        hex.EncodeToString(payload),
	}
	return st, nil
}

// parseDeviceName trims the trailing 0xFF/0x00 padding the module writes
// after the configured name.
func parseDeviceName(field []byte) string {
	return string(bytes.TrimRight(field, "\xff\x00"))
}
