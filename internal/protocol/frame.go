package protocol

import (
	"encoding/hex"
	"fmt"
)

// Frame delimiters used by the fireplace module.
const (
	STX = 0x02 // start of frame
	ETX = 0x03 // end of frame
)

// EncodeFrame wraps an ASCII-hex payload in STX/ETX markers, producing the
// bytes written to the socket. The payload is not validated here; command
// construction owns payload semantics.
func EncodeFrame(payloadHex string) []byte {
	frame := make([]byte, 0, len(payloadHex)+2)
	frame = append(frame, STX)
	frame = append(frame, payloadHex...)
	frame = append(frame, ETX)
	return frame
}

// DecodeFrame validates the frame delimiters and returns the decoded payload
// bytes. It fails with *FrameError if the buffer is shorter than two bytes,
// the markers are missing, or the payload is not even-length ASCII hex.
func DecodeFrame(frame []byte) ([]byte, error) {
	if len(frame) < 2 {
		return nil, &FrameError{Reason: fmt.Sprintf("frame too short (%d bytes)", len(frame))}
	}
	if frame[0] != STX {
		return nil, &FrameError{Reason: fmt.Sprintf("missing STX, first byte 0x%02x", frame[0])}
	}
	if frame[len(frame)-1] != ETX {
		return nil, &FrameError{Reason: fmt.Sprintf("missing ETX, last byte 0x%02x", frame[len(frame)-1])}
	}

	payload, err := hex.DecodeString(string(frame[1 : len(frame)-1]))
	if err != nil {
		return nil, &FrameError{Reason: "payload is not even-length ASCII hex"}
	}
	return payload, nil
}
