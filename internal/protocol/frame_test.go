package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeFrame(t *testing.T) {
	got := EncodeFrame("303030308003")
	want := append(append([]byte{STX}, "303030308003"...), ETX)
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeFrame() = % x, want % x", got, want)
	}
}

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name    string
		frame   []byte
		want    []byte
		wantErr bool
	}{
		{
			name:  "valid frame",
			frame: EncodeFrame("0303000000035c"),
			want:  []byte{0x03, 0x03, 0x00, 0x00, 0x00, 0x03, 0x5c},
		},
		{
			name:  "empty payload",
			frame: []byte{STX, ETX},
			want:  []byte{},
		},
		{
			name:    "missing STX",
			frame:   append([]byte("0303"), ETX),
			wantErr: true,
		},
		{
			name:    "missing ETX",
			frame:   append([]byte{STX}, "0303"...),
			wantErr: true,
		},
		{
			name:    "empty buffer",
			frame:   nil,
			wantErr: true,
		},
		{
			name:    "one byte",
			frame:   []byte{STX},
			wantErr: true,
		},
		{
			name:    "odd-length payload",
			frame:   EncodeFrame("030"),
			wantErr: true,
		},
		{
			name:    "non-hex payload",
			frame:   EncodeFrame("GHIJ"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeFrame(tt.frame)

			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeFrame() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var fe *FrameError
				if !errors.As(err, &fe) {
					t.Errorf("error = %T, want *FrameError", err)
				}
				return
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("payload = % x, want % x", got, tt.want)
			}
		})
	}
}

func TestDecodeFrame_CapturedStatusResponse(t *testing.T) {
	// Real status response captured from a B6R-HATV4P module.
	raw := "0303000000035c8a82c900040000011f00c84c616b652046697265706c616365" +
		"ffffffffffff000000000000000000000000044201"
	frame := EncodeFrame(raw)

	payload, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if len(payload) != StatusLength {
		t.Errorf("payload length = %d, want %d", len(payload), StatusLength)
	}
	if payload[0] != 0x03 || payload[1] != 0x03 {
		t.Errorf("response header = % x, want 03 03", payload[0:2])
	}
}

func TestFrameRoundTrip(t *testing.T) {
	payloadHex := "30303030802001"
	got, err := DecodeFrame(EncodeFrame(payloadHex))
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	want := []byte{0x30, 0x30, 0x30, 0x30, 0x80, 0x20, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("round trip = % x, want % x", got, want)
	}
}
