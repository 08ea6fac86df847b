// Package protocol implements the Alflex B6R-HATV4P fireplace wire protocol.
//
// This package handles framing, command construction, and status parsing for
// the WiFi module fitted to Valor gas fireplaces. The protocol was reverse
// engineered from captures of the official mobile app and is not documented
// by the vendor.
//
// # Frame Format
//
// Every message in either direction is a single frame:
//   - Start marker: 0x02 (STX)
//   - Payload: ASCII hex characters (two per wire byte)
//   - End marker: 0x03 (ETX)
//
// The module speaks this over a plain TCP socket (default port 2000) and
// expects one short-lived connection per command exchange.
//
// # Command Payloads
//
// All commands share the "30303030" address prefix followed by an opcode:
//
//	303030308003    query status
//	303030308010    power off (network standby)
//	303030308016XX  set flame level, XX in 0x80-0xFF
//	30303030802001  secondary burner on
//	30303030802000  secondary burner off
//
// Power-on is a fixed three-command sequence (init, firmware query, ignite
// trigger) with a 500 ms pause between commands. The three payloads are
// opaque device constants; no encoding rule for them is known.
//
// # Status Response
//
// The status reply decodes to exactly 53 bytes:
//
//	[0-1]   0x03 0x03      response header
//	[7]     flame byte     0x00 = off, 0x80-0xFF = on with level
//	[9]     status bits    bit 3 = burner2, bit 7 = pilot
//	[18-33] device name    padded with 0xFF/0x00
//
// The bit positions on byte 9 come from third-party captures, not an
// official source. Treat them as best-effort until verified against
// hardware; do not build safety-relevant behavior on them.
//
// # Flame Level Mapping
//
// Percentages map linearly onto the device byte range 0x80-0xFF. Encoding
// truncates (50% -> 0xBF), matching the app's observed behavior; decoding
// rounds to the nearest percent and clamps to [0,100].
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use.
package protocol
