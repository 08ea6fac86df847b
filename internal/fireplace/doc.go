// Package fireplace implements the TCP client for the Alflex B6R-HATV4P
// fireplace WiFi module.
//
// The module has no transaction semantics of its own: it expects one
// short-lived TCP connection per command and misbehaves when commands
// interleave. This package therefore imposes the ordering the device
// cannot: every operation passes through a single-flight FIFO queue, and
// each serviced request owns a fresh connection for exactly one
// connect/send/receive/close cycle.
//
// # Usage
//
//	client := fireplace.NewClient(fireplace.Options{Host: "192.168.0.22", Port: 2000})
//	defer client.Close()
//
//	state, err := client.Status(ctx)
//	if err != nil {
//	    // *ConnectError, *TimeoutError, *protocol.ParseError, ...
//	}
//
// # Power-On Sequencing
//
// PowerOn sends the three-command ignition sequence as one atomic unit of
// work: the queue lock is held across all three frames and their 500 ms
// delays, so no other request can interleave mid-sequence. If a later step
// fails after an earlier one succeeded, the caller receives
// *PartialSequenceError with the completed count — device state is then
// ambiguous and should be re-queried.
//
// # Errors
//
// Errors surface unmodified: no retries, no substituted defaults. Retry
// policy belongs to the caller.
//
// # Simulation
//
// Simulator provides an in-memory Controller implementation with the same
// validation envelope as the real client, for development without hardware.
package fireplace
