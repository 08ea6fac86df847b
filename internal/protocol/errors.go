package protocol

// FrameError reports a wire frame with bad delimiters or a payload that is
// not valid even-length ASCII hex.
type FrameError struct {
	Reason string
}

func (e *FrameError) Error() string {
	return "malformed frame: " + e.Reason
}

// ParseError reports a status payload that cannot be decoded into device
// state.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "status parse failed: " + e.Reason
}

// ValidationError reports invalid caller input, rejected before anything is
// sent to the device.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Reason
}
