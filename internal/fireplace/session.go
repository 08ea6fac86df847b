package fireplace

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/hearthlink/hearth/internal/logging"
	"github.com/hearthlink/hearth/internal/protocol"
)

// maxResponseSize bounds a single response frame. Status responses are
// 108 bytes on the wire; the cap leaves headroom for longer replies.
const maxResponseSize = 1024

// Session lifecycle states, logged at debug level.
const (
	stateConnecting       = "connecting"
	stateConnected        = "connected"
	stateSending          = "sending"
	stateAwaitingResponse = "awaiting_response"
	stateClosed           = "closed"
	stateFailed           = "failed"
)

type dialFunc func(ctx context.Context, addr string) (net.Conn, error)

func defaultDial(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}

// session owns the TCP connection for exactly one command exchange. The
// module expects short-lived connections, so there is no pooling or reuse:
// one exchange is one connect/send/receive/close cycle, and the socket is
// released on every exit path.
type session struct {
	addr string
	dial dialFunc
}

func newSession(addr string) *session {
	return &session{addr: addr, dial: defaultDial}
}

// exchange sends one payload frame and reads the response frame, applying
// the timeout to the dial, the write, and the response wait individually.
// Dial and write failures surface as *ConnectError, an expired response
// wait as *TimeoutError, and bad response framing as *protocol.FrameError.
func (s *session) exchange(payloadHex string, timeout time.Duration) ([]byte, error) {
	logging.LogSession(s.addr, stateConnecting)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	conn, err := s.dial(ctx, s.addr)
	if err != nil {
		logging.LogSession(s.addr, stateFailed)
		return nil, &ConnectError{Addr: s.addr, Err: err}
	}
	defer func() {
		_ = conn.Close()
		logging.LogSession(s.addr, stateClosed)
	}()
	logging.LogSession(s.addr, stateConnected)

	frame := protocol.EncodeFrame(payloadHex)
	logging.LogRawBytes("request frame", frame)

	logging.LogSession(s.addr, stateSending)
	_ = conn.SetWriteDeadline(time.Now().Add(timeout))
	if _, err := conn.Write(frame); err != nil {
		logging.LogSession(s.addr, stateFailed)
		return nil, &ConnectError{Addr: s.addr, Err: err}
	}

	logging.LogSession(s.addr, stateAwaitingResponse)
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	resp, err := readFrame(conn)
	if err != nil {
		logging.LogSession(s.addr, stateFailed)
		if isTimeout(err) {
			return nil, &TimeoutError{Stage: "response", Err: err}
		}
		return nil, &ConnectError{Addr: s.addr, Err: err}
	}
	logging.LogRawBytes("response frame", resp)

	return protocol.DecodeFrame(resp)
}

// readFrame accumulates reads until the ETX terminator arrives. A clean EOF
// with buffered data also ends the frame; the module closes its side after
// replying.
func readFrame(conn net.Conn) ([]byte, error) {
	buf := make([]byte, 0, 256)
	chunk := make([]byte, 256)
	for {
		n, err := conn.Read(chunk)
		buf = append(buf, chunk[:n]...)

		if len(buf) > 0 && buf[len(buf)-1] == protocol.ETX {
			return buf, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(buf) > 0 {
				return buf, nil
			}
			return nil, err
		}
		if len(buf) >= maxResponseSize {
			return buf, nil
		}
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
