package fireplace

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hearthlink/hearth/internal/logging"
	"github.com/hearthlink/hearth/internal/protocol"
)

// ErrClosed is returned for requests submitted after Close.
var ErrClosed = errors.New("fireplace client is closed")

// queueCapacity bounds the number of requests waiting for the device.
// Callers beyond it block in submit until a slot frees or they time out.
const queueCapacity = 32

// exchanger is the transport one command frame is served over. *session
// implements it; tests substitute fakes.
type exchanger interface {
	exchange(payloadHex string, timeout time.Duration) ([]byte, error)
}

// opResult carries the decoded response of a request's final frame.
type opResult struct {
	payload []byte
	err     error
}

// pendingRequest is one queued unit of work: a command plus the channel its
// result is delivered on. The started/abandoned handshake resolves the race
// between a caller giving up and the worker picking the request up: a
// request abandons cleanly only while it has not started, and once started
// it always runs to completion.
type pendingRequest struct {
	id   string
	cmd  protocol.Command
	done chan opResult

	mu        sync.Mutex
	started   bool
	abandoned bool
}

func newPendingRequest(cmd protocol.Command) *pendingRequest {
	return &pendingRequest{
		id:   uuid.NewString(),
		cmd:  cmd,
		done: make(chan opResult, 1),
	}
}

// begin marks the request in flight. Returns false if the caller already
// abandoned it.
func (r *pendingRequest) begin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.abandoned {
		return false
	}
	r.started = true
	return true
}

// abandon withdraws a request that has not started. Returns false if the
// worker already began servicing it, in which case the caller must wait for
// the in-flight result.
func (r *pendingRequest) abandon() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return false
	}
	r.abandoned = true
	return true
}

// executor serializes all device-facing operations: at most one command is
// in flight at any instant, requests are serviced in FIFO arrival order,
// and multi-frame commands run as one atomic unit.
type executor struct {
	conn            exchanger
	addr            string
	queue           chan *pendingRequest
	exchangeTimeout time.Duration
	stepTimeout     time.Duration
	queueTimeout    time.Duration
	sleep           func(d time.Duration)

	quit      chan struct{}
	closeOnce sync.Once
}

func newExecutor(conn exchanger, addr string, exchangeTimeout, stepTimeout, queueTimeout time.Duration) *executor {
	e := &executor{
		conn:            conn,
		addr:            addr,
		queue:           make(chan *pendingRequest, queueCapacity),
		exchangeTimeout: exchangeTimeout,
		stepTimeout:     stepTimeout,
		queueTimeout:    queueTimeout,
		sleep:           time.Sleep,
		quit:            make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *executor) close() {
	e.closeOnce.Do(func() { close(e.quit) })
}

// run is the single worker goroutine; its loop is the single-flight
// guarantee.
func (e *executor) run() {
	for {
		select {
		case <-e.quit:
			e.drain()
			return
		case req := <-e.queue:
			if !req.begin() {
				continue
			}
			req.done <- e.serve(req)
		}
	}
}

// drain fails whatever is still queued at shutdown.
func (e *executor) drain() {
	for {
		select {
		case req := <-e.queue:
			if req.begin() {
				req.done <- opResult{err: ErrClosed}
			}
		default:
			return
		}
	}
}

// serve executes all frames of one command against the device. Multi-frame
// commands use the shorter per-step timeout and pause StepDelay between
// frames; a failure on step n>1 surfaces as *PartialSequenceError and stops
// the sequence.
func (e *executor) serve(req *pendingRequest) opResult {
	start := time.Now()

	timeout := e.exchangeTimeout
	if req.cmd.Multi() {
		timeout = e.stepTimeout
	}

	var payload []byte
	for i, frame := range req.cmd.Payloads {
		if i > 0 {
			e.sleep(req.cmd.StepDelay)
		}

		resp, err := e.conn.exchange(frame, timeout)
		if err != nil {
			logging.LogExchangeError(e.addr, req.cmd.Name, err)
			if i > 0 {
				return opResult{err: &PartialSequenceError{
					Command:   req.cmd.Name,
					Completed: i,
					Steps:     len(req.cmd.Payloads),
					Err:       err,
				}}
			}
			return opResult{err: err}
		}
		payload = resp
	}

	logging.LogExchange(e.addr, req.cmd.Name, time.Since(start), len(payload))
	return opResult{payload: payload}
}

// submit enqueues a command and blocks until its result arrives or the
// queue wait expires. The caller-supplied context bounds only the wait: an
// exchange already in flight runs to its own per-exchange timeout and its
// result is honored.
func (e *executor) submit(ctx context.Context, cmd protocol.Command) ([]byte, error) {
	req := newPendingRequest(cmd)

	timer := time.NewTimer(e.queueTimeout)
	defer timer.Stop()

	logging.Debug("Request queued",
		zap.String("request_id", req.id),
		zap.String("command", cmd.Name),
	)

	select {
	case e.queue <- req:
	case <-ctx.Done():
		return nil, &TimeoutError{Stage: "queue", Err: ctx.Err()}
	case <-timer.C:
		return nil, &TimeoutError{Stage: "queue"}
	case <-e.quit:
		return nil, ErrClosed
	}

	select {
	case res := <-req.done:
		return res.payload, res.err
	case <-ctx.Done():
		if req.abandon() {
			return nil, &TimeoutError{Stage: "queue", Err: ctx.Err()}
		}
		res := <-req.done
		return res.payload, res.err
	case <-timer.C:
		if req.abandon() {
			return nil, &TimeoutError{Stage: "queue"}
		}
		res := <-req.done
		return res.payload, res.err
	}
}
