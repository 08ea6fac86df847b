package fireplace

import (
	"context"
	"encoding/hex"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hearthlink/hearth/internal/protocol"
)

// fakeExchanger records every frame it is asked to send and tracks how many
// exchanges are in flight at once.
type fakeExchanger struct {
	mu          sync.Mutex
	calls       []string
	inFlight    int
	maxInFlight int

	// respond produces the reply for a payload. Defaults to an empty ack.
	respond func(payloadHex string) ([]byte, error)
	// gate, when set, blocks every exchange until the channel is closed.
	gate chan struct{}
}

func (f *fakeExchanger) exchange(payloadHex string, timeout time.Duration) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, payloadHex)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	gate := f.gate
	respond := f.respond
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if respond != nil {
		return respond(payloadHex)
	}
	return []byte{0x00}, nil
}

func (f *fakeExchanger) sentPayloads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newTestExecutor(conn exchanger) *executor {
	return newExecutor(conn, "192.0.2.1:2000",
		100*time.Millisecond, 100*time.Millisecond, time.Second)
}

func TestExecutor_SingleFlight(t *testing.T) {
	fake := &fakeExchanger{
		respond: func(string) ([]byte, error) {
			time.Sleep(2 * time.Millisecond)
			return []byte{0x00}, nil
		},
	}
	e := newTestExecutor(fake)
	defer e.close()

	commands := []protocol.Command{
		protocol.PowerOff(),
		protocol.Burner2On(),
		protocol.Burner2Off(),
		protocol.QueryStatus(),
		mustSetFlame(t, 30),
		mustSetFlame(t, 80),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(commands))
	for i, cmd := range commands {
		wg.Add(1)
		go func(i int, cmd protocol.Command) {
			defer wg.Done()
			_, errs[i] = e.submit(context.Background(), cmd)
		}(i, cmd)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("command %d failed: %v", i, err)
		}
	}
	if fake.maxInFlight != 1 {
		t.Errorf("max in-flight exchanges = %d, want 1", fake.maxInFlight)
	}
	if got := len(fake.sentPayloads()); got != len(commands) {
		t.Errorf("exchanges = %d, want %d", got, len(commands))
	}
}

func TestExecutor_FIFOOrder(t *testing.T) {
	gate := make(chan struct{})
	fake := &fakeExchanger{gate: gate}
	e := newTestExecutor(fake)
	defer e.close()

	// Occupy the worker so later requests stack up in the queue.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = e.submit(context.Background(), protocol.QueryStatus())
	}()
	waitForCalls(t, fake, 1) // worker is blocked inside the first exchange

	var want []string
	for i := 20; i <= 24; i++ {
		cmd := mustSetFlame(t, i)
		want = append(want, cmd.Payloads[0])

		depth := len(e.queue)
		wg.Add(1)
		go func(cmd protocol.Command) {
			defer wg.Done()
			_, _ = e.submit(context.Background(), cmd)
		}(cmd)
		waitForQueueDepth(t, e, depth+1)
	}

	close(gate)
	wg.Wait()

	got := fake.sentPayloads()
	if len(got) != len(want)+1 {
		t.Fatalf("exchanges = %d, want %d", len(got), len(want)+1)
	}
	for i, p := range want {
		if got[i+1] != p {
			t.Errorf("service order[%d] = %s, want %s", i, got[i+1], p)
		}
	}
}

func TestExecutor_PowerOnSequence(t *testing.T) {
	fake := &fakeExchanger{}
	e := newTestExecutor(fake)
	defer e.close()

	var slept []time.Duration
	e.sleep = func(d time.Duration) { slept = append(slept, d) }

	if _, err := e.submit(context.Background(), protocol.PowerOn()); err != nil {
		t.Fatalf("power on failed: %v", err)
	}

	want := []string{"3030303080FE00", "303030308001", "30303030801A"}
	got := fake.sentPayloads()
	if len(got) != len(want) {
		t.Fatalf("frames sent = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if len(slept) != 2 {
		t.Fatalf("inter-frame delays = %d, want 2", len(slept))
	}
	for i, d := range slept {
		if d != protocol.PowerOnStepDelay {
			t.Errorf("delay[%d] = %v, want %v", i, d, protocol.PowerOnStepDelay)
		}
	}
}

func TestExecutor_PowerOnPartialFailure(t *testing.T) {
	stepErr := &TimeoutError{Stage: "response"}
	fake := &fakeExchanger{}
	fake.respond = func(payloadHex string) ([]byte, error) {
		if len(fake.sentPayloads()) == 2 {
			return nil, stepErr
		}
		return []byte{0x00}, nil
	}
	e := newTestExecutor(fake)
	defer e.close()
	e.sleep = func(time.Duration) {}

	_, err := e.submit(context.Background(), protocol.PowerOn())

	var pse *PartialSequenceError
	if !errors.As(err, &pse) {
		t.Fatalf("error = %T (%v), want *PartialSequenceError", err, err)
	}
	if pse.Completed != 1 {
		t.Errorf("completed = %d, want 1", pse.Completed)
	}
	if pse.Steps != 3 {
		t.Errorf("steps = %d, want 3", pse.Steps)
	}
	if !errors.Is(err, stepErr) {
		t.Errorf("should wrap the step error, got %v", err)
	}
	if got := len(fake.sentPayloads()); got != 2 {
		t.Errorf("frames sent = %d, want 2 (no frame after the failure)", got)
	}
}

func TestExecutor_PowerOnFirstStepFailure(t *testing.T) {
	stepErr := &ConnectError{Addr: "192.0.2.1:2000", Err: errors.New("refused")}
	fake := &fakeExchanger{
		respond: func(string) ([]byte, error) { return nil, stepErr },
	}
	e := newTestExecutor(fake)
	defer e.close()
	e.sleep = func(time.Duration) {}

	_, err := e.submit(context.Background(), protocol.PowerOn())

	// Nothing completed, so the connect error propagates untouched.
	var pse *PartialSequenceError
	if errors.As(err, &pse) {
		t.Fatalf("error = %v, want plain *ConnectError", err)
	}
	if !errors.Is(err, stepErr) {
		t.Errorf("error = %v, want the step error", err)
	}
}

func TestExecutor_QueueTimeout(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	fake := &fakeExchanger{gate: gate}

	e := newExecutor(fake, "192.0.2.1:2000",
		100*time.Millisecond, 100*time.Millisecond, 30*time.Millisecond)
	defer e.close()

	// Occupy the worker.
	go func() { _, _ = e.submit(context.Background(), protocol.QueryStatus()) }()
	waitForCalls(t, fake, 1)

	_, err := e.submit(context.Background(), protocol.PowerOff())

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("error = %T (%v), want *TimeoutError", err, err)
	}
	if te.Stage != "queue" {
		t.Errorf("stage = %s, want queue", te.Stage)
	}
}

func TestExecutor_ContextCanceledWhileQueued(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	fake := &fakeExchanger{gate: gate}
	e := newTestExecutor(fake)
	defer e.close()

	go func() { _, _ = e.submit(context.Background(), protocol.QueryStatus()) }()
	waitForCalls(t, fake, 1)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := e.submit(ctx, protocol.PowerOff())

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("error = %T (%v), want *TimeoutError", err, err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("should wrap context.Canceled, got %v", err)
	}
}

func TestExecutor_AbandonedRequestIsSkipped(t *testing.T) {
	gate := make(chan struct{})
	fake := &fakeExchanger{gate: gate}
	e := newTestExecutor(fake)
	defer e.close()

	go func() { _, _ = e.submit(context.Background(), protocol.QueryStatus()) }()
	waitForCalls(t, fake, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.submit(ctx, protocol.PowerOff()); err == nil {
		t.Fatal("expected error for canceled context")
	}

	close(gate)
	waitForQueueDrain(t, e)
	time.Sleep(10 * time.Millisecond)

	// The abandoned power-off never reaches the device.
	for _, p := range fake.sentPayloads() {
		if p == "303030308010" {
			t.Error("abandoned request was still sent to the device")
		}
	}
}

func TestExecutor_CloseIsIdempotent(t *testing.T) {
	e := newTestExecutor(&fakeExchanger{})
	e.close()
	e.close()
}

func TestExecutor_StatusResponsePassthrough(t *testing.T) {
	want, err := hex.DecodeString(capturedStatus)
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	fake := &fakeExchanger{
		respond: func(string) ([]byte, error) { return want, nil },
	}
	e := newTestExecutor(fake)
	defer e.close()

	payload, err := e.submit(context.Background(), protocol.QueryStatus())
	if err != nil {
		t.Fatalf("submit() error = %v", err)
	}
	if len(payload) != protocol.StatusLength {
		t.Errorf("payload length = %d, want %d", len(payload), protocol.StatusLength)
	}
}

func mustSetFlame(t *testing.T, level int) protocol.Command {
	t.Helper()
	cmd, err := protocol.SetFlame(level)
	if err != nil {
		t.Fatalf("SetFlame(%d): %v", level, err)
	}
	return cmd
}

func waitForQueueDepth(t *testing.T, e *executor, depth int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for len(e.queue) < depth {
		if time.Now().After(deadline) {
			t.Fatalf("queue depth never reached %d", depth)
		}
		time.Sleep(time.Millisecond)
	}
}

func waitForQueueDrain(t *testing.T, e *executor) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for len(e.queue) > 0 {
		if time.Now().After(deadline) {
			t.Fatal("queue never drained")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(5 * time.Millisecond)
}

func waitForCalls(t *testing.T, f *fakeExchanger, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for len(f.sentPayloads()) < n {
		if time.Now().After(deadline) {
			t.Fatalf("exchanger never reached %d calls", n)
		}
		time.Sleep(time.Millisecond)
	}
}
