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

// newFakeClient builds a Client served by a fakeExchanger instead of TCP.
func newFakeClient(fake *fakeExchanger) *Client {
	addr := "192.0.2.1:2000"
	return &Client{
		addr: addr,
		exec: newExecutor(fake, addr, 100*time.Millisecond, 100*time.Millisecond, time.Second),
	}
}

func TestClientStatus(t *testing.T) {
	payload, err := hex.DecodeString(capturedStatus)
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	fake := &fakeExchanger{
		respond: func(string) ([]byte, error) { return payload, nil },
	}
	client := newFakeClient(fake)
	defer client.Close()

	st, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !st.Power || st.FlameLevel != 8 || !st.Burner2 || !st.Pilot {
		t.Errorf("state = %+v, want power on at 8%% with burner2 and pilot", st)
	}
	if st.DeviceName != "Lake Fireplace" {
		t.Errorf("device name = %q, want %q", st.DeviceName, "Lake Fireplace")
	}

	sent := fake.sentPayloads()
	if len(sent) != 1 || sent[0] != "303030308003" {
		t.Errorf("sent = %v, want single status query", sent)
	}
}

func TestClientStatus_ShortResponse(t *testing.T) {
	fake := &fakeExchanger{
		respond: func(string) ([]byte, error) { return make([]byte, 18), nil },
	}
	client := newFakeClient(fake)
	defer client.Close()

	_, err := client.Status(context.Background())

	var pe *protocol.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %T (%v), want *protocol.ParseError", err, err)
	}
}

func TestClientSetFlame_RejectedBeforeIO(t *testing.T) {
	fake := &fakeExchanger{}
	client := newFakeClient(fake)
	defer client.Close()

	for _, level := range []int{-1, 101, 500} {
		err := client.SetFlame(context.Background(), level)
		var ve *protocol.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("SetFlame(%d) error = %T (%v), want *protocol.ValidationError", level, err, err)
		}
	}
	if got := len(fake.sentPayloads()); got != 0 {
		t.Errorf("exchanges = %d, want 0: validation must precede I/O", got)
	}
}

func TestClientSetFlame(t *testing.T) {
	fake := &fakeExchanger{}
	client := newFakeClient(fake)
	defer client.Close()

	if err := client.SetFlame(context.Background(), 50); err != nil {
		t.Fatalf("SetFlame(50) error = %v", err)
	}
	sent := fake.sentPayloads()
	if len(sent) != 1 || sent[0] != "3030303080"+"16BF" {
		t.Errorf("sent = %v, want flame command 0xBF", sent)
	}
}

func TestClientConcurrentCallers(t *testing.T) {
	statusPayload, err := hex.DecodeString(capturedStatus)
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	fake := &fakeExchanger{
		respond: func(payloadHex string) ([]byte, error) {
			time.Sleep(time.Millisecond)
			if payloadHex == "303030308003" {
				return statusPayload, nil
			}
			return []byte{0x00}, nil
		},
	}
	client := newFakeClient(fake)
	defer client.Close()
	client.exec.sleep = func(time.Duration) {}

	ctx := context.Background()
	actions := []func() error{
		func() error { _, err := client.Status(ctx); return err },
		func() error { return client.PowerOn(ctx) },
		func() error { return client.PowerOff(ctx) },
		func() error { return client.SetFlame(ctx, 75) },
		func() error { return client.Burner2On(ctx) },
		func() error { return client.Burner2Off(ctx) },
	}

	var wg sync.WaitGroup
	errs := make([]error, len(actions))
	for i, action := range actions {
		wg.Add(1)
		go func(i int, action func() error) {
			defer wg.Done()
			errs[i] = action()
		}(i, action)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("action %d failed: %v", i, err)
		}
	}
	if fake.maxInFlight != 1 {
		t.Errorf("max in-flight exchanges = %d, want 1", fake.maxInFlight)
	}
	// Six actions, with power-on contributing three frames.
	if got := len(fake.sentPayloads()); got != 8 {
		t.Errorf("exchanges = %d, want 8", got)
	}
}

func TestClientRaw(t *testing.T) {
	fake := &fakeExchanger{
		respond: func(string) ([]byte, error) { return []byte{0xAB}, nil },
	}
	client := newFakeClient(fake)
	defer client.Close()

	resp, err := client.Raw(context.Background(), "303030308003")
	if err != nil {
		t.Fatalf("Raw() error = %v", err)
	}
	if len(resp) != 1 || resp[0] != 0xAB {
		t.Errorf("response = % x, want ab", resp)
	}
}

func TestClientAddr(t *testing.T) {
	client := NewClient(Options{Host: "10.0.0.9"})
	defer client.Close()
	if client.Addr() != "10.0.0.9:2000" {
		t.Errorf("addr = %s, want default port applied", client.Addr())
	}
}
