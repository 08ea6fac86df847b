package fireplace

import (
	"context"
	"fmt"
	"time"

	"github.com/hearthlink/hearth/internal/protocol"
)

// Controller is the operation surface exposed to collaborators (HTTP API,
// CLI, TUI). Both the TCP Client and the Simulator implement it.
type Controller interface {
	Status(ctx context.Context) (protocol.State, error)
	PowerOn(ctx context.Context) error
	PowerOff(ctx context.Context) error
	SetFlame(ctx context.Context, level int) error
	Burner2On(ctx context.Context) error
	Burner2Off(ctx context.Context) error
}

// Defaults match the module's factory configuration and the timings the
// official app uses.
const (
	DefaultPort            = 2000
	DefaultExchangeTimeout = 5 * time.Second
	DefaultStepTimeout     = 2 * time.Second
	DefaultQueueTimeout    = 30 * time.Second
)

// Options configures the TCP client. Zero values fall back to defaults;
// Host is required.
type Options struct {
	Host string
	Port int

	// ExchangeTimeout bounds one connect/send/receive cycle.
	ExchangeTimeout time.Duration
	// StepTimeout bounds each step of the power-on sequence.
	StepTimeout time.Duration
	// QueueTimeout bounds how long a request may wait for its turn. It
	// should be comfortably longer than ExchangeTimeout.
	QueueTimeout time.Duration
}

func (o *Options) withDefaults() {
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.ExchangeTimeout == 0 {
		o.ExchangeTimeout = DefaultExchangeTimeout
	}
	if o.StepTimeout == 0 {
		o.StepTimeout = DefaultStepTimeout
	}
	if o.QueueTimeout == 0 {
		o.QueueTimeout = DefaultQueueTimeout
	}
}

// Client talks to one fireplace module over TCP. All operations funnel
// through a single-flight queue; Client is safe for concurrent use.
type Client struct {
	addr string
	exec *executor
}

// NewClient creates a client for the module at opts.Host:opts.Port and
// starts its worker. Call Close when done.
func NewClient(opts Options) *Client {
	opts.withDefaults()
	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	return &Client{
		addr: addr,
		exec: newExecutor(newSession(addr), addr,
			opts.ExchangeTimeout, opts.StepTimeout, opts.QueueTimeout),
	}
}

// Close stops the worker. Pending requests fail with ErrClosed.
func (c *Client) Close() {
	c.exec.close()
}

// Addr returns the configured device address.
func (c *Client) Addr() string {
	return c.addr
}

// Status queries the device and decodes its 53-byte status response.
func (c *Client) Status(ctx context.Context) (protocol.State, error) {
	payload, err := c.exec.submit(ctx, protocol.QueryStatus())
	if err != nil {
		return protocol.State{}, err
	}
	return protocol.ParseStatus(payload)
}

// PowerOn runs the three-step ignition sequence as one atomic unit of work.
func (c *Client) PowerOn(ctx context.Context) error {
	_, err := c.exec.submit(ctx, protocol.PowerOn())
	return err
}

// PowerOff puts the fireplace into network standby.
func (c *Client) PowerOff(ctx context.Context) error {
	_, err := c.exec.submit(ctx, protocol.PowerOff())
	return err
}

// SetFlame sets the flame level to a 0-100 percentage. Out-of-range levels
// are rejected before any I/O.
func (c *Client) SetFlame(ctx context.Context, level int) error {
	cmd, err := protocol.SetFlame(level)
	if err != nil {
		return err
	}
	_, err = c.exec.submit(ctx, cmd)
	return err
}

// Burner2On enables the secondary burner.
func (c *Client) Burner2On(ctx context.Context) error {
	_, err := c.exec.submit(ctx, protocol.Burner2On())
	return err
}

// Burner2Off disables the secondary burner.
func (c *Client) Burner2Off(ctx context.Context) error {
	_, err := c.exec.submit(ctx, protocol.Burner2Off())
	return err
}

// Raw sends an arbitrary ASCII-hex payload and returns the decoded
// response. Protocol work only; the payload must already be catalog-format
// hex.
func (c *Client) Raw(ctx context.Context, payloadHex string) ([]byte, error) {
	return c.exec.submit(ctx, protocol.Command{Name: "raw", Payloads: []string{payloadHex}})
}
