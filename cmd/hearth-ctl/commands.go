package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearthlink/hearth/internal/config"
	"github.com/hearthlink/hearth/internal/fireplace"
	"github.com/hearthlink/hearth/internal/logging"
	"github.com/hearthlink/hearth/internal/protocol"
	"github.com/hearthlink/hearth/internal/ui"
)

// Common command flags
var (
	cfgPath      string
	deviceHost   string
	devicePort   int
	timeoutSec   int
	outputFormat string
)

func init() {
	// Common flags for device commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file (default: user config directory)")
	rootCmd.PersistentFlags().StringVar(&deviceHost, "device", "", "Fireplace module IP or hostname (overrides config)")
	rootCmd.PersistentFlags().IntVar(&devicePort, "port", 0, "Fireplace module TCP port (overrides config)")
	rootCmd.PersistentFlags().IntVar(&timeoutSec, "timeout", 0, "Per-command timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")

	// Add subcommands directly to root
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
	rootCmd.AddCommand(flameCmd)
	rootCmd.AddCommand(burner2Cmd)
	rootCmd.AddCommand(rawCmd)
	rootCmd.AddCommand(watchCmd)
}

// newClient builds a client from the config file plus flag overrides.
func newClient() (*fireplace.Client, error) {
	if err := logging.InitializeFromEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if deviceHost != "" {
		cfg.Device.Host = deviceHost
	}
	if devicePort != 0 {
		cfg.Device.Port = devicePort
	}
	if timeoutSec != 0 {
		cfg.Device.ExchangeTimeoutSec = timeoutSec
	}
	if cfg.Device.Host == "" {
		return nil, fmt.Errorf("no device address: set device.host in the config file or pass --device")
	}

	return fireplace.NewClient(fireplace.Options{
		Host:            cfg.Device.Host,
		Port:            cfg.Device.Port,
		ExchangeTimeout: cfg.Device.ExchangeTimeout(),
		QueueTimeout:    cfg.Device.QueueTimeout(),
	}), nil
}

func commandContext() (context.Context, context.CancelFunc) {
	timeout := 60 * time.Second // generous: power-on is three spaced exchanges
	if timeoutSec > 0 {
		timeout = time.Duration(timeoutSec) * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query and display the fireplace status",
	Example: `  # Show the fireplace status
  hearth-ctl status --device 192.168.0.22

  # Machine-readable output
  hearth-ctl status --format json`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := commandContext()
	defer cancel()

	st, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("status query failed: %w", err)
	}
	return printState(st)
}

func printState(st protocol.State) error {
	if outputFormat == "json" {
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Device:   %s\n", st.DeviceName)
	fmt.Printf("Power:    %s\n", onOff(st.Power))
	fmt.Printf("Flame:    %d%%\n", st.FlameLevel)
	fmt.Printf("Burner 2: %s\n", onOff(st.Burner2))
	fmt.Printf("Pilot:    %s\n", onOff(st.Pilot))
	return nil
}

func onOff(b bool) string {
	if b {
		return ui.OnStyle.Render(ui.OnMarker + " on")
	}
	return ui.OffStyle.Render(ui.OffMarker + " off")
}

var onCmd = &cobra.Command{
	Use:   "on",
	Short: "Ignite the fireplace",
	Long: `Ignite the fireplace.

Ignition is a fixed three-frame sequence with spacing the burner
electronics require, so this command takes a little over a second.`,
	Example: `  # Ignite
  hearth-ctl on --device 192.168.0.22`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimple("PowerOn", func(ctx context.Context, c *fireplace.Client) error {
			return c.PowerOn(ctx)
		}, "Fireplace ignition sequence sent.")
	},
}

var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn the fireplace off",
	Example: `  # Extinguish
  hearth-ctl off`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimple("PowerOff", func(ctx context.Context, c *fireplace.Client) error {
			return c.PowerOff(ctx)
		}, "Fireplace turned off.")
	},
}

func runSimple(name string, fn func(context.Context, *fireplace.Client) error, okMsg string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := commandContext()
	defer cancel()

	if err := fn(ctx, client); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	fmt.Println(okMsg)
	return nil
}

var flameCmd = &cobra.Command{
	Use:   "flame <level>",
	Short: "Set the flame height (0-100)",
	Args:  cobra.ExactArgs(1),
	Example: `  # Half height
  hearth-ctl flame 50

  # Full height
  hearth-ctl flame 100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("flame level must be an integer: %q", args[0])
		}
		return runSimple("SetFlame", func(ctx context.Context, c *fireplace.Client) error {
			return c.SetFlame(ctx, level)
		}, fmt.Sprintf("Flame set to %d%%.", level))
	},
}

var burner2Cmd = &cobra.Command{
	Use:   "burner2 <on|off>",
	Short: "Control the second burner",
	Args:  cobra.ExactArgs(1),
	Example: `  # Light the second burner
  hearth-ctl burner2 on

  # Back to the main burner only
  hearth-ctl burner2 off`,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "on":
			return runSimple("Burner2On", func(ctx context.Context, c *fireplace.Client) error {
				return c.Burner2On(ctx)
			}, "Second burner on.")
		case "off":
			return runSimple("Burner2Off", func(ctx context.Context, c *fireplace.Client) error {
				return c.Burner2Off(ctx)
			}, "Second burner off.")
		default:
			return fmt.Errorf("burner2 state must be on or off, got %q", args[0])
		}
	},
}

var rawCmd = &cobra.Command{
	Use:   "raw <payload-hex>",
	Short: "Send a raw command payload",
	Long: `Send a raw hex payload to the fireplace and print the response.

The payload is the inner hex string; framing (STX, hex encoding, ETX) is
added automatically. Intended for protocol exploration - an unknown
payload can leave the burner in an odd state.`,
	Args: cobra.ExactArgs(1),
	Example: `  # Equivalent of the status query
  hearth-ctl raw 303030308003`,
	RunE: runRaw,
}

func runRaw(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := commandContext()
	defer cancel()

	resp, err := client.Raw(ctx, args[0])
	if err != nil {
		return fmt.Errorf("raw command failed: %w", err)
	}
	fmt.Printf("Response (%d bytes):\n%s\n", len(resp), hex.EncodeToString(resp))
	return nil
}
