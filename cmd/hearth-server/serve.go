package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hearthlink/hearth/internal/config"
	"github.com/hearthlink/hearth/internal/fireplace"
	"github.com/hearthlink/hearth/internal/logging"
	"github.com/hearthlink/hearth/internal/server"
)

const shutdownTimeout = 10 * time.Second

// Serve command and flags. Flags override the config file when set.
var (
	configPath string
	listenAddr string
	deviceHost string
	devicePort int
	simulated  bool
	logLevel   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP control daemon",
	Long: `Start the fireplace control daemon.

Configuration is read from the config file (default location under the
user config directory) and can be overridden per flag. With --simulated
the daemon serves an in-memory fireplace, which is useful for UI work
without hardware.`,
	Example: `  # Serve the fireplace from the config file
  hearth-server serve

  # Point at a specific device
  hearth-server serve --device 192.168.0.22 --device-port 2000

  # Local development without hardware
  hearth-server serve --simulated --listen :8000 --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: user config directory)")
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "HTTP listen address, e.g. :8000")
	serveCmd.Flags().StringVar(&deviceHost, "device", "", "Fireplace module IP or hostname")
	serveCmd.Flags().IntVar(&devicePort, "device-port", 0, "Fireplace module TCP port")
	serveCmd.Flags().BoolVar(&simulated, "simulated", false, "Serve an in-memory simulated fireplace")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a default config file",
	Long: `Write the built-in default configuration to the config file location
so it can be edited. Refuses to overwrite an existing file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
		if err := config.Save(config.Default(), path); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	initConfigCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: user config directory)")
}

// mergeFlags applies command-line overrides onto the loaded config.
func mergeFlags(cfg *config.Config) {
	if listenAddr != "" {
		cfg.Server.Listen = listenAddr
	}
	if deviceHost != "" {
		cfg.Device.Host = deviceHost
	}
	if devicePort != 0 {
		cfg.Device.Port = devicePort
	}
	if simulated {
		cfg.Device.Controller = config.ControllerSimulated
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	mergeFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.LogLevel != "" {
		err = logging.Initialize(cfg.LogLevel)
	} else {
		err = logging.InitializeFromEnv()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()
	log := logging.GetLogger()

	// Pick the controller backend.
	var ctrl fireplace.Controller
	switch cfg.Device.Controller {
	case config.ControllerSimulated:
		ctrl = fireplace.NewSimulator()
		log.Info("using simulated fireplace")
	default:
		client := fireplace.NewClient(fireplace.Options{
			Host:            cfg.Device.Host,
			Port:            cfg.Device.Port,
			ExchangeTimeout: cfg.Device.ExchangeTimeout(),
			QueueTimeout:    cfg.Device.QueueTimeout(),
		})
		defer client.Close()
		ctrl = client
		log.Info("using fireplace device", zap.String("addr", client.Addr()))
	}

	handler := server.NewHandler(ctrl, log)
	handler.SetStatusInterval(cfg.Server.StatusInterval())

	srv := &server.Server{}
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("listen", cfg.Server.Listen))
		errCh <- srv.Run(cfg.Server.Listen, handler.InitRoutes())
	}()

	// Block until a signal arrives or the server fails.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}
