package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harun/buffettcode-mcp/pkg/gateway"
	"github.com/spf13/cobra"
)

var (
	httpHost            string
	httpPort            int
	httpShutdownTimeout time.Duration
)

var serveHTTPCmd = &cobra.Command{
	Use:   "serve-http",
	Short: "Serve the tools over an HTTP/WebSocket JSON-RPC gateway",
	Long: `Serve tools/list and tools/call as JSON-RPC 2.0 on POST /rpc and GET /ws,
with /healthz and Prometheus /metrics. Set gateway.shared_secret to require the
X-Gateway-Secret header.`,
	Args: cobra.NoArgs,
	RunE: runServeHTTP,
}

func init() {
	serveHTTPCmd.Flags().StringVar(&httpHost, "host", "", "listen host (overrides gateway.host)")
	serveHTTPCmd.Flags().IntVar(&httpPort, "port", 0, "listen port (overrides gateway.port)")
	serveHTTPCmd.Flags().DurationVar(&httpShutdownTimeout, "shutdown-timeout", 30*time.Second, "time allowed for in-flight requests on shutdown")
	rootCmd.AddCommand(serveHTTPCmd)
}

func runServeHTTP(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if httpHost != "" {
		cfg.Gateway.Host = httpHost
	}
	if httpPort != 0 {
		cfg.Gateway.Port = httpPort
	}

	a, err := newApp(cfg, true, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := gateway.NewServer(gateway.Config{
		Host:              cfg.Gateway.Host,
		Port:              cfg.Gateway.Port,
		SharedSecret:      cfg.Gateway.SharedSecret,
		RequestsPerMinute: cfg.Gateway.RequestsPerMinute,
		MaxConcurrent:     cfg.Gateway.MaxConcurrent,
		Dispatcher:        a.dispatcher,
		MetricsHandler:    a.metrics.Handler(),
		Logger:            a.log.Zerolog(),
	})
	if err != nil {
		return err
	}

	if cfg.Gateway.SharedSecret == "" {
		a.log.Zerolog().Warn().Msg("Gateway shared secret is empty; /rpc and /ws are unauthenticated")
	}

	if err := srv.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
