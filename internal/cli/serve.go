package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harun/buffettcode-mcp/pkg/mcpserver"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP over stdio",
	Long: `Serve the Buffett Code tools over the MCP stdio transport. Protocol frames
use stdout; logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, false, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := mcpserver.New(a.dispatcher, mcpserver.Config{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
		Logger:  a.log.Zerolog(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Zerolog().Info().
		Str("name", cfg.Server.Name).
		Str("version", cfg.Server.Version).
		Msg("Buffett Code MCP server running on stdio")

	return srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}
