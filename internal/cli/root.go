package cli

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command. Without a subcommand it serves MCP
// over stdio, which is how MCP clients launch it.
var rootCmd = &cobra.Command{
	Use:   "buffettcode-mcp",
	Short: "Buffett Code MCP server - financial data tools for AI agents",
	Long: `buffettcode-mcp exposes the Buffett Code API for Japanese and US listed
companies as Model Context Protocol tools. It serves MCP over stdio by default
and can also run an HTTP/WebSocket JSON-RPC gateway.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runServe,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.buffettcode-mcp/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides logging.level")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}
