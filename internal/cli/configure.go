package cli

import (
	"fmt"

	"github.com/harun/buffettcode-mcp/internal/config"
	"github.com/spf13/cobra"
)

var (
	configureAPIKey       string
	configureBaseURL      string
	configureGatewayPort  int
	configureSharedSecret string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Write the configuration file",
	Long: `Create or update the configuration file with the given values. Unset flags
keep the current value. The file is written with owner-only permissions because
it holds the API key.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().StringVar(&configureAPIKey, "api-key", "", "Buffett Code API key")
	configureCmd.Flags().StringVar(&configureBaseURL, "base-url", "", "Buffett Code API base URL")
	configureCmd.Flags().IntVar(&configureGatewayPort, "gateway-port", 0, "gateway listen port")
	configureCmd.Flags().StringVar(&configureSharedSecret, "shared-secret", "", "gateway shared secret")
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	loader := config.NewLoader(cfgFile).WithEnvFile("")
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	if configureAPIKey != "" {
		cfg.BuffettCode.APIKey = configureAPIKey
	}
	if configureBaseURL != "" {
		cfg.BuffettCode.BaseURL = configureBaseURL
	}
	if configureGatewayPort != 0 {
		cfg.Gateway.Port = configureGatewayPort
	}
	if configureSharedSecret != "" {
		cfg.Gateway.SharedSecret = configureSharedSecret
	}

	if err := cfg.ValidateFor(true); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to: %s\n", loader.GetConfigPath())
	return nil
}
