package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// resetFlags restores package-level flag state shared through rootCmd.
func resetFlags(t *testing.T) {
	t.Helper()
	cfgFile = filepath.Join(t.TempDir(), "config.json")
	logLevel = ""
	toolsJSON = false
	callArgsJSON = ""
	callPretty = false
	configureAPIKey = ""
	configureBaseURL = ""
	configureGatewayPort = 0
	configureSharedSecret = ""
	t.Chdir(t.TempDir())
	resetBoolFlags(rootCmd)

	for _, name := range []string{"BUFFETT_CODE_API_KEY", "BUFFETT_CODE_BASE_URL", "BUFFETTCODE_BUFFETT_CODE_API_KEY"} {
		if value, ok := os.LookupEnv(name); ok {
			require.NoError(t, os.Unsetenv(name))
			t.Cleanup(func() { _ = os.Setenv(name, value) })
		}
	}
}

// execute runs the root command and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := GetRootCmd()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// resetBoolFlags clears --help and --version, which cobra leaves set after
// a previous Execute.
func resetBoolFlags(cmd *cobra.Command) {
	for _, name := range []string{"help", "version"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = f.Value.Set("false")
			f.Changed = false
		}
	}
	for _, sub := range cmd.Commands() {
		resetBoolFlags(sub)
	}
}
