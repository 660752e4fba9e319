package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	callArgsJSON string
	callPretty   bool
)

var callCmd = &cobra.Command{
	Use:   "call <tool> [key=value...]",
	Short: "Invoke one tool and print its result",
	Long: `Invoke a tool once, the same way an MCP client would, and print the JSON
result. Arguments are given as key=value pairs or as a JSON object via --args.

Example:
  buffettcode-mcp call buffetcode_get_jp_company_daily companyId=7203 date=2024-01-04`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringVar(&callArgsJSON, "args", "", "arguments as a JSON object")
	callCmd.Flags().BoolVar(&callPretty, "pretty", false, "indent the JSON result")
	rootCmd.AddCommand(callCmd)
}

func runCall(cmd *cobra.Command, args []string) error {
	toolArgs, err := parseToolArgs(callArgsJSON, args[1:])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, false, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := a.dispatcher.Call(ctx, args[0], toolArgs)
	if err != nil {
		return err
	}

	text := res.Text()
	if callPretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(text), "", "  "); err == nil {
			text = buf.String()
		}
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

// parseToolArgs merges a JSON object with key=value pairs; pairs win.
func parseToolArgs(rawJSON string, pairs []string) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if rawJSON != "" {
		if err := json.Unmarshal([]byte(rawJSON), &out); err != nil {
			return nil, fmt.Errorf("invalid --args: %w", err)
		}
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}
