package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/harun/buffettcode-mcp/pkg/catalog"
	"github.com/harun/buffettcode-mcp/pkg/dispatcher"
	"github.com/spf13/cobra"
)

var toolsJSON bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tools",
	Long:  `List every tool in the catalog. With --json, print names, descriptions and input schemas.`,
	Args:  cobra.NoArgs,
	RunE:  runTools,
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "print tools with input schemas as JSON")
	rootCmd.AddCommand(toolsCmd)
}

// runTools needs no credentials: listing never reaches the upstream API.
func runTools(cmd *cobra.Command, _ []string) error {
	c, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("tool catalog self-check failed: %w", err)
	}
	infos := dispatcher.New(c, nil).List()

	out := cmd.OutOrStdout()
	if toolsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\n", info.Name, info.Description)
	}
	return w.Flush()
}
