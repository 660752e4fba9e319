package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolsCommand(t *testing.T) {
	t.Run("table output without credentials", func(t *testing.T) {
		resetFlags(t)
		out, _, err := execute(t, "tools")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		assert.Len(t, lines, 19)
		assert.True(t, strings.HasPrefix(lines[0], "NAME"))
		assert.Contains(t, out, "buffetcode_get_us_company_stocks_daily")
	})

	t.Run("json output", func(t *testing.T) {
		resetFlags(t)
		out, _, err := execute(t, "tools", "--json")
		require.NoError(t, err)

		var tools []map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &tools))
		require.Len(t, tools, 18)
		assert.Equal(t, "buffetcode_get_jp_company", tools[0]["name"])

		schema := tools[0]["inputSchema"].(map[string]interface{})
		assert.Equal(t, []interface{}{"companyId"}, schema["required"])
	})
}
