package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tmpl, err := Parse("/api/v4/jp/companies/{companyId}/daily/{date}/market_reaction")
	require.NoError(t, err)

	assert.Equal(t, []string{"companyId", "date"}, tmpl.Params())
	assert.Equal(t, "/api/v4/jp/companies/{companyId}/daily/{date}/market_reaction", tmpl.String())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"relative", "api/{x}"},
		{"unmatched open", "/api/{x"},
		{"unmatched close", "/api/x}"},
		{"empty placeholder", "/api/{}"},
		{"nested placeholder", "/api/{a{b}"},
		{"repeated placeholder", "/api/{x}/{x}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.path)
			assert.Error(t, err)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("/api/{") })
}

func TestTemplate_Check(t *testing.T) {
	tmpl := MustParse("/api/v4/us/companies/{companyId}/stocks/{stock_id}")

	assert.NoError(t, tmpl.Check([]string{"companyId", "stock_id"}))
	assert.NoError(t, tmpl.Check([]string{"stock_id", "companyId", "unused"}))

	err := tmpl.Check([]string{"companyId"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock_id")

	err = tmpl.Check([]string{"companyId", "stock_id", "stock_id"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matches 2 fields")
}

func TestTemplate_Resolve(t *testing.T) {
	tmpl := MustParse("/api/v4/us/companies/{companyId}/stocks/{stock_id}/quarterly/{year_quarter}")

	req, err := tmpl.Resolve(map[string]string{
		"companyId":    "0001652044",
		"stock_id":     "goog",
		"year_quarter": "2024Q1",
		"ignored":      "x",
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/v4/us/companies/0001652044/stocks/goog/quarterly/2024Q1", req.Path)
	assert.Equal(t, map[string]string{
		"companyId":    "0001652044",
		"stock_id":     "goog",
		"year_quarter": "2024Q1",
	}, req.PathParams)
}

func TestTemplate_Resolve_Deterministic(t *testing.T) {
	tmpl := MustParse("/api/v4/jp/companies/{companyId}/weekly/{year_week}/stats")
	args := map[string]string{"companyId": "7203", "year_week": "2024W05"}

	first, err := tmpl.Resolve(args)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := tmpl.Resolve(args)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTemplate_Resolve_Escapes(t *testing.T) {
	tmpl := MustParse("/api/v4/jp/companies/{companyId}")

	req, err := tmpl.Resolve(map[string]string{"companyId": "../a b"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v4/jp/companies/..%2Fa%20b", req.Path)
}

func TestTemplate_Resolve_MissingArgument(t *testing.T) {
	tmpl := MustParse("/api/v4/jp/companies/{companyId}/similarities")

	_, err := tmpl.Resolve(map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing argument companyId")
}

func TestTemplate_NoPlaceholders(t *testing.T) {
	tmpl := MustParse("/healthz")
	assert.Empty(t, tmpl.Params())

	req, err := tmpl.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "/healthz", req.Path)
}
