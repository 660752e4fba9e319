package catalog

import (
	"fmt"

	"github.com/harun/buffettcode-mcp/pkg/endpoint"
	"github.com/harun/buffettcode-mcp/pkg/schema"
)

// resource is a sub-resource below /companies/{companyId}.
type resource struct {
	suffix      string
	path        string
	description string // formatted with the region label
	operation   string
	fields      []schema.Field
}

type regionSpec struct {
	region    Region
	label     string
	companyID schema.Field
	resources []resource
}

var (
	companyResource = resource{
		path:        "",
		description: "Get %s company information from Buffett Code",
		operation:   "company data",
	}
	dailyResource = resource{
		suffix:      "_daily",
		path:        "/daily/{date}",
		description: "Get daily %s company information from Buffett Code for a specific date",
		operation:   "daily data",
		fields:      []schema.Field{dateField},
	}
	quarterlyResource = resource{
		suffix:      "_quarterly",
		path:        "/quarterly/{year_quarter}",
		description: "Get quarterly %s company information from Buffett Code for a specific year and quarter",
		operation:   "quarterly data",
		fields:      []schema.Field{yearQuarterField},
	}
)

var regions = []regionSpec{
	{
		region:    RegionJP,
		label:     "Japanese",
		companyID: jpCompanyIDField,
		resources: []resource{
			companyResource,
			dailyResource,
			quarterlyResource,
			{
				suffix:      "_daily_market_reaction",
				path:        "/daily/{date}/market_reaction",
				description: "Get the daily market reaction of a %s company from Buffett Code for a specific date",
				operation:   "daily market reaction data",
				fields:      []schema.Field{dateField},
			},
			{
				suffix:      "_weekly_stats",
				path:        "/weekly/{year_week}/stats",
				description: "Get weekly stats of a %s company from Buffett Code for a specific year and week",
				operation:   "weekly stats data",
				fields:      []schema.Field{yearWeekField},
			},
			{
				suffix:      "_monthly_stats",
				path:        "/monthly/{year_month}/stats",
				description: "Get monthly stats of a %s company from Buffett Code for a specific year and month",
				operation:   "monthly stats data",
				fields:      []schema.Field{yearMonthField},
			},
			{
				suffix:      "_monthly_kpis",
				path:        "/monthly/{year_month}/kpis",
				description: "Get monthly KPIs of a %s company from Buffett Code for a specific year and month",
				operation:   "monthly KPI data",
				fields:      []schema.Field{yearMonthField},
			},
			{
				suffix:      "_quarterly_long_text_content",
				path:        "/quarterly/{year_quarter}/long_text_content",
				description: "Get long text content from the quarterly report of a %s company from Buffett Code",
				operation:   "quarterly long text content",
				fields:      []schema.Field{yearQuarterField},
			},
			{
				suffix:      "_quarterly_major_shareholders",
				path:        "/quarterly/{year_quarter}/major_shareholders",
				description: "Get major shareholders of a %s company from Buffett Code for a specific year and quarter",
				operation:   "quarterly major shareholders data",
				fields:      []schema.Field{yearQuarterField},
			},
			{
				suffix:      "_quarterly_segments",
				path:        "/quarterly/{year_quarter}/segments",
				description: "Get business segments of a %s company from Buffett Code for a specific year and quarter",
				operation:   "quarterly segments data",
				fields:      []schema.Field{yearQuarterField},
			},
			{
				suffix:      "_annually_guidance_revisions",
				path:        "/annually/{fiscal_year}/guidance_revisions",
				description: "Get guidance revisions of a %s company from Buffett Code for a specific fiscal year",
				operation:   "annual guidance revisions data",
				fields:      []schema.Field{fiscalYearField},
			},
			{
				suffix:      "_similarities",
				path:        "/similarities",
				description: "Get companies similar to a %s company from Buffett Code",
				operation:   "similar companies data",
			},
		},
	},
	{
		region:    RegionUS,
		label:     "US",
		companyID: usCompanyIDField,
		resources: []resource{
			companyResource,
			dailyResource,
			quarterlyResource,
			{
				suffix:      "_stocks",
				path:        "/stocks/{stock_id}",
				description: "Get stock information of a %s company from Buffett Code for a specific stock",
				operation:   "stock data",
				fields:      []schema.Field{stockIDField},
			},
			{
				suffix:      "_stocks_daily",
				path:        "/stocks/{stock_id}/daily/{date}",
				description: "Get daily stock information of a %s company from Buffett Code for a specific stock and date",
				operation:   "daily stock data",
				fields:      []schema.Field{stockIDField, dateField},
			},
			{
				suffix:      "_stocks_quarterly",
				path:        "/stocks/{stock_id}/quarterly/{year_quarter}",
				description: "Get quarterly stock information of a %s company from Buffett Code for a specific stock and year-quarter",
				operation:   "quarterly stock data",
				fields:      []schema.Field{stockIDField, yearQuarterField},
			},
		},
	},
}

// ToolName returns the name of the tool for region and sub-resource suffix.
func ToolName(region Region, suffix string) string {
	return fmt.Sprintf("%s%s_company%s", ToolNamePrefix, region, suffix)
}

func buildTools(specs []regionSpec) ([]*Tool, error) {
	var tools []*Tool
	for _, rs := range specs {
		for _, res := range rs.resources {
			fields := append([]schema.Field{rs.companyID}, res.fields...)
			s, err := schema.New(fields...)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ToolName(rs.region, res.suffix), err)
			}

			path := fmt.Sprintf("%s/%s/companies/{%s}%s", APIVersionPrefix, rs.region, FieldCompanyID, res.path)
			tmpl, err := endpoint.Parse(path)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ToolName(rs.region, res.suffix), err)
			}

			tools = append(tools, &Tool{
				Name:        ToolName(rs.region, res.suffix),
				Description: fmt.Sprintf(res.description, rs.label),
				Operation:   res.operation,
				Region:      rs.region,
				Schema:      s,
				Template:    tmpl,
			})
		}
	}
	return tools, nil
}
