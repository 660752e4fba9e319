package catalog

import "github.com/harun/buffettcode-mcp/pkg/schema"

// Argument field names. They double as path template placeholders.
const (
	FieldCompanyID   = "companyId"
	FieldDate        = "date"
	FieldYearQuarter = "year_quarter"
	FieldYearWeek    = "year_week"
	FieldYearMonth   = "year_month"
	FieldFiscalYear  = "fiscal_year"
	FieldStockID     = "stock_id"
)

// Accepted shapes for argument fields.
var (
	// Buffett Code Company ID, ticker symbol, corporate number.
	PatternsJPCompanyID = []string{`^[a-zA-Z0-9]{10}$`, `^[a-zA-Z0-9]{4}$`, `^[0-9]{13}$`}
	PatternsUSCompanyID = []string{`^[0-9]+$`}

	PatternDate        = `^[0-9]{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`
	PatternYearQuarter = `^[0-9]{4}Q[1-4]$`
	PatternYearWeek    = `^[0-9]{4}W(0[1-9]|[1-4][0-9]|5[0-3])$`
	PatternYearMonth   = `^[0-9]{4}-(0[1-9]|1[0-2])$`
	PatternFiscalYear  = `^[0-9]{4}$`
	PatternStockID     = `^[a-z]+$`
)

var (
	jpCompanyIDField = schema.Field{
		Name:        FieldCompanyID,
		Type:        schema.TypeString,
		Patterns:    PatternsJPCompanyID,
		Description: "Company identifier. Accepts Buffett Code Company ID (10 alphanumeric chars), Ticker Symbol (4 alphanumeric chars), or Corporate Number (13 digits).",
	}

	usCompanyIDField = schema.Field{
		Name:        FieldCompanyID,
		Type:        schema.TypeString,
		Patterns:    PatternsUSCompanyID,
		Description: "Company identifier (EDINET code, e.g., 0001652044).",
	}

	dateField = schema.Field{
		Name:        FieldDate,
		Type:        schema.TypeString,
		Patterns:    []string{PatternDate},
		Description: "Date for the requested data in RFC3339 format (e.g., YYYY-MM-DD).",
	}

	yearQuarterField = schema.Field{
		Name:        FieldYearQuarter,
		Type:        schema.TypeString,
		Patterns:    []string{PatternYearQuarter},
		Description: "Fiscal year and quarter for the requested data (e.g., YYYYQ[1-4]).",
	}

	yearWeekField = schema.Field{
		Name:        FieldYearWeek,
		Type:        schema.TypeString,
		Patterns:    []string{PatternYearWeek},
		Description: "Year and week number for the requested data (e.g., YYYYWww, following ISO 8601 week date format).",
	}

	yearMonthField = schema.Field{
		Name:        FieldYearMonth,
		Type:        schema.TypeString,
		Patterns:    []string{PatternYearMonth},
		Description: "Year and month for the requested data (e.g., YYYY-MM).",
	}

	fiscalYearField = schema.Field{
		Name:        FieldFiscalYear,
		Type:        schema.TypeString,
		Patterns:    []string{PatternFiscalYear},
		Description: "Fiscal year for the requested data (e.g., YYYY).",
	}

	stockIDField = schema.Field{
		Name:        FieldStockID,
		Type:        schema.TypeString,
		Patterns:    []string{PatternStockID},
		Description: "Stock identifier for the company (e.g., goog).",
	}
)
