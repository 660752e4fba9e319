package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harun/buffettcode-mcp/internal/tracing"
	"github.com/harun/buffettcode-mcp/pkg/catalog"
	"github.com/rs/zerolog"
)

// OutcomeOK is reported to the Observer for successful calls.
const OutcomeOK = "ok"

// ContentTypeText is the only content block type produced.
const ContentTypeText = "text"

// Fetcher performs a single GET against a resolved upstream path.
type Fetcher interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
}

// Observer receives one observation per call
type Observer interface {
	ObserveCall(tool, outcome string, duration time.Duration)
}

// ToolInfo is one discovery entry
type ToolInfo struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Content is a result content block
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the successful outcome of a call
type Result struct {
	Content []Content `json:"content"`
}

// Text returns the text of the first content block.
func (r *Result) Text() string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}

// Dispatcher routes tool calls to the upstream API.
type Dispatcher struct {
	catalog  *catalog.Catalog
	fetcher  Fetcher
	observer Observer
	logger   zerolog.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithObserver reports call outcomes, e.g. to metrics.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

// WithLogger sets the dispatcher logger
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// New creates a Dispatcher over a checked catalog.
func New(c *catalog.Catalog, f Fetcher, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		catalog: c,
		fetcher: f,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Catalog returns the catalog served by the dispatcher
func (d *Dispatcher) Catalog() *catalog.Catalog {
	return d.catalog
}

// List returns every tool in registration order.
func (d *Dispatcher) List() []ToolInfo {
	tools := d.catalog.Tools()
	infos := make([]ToolInfo, 0, len(tools))
	for _, t := range tools {
		infos = append(infos, ToolInfo{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.Schema.Document(),
		})
	}
	return infos
}

// Call validates args for the named tool, fetches the resolved path and
// wraps the upstream JSON as text.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]interface{}) (*Result, error) {
	if tracing.GetTraceID(ctx) == "" {
		ctx = tracing.NewRequestContext(ctx)
	}
	logger := tracing.LoggerFromContext(ctx, d.logger).With().Str("tool", name).Logger()
	start := time.Now()

	res, err := d.call(ctx, name, args)

	duration := time.Since(start)
	outcome := OutcomeOK
	if err != nil {
		outcome = string(KindOf(err))
		logger.Warn().Err(err).Str("outcome", outcome).Dur("duration", duration).Msg("Tool call failed")
	} else {
		logger.Info().Str("outcome", outcome).Dur("duration", duration).Msg("Tool call completed")
	}
	if d.observer != nil {
		d.observer.ObserveCall(name, outcome, duration)
	}

	return res, err
}

func (d *Dispatcher) call(ctx context.Context, name string, args map[string]interface{}) (*Result, error) {
	tool, ok := d.catalog.Lookup(name)
	if !ok {
		return nil, unknownTool(name)
	}

	validated, err := tool.Schema.Validate(args)
	if err != nil {
		return nil, invalidArguments(name, err)
	}

	req, err := tool.Template.Resolve(validated)
	if err != nil {
		// Unreachable for a catalog that passed Check.
		return nil, fmt.Errorf("resolve %s: %w", name, err)
	}

	body, err := d.fetcher.Get(ctx, req.Path)
	if err != nil {
		return nil, upstreamFailure(name, tool.Operation, err)
	}

	return &Result{
		Content: []Content{{Type: ContentTypeText, Text: string(body)}},
	}, nil
}
