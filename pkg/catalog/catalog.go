// Package catalog holds the static, ordered set of Buffett Code tools.
//
// Tools are generated from a small table keyed by region and sub-resource
// instead of being declared one by one. Every tool requires a company
// identifier; the remaining fields are implied by the sub-resource path.
package catalog

import (
	"fmt"

	"github.com/harun/buffettcode-mcp/pkg/endpoint"
	"github.com/harun/buffettcode-mcp/pkg/schema"
)

// ToolNamePrefix is shared by every tool name.
const ToolNamePrefix = "buffetcode_get_"

// APIVersionPrefix is the root of every upstream path.
const APIVersionPrefix = "/api/v4"

// Region selects an endpoint family of the upstream API.
type Region string

const (
	RegionJP Region = "jp"
	RegionUS Region = "us"
)

// Tool is an immutable catalog entry
type Tool struct {
	Name        string
	Description string
	// Operation names what is fetched; it annotates upstream failures.
	Operation string
	Region    Region
	Schema    *schema.Schema
	Template  *endpoint.Template
}

// Catalog maps tool names to tools and preserves registration order.
type Catalog struct {
	tools []*Tool
	index map[string]*Tool
}

// New builds a catalog from tools in the given order and runs Check.
func New(tools ...*Tool) (*Catalog, error) {
	c := &Catalog{
		tools: make([]*Tool, 0, len(tools)),
		index: make(map[string]*Tool, len(tools)),
	}
	for _, t := range tools {
		if t == nil {
			return nil, fmt.Errorf("nil tool")
		}
		if _, exists := c.index[t.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name %s", t.Name)
		}
		c.tools = append(c.tools, t)
		c.index[t.Name] = t
	}
	if err := c.Check(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the catalog of every Buffett Code tool.
func Default() (*Catalog, error) {
	tools, err := buildTools(regions)
	if err != nil {
		return nil, err
	}
	return New(tools...)
}

// Tools returns the tools in registration order
func (c *Catalog) Tools() []*Tool {
	return append([]*Tool(nil), c.tools...)
}

// Names returns tool names in registration order
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tools))
	for _, t := range c.tools {
		names = append(names, t.Name)
	}
	return names
}

// Lookup finds a tool by name
func (c *Catalog) Lookup(name string) (*Tool, bool) {
	t, ok := c.index[name]
	return t, ok
}

// Len returns the number of tools
func (c *Catalog) Len() int { return len(c.tools) }

// Check verifies the catalog invariants: non-empty metadata and every
// template placeholder bound to exactly one schema field.
func (c *Catalog) Check() error {
	for _, t := range c.tools {
		if t.Name == "" {
			return fmt.Errorf("tool name cannot be empty")
		}
		if t.Description == "" {
			return fmt.Errorf("tool %s: description cannot be empty", t.Name)
		}
		if t.Operation == "" {
			return fmt.Errorf("tool %s: operation cannot be empty", t.Name)
		}
		if t.Schema == nil || t.Template == nil {
			return fmt.Errorf("tool %s: schema and template are required", t.Name)
		}
		if err := t.Template.Check(t.Schema.FieldNames()); err != nil {
			return fmt.Errorf("tool %s: %w", t.Name, err)
		}
	}
	return nil
}
