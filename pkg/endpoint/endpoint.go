// Package endpoint turns REST path templates with {named} placeholders into
// concrete request paths.
package endpoint

import (
	"fmt"
	"net/url"
	"strings"
)

// Request is a resolved upstream request
type Request struct {
	Path       string            `json:"path"`
	PathParams map[string]string `json:"path_params"`
}

type segment struct {
	literal string
	param   string
}

// Template is a parsed path template. It is immutable after Parse.
type Template struct {
	raw      string
	segments []segment
	params   []string
}

// Parse parses a path such as /api/v4/jp/companies/{companyId}/daily/{date}.
func Parse(path string) (*Template, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("template %q must start with /", path)
	}

	t := &Template{raw: path}
	seen := make(map[string]bool)
	rest := path

	for rest != "" {
		start := strings.IndexByte(rest, '{')
		end := strings.IndexByte(rest, '}')

		if start < 0 {
			if end >= 0 {
				return nil, fmt.Errorf("template %q has unmatched }", path)
			}
			t.segments = append(t.segments, segment{literal: rest})
			break
		}
		if end < start {
			return nil, fmt.Errorf("template %q has unmatched }", path)
		}

		name := rest[start+1 : end]
		if name == "" || strings.ContainsAny(name, "{/") {
			return nil, fmt.Errorf("template %q has invalid placeholder %q", path, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("template %q repeats placeholder %s", path, name)
		}
		seen[name] = true

		if start > 0 {
			t.segments = append(t.segments, segment{literal: rest[:start]})
		}
		t.segments = append(t.segments, segment{param: name})
		t.params = append(t.params, name)
		rest = rest[end+1:]
	}

	return t, nil
}

// MustParse is Parse for static tables
func MustParse(path string) *Template {
	t, err := Parse(path)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the raw template
func (t *Template) String() string { return t.raw }

// Params returns placeholder names in template order
func (t *Template) Params() []string {
	return append([]string(nil), t.params...)
}

// Check verifies that every placeholder is bound to a declared field.
func (t *Template) Check(fields []string) error {
	declared := make(map[string]int, len(fields))
	for _, f := range fields {
		declared[f]++
	}
	for _, p := range t.params {
		switch declared[p] {
		case 0:
			return fmt.Errorf("template %s: placeholder %s has no matching field", t.raw, p)
		case 1:
		default:
			return fmt.Errorf("template %s: placeholder %s matches %d fields", t.raw, p, declared[p])
		}
	}
	return nil
}

// Resolve substitutes validated arguments into the template. Values are
// path-escaped even though argument patterns already restrict them to safe
// characters.
func (t *Template) Resolve(args map[string]string) (Request, error) {
	var b strings.Builder
	params := make(map[string]string, len(t.params))

	for _, seg := range t.segments {
		if seg.param == "" {
			b.WriteString(seg.literal)
			continue
		}
		v, ok := args[seg.param]
		if !ok {
			return Request{}, fmt.Errorf("template %s: missing argument %s", t.raw, seg.param)
		}
		params[seg.param] = v
		b.WriteString(url.PathEscape(v))
	}

	return Request{Path: b.String(), PathParams: params}, nil
}
