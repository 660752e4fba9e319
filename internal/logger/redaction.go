package logger

import (
	"io"
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Redactor redacts sensitive information from logs
type Redactor struct {
	rules []rule
}

// NewRedactor creates a new redactor with default patterns
func NewRedactor() *Redactor {
	keep := "${1}" + redacted
	return &Redactor{
		rules: []rule{
			// x-api-key headers and api_key=... pairs, JSON or query string
			{regexp.MustCompile(`(?i)((?:x-)?api[_-]?key\\?["']?\s*[:=]\s*\\?["']?)[^\s"'\\,}&]+`), keep},

			// Bearer tokens
			{regexp.MustCompile(`(?i)(bearer\s+)[a-zA-Z0-9._~+/=-]+`), keep},

			// Secrets and passwords
			{regexp.MustCompile(`(?i)((?:secret|password)\\?["']?\s*[:=]\s*\\?["']?)[^\s"'\\,}]+`), keep},
		},
	}
}

// AddPattern adds a custom redaction pattern; the whole match is replaced
func (r *Redactor) AddPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	r.rules = append(r.rules, rule{pattern: re, replacement: redacted})
	return nil
}

// AddSecret masks every occurrence of a literal value, e.g. the configured
// API key. Blank values are ignored.
func (r *Redactor) AddSecret(secret string) {
	if strings.TrimSpace(secret) == "" {
		return
	}
	r.rules = append(r.rules, rule{
		pattern:     regexp.MustCompile(regexp.QuoteMeta(secret)),
		replacement: redacted,
	})
}

// Redact redacts sensitive information from a string
func (r *Redactor) Redact(s string) string {
	result := s
	for _, rl := range r.rules {
		result = rl.pattern.ReplaceAllString(result, rl.replacement)
	}
	return result
}

// Wrap wraps an io.Writer to redact sensitive information
func (r *Redactor) Wrap(w io.Writer) io.Writer {
	return &redactingWriter{
		writer:   w,
		redactor: r,
	}
}

// redactingWriter is an io.Writer that redacts sensitive information
type redactingWriter struct {
	writer   io.Writer
	redactor *Redactor
}

// Write reports len(p) on success so callers never see a short write.
func (w *redactingWriter) Write(p []byte) (int, error) {
	if _, err := w.writer.Write([]byte(w.redactor.Redact(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}
