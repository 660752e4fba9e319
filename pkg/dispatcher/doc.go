// Package dispatcher advertises the tool catalog and executes tool calls.
//
// A call looks up the tool, validates the arguments against its schema,
// resolves the upstream path and fetches it. The upstream JSON is returned
// unmodified as a single text content block.
//
// Invariants:
// - The dispatcher holds no state across calls; the catalog is read-only.
// - Invalid arguments never reach the fetcher.
// - Every failure is a *CallError carrying one caller-facing message.
//
// Usage:
//
//	cat, _ := catalog.Default()
//	client, _ := buffettcode.New("", apiKey)
//	d := dispatcher.New(cat, client)
//	res, err := d.Call(ctx, "buffetcode_get_jp_company", map[string]interface{}{"companyId": "7203"})
package dispatcher
