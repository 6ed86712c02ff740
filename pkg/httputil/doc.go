// Package httputil fetches remote hierarchy documents.
//
// [Client.Get] downloads a URL with a size limit and retries transient
// failures (network errors, 429 and 5xx responses) using [Retry]:
//
//	c := httputil.NewClient()
//	data, err := c.Get(ctx, "https://example.com/summary.json")
//
// Other 4xx responses fail immediately; 404 maps to a NOT_FOUND error from
// pkg/errors so callers can report it like a missing file.
package httputil
