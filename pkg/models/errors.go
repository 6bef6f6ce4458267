package models

import "fmt"

// StructuralError means the shop returned markup or data that no longer
// matches the shape we scrape. Retrying won't fix a shape mismatch, so the
// run controller never retries these.
type StructuralError struct {
	Source string // which scraper noticed
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Source, e.Reason)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// NewStructuralError builds a StructuralError for a scraper source.
func NewStructuralError(source, reason string) *StructuralError {
	return &StructuralError{Source: source, Reason: reason}
}

// TransportError is a network-level or non-2xx failure talking to the shop,
// the CDN, or Slack. These are retried up to the attempt budget.
type TransportError struct {
	Op     string // "shop fetch", "cdn upload", ...
	Status int    // HTTP status, 0 when the request never completed
	Body   string // response body text, surfaced verbatim
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Body)
	default:
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }
