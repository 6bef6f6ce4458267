// Package retry wraps network-bound steps with a fixed-attempt, fixed-delay
// retry loop. Structural failures are never retried: a shape mismatch won't
// fix itself on the second attempt.
package retry

import (
	"errors"
	"log"
	"time"

	"shop-monitor/pkg/models"
)

const (
	// Attempts is the per-step attempt budget.
	Attempts = 3
	// Delay is the fixed pause between attempts.
	Delay = time.Second
)

// Do runs fn until it succeeds or the attempt budget is spent. Every failed
// attempt is logged; all but the last are handed to report (when non-nil)
// without interrupting the loop. The last error propagates on exhaustion,
// where the caller's own failure handling takes over — reporting it here too
// would double-count it.
func Do[T any](op string, attempts int, delay time.Duration, report func(error), fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		value, err := fn()
		if err == nil {
			return value, nil
		}
		lastErr = err

		var structural *models.StructuralError
		if errors.As(err, &structural) {
			return zero, err
		}

		log.Printf("%s: attempt %d/%d failed: %v", op, attempt, attempts, err)
		if attempt < attempts {
			if report != nil {
				report(err)
			}
			time.Sleep(delay)
		}
	}
	return zero, lastErr
}
