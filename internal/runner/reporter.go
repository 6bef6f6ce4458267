package runner

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter is the observability sink run failures and retry attempts are
// reported to. It never influences control flow.
type Reporter interface {
	Capture(err error)
	Flush()
}

// NopReporter is used when no DSN is configured.
type NopReporter struct{}

func (NopReporter) Capture(error) {}
func (NopReporter) Flush()        {}

type sentryReporter struct{}

// NewSentryReporter initialises the Sentry SDK against the given DSN.
func NewSentryReporter(dsn string) (Reporter, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		return nil, err
	}
	return sentryReporter{}, nil
}

func (sentryReporter) Capture(err error) {
	sentry.CaptureException(err)
}

func (sentryReporter) Flush() {
	sentry.Flush(2 * time.Second)
}
