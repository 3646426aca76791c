// Package observability reports unexpected errors to Sentry.
package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry enables error reporting. An empty dsn leaves it disabled and
// CaptureErr becomes a no-op. The returned func flushes pending events.
func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureErr reports err to Sentry. It does nothing for a nil err or when
// InitSentry was not given a DSN.
func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}
