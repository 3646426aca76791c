// Package sl holds small helpers for log/slog.
package sl

import "log/slog"

// Err returns an "error" attribute with the error's text.
//
//	log.Error("failed to create student", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}
