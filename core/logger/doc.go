// Package logger builds the zap logger shared by the server and the CLI.
//
// Level accepts any zap level name (debug, info, warn, error). Debug switches to the
// development preset; Format selects json or console encoding.
//
// Request handlers derive a per-request logger with WithRayID, so every line of a
// batch can be correlated with the X-Ray-ID header returned to the scraper:
//
//	l := logger.WithRayID(log, c)
//	l.Warn("Invalid batch", zap.Error(err))
package logger
