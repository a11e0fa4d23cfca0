// Package logging provides subsystem-tagged structured logging for envrepo.
//
// It is a thin layer over the standard slog package. Every entry carries a
// "subsystem" attribute so output from the poller, the reconciling cache and
// the data sources can be filtered independently.
//
// # Usage
//
//	logging.Init(logging.FormatText, logging.LevelInfo, os.Stderr)
//
//	logging.Info("Repository", "Published %d environments", n)
//	logging.Debug("Cache", "Creating environment %s", id)
//	logging.Warn("Repository", "Cannot update unknown environment: %s", id)
//	logging.Error("Repository", err, "Refresh failed")
//
// # Levels
//
//   - Debug: per-entity reconciliation detail
//   - Info: pass results and lifecycle events
//   - Warn: recoverable problems (unknown ids, duplicate ids in a batch)
//   - Error: failed fetches and other failures surfaced to consumers
//
// Until Init is called, entries go to slog's default logger.
//
// The package is safe for concurrent use.
package logging
