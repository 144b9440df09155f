// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Logs to stdout when a terminal, pipe, or file is connected
//   - Keeps the most recent entries in a ring buffer served by GET /api/logs
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",      // Global log level: debug, info, warn, error
//		Format: "text",      // Output format: text or json
//		Modules: map[string]string{
//			"lights": "debug",  // Per-module overrides
//			"sysfs":  "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("led")
//	logger.Info("LED driver selected", "driver", name)
//	logger.Warn("Failed to write sysfs node", "path", path, "error", err)
//
// Loggers handed out before Initialize keep working: their levels are held in
// a slog.LevelVar and follow later Initialize and SetLevels calls.
//
// # Log Levels
//
//	debug - Every sysfs write and battery reading
//	info  - Light requests and startup decisions
//	warn  - Failed hardware access
//	error - Startup and server failures
//
// # Viewing Logs
//
// When running as a systemd service or on a system with journald:
//
//	journalctl -t lightnode              # All lightnode logs
//	journalctl -t lightnode -f           # Follow live
//	journalctl -t lightnode MODULE=sysfs # One module
//
// # Configuration
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//	lights = "debug"
//	sysfs = "warn"
//
// Level changes in the config file are applied without a restart.
package logging
