// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates seamlessly with the Fiber web framework.
//
// # Deduplication
//
// Camera state is re-evaluated every frame, so a persistent fault would
// otherwise emit the same message many times per second. The logger wraps its
// core with a deduplicating core that drops repeats of the same
// (level, message) pair within a configurable cooldown window.
//
// # Context Awareness
//
// The logger is designed to be context-aware, specifically regarding RayIDs (Request IDs).
// The WithRayID helper extracts the RayID from a Fiber context and attaches it to the
// log entry, ensuring that all logs related to a specific request can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//   - DedupSeconds: cooldown window for repeated messages (0 disables)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", DedupSeconds: 5})
//	log.Info("Camera core started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
