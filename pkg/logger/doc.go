// Package logger builds slog loggers with the engine's conventions applied:
// JSON to stderr by default, overridable level, format, output and static
// attributes.
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithFormat(logger.FormatText),
//		logger.WithAttr(slog.String("component", "trial")),
//	)
package logger
