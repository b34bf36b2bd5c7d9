package logging

import (
	"log/slog"
	"os"

	"github.com/giygas/hospital-api/config"
)

type LoggingService struct {
	Logger         *slog.Logger
	RotatingLogger *RotatingLogger
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger instance with the default retention
func InitLogger(logDir string) {
	InitLoggerWithOptions(Options{LogDir: logDir, Env: config.EnvDevelopment, RetentionWeeks: 4})
}

// InitLoggerWithOptions initializes the global logger and keeps the rotating file
// so it can be closed on shutdown
func InitLoggerWithOptions(opts Options) {
	logger, rotating := SetupLogger(opts)
	DefaultLoggingService = &LoggingService{
		Logger:         logger,
		RotatingLogger: rotating,
	}
	slog.SetDefault(logger)
}

// Close flushes and closes the rotating log file, if any
func (s *LoggingService) Close() error {
	if s == nil || s.RotatingLogger == nil {
		return nil
	}
	return s.RotatingLogger.Close()
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logger(slog.LevelInfo).Info(msg, args...)
}

func Error(msg string, args ...any) {
	logger(slog.LevelError).Error(msg, args...)
}

func Warn(msg string, args ...any) {
	logger(slog.LevelWarn).Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	logger(slog.LevelDebug).Debug(msg, args...)
}

// logger returns the global logger, or a stderr fallback when InitLogger was not called
func logger(level slog.Level) *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return DefaultLoggingService.Logger
}
