package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger
)

// Config holds logger configuration
type Config struct {
	Level   string
	File    string
	Verbose bool
	// Writer replaces stderr as the console destination.
	Writer io.Writer
}

// Init initializes the global logger with the given configuration.
// With a File set, output goes to a rotating log file (and also to stderr
// when Verbose); otherwise it goes to stderr.
func Init(cfg Config) error {
	var console io.Writer = os.Stderr
	if cfg.Writer != nil {
		console = cfg.Writer
	}
	writer := console

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return err
		}

		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}

		writer = fileWriter
		if cfg.Verbose {
			writer = io.MultiWriter(console, fileWriter)
		}
	}

	level := ParseLevel(cfg.Level)
	if cfg.Verbose && level > log.DebugLevel {
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Verbose,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "chromie",
	})

	return nil
}

// ParseLevel maps a config level name to a log level. Unknown names mean warn.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// With returns a child logger carrying keyvals. Before Init it returns a
// logger that discards everything.
func With(keyvals ...interface{}) *log.Logger {
	if Logger == nil {
		return log.New(io.Discard)
	}
	return Logger.With(keyvals...)
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
