// Package logger builds zap loggers and carries request scoped loggers
// through contexts and gin.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	TimeFormat string // Go time layout
}

const defaultTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// DefaultConfig is for interactive use. Logs go to stderr so command output
// on stdout stays clean.
func DefaultConfig() *Config {
	return &Config{Level: "info", Format: "console", Output: "stderr", TimeFormat: defaultTimeFormat}
}

// ProductionConfig is for the long running server
func ProductionConfig() *Config {
	return &Config{Level: "info", Format: "json", Output: "stdout", TimeFormat: defaultTimeFormat}
}

// New builds a logger from cfg. A nil cfg means DefaultConfig. File outputs
// are opened for append.
func New(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "json",
		EncoderConfig:    encoderConfig(cfg.TimeFormat),
		OutputPaths:      []string{outputPath(cfg.Output)},
		ErrorOutputPaths: []string{"stderr"},
	}
	if strings.EqualFold(cfg.Format, "console") {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel converts a level name to zapcore.Level. An empty name is info
// and "warning" is accepted for warn.
func ParseLevel(level string) (zapcore.Level, error) {
	name := strings.ToLower(strings.TrimSpace(level))
	switch name {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		name = "warn"
	}
	l, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

func encoderConfig(timeFormat string) zapcore.EncoderConfig {
	if timeFormat == "" {
		timeFormat = defaultTimeFormat
	}
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(timeFormat)
	ec.EncodeDuration = zapcore.MillisDurationEncoder
	return ec
}

func outputPath(output string) string {
	switch strings.ToLower(output) {
	case "", "stderr":
		return "stderr"
	case "stdout":
		return "stdout"
	}
	return output
}
