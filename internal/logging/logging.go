// Package logging builds the zap logger: a console core on stderr teed
// with an optional rotating JSON file.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/abhisek/homeroom/internal/academic"
)

// Config controls log level and the optional log file.
type Config struct {
	Level string `env:"HOMEROOM_LOG_LEVEL" envDefault:"info"`

	// File enables JSON logging to a rotated file when set.
	File       string `env:"HOMEROOM_LOG_FILE"`
	MaxSizeMB  int    `env:"HOMEROOM_LOG_MAX_SIZE_MB" envDefault:"10"`
	MaxBackups int    `env:"HOMEROOM_LOG_MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"HOMEROOM_LOG_MAX_AGE_DAYS" envDefault:"28"`
}

// DefaultConfig logs info and above to the console only.
func DefaultConfig() Config {
	return Config{Level: "info", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28}
}

// Validate checks that Level names a zap level.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return &academic.ValidationError{Field: "log_level", Value: c.Level, Reason: "must be debug, info, warn or error"}
	}
	return nil
}

// New builds a logger writing to stderr and, when cfg.File is set, to the
// rotated file. The returned function flushes and closes the file.
func New(cfg Config) (*zap.Logger, func() error, error) {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg Config, console io.Writer) (*zap.Logger, func() error, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(console), level),
	}

	var file *lumberjack.Logger
	if cfg.File != "" {
		file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(file), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	closeFn := func() error {
		_ = logger.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}
	return logger, closeFn, nil
}
