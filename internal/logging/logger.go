// Package logging provides zap logger helpers.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger preset and its sinks.
type Options struct {
	// File is opened in append mode; empty disables the file sink.
	File        string
	Development bool
	Console     bool
}

// New builds a zap.Logger writing line-oriented entries (timestamp, level, message)
// to the configured sinks.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	// Entries stay one line each in both presets.
	cfg.DisableStacktrace = true
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = outputPaths(opts)
	cfg.ErrorOutputPaths = []string{"stderr"}

	if len(cfg.OutputPaths) == 0 {
		return nil, fmt.Errorf("no log sink configured")
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func outputPaths(opts Options) []string {
	var paths []string
	if opts.File != "" {
		paths = append(paths, opts.File)
	}
	if opts.Console {
		paths = append(paths, "stderr")
	}
	return paths
}
