package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/routerd/authgate"
	"github.com/routerd/authgate/internal/config"
)

// newLogger builds the process logger. Startup failures always go through it.
func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// newGateLogger builds the logger handed to the gate, picked by cfg.Backend.
// The logrus backend shares the process logger.
func newGateLogger(cfg config.LogConfig, process *logrus.Logger, out io.Writer) (authgate.Logger, error) {
	switch cfg.Backend {
	case "", "logrus":
		return authgate.NewLogrusLogger(process), nil
	case "zap":
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder := zapcore.NewJSONEncoder(encoderConfig)
		if cfg.Format == "text" {
			encoder = zapcore.NewConsoleEncoder(encoderConfig)
		}
		core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)
		return authgate.NewZapLogger(zap.New(core).Sugar()), nil
	case "zerolog":
		level, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		if cfg.Format == "text" {
			out = zerolog.ConsoleWriter{Out: out, NoColor: true}
		}
		return authgate.NewZerologLogger(zerolog.New(out).Level(level).With().Timestamp().Logger()), nil
	default:
		return nil, fmt.Errorf("unknown logger backend %q", cfg.Backend)
	}
}
