package authgate

import (
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/routerd/authgate/core"
)

// Logger is the logging interface used by the middleware and by core.
type Logger = core.Logger

func defaultLogger() Logger {
	return NewLogrusLogger(logrus.StandardLogger())
}

// NewZapLogger returns a Logger adapter for zap.SugaredLogger.
func NewZapLogger(l *zap.SugaredLogger) Logger {
	return &zapLoggerAdapter{l}
}

type zapLoggerAdapter struct{ l *zap.SugaredLogger }

func (z *zapLoggerAdapter) Debugf(format string, args ...any) { z.l.Debugf(format, args...) }
func (z *zapLoggerAdapter) Infof(format string, args ...any)  { z.l.Infof(format, args...) }
func (z *zapLoggerAdapter) Warnf(format string, args ...any)  { z.l.Warnf(format, args...) }
func (z *zapLoggerAdapter) Errorf(format string, args ...any) { z.l.Errorf(format, args...) }

// NewZerologLogger returns a Logger adapter for zerolog.Logger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLoggerAdapter{l}
}

type zerologLoggerAdapter struct{ l zerolog.Logger }

func (z *zerologLoggerAdapter) Debugf(format string, args ...any) {
	z.l.Debug().Msgf(format, args...)
}
func (z *zerologLoggerAdapter) Infof(format string, args ...any) {
	z.l.Info().Msgf(format, args...)
}
func (z *zerologLoggerAdapter) Warnf(format string, args ...any) {
	z.l.Warn().Msgf(format, args...)
}
func (z *zerologLoggerAdapter) Errorf(format string, args ...any) {
	z.l.Error().Msgf(format, args...)
}

// NewLogrusLogger returns a Logger adapter for logrus.FieldLogger.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLoggerAdapter{l}
}

type logrusLoggerAdapter struct{ l logrus.FieldLogger }

func (l *logrusLoggerAdapter) Debugf(format string, args ...any) { l.l.Debugf(format, args...) }
func (l *logrusLoggerAdapter) Infof(format string, args ...any)  { l.l.Infof(format, args...) }
func (l *logrusLoggerAdapter) Warnf(format string, args ...any)  { l.l.Warnf(format, args...) }
func (l *logrusLoggerAdapter) Errorf(format string, args ...any) { l.l.Errorf(format, args...) }
