// Package adapters lets notifyguard route its logger.Interface traffic
// through a host application's existing logging stack.
package adapters

import (
	"context"
	"time"

	"github.com/kart-io/notifyguard/logger"
)

// AdapterBase provides common functionality for logger adapters.
type AdapterBase struct {
	level logger.LogLevel
}

// NewAdapterBase creates a new adapter base.
func NewAdapterBase(level logger.LogLevel) *AdapterBase {
	return &AdapterBase{level: level}
}

// ShouldLog checks if the message should be logged at the given level.
func (a *AdapterBase) ShouldLog(level logger.LogLevel) bool {
	return a.level >= level
}

// GetLevel returns the current log level.
func (a *AdapterBase) GetLevel() logger.LogLevel {
	return a.level
}

// SetLevel sets the log level.
func (a *AdapterBase) SetLevel(level logger.LogLevel) {
	a.level = level
}

// ================================
// Standard log adapter
// ================================

// StdLogger is the subset of the standard log package's *Logger used here.
type StdLogger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
}

// StdLogAdapter adapts the standard log package to logger.Interface.
type StdLogAdapter struct {
	*AdapterBase
	logger StdLogger
}

// NewStdLogAdapter creates a new standard log adapter.
func NewStdLogAdapter(stdLogger StdLogger, level logger.LogLevel) logger.Interface {
	return &StdLogAdapter{
		AdapterBase: NewAdapterBase(level),
		logger:      stdLogger,
	}
}

func (s *StdLogAdapter) LogMode(level logger.LogLevel) logger.Interface {
	return &StdLogAdapter{
		AdapterBase: NewAdapterBase(level),
		logger:      s.logger,
	}
}

func (s *StdLogAdapter) Info(ctx context.Context, msg string, data ...interface{}) {
	if s.ShouldLog(logger.Info) {
		s.printf("[INFO] "+msg, data...)
	}
}

func (s *StdLogAdapter) Warn(ctx context.Context, msg string, data ...interface{}) {
	if s.ShouldLog(logger.Warn) {
		s.printf("[WARN] "+msg, data...)
	}
}

func (s *StdLogAdapter) Error(ctx context.Context, msg string, data ...interface{}) {
	if s.ShouldLog(logger.Error) {
		s.printf("[ERROR] "+msg, data...)
	}
}

func (s *StdLogAdapter) Debug(ctx context.Context, msg string, data ...interface{}) {
	if s.ShouldLog(logger.Debug) {
		s.printf("[DEBUG] "+msg, data...)
	}
}

func (s *StdLogAdapter) printf(msg string, data ...interface{}) {
	if len(data) > 0 {
		s.logger.Printf(msg, data...)
	} else {
		s.logger.Printf(msg)
	}
}

func (s *StdLogAdapter) Trace(ctx context.Context, begin time.Time, fc func() (operation string, targets int64), err error, data ...interface{}) {
	if s.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	operation, targets := fc()

	if err != nil && s.ShouldLog(logger.Error) {
		s.logger.Printf("[ERROR] Operation failed: %s, Duration: %.3fms, Targets: %d, Error: %v",
			operation, float64(elapsed.Nanoseconds())/1e6, targets, err)
	} else if s.ShouldLog(logger.Info) {
		s.logger.Printf("[INFO] Operation: %s, Duration: %.3fms, Targets: %d",
			operation, float64(elapsed.Nanoseconds())/1e6, targets)
	}
}

// ================================
// Logrus adapter
// ================================

// LogrusLogger is the subset of logrus.FieldLogger used here.
type LogrusLogger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// LogrusAdapter adapts logrus to logger.Interface.
type LogrusAdapter struct {
	*AdapterBase
	logger LogrusLogger
}

// NewLogrusAdapter creates a new logrus adapter.
func NewLogrusAdapter(logrusLogger LogrusLogger, level logger.LogLevel) logger.Interface {
	return &LogrusAdapter{
		AdapterBase: NewAdapterBase(level),
		logger:      logrusLogger,
	}
}

func (l *LogrusAdapter) LogMode(level logger.LogLevel) logger.Interface {
	return &LogrusAdapter{
		AdapterBase: NewAdapterBase(level),
		logger:      l.logger,
	}
}

func (l *LogrusAdapter) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.ShouldLog(logger.Info) {
		if len(data) > 0 {
			l.logger.Infof(msg, data...)
		} else {
			l.logger.Info(msg)
		}
	}
}

func (l *LogrusAdapter) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.ShouldLog(logger.Warn) {
		if len(data) > 0 {
			l.logger.Warnf(msg, data...)
		} else {
			l.logger.Warn(msg)
		}
	}
}

func (l *LogrusAdapter) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.ShouldLog(logger.Error) {
		if len(data) > 0 {
			l.logger.Errorf(msg, data...)
		} else {
			l.logger.Error(msg)
		}
	}
}

func (l *LogrusAdapter) Debug(ctx context.Context, msg string, data ...interface{}) {
	if l.ShouldLog(logger.Debug) {
		if len(data) > 0 {
			l.logger.Debugf(msg, data...)
		} else {
			l.logger.Debug(msg)
		}
	}
}

func (l *LogrusAdapter) Trace(ctx context.Context, begin time.Time, fc func() (operation string, targets int64), err error, data ...interface{}) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	operation, targets := fc()

	if err != nil && l.ShouldLog(logger.Error) {
		l.logger.Errorf("Operation failed: %s, Duration: %.3fms, Targets: %d, Error: %v",
			operation, float64(elapsed.Nanoseconds())/1e6, targets, err)
	} else if l.ShouldLog(logger.Info) {
		l.logger.Infof("Operation: %s, Duration: %.3fms, Targets: %d",
			operation, float64(elapsed.Nanoseconds())/1e6, targets)
	}
}

// ================================
// Zap adapter
// ================================

// ZapLogger is the subset of zap.SugaredLogger used here.
type ZapLogger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

// ZapAdapter adapts zap to logger.Interface.
type ZapAdapter struct {
	*AdapterBase
	logger ZapLogger
}

// NewZapAdapter creates a new zap adapter.
func NewZapAdapter(zapLogger ZapLogger, level logger.LogLevel) logger.Interface {
	return &ZapAdapter{
		AdapterBase: NewAdapterBase(level),
		logger:      zapLogger,
	}
}

func (z *ZapAdapter) LogMode(level logger.LogLevel) logger.Interface {
	return &ZapAdapter{
		AdapterBase: NewAdapterBase(level),
		logger:      z.logger,
	}
}

func (z *ZapAdapter) Info(ctx context.Context, msg string, data ...interface{}) {
	if z.ShouldLog(logger.Info) {
		if len(data) > 0 {
			z.logger.Infof(msg, data...)
		} else {
			z.logger.Info(msg)
		}
	}
}

func (z *ZapAdapter) Warn(ctx context.Context, msg string, data ...interface{}) {
	if z.ShouldLog(logger.Warn) {
		if len(data) > 0 {
			z.logger.Warnf(msg, data...)
		} else {
			z.logger.Warn(msg)
		}
	}
}

func (z *ZapAdapter) Error(ctx context.Context, msg string, data ...interface{}) {
	if z.ShouldLog(logger.Error) {
		if len(data) > 0 {
			z.logger.Errorf(msg, data...)
		} else {
			z.logger.Error(msg)
		}
	}
}

func (z *ZapAdapter) Debug(ctx context.Context, msg string, data ...interface{}) {
	if z.ShouldLog(logger.Debug) {
		if len(data) > 0 {
			z.logger.Debugf(msg, data...)
		} else {
			z.logger.Debug(msg)
		}
	}
}

func (z *ZapAdapter) Trace(ctx context.Context, begin time.Time, fc func() (operation string, targets int64), err error, data ...interface{}) {
	if z.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	operation, targets := fc()

	if err != nil && z.ShouldLog(logger.Error) {
		z.logger.Errorf("Operation failed: %s, Duration: %.3fms, Targets: %d, Error: %v",
			operation, float64(elapsed.Nanoseconds())/1e6, targets, err)
	} else if z.ShouldLog(logger.Info) {
		z.logger.Infof("Operation: %s, Duration: %.3fms, Targets: %d",
			operation, float64(elapsed.Nanoseconds())/1e6, targets)
	}
}
