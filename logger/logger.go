package logger

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// defaultLogger is the default Interface implementation, modeled directly on
// GORM's console logger: a Writer plus a Config plus pre-rendered format
// strings (colorful or not), swapped out wholesale by LogMode.
type defaultLogger struct {
	Writer
	Config
	infoStr, warnStr, errStr, debugStr  string
	traceStr, traceErrStr, traceWarnStr string
}

// NewLogger creates a new logger that writes to writer using config.
func NewLogger(writer Writer, config Config) Interface {
	var (
		infoStr      = "%s\n[info] "
		warnStr      = "%s\n[warn] "
		errStr       = "%s\n[error] "
		debugStr     = "%s\n[debug] "
		traceStr     = "%s\n[%.3fms] [targets:%v] %s"
		traceWarnStr = "%s %s\n[%.3fms] [targets:%v] %s"
		traceErrStr  = "%s %s\n[%.3fms] [targets:%v] %s"
	)

	if config.Colorful {
		infoStr = Green + "%s\n" + Reset + Green + "[info] " + Reset
		warnStr = BlueBold + "%s\n" + Reset + Magenta + "[warn] " + Reset
		errStr = Magenta + "%s\n" + Reset + Red + "[error] " + Reset
		debugStr = White + "%s\n" + Reset + Blue + "[debug] " + Reset
		traceStr = Green + "%s\n" + Reset + Yellow + "[%.3fms] " + BlueBold + "[targets:%v]" + Reset + " %s"
		traceWarnStr = Green + "%s " + Yellow + "%s\n" + Reset + RedBold + "[%.3fms] " + Yellow + "[targets:%v]" + Magenta + " %s" + Reset
		traceErrStr = RedBold + "%s " + MagentaBold + "%s\n" + Reset + Yellow + "[%.3fms] " + BlueBold + "[targets:%v]" + Reset + " %s"
	}

	return &defaultLogger{
		Writer:       writer,
		Config:       config,
		infoStr:      infoStr,
		warnStr:      warnStr,
		errStr:       errStr,
		debugStr:     debugStr,
		traceStr:     traceStr,
		traceWarnStr: traceWarnStr,
		traceErrStr:  traceErrStr,
	}
}

// New creates a new logger with the given writer and config.
func New(writer Writer, config Config) Interface {
	return NewLogger(writer, config)
}

func (l *defaultLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *defaultLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.Printf(l.infoStr+msg, append([]interface{}{caller()}, data...)...)
	}
}

func (l *defaultLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.Printf(l.warnStr+msg, append([]interface{}{caller()}, data...)...)
	}
}

func (l *defaultLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.Printf(l.errStr+msg, append([]interface{}{caller()}, data...)...)
	}
}

func (l *defaultLogger) Debug(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Debug {
		l.Printf(l.debugStr+msg, append([]interface{}{caller()}, data...)...)
	}
}

// Trace logs one dispatch (sink send or fan-out), matching GORM's SQL trace
// shape but reporting an operation name and a target count instead of a
// query and a row count.
func (l *defaultLogger) Trace(ctx context.Context, begin time.Time, fc func() (operation string, targets int64), err error, data ...interface{}) {
	if l.LogLevel <= Silent {
		return
	}

	elapsed := time.Since(begin)
	extra := renderExtra(data...)

	switch {
	case err != nil && l.LogLevel >= Error:
		operation, targets := fc()
		l.Printf(l.traceErrStr, caller(), err, float64(elapsed.Nanoseconds())/1e6, targets, operation+extra)
	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold && l.LogLevel >= Warn:
		operation, targets := fc()
		slow := fmt.Sprintf("SLOW DISPATCH >= %v", l.SlowThreshold)
		l.Printf(l.traceWarnStr, caller(), slow, float64(elapsed.Nanoseconds())/1e6, targets, operation+extra)
	case l.LogLevel >= Info:
		operation, targets := fc()
		l.Printf(l.traceStr, caller(), float64(elapsed.Nanoseconds())/1e6, targets, operation+extra)
	}
}

func renderExtra(data ...interface{}) string {
	if len(data) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i+1 < len(data); i += 2 {
		fmt.Fprintf(&b, " %v=%v", data[i], data[i+1])
	}
	return b.String()
}

// caller returns "file:line" of the first frame outside this package, the
// same information GORM's fileWithLineNum reports for its SQL logger.
func caller() string {
	for depth := 2; depth < 8; depth++ {
		_, file, line, ok := runtime.Caller(depth)
		if !ok {
			break
		}
		if !strings.Contains(file, "/logger/") {
			return fmt.Sprintf("%s:%d", file, line)
		}
	}
	return "notifyguard"
}
