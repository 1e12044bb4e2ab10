package snapfit

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// Named returns a logger that tags its lines with scope. Children share
	// the parent's writers and debug switch.
	Named(scope string) Logger
}

type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// sink is the part of a DefaultLogger shared by all of its Named children.
type sink struct {
	mu    sync.Mutex
	debug bool
	out   *log.Logger
	err   *log.Logger
}

func (s *sink) writer(level LogLevel) *log.Logger {
	if level >= LevelWarn {
		return s.err
	}
	return s.out
}

// DefaultLogger prints "[scope] LEVEL: message" lines. Warnings and errors
// go to the error writer, everything else to the output writer.
type DefaultLogger struct {
	sink  *sink
	scope string
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewWriterLogger(prefix, debug, os.Stdout, os.Stderr)
}

// NewWriterLogger is NewDefaultLogger with explicit destinations.
func NewWriterLogger(prefix string, debug bool, out, errOut io.Writer) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		sink: &sink{
			debug: debug,
			out:   log.New(out, "", flags),
			err:   log.New(errOut, "", flags),
		},
		scope: prefix,
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.sink.mu.Lock()
	l.sink.debug = enabled
	l.sink.mu.Unlock()
}

// Named appends scope to the tag, so "snapfit" becomes "snapfit/session".
func (l *DefaultLogger) Named(scope string) Logger {
	switch {
	case scope == "":
		return l
	case l.scope != "":
		scope = l.scope + "/" + scope
	}
	return &DefaultLogger{sink: l.sink, scope: scope}
}

func (l *DefaultLogger) logf(level LogLevel, format string, args []any) {
	if level == LevelDebug && !l.DebugEnabled() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.scope != "" {
		msg = "[" + l.scope + "] " + level.String() + ": " + msg
	} else {
		msg = level.String() + ": " + msg
	}
	l.sink.writer(level).Print(msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args) }

type nopLogger struct{}

func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool                { return false }
func (nopLogger) SetDebug(enabled bool)             {}
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}
func (n nopLogger) Named(scope string) Logger       { return n }

// orNop never returns nil.
func orNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
