package asyncgui

import (
	"fmt"
	"log"
	"strings"
)

// Logger is the interface for structured logging used by this module.
// Implementations can adapt it to any logging backend.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is a key-value pair attached to a log message.
type Field struct {
	Key   string
	Value any
}

// F creates a [Field].
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// StdLogger is a [Logger] that writes through a standard library
// [log.Logger].
type StdLogger struct {
	l     *log.Logger
	debug bool
}

// NewStdLogger creates a [StdLogger] writing through l, or through the
// standard logger if l is nil. Debug messages are dropped unless debug is
// true.
func NewStdLogger(l *log.Logger, debug bool) *StdLogger {
	if l == nil {
		l = log.Default()
	}
	return &StdLogger{l: l, debug: debug}
}

func (l *StdLogger) Debug(msg string, fields ...Field) {
	if l.debug {
		l.log("DEBUG", msg, fields)
	}
}

func (l *StdLogger) Info(msg string, fields ...Field)  { l.log("INFO", msg, fields) }
func (l *StdLogger) Warn(msg string, fields ...Field)  { l.log("WARN", msg, fields) }
func (l *StdLogger) Error(msg string, fields ...Field) { l.log("ERROR", msg, fields) }

func (l *StdLogger) log(level, msg string, fields []Field) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", level, msg)
	if len(fields) != 0 {
		b.WriteString(" {")
		for i, f := range fields {
			if i != 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %v", f.Key, f.Value)
		}
		b.WriteString("}")
	}
	l.l.Println(b.String())
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
