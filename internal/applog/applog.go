// Package applog is a tiny logging helper: every line is prefixed with the
// calling subsystem's name and written to stderr.
package applog

import (
	"fmt"
	"os"
)

// Logger prefixes every message with a fixed subsystem name.
type Logger struct {
	subsystem string
}

// New returns a Logger that prefixes its output with subsystem.
func New(subsystem string) *Logger {
	return &Logger{subsystem: subsystem}
}

func (l *Logger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[%s] "+format+"\n", append([]interface{}{l.subsystem}, args...)...)
}

func (l *Logger) Println(args ...interface{}) {
	fmt.Fprintln(os.Stderr, append([]interface{}{"[" + l.subsystem + "]"}, args...)...)
}
