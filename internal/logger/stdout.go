package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// StdoutLogger prints plain text. The zero value writes to os.Stdout.
type StdoutLogger struct {
	mu  sync.Mutex
	Out io.Writer
}

func (l *StdoutLogger) writer() io.Writer {
	if l.Out == nil {
		return os.Stdout
	}
	return l.Out
}

func (l *StdoutLogger) Logf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer(), format, args...)
}

func (l *StdoutLogger) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.writer(), msg)
}
