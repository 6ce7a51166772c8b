package logger

import "os"

type Logger interface {
	Logf(format string, args ...interface{})
	Log(msg string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Logf(string, ...interface{}) {}
func (Nop) Log(string)                  {}

// IsInteractive reports whether stdout is attached to a terminal.
// Used to decide when to use interactive UI elements like spinners and prompts.
func IsInteractive() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	// A pipe or regular file is not interactive
	return fi.Mode()&os.ModeCharDevice != 0
}
