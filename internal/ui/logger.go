package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/getlawrence/autodocs/internal/logger"
)

var (
	activeLogMu sync.RWMutex
	activeLogCh chan string
)

// setActiveLogChannel sets the channel used by the spinner to receive log updates.
func setActiveLogChannel(ch chan string) {
	activeLogMu.Lock()
	activeLogCh = ch
	activeLogMu.Unlock()
}

// clearActiveLogChannel clears the active spinner log channel.
func clearActiveLogChannel() {
	setActiveLogChannel(nil)
}

// SpinnerLogger forwards messages to the running spinner, whose title shows
// the latest one. Every message is also written to the fallback logger so
// nothing is lost once the spinner exits.
type SpinnerLogger struct {
	Fallback logger.Logger
}

func (l SpinnerLogger) Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	activeLogMu.RLock()
	ch := activeLogCh
	activeLogMu.RUnlock()
	if ch != nil {
		select {
		case ch <- strings.TrimSpace(msg):
		default:
			// drop if channel is full to avoid blocking
		}
	}
	if l.Fallback != nil {
		l.Fallback.Logf("%s", msg)
	}
}

func (l SpinnerLogger) Log(msg string) {
	l.Logf("%s\n", msg)
}
