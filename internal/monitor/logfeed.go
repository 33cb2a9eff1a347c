package monitor

import (
	"github.com/rileyhilliard/svcmon/internal/logger"
)

// LogFeed buffers log lines for the dashboard's log pane. When the pane
// falls behind, new lines are dropped rather than blocking probes.
type LogFeed struct {
	ch chan logger.LogMessage
}

// NewLogFeed creates a feed holding up to buffer pending lines.
func NewLogFeed(buffer int) *LogFeed {
	if buffer <= 0 {
		buffer = 256
	}
	return &LogFeed{ch: make(chan logger.LogMessage, buffer)}
}

// Logger returns a logger that writes into the feed.
func (f *LogFeed) Logger() logger.Logger {
	return logger.NewSinkLogger(func(msg logger.LogMessage) {
		select {
		case f.ch <- msg:
		default:
		}
	})
}

// Lines returns the channel the dashboard reads from.
func (f *LogFeed) Lines() <-chan logger.LogMessage {
	return f.ch
}
