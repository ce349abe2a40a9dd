package media

import (
	"os"

	"github.com/charmbracelet/log"
)

// ConsoleSink logs every event at Info level, matching the CLI / console
// logging collaborator named in spec §1 as an outer-harness concern.
type ConsoleSink struct {
	logger *log.Logger
}

// NewConsoleSink creates a ConsoleSink writing to stderr with the given
// prefix, or "media" if empty.
func NewConsoleSink(prefix string) *ConsoleSink {
	if prefix == "" {
		prefix = "media"
	}
	return &ConsoleSink{
		logger: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          prefix,
		}),
	}
}

// Post implements Sink.
func (c *ConsoleSink) Post(event Event) {
	if len(event.Payload) == 0 {
		c.logger.Info(event.Type)
		return
	}
	args := make([]any, 0, len(event.Payload)*2)
	for k, v := range event.Payload {
		args = append(args, k, v)
	}
	c.logger.Info(event.Type, args...)
}

var _ Sink = (*ConsoleSink)(nil)
