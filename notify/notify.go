package notify

import (
	"sync"

	zlog "github.com/rs/zerolog/log"
)

// Notifier is the user-visible message capability consumed by the attribute
// services. UI surfaces plug in toasts; headless consumers get log output.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to the process logger.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) {
	zlog.Info().Str("notify", "success").Msg(msg)
}

func (LogNotifier) Error(msg string) {
	zlog.Error().Str("notify", "error").Msg(msg)
}

// Collector records notifications for assertions in tests.
type Collector struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
}

func (c *Collector) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Successes = append(c.Successes, msg)
}

func (c *Collector) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Errors = append(c.Errors, msg)
}
