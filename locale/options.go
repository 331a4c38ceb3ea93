// SPDX-License-Identifier: GPL-3.0-only

package locale

import (
	"time"

	"github.com/labstack/gommon/log"
)

const (
	DefaultPollInterval   = 10 * time.Minute
	DefaultRetryMinDelay  = 2 * time.Second
	DefaultRetryMaxDelay  = 10 * time.Minute
	DefaultRequestTimeout = 30 * time.Second
	DefaultQueueSize      = 32

	// maxFailCount caps the backoff exponent.
	maxFailCount = 30

	localLogSize = 50
)

type Option func(*Tracker)

func WithPollInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.pollInterval = d
		}
	}
}

func WithRetryDelays(minDelay, maxDelay time.Duration) Option {
	return func(t *Tracker) {
		if minDelay > 0 {
			t.retryMinDelay = minDelay
		}
		if maxDelay >= t.retryMinDelay {
			t.retryMaxDelay = maxDelay
		}
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.requestTimeout = d
		}
	}
}

func WithQueueSize(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.queueSize = n
		}
	}
}

func WithResolver(r CountryResolver) Option {
	return func(t *Tracker) {
		if r != nil {
			t.resolver = r
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithListener registers a callback run on the worker goroutine after every
// country change. Listeners run in registration order and must not block.
func WithListener(l Listener) Option {
	return func(t *Tracker) {
		if l != nil {
			t.listeners = append(t.listeners, l)
		}
	}
}
