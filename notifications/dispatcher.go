// SPDX-License-Identifier: GPL-3.0-only

package notifications

import (
	"context"
	"locale-tracker/commons"
	"locale-tracker/locale"
	"sync"
)

const DefaultQueueSize = 64

// Dispatcher delivers country changes on its own goroutine so tracker
// listeners never wait on the broker. Changes are delivered in order.
type Dispatcher struct {
	provider  NotificationProviders
	publisher Publisher

	mu     sync.Mutex
	closed bool
	queue  chan CountryChange
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewDispatcher(provider NotificationProviders, publisher Publisher, size int) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		provider:  provider,
		publisher: publisher,
		queue:     make(chan CountryChange, size),
		ctx:       ctx,
		cancel:    cancel,
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for change := range d.queue {
		_ = DispatchCountryChange(d.ctx, d.provider, d.publisher, change)
	}
}

// Enqueue reports false when the change was dropped because the dispatcher
// is closed or its queue is full.
func (d *Dispatcher) Enqueue(change CountryChange) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		commons.Logger.Warnf("Dispatcher closed, dropping country change to %q", change.Current)
		return false
	}
	select {
	case d.queue <- change:
		return true
	default:
		commons.Logger.Warnf("Notification queue full, dropping country change to %q", change.Current)
		return false
	}
}

// Listener adapts the dispatcher to a tracker country listener.
func (d *Dispatcher) Listener() locale.Listener {
	return func(c locale.CountryChange) {
		d.Enqueue(FromLocale(c))
	}
}

// Close stops accepting changes and waits until the queued ones are sent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.cancel()
}
