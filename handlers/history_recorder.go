// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"locale-tracker/commons"
	"locale-tracker/locale"
	"sync"
)

const DefaultHistoryQueueSize = 64

// HistoryRecorder writes country changes to the history table on its own
// goroutine, in the order the tracker made them.
type HistoryRecorder struct {
	mu     sync.Mutex
	closed bool
	queue  chan locale.CountryChange
	wg     sync.WaitGroup
}

func NewHistoryRecorder(size int) *HistoryRecorder {
	if size <= 0 {
		size = DefaultHistoryQueueSize
	}
	r := &HistoryRecorder{queue: make(chan locale.CountryChange, size)}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *HistoryRecorder) run() {
	defer r.wg.Done()
	for change := range r.queue {
		recordCountryChange(change)
	}
}

// Enqueue reports false when the change was dropped because the recorder is
// closed or its queue is full.
func (r *HistoryRecorder) Enqueue(change locale.CountryChange) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		commons.Logger.Warnf("History recorder closed, dropping country change to %q", change.Current)
		return false
	}
	select {
	case r.queue <- change:
		return true
	default:
		commons.Logger.Warnf("History queue full, dropping country change to %q", change.Current)
		return false
	}
}

// Listener adapts the recorder to a tracker country listener.
func (r *HistoryRecorder) Listener() locale.Listener {
	return func(c locale.CountryChange) {
		r.Enqueue(c)
	}
}

// Close stops accepting changes and waits until the queued ones are stored.
func (r *HistoryRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
}
