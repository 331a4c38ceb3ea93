// SPDX-License-Identifier: GPL-3.0-only

package locale

import (
	"fmt"
	"sync"
	"time"
)

type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// LocalLog keeps the last N messages in a ring.
type LocalLog struct {
	mu      sync.Mutex
	entries []LogEntry
	next    int
	full    bool
}

func NewLocalLog(size int) *LocalLog {
	if size < 1 {
		size = 1
	}
	return &LocalLog{entries: make([]LogEntry, size)}
}

// Logf appends a formatted message and returns it.
func (l *LocalLog) Logf(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[l.next] = LogEntry{Time: time.Now(), Message: msg}
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
	return msg
}

// Entries returns a copy of the stored messages, oldest first.
func (l *LocalLog) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.full {
		out := make([]LogEntry, l.next)
		copy(out, l.entries[:l.next])
		return out
	}
	out := make([]LogEntry, 0, len(l.entries))
	out = append(out, l.entries[l.next:]...)
	out = append(out, l.entries[:l.next]...)
	return out
}
