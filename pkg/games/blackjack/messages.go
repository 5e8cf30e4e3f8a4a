package blackjack

import (
	"fmt"
	"strings"
	"time"
)

// messageLogCap bounds the round's message log; the oldest entries are
// silently dropped once it is full.
const messageLogCap = 10

// MessageLog is a bounded, deduplicated log of human-readable round events,
// newest last. Entries are timestamped at insertion.
type MessageLog struct {
	entries []string
	now     func() time.Time
}

// NewMessageLog creates an empty message log
func NewMessageLog() *MessageLog {
	return &MessageLog{now: time.Now}
}

// Add timestamps and appends a message. A candidate whose body is already a
// substring of any stored entry is skipped entirely; that keeps re-invoked
// settlement quiet, at the cost of also suppressing legitimately repeated
// phrasing.
func (l *MessageLog) Add(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	clean := message
	if idx := strings.Index(clean, "] "); idx >= 0 {
		clean = clean[idx+2:]
	}

	for _, entry := range l.entries {
		if strings.Contains(entry, clean) {
			return
		}
	}

	stamped := fmt.Sprintf("[%s] %s", l.now().UTC().Format("15:04:05"), message)
	l.entries = append(l.entries, stamped)

	if len(l.entries) > messageLogCap {
		l.entries = l.entries[len(l.entries)-messageLogCap:]
	}
}

// Entries returns a copy of the stored messages, oldest first
func (l *MessageLog) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of stored messages
func (l *MessageLog) Len() int {
	return len(l.entries)
}
