package blackjack

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}
}

func TestMessageLogAdd(t *testing.T) {
	l := NewMessageLog()
	l.now = fixedClock()

	l.Add("Alice wins %d chips!", 20)

	entries := l.Entries()
	assert.Len(t, entries, 1)
	assert.Equal(t, "[12:00:00] Alice wins 20 chips!", entries[0])
}

func TestMessageLogCapacity(t *testing.T) {
	l := NewMessageLog()
	l.now = fixedClock()

	for i := 0; i < 15; i++ {
		l.Add("event number %d happened", i)
	}

	entries := l.Entries()
	assert.Len(t, entries, 10, "log should never exceed its capacity")
	assert.Contains(t, entries[0], "event number 5", "oldest entries should drop first")
	assert.Contains(t, entries[9], "event number 14")
}

func TestMessageLogDeduplicates(t *testing.T) {
	l := NewMessageLog()
	l.now = fixedClock()

	l.Add("Alice pushes and gets their bet back")
	l.Add("Alice pushes and gets their bet back")

	assert.Equal(t, 1, l.Len(), "an identical message should be skipped")
}

func TestMessageLogSkipsSubstringOfStoredEntry(t *testing.T) {
	l := NewMessageLog()
	l.now = fixedClock()

	l.Add("Dealer busted! Alice wins 20 chips!")
	l.Add("Alice wins 20 chips!")

	assert.Equal(t, 1, l.Len(), "a message contained in a stored entry should be skipped")
}

func TestMessageLogStripsTimestampBeforeComparing(t *testing.T) {
	l := NewMessageLog()
	l.now = fixedClock()

	l.Add("Bob loses their bet!")
	l.Add("[09:30:00] Bob loses their bet!")

	assert.Equal(t, 1, l.Len())
}

func TestMessageLogDistinctMessagesKept(t *testing.T) {
	l := NewMessageLog()
	l.now = fixedClock()

	for i := 0; i < 5; i++ {
		l.Add(fmt.Sprintf("player%d stands", i))
	}

	assert.Equal(t, 5, l.Len())
}

func TestMessageLogEntriesReturnsCopy(t *testing.T) {
	l := NewMessageLog()
	l.now = fixedClock()

	l.Add("first entry")
	entries := l.Entries()
	entries[0] = "mutated"

	assert.Equal(t, "[12:00:00] first entry", l.Entries()[0])
}
