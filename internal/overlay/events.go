package overlay

import (
	"fmt"
	"strings"
)

// Event is one recorded overlay event.
type Event struct {
	Frame    int
	Category string // gate, cache, lifecycle, filter, frame
	Key      string
	Value    string
	NumVal   float64
}

// String formats the event as a fixed-width log line.
//
//	[F=0042] cache      refresh          units=12 buildings=3
func (e Event) String() string {
	return fmt.Sprintf("[F=%04d] %-10s %-16s %s", e.Frame, e.Category, e.Key, e.Value)
}

// EventLog collects overlay events for reports and tests. With a limit the
// oldest entries are dropped once the log is full.
type EventLog struct {
	entries []Event
	limit   int
	dropped int
}

// NewEventLog creates a log holding at most limit entries; 0 means no limit.
func NewEventLog(limit int) *EventLog {
	return &EventLog{limit: limit}
}

// Add records a new event.
func (l *EventLog) Add(frame int, category, key, value string, numVal float64) {
	if l.limit > 0 && len(l.entries) >= l.limit {
		n := copy(l.entries, l.entries[1:])
		l.entries = l.entries[:n]
		l.dropped++
	}
	l.entries = append(l.entries, Event{
		Frame:    frame,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// Entries returns all retained events.
func (l *EventLog) Entries() []Event { return l.entries }

// Dropped is the number of events discarded by the limit.
func (l *EventLog) Dropped() int { return l.dropped }

// Filter returns events matching category and key. An empty string
// matches anything.
func (l *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many events match category and key.
func (l *EventLog) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent event matching category and key.
func (l *EventLog) LastOf(category, key string) (Event, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			return e, true
		}
	}
	return Event{}, false
}

// Format returns the whole log, one event per line.
func (l *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
