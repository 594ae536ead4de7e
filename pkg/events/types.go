package events

import "time"

// EventType identifies what happened in the console.
type EventType string

const (
	EventCommandStart    EventType = "command.start"
	EventCommandEnd      EventType = "command.end"
	EventCommandError    EventType = "command.error"
	EventCommandRejected EventType = "command.rejected"
	EventCommandUsage    EventType = "command.usage"
	EventLootStored      EventType = "loot.stored"
	EventSessionOpen     EventType = "session.open"
	EventSessionClose    EventType = "session.close"
)

// Event is one entry of the console's activity record.
type Event struct {
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Command   string        `json:"command,omitempty"`
	Line      string        `json:"line,omitempty"`
	Detail    string        `json:"detail,omitempty"`
	Err       string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// NewEvent creates an Event for command with the current timestamp.
func NewEvent(typ EventType, command string) Event {
	return Event{
		Type:      typ,
		Timestamp: time.Now(),
		Command:   command,
	}
}

// WithError records err on the event, if any.
func (e Event) WithError(err error) Event {
	if err != nil {
		e.Err = err.Error()
	}
	return e
}

// Failed reports whether the event carries an error.
func (e Event) Failed() bool { return e.Err != "" }
