package android

import (
	"github.com/cgast/droidsh/pkg/platform"
	"github.com/cgast/droidsh/pkg/render"
)

// Call is one call log entry.
type Call struct {
	Number   Text `json:"number"`
	Name     Text `json:"name"`
	Date     Text `json:"date"`
	Type     Text `json:"type"`
	Duration Text `json:"duration"` // seconds
}

// CallTypes labels call log entry types.
var CallTypes = render.CodeTable{
	"1": "INCOMING",
	"2": "OUTGOING",
	"3": "MISSED",
	"4": "VOICEMAIL",
	"5": "REJECTED",
	"6": "BLOCKED",
}

// NewDumpCallLog returns the dump-calllog command.
func NewDumpCallLog() platform.Command {
	return &dumpCommand[Call]{
		meta:   meta{name: "dump-calllog", desc: "Get call log", capability: "dump_calllog"},
		usage:  usage{line: "dump-calllog [options]", summary: "Get call log."},
		kind:   "calllog",
		title:  "Call log dump",
		noun:   render.Noun{Singular: "call log entry", Plural: "call log entries"},
		saved:  render.Noun{Singular: "Call log", Plural: "Call log"},
		format: callFields,
	}
}

func callFields(c Call) []render.Field {
	return []render.Field{
		{Label: "Number", Value: c.Number.String()},
		{Label: "Name", Value: c.Name.String()},
		{Label: "Date", Value: render.FormatEpochMillis(c.Date.String())},
		{Label: "Type", Value: CallTypes.Label(c.Type.String())},
		{Label: "Duration", Value: c.Duration.String()},
	}
}
