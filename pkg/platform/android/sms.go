package android

import (
	"github.com/cgast/droidsh/pkg/platform"
	"github.com/cgast/droidsh/pkg/render"
)

// SMS is one message from the device's SMS store.
type SMS struct {
	Type    Text `json:"type"`
	Date    Text `json:"date"` // epoch milliseconds
	Address Text `json:"address"`
	Status  Text `json:"status"`
	Body    Text `json:"body"`
}

// SMSTypes labels the message box a message came from.
var SMSTypes = render.CodeTable{
	"1": "Incoming",
	"2": "Outgoing",
}

// SMSStatuses labels the delivery status codes of a message.
var SMSStatuses = render.CodeTable{
	"-1": "NOT_RECEIVED",
	"1":  "SME_UNABLE_TO_CONFIRM",
	"0":  "SUCCESS",
	"64": "MASK_PERMANENT_ERROR",
	"32": "MASK_TEMPORARY_ERROR",
	"2":  "SMS_REPLACED_BY_SC",
}

// NewDumpSMS returns the dump-sms command.
func NewDumpSMS() platform.Command {
	return &dumpCommand[SMS]{
		meta:   meta{name: "dump-sms", desc: "Get sms messages", capability: "dump_sms"},
		usage:  usage{line: "dump-sms [options]", summary: "Get sms messages."},
		kind:   "sms",
		title:  "SMS messages dump",
		noun:   render.Noun{Singular: "sms message", Plural: "sms messages"},
		saved:  render.Noun{Singular: "SMS message", Plural: "SMS messages"},
		format: smsFields,
	}
}

func smsFields(m SMS) []render.Field {
	return []render.Field{
		{Label: "Type", Value: SMSTypes.Label(m.Type.String())},
		{Label: "Date", Value: render.FormatEpochMillis(m.Date.String())},
		{Label: "Address", Value: m.Address.String()},
		{Label: "Status", Value: SMSStatuses.Label(m.Status.String())},
		{Label: "Message", Value: m.Body.String()},
	}
}
