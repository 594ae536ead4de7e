package android

import (
	"github.com/cgast/droidsh/pkg/platform"
	"github.com/cgast/droidsh/pkg/render"
)

// Contact is one address-book entry. A contact may have any number of
// phone numbers and email addresses.
type Contact struct {
	Name    Text   `json:"name"`
	Numbers []Text `json:"number"`
	Emails  []Text `json:"email"`
}

// NewDumpContacts returns the dump-contacts command.
func NewDumpContacts() platform.Command {
	return &dumpCommand[Contact]{
		meta:   meta{name: "dump-contacts", desc: "Get contacts list", capability: "dump_contacts"},
		usage:  usage{line: "dump-contacts [options]", summary: "Get contacts list."},
		kind:   "contacts",
		title:  "Contacts list dump",
		noun:   render.Noun{Singular: "contact", Plural: "contacts"},
		saved:  render.Noun{Singular: "Contacts list", Plural: "Contacts list"},
		format: contactFields,
	}
}

func contactFields(c Contact) []render.Field {
	fields := []render.Field{{Label: "Name", Value: c.Name.String()}}
	for _, n := range c.Numbers {
		fields = append(fields, render.Field{Label: "Number", Value: n.String()})
	}
	for _, e := range c.Emails {
		fields = append(fields, render.Field{Label: "Email", Value: e.String()})
	}
	return fields
}
