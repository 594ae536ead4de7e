package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cgast/droidsh/pkg/session"
)

// TimeLayout is the fixed timestamp format used in tables and reports.
const TimeLayout = "2006-01-02 15:04:05"

// FormatTime renders t in UTC with TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// FormatEpochMillis renders a millisecond epoch string, or Unknown when the
// value is not a number. Non-numeric but non-empty values are passed through.
func FormatEpochMillis(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return Unknown
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return v
	}
	return FormatTime(time.UnixMilli(ms))
}

// Field is one labelled line in a report record.
type Field struct {
	Label string
	Value string
}

// Report holds the title block of a text dump.
type Report struct {
	Title     string
	Generated time.Time
	Session   session.Info
}

// Compose renders a full report: banner, title block, session metadata and
// one numbered block per item, in the order given.
func Compose[T any](r Report, items []T, format func(T) []Field) string {
	var sb strings.Builder

	heading := "[+] " + Escape(r.Title)
	banner := strings.Repeat("=", len([]rune(heading)))
	sb.WriteString("\n")
	sb.WriteString(banner + "\n")
	sb.WriteString(heading + "\n")
	sb.WriteString(banner + "\n\n")

	fmt.Fprintf(&sb, "Date: %s\n", r.Generated.UTC().Format(TimeLayout+" MST"))
	fmt.Fprintf(&sb, "OS: %s\n", Escape(OrUnknown(r.Session.OS)))
	fmt.Fprintf(&sb, "Remote IP: %s\n", Escape(OrUnknown(r.Session.Address)))
	fmt.Fprintf(&sb, "Remote Port: %d\n\n", r.Session.Port)

	for i, item := range items {
		fmt.Fprintf(&sb, "#%d\n", i+1)
		for _, f := range format(item) {
			fmt.Fprintf(&sb, "%s\t: %s\n", f.Label, Escape(f.Value))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
