package render

import (
	"fmt"
	"strings"
	"unicode"
)

// Unknown is rendered for missing fields and unrecognised codes.
const Unknown = "Unknown"

// Escape makes a captured value safe for single-line output: line breaks,
// tabs and other control characters are written as escape sequences so a
// record can never split a row or forge a label.
func Escape(s string) string {
	clean := true
	for _, r := range s {
		if unicode.IsControl(r) || r == '\\' {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if unicode.IsControl(r) {
				fmt.Fprintf(&sb, `\x%02x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// OrUnknown returns s, or Unknown when s is blank.
func OrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}

// CodeTable maps agent status/type codes to display labels.
type CodeTable map[string]string

// Label returns the label for code. A value that already equals one of the
// labels (case-insensitively) is returned in its canonical form; anything
// else renders as Unknown.
func (c CodeTable) Label(code string) string {
	if l, ok := c[code]; ok {
		return l
	}
	for _, l := range c {
		if strings.EqualFold(l, code) {
			return l
		}
	}
	return Unknown
}

// Noun is a singular/plural pair used in status text.
type Noun struct {
	Singular string
	Plural   string
}

// Plural returns the form of noun matching n.
func Plural(n int, noun Noun) string {
	if n == 1 {
		return noun.Singular
	}
	return noun.Plural
}

// CountOf formats n with the matching noun form, e.g. "3 contacts".
func CountOf(n int, noun Noun) string {
	return fmt.Sprintf("%d %s", n, Plural(n, noun))
}

// NoneFound is the status used when a collection comes back empty.
func NoneFound(noun Noun) string {
	return fmt.Sprintf("No %s were found!", noun.Plural)
}
