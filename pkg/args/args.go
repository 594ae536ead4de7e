package args

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// ErrMissingValue is reported when a flag that takes a value is the last token.
var ErrMissingValue = errors.New("flag requires a value")

// Flag declares one option accepted by a command.
type Flag struct {
	Name       string // including the leading dash, e.g. "-t" or "-dr"
	TakesValue bool
	Help       string
}

// Kind classifies a parse event.
type Kind int

const (
	// Option is a declared flag, with its value when it takes one.
	Option Kind = iota
	// Positional is a token that is not a flag.
	Positional
	// Unknown is a dash-prefixed token that matches no declared flag.
	Unknown
	// Missing is a value-taking flag found at end of input.
	Missing
)

func (k Kind) String() string {
	switch k {
	case Option:
		return "option"
	case Positional:
		return "positional"
	case Unknown:
		return "unknown"
	case Missing:
		return "missing"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one item produced while walking a token list.
type Event struct {
	Kind  Kind
	Flag  string
	Index int
	Value string
}

// Arguments is an ordered set of flags. Build one per command invocation.
type Arguments struct {
	flags []Flag
	index map[string]Flag
}

// New returns an Arguments accepting the given flags, in declaration order.
func New(flags ...Flag) *Arguments {
	a := &Arguments{
		flags: flags,
		index: make(map[string]Flag, len(flags)),
	}
	for _, f := range flags {
		a.index[f.Name] = f
	}
	return a
}

// Lookup returns the declared flag with the given name.
func (a *Arguments) Lookup(name string) (Flag, bool) {
	f, ok := a.index[name]
	return f, ok
}

// Parse walks tokens and yields one event per flag, value pair or positional.
// The returned sequence can be ranged over once; later ranges yield nothing.
func (a *Arguments) Parse(tokens []string) iter.Seq[Event] {
	consumed := false
	return func(yield func(Event) bool) {
		if consumed {
			return
		}
		consumed = true

		for i := 0; i < len(tokens); i++ {
			tok := tokens[i]
			if !isFlag(tok) {
				if !yield(Event{Kind: Positional, Index: i, Value: tok}) {
					return
				}
				continue
			}

			f, ok := a.index[tok]
			if !ok {
				if !yield(Event{Kind: Unknown, Flag: tok, Index: i}) {
					return
				}
				continue
			}

			if !f.TakesValue {
				if !yield(Event{Kind: Option, Flag: tok, Index: i}) {
					return
				}
				continue
			}

			if i+1 >= len(tokens) {
				yield(Event{Kind: Missing, Flag: tok, Index: i})
				return
			}
			i++
			if !yield(Event{Kind: Option, Flag: tok, Index: i - 1, Value: tokens[i]}) {
				return
			}
		}
	}
}

// Collect parses tokens into a fresh option map. A value-taking flag at the
// end of input yields an error wrapping ErrMissingValue; everything parsed
// before it is still returned.
func (a *Arguments) Collect(tokens []string) (Options, error) {
	opts := Options{values: make(map[string]string)}
	for ev := range a.Parse(tokens) {
		switch ev.Kind {
		case Option:
			opts.values[ev.Flag] = ev.Value
		case Positional:
			opts.Positional = append(opts.Positional, ev.Value)
		case Unknown:
			opts.Unknown = append(opts.Unknown, ev.Flag)
		case Missing:
			return opts, fmt.Errorf("%s: %w", ev.Flag, ErrMissingValue)
		}
	}
	return opts, nil
}

// Usage renders the OPTIONS block listing every declared flag.
func (a *Arguments) Usage() string {
	if len(a.flags) == 0 {
		return ""
	}

	width := 0
	for _, f := range a.flags {
		if n := len(usageName(f)); n > width {
			width = n
		}
	}

	var sb strings.Builder
	sb.WriteString("OPTIONS:\n\n")
	indent := strings.Repeat(" ", width+6)
	for _, f := range a.flags {
		help := wordwrap.String(f.Help, 72-len(indent))
		lines := strings.Split(help, "\n")
		fmt.Fprintf(&sb, "    %-*s  %s\n", width, usageName(f), lines[0])
		for _, l := range lines[1:] {
			sb.WriteString(indent)
			sb.WriteString(l)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func usageName(f Flag) string {
	if f.TakesValue {
		return f.Name + " <opt>"
	}
	return f.Name
}

// isFlag reports whether tok looks like a flag. Negative numbers are values.
func isFlag(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	c := tok[1]
	return !(c >= '0' && c <= '9')
}
