// Package android implements the console commands for Android agents.
package android

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cgast/droidsh/pkg/args"
	"github.com/cgast/droidsh/pkg/platform"
)

// Register adds every Android command to reg in catalog order.
func Register(reg *platform.Registry) error {
	for _, c := range Commands() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Commands returns the Android command set in catalog order.
func Commands() []platform.Command {
	return []platform.Command{
		NewDumpSMS(),
		NewDumpContacts(),
		&Geolocate{},
		NewDumpCallLog(),
		&CheckRoot{},
		&DeviceShutdown{},
		&SendMessage{},
		&WLANGeolocate{},
		&IntervalCollect{},
		&ActivityStart{},
		&SetAudioMode{},
	}
}

// meta carries the identity shared by every command: a console name, a
// one-line description and the agent capability it needs.
type meta struct {
	name       string
	desc       string
	capability string
}

func (m meta) Name() string                   { return m.name }
func (m meta) Description() string            { return m.desc }
func (m meta) RequiredCapabilities() []string { return []string{m.capability} }

var helpFlag = args.Flag{Name: "-h", Help: "Help banner"}

// usage is the text printed above a command's options block.
type usage struct {
	line    string
	summary string
}

// parse collects argv, printing usage for -h or a flag missing its value.
func parse(env *platform.Env, u usage, a *args.Arguments, argv []string) (args.Options, error) {
	opts, err := a.Collect(argv)
	if err != nil {
		env.Usage(u.line, u.summary, a)
		return opts, fmt.Errorf("%w: %w", platform.ErrUsage, err)
	}
	if opts.Has("-h") {
		env.Usage(u.line, u.summary, a)
		return opts, platform.ErrHelp
	}
	return opts, nil
}

// Text is a scalar field from the agent. Agents differ in whether they
// send codes and dates as strings or numbers, so both decode to text.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			var b bool
			if berr := json.Unmarshal(data, &b); berr != nil {
				return fmt.Errorf("text field: %w", err)
			}
			*t = Text(strconv.FormatBool(b))
			return nil
		}
		*t = Text(n.String())
	}
	return nil
}

func (t Text) String() string { return string(t) }

// leadingFloat converts the leading decimal number of s, 0 when there is
// none.
func leadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDot, seenDigit := false, false
scan:
	for i, c := range s {
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' && !seenDot:
			seenDot = true
		case (c == '-' || c == '+') && i == 0:
		default:
			break scan
		}
		end = i + 1
	}
	if !seenDigit {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return f
}
