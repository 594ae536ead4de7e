// Package console is the interactive front end: it reads lines, gates each
// command on the session's capabilities and reports the outcome.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/cgast/droidsh/pkg/capability"
	"github.com/cgast/droidsh/pkg/events"
	"github.com/cgast/droidsh/pkg/platform"
)

// State is the phase of the command currently being handled.
type State int

const (
	Idle State = iota
	ParsingArgs
	Validating
	Invoking
	Rendering
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ParsingArgs:
		return "parsing"
	case Validating:
		return "validating"
	case Invoking:
		return "invoking"
	case Rendering:
		return "rendering"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Console dispatches operator lines to registered commands.
type Console struct {
	registry *platform.Registry
	env      *platform.Env
	bus      *events.MemoryBus
	prompt   string

	mu    sync.Mutex
	state State

	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)
}

// New creates a console. The bus records command history and may be nil.
func New(reg *platform.Registry, env *platform.Env, bus *events.MemoryBus, prompt string) *Console {
	if prompt == "" {
		prompt = "droidsh"
	}
	if bus != nil && env.Events == nil {
		env.Events = bus
	}
	return &Console{registry: reg, env: env, bus: bus, prompt: prompt}
}

// State returns the current phase.
func (c *Console) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Console) transition(to State) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.mu.Unlock()

	if from == to {
		return
	}
	c.env.Logger.Debug("console state", "from", from.String(), "to", to.String())
	if c.OnTransition != nil {
		c.OnTransition(from, to)
	}
}

// Enabled returns the commands the live session supports. It is computed
// on every call.
func (c *Console) Enabled() capability.Catalog {
	return capability.Enabled(c.registry.Catalog(), c.env.Session.Capabilities())
}

// MaxLineLength bounds one input line. Longer lines are reported and skipped.
const MaxLineLength = 64 * 1024

// Run reads lines from in until EOF, exit, or ctx is cancelled.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	r := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.env.Out.Raw(c.prompt + " > ")
		line, tooLong, err := readLine(r)
		if err != nil {
			c.env.Out.Blank()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		// Cancellation may land while the read blocks.
		if err := ctx.Err(); err != nil {
			return err
		}
		if tooLong {
			c.env.Out.Error("Input line longer than %d bytes ignored", MaxLineLength)
			continue
		}
		if c.Execute(ctx, line) {
			return nil
		}
	}
}

// readLine returns the next line of r without its terminator. A line past
// MaxLineLength is consumed in full and reported through tooLong.
func readLine(r *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, more, err := r.ReadLine()
		if err != nil {
			return "", false, err
		}
		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > MaxLineLength {
				buf, tooLong = nil, true
			}
		}
		if !more {
			return string(buf), tooLong, nil
		}
	}
}

// Execute handles one line and reports whether the operator asked to exit.
// The console is Idle again when it returns.
func (c *Console) Execute(ctx context.Context, line string) (exit bool) {
	defer c.transition(Idle)

	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}

	c.transition(ParsingArgs)
	words, err := Split(line)
	if err != nil {
		c.env.Out.Error("Parse error: %v", err)
		return false
	}
	if len(words) == 0 {
		return false
	}
	name, argv := words[0], words[1:]

	if run, ok := c.builtin(name); ok {
		return run(ctx, argv)
	}

	c.transition(Validating)
	if err := c.check(name); err != nil {
		ev := events.NewEvent(events.EventCommandRejected, name).WithError(err)
		ev.Line = line
		c.env.Publish(ev)
		return false
	}
	cmd, err := c.registry.Resolve(name)
	if err != nil {
		c.env.Out.Error("Unknown command: %s.", name)
		return false
	}

	c.transition(Invoking)
	start := time.Now()
	ev := events.NewEvent(events.EventCommandStart, name)
	ev.Line = line
	c.env.Publish(ev)

	err = cmd.Run(ctx, c.env, argv)

	c.transition(Rendering)
	c.finish(name, line, time.Since(start), err)
	return false
}

// check gates a command on the live capability set and prints the reason
// for a rejection.
func (c *Console) check(name string) error {
	catalog := c.registry.Catalog()
	live := c.env.Session.Capabilities()
	err := capability.Check(catalog, live, name)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, capability.ErrUnknownCommand):
		c.env.Out.Error("Unknown command: %s.", name)
	case errors.Is(err, capability.ErrUnavailable):
		d, _ := catalog.Lookup(name)
		c.env.Out.Error("The %q command is not supported by this session (missing: %s).",
			name, strings.Join(live.Missing(d.Requires), ", "))
	default:
		c.env.Out.Error("%v", err)
	}
	return err
}

// finish reports the outcome of a command run and records it.
func (c *Console) finish(name, line string, took time.Duration, err error) {
	typ := events.EventCommandEnd
	switch {
	case err == nil, errors.Is(err, platform.ErrHelp):
	case errors.Is(err, platform.ErrUsage):
		typ = events.EventCommandUsage
		c.env.Logger.Debug("usage error", "command", name, "error", err)
	case errors.Is(err, platform.ErrReported):
		typ = events.EventCommandError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		typ = events.EventCommandError
		c.env.Out.Error("%s interrupted: %v", name, err)
	default:
		typ = events.EventCommandError
		c.env.Out.Error("Error running command %s: %v", name, err)
	}
	if typ == events.EventCommandError {
		c.env.Logger.Warn("command failed", "command", name, "error", err, "duration", took)
	}

	ev := events.NewEvent(typ, name).WithError(err)
	if typ == events.EventCommandEnd {
		ev.Err = ""
	}
	ev.Line = line
	ev.Duration = took
	c.env.Publish(ev)
}
