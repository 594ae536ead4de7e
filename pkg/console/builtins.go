package console

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/cgast/droidsh/pkg/args"
	"github.com/cgast/droidsh/pkg/events"
	"github.com/cgast/droidsh/pkg/render"
)

const defaultHistory = 20

// coreCommands describes the builtins for help output, in display order.
var coreCommands = [][2]string{
	{"help", "Help menu"},
	{"commands", "List every known command and what it requires"},
	{"history", "Show recent commands"},
	{"loot", "List stored loot"},
	{"exit", "Leave the console"},
	{"quit", "Alias for exit"},
}

func (c *Console) builtin(name string) (func(context.Context, []string) bool, bool) {
	switch name {
	case "help", "?":
		return c.help, true
	case "commands":
		return c.commands, true
	case "history":
		return c.history, true
	case "loot":
		return c.loot, true
	case "exit", "quit":
		return func(context.Context, []string) bool { return true }, true
	}
	return nil, false
}

// help prints the builtins and the commands enabled for this session, or
// a single command's usage when one is named.
func (c *Console) help(ctx context.Context, argv []string) bool {
	if len(argv) > 0 {
		return c.Execute(ctx, argv[0]+" -h")
	}

	core := render.NewTable("Core Commands", "Command", "Description")
	core.Indent = 4
	for _, b := range coreCommands {
		core.AddRow(b[0], b[1])
	}
	c.env.Out.Table(core)

	android := render.NewTable("Android Commands", "Command", "Description")
	android.Indent = 4
	for _, d := range c.Enabled() {
		android.AddRow(d.Name, d.Description)
	}
	c.env.Out.Table(android)
	return false
}

// commands lists the whole catalog with each command's requirements and
// whether the session meets them.
func (c *Console) commands(context.Context, []string) bool {
	live := c.env.Session.Capabilities()
	t := render.NewTable("Command Catalog", "Command", "Requires", "Available")
	t.Indent = 4
	for _, d := range c.registry.Catalog() {
		avail := "yes"
		if len(live.Missing(d.Requires)) > 0 {
			avail = "no"
		}
		t.AddRow(d.Name, strings.Join(d.Requires, ", "), avail)
	}
	c.env.Out.Table(t)
	return false
}

// history prints the most recent finished commands.
func (c *Console) history(_ context.Context, argv []string) bool {
	if c.bus == nil {
		c.env.Out.Status("History is not being recorded")
		return false
	}
	n := defaultHistory
	if len(argv) > 0 {
		if v := args.Int(argv[0]); v > 0 {
			n = v
		}
	}

	t := render.NewTable("Command History", "Time", "Command", "Result", "Duration")
	t.Indent = 4
	finished := []events.EventType{
		events.EventCommandEnd, events.EventCommandError,
		events.EventCommandUsage, events.EventCommandRejected,
	}
	for _, e := range c.bus.Last(n, finished...) {
		line := e.Line
		if line == "" {
			line = e.Command
		}
		t.AddRow(render.FormatTime(e.Timestamp), line, historyResult(e), e.Duration.Round(time.Millisecond).String())
	}
	c.env.Out.Table(t)
	return false
}

func historyResult(e events.Event) string {
	switch e.Type {
	case events.EventCommandEnd:
		return "ok"
	case events.EventCommandUsage:
		return "usage"
	case events.EventCommandRejected:
		return "rejected"
	}
	if e.Err != "" {
		return "error: " + e.Err
	}
	return "error"
}

// loot lists what the configured loot store holds.
func (c *Console) loot(ctx context.Context, _ []string) bool {
	if c.env.Loot == nil {
		c.env.Out.Status("No loot store is configured")
		return false
	}
	recs, err := c.env.Loot.List(ctx)
	if err != nil {
		c.env.Out.Error("Unable to list loot: %v", err)
		return false
	}
	t := render.NewTable("Loot", "Created", "Kind", "Label", "Size", "Location")
	t.Indent = 4
	for _, r := range recs {
		t.AddRow(render.FormatTime(r.CreatedAt), r.Kind, r.Label, strconv.Itoa(r.Size), r.Location)
	}
	c.env.Out.Table(t)
	if n := len(recs); n > 0 {
		c.env.Out.Status("%s", render.CountOf(n, render.Noun{Singular: "item", Plural: "items"}))
	}
	return false
}
