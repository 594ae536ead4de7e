package android

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cgast/droidsh/pkg/args"
	"github.com/cgast/droidsh/pkg/events"
	"github.com/cgast/droidsh/pkg/loot"
	"github.com/cgast/droidsh/pkg/platform"
	"github.com/cgast/droidsh/pkg/render"
)

const reportContentType = "text/plain"

// dumpCommand fetches a list from the agent and writes it as a text report.
type dumpCommand[T any] struct {
	meta
	usage usage
	kind  string // file prefix and loot kind suffix
	title string
	// noun counts fetched items; saved names the written report.
	noun   render.Noun
	saved  render.Noun
	format func(T) []render.Field
}

func (c *dumpCommand[T]) arguments() *args.Arguments {
	return args.New(
		helpFlag,
		args.Flag{Name: "-o", TakesValue: true, Help: fmt.Sprintf("Output path for %s", c.noun.Plural)},
	)
}

func (c *dumpCommand[T]) Run(ctx context.Context, env *platform.Env, argv []string) error {
	a := c.arguments()
	opts, err := parse(env, c.usage, a, argv)
	if err != nil {
		return err
	}
	path := opts.String("-o", c.defaultPath(env))

	var items []T
	if err := env.Invoke(ctx, c.capability, nil, &items); err != nil {
		return err
	}
	if len(items) == 0 {
		env.Out.Status("%s", render.NoneFound(c.noun))
		return nil
	}

	n := len(items)
	env.Out.Status("Fetching %s", render.CountOf(n, c.noun))

	report := render.Compose(render.Report{
		Title:     c.title,
		Generated: env.Clock(),
		Session:   env.Session.Info(),
	}, items, c.format)
	data := []byte(report)

	if err := writeReport(env, path, data); err != nil {
		c.salvage(ctx, env, report, data)
		return err
	}
	env.Out.Status("%s saved to: %s", render.Plural(n, c.saved), path)

	return c.storeLoot(ctx, env, data)
}

func writeReport(env *platform.Env, path string, data []byte) error {
	if env.Sandbox != nil {
		if err := env.Sandbox.CheckReport(path, len(data)); err != nil {
			return &render.PersistenceError{Path: path, Err: err}
		}
	}
	return render.WriteFile(path, data)
}

// salvage keeps a report whose file could not be written: it goes to the
// loot store when one is configured, and to the output otherwise.
func (c *dumpCommand[T]) salvage(ctx context.Context, env *platform.Env, report string, data []byte) {
	if env.Loot != nil {
		err := c.storeLoot(ctx, env, data)
		if err == nil {
			return
		}
		env.Logger.Warn("store unsaved report", "command", c.name, "error", err)
	}
	env.Out.Status("Report could not be saved, printing it instead:")
	env.Out.Raw(report)
}

func (c *dumpCommand[T]) defaultPath(env *platform.Env) string {
	name := fmt.Sprintf("%s_dump_%s.txt", c.kind, env.Clock().Format("20060102150405"))
	return filepath.Join(env.LootDir, name)
}

func (c *dumpCommand[T]) storeLoot(ctx context.Context, env *platform.Env, data []byte) error {
	if env.Loot == nil {
		return nil
	}
	location, err := env.Loot.Store(ctx, loot.Item{
		Kind:        "android." + c.kind,
		ContentType: reportContentType,
		Label:       c.title,
		Data:        data,
	})
	if err != nil {
		return &render.PersistenceError{Path: "loot", Err: err}
	}
	env.Out.Status("Loot stored: %s", location)

	ev := events.NewEvent(events.EventLootStored, c.name)
	ev.Detail = location
	env.Publish(ev)
	return nil
}
