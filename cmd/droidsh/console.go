package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cgast/droidsh/internal/sandbox"
	"github.com/cgast/droidsh/pkg/console"
	"github.com/cgast/droidsh/pkg/events"
	"github.com/cgast/droidsh/pkg/geo"
	"github.com/cgast/droidsh/pkg/loot"
	"github.com/cgast/droidsh/pkg/platform"
	"github.com/cgast/droidsh/pkg/platform/android"
	"github.com/cgast/droidsh/pkg/session"
)

func newConsoleCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Connect to the agent and start the interactive console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd, flags, cmd.InOrStdin())
		},
	}
}

// newRunCmd implements `droidsh run <script>`: console lines are read from
// a resource file instead of the terminal.
func newRunCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Connect to the agent and execute a file of console commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			defer f.Close()
			return runConsole(cmd, flags, f)
		},
	}
}

func newRegistry() *platform.Registry {
	reg := platform.NewRegistry()
	if err := android.Register(reg); err != nil {
		panic(err)
	}
	return reg
}

func runConsole(cmd *cobra.Command, flags *globalFlags, in io.Reader) error {
	s, err := loadSetup(cmd, flags)
	if err != nil {
		return err
	}
	defer s.close()
	cfg, logger := s.cfg, s.logger
	if flags.agentURL != "" {
		cfg.Agent.URL = flags.agentURL
	}

	sb, err := sandbox.New(cfg.Sandbox)
	if err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}

	store, err := loot.Open(cfg.Loot)
	if err != nil {
		return fmt.Errorf("open loot store: %w", err)
	}
	defer func() {
		if err := loot.Close(store); err != nil {
			logger.Warn("close loot store", "error", err)
		}
	}()

	ctx := cmd.Context()
	sess, err := session.Dial(ctx, session.ClientConfig{
		URL:     cfg.Agent.URL,
		Secret:  cfg.Agent.Secret,
		Timeout: cfg.Agent.RequestTimeout(),
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("connect to agent: %w", err)
	}

	links := geo.DefaultLinks()
	if cfg.Geo.MapsURL != "" {
		links.MapsURL = cfg.Geo.MapsURL
	}
	if cfg.Geo.GeocodeURL != "" {
		links.GeocodeURL = cfg.Geo.GeocodeURL
	}

	bus := events.NewMemoryBus(cfg.Console.HistorySize)
	go events.Log(ctx, bus, logger)

	env := &platform.Env{
		Session: sess,
		Out:     s.out,
		Logger:  logger,
		Loot:    store,
		Sandbox: sb,
		Geo:     geo.NewClient(geo.ClientConfig{Endpoint: cfg.Geo.Endpoint, APIKey: cfg.Geo.APIKey}),
		Opener:  platform.BrowserOpener{},
		Links:   links,
		LootDir: cfg.Loot.Dir,
	}
	reg := newRegistry()
	con := console.New(reg, env, bus, cfg.Console.Prompt)

	info := sess.Info()
	s.out.Good("Connected to %s", info)
	s.out.Status("%d of %d commands available, type help to list them",
		len(con.Enabled()), len(reg.List()))

	ev := events.NewEvent(events.EventSessionOpen, "")
	ev.Detail = info.String()
	bus.Publish(ev)
	defer bus.Publish(events.NewEvent(events.EventSessionClose, ""))

	if err := con.Run(ctx, in); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
