package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cgast/droidsh/internal/config"
	"github.com/cgast/droidsh/internal/logging"
	"github.com/cgast/droidsh/pkg/render"
)

// Build information, set with -ldflags "-X main.Version=...".
var (
	Version = "dev"
	Commit  = "none"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	agentURL   string
	logLevel   string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "droidsh",
		Short: "Capability-gated console for a remote Android agent",
		Long: `droidsh connects to an Android agent and offers the commands the agent
advertises: SMS, contacts and call log dumps, location, messaging, interval
collectors and device control.

Quick start:
  droidsh init                 # write .droidsh/config.yaml
  droidsh console              # connect and start the console
  droidsh run commands.rc      # execute a file of console commands
  droidsh catalog              # list commands and what they require`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd, flags, cmd.InOrStdin())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", config.DefaultPath, "config file (.yaml, .yml or .toml)")
	pf.StringVar(&flags.agentURL, "agent", "", "agent endpoint, overriding agent.url")
	pf.StringVar(&flags.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable coloured output")

	root.AddCommand(
		newConsoleCmd(flags),
		newRunCmd(flags),
		newCatalogCmd(flags),
		newLootCmd(flags),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// setup is what every command that reads the config needs.
type setup struct {
	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error
	out      *render.Printer
}

func loadSetup(cmd *cobra.Command, flags *globalFlags) (*setup, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:    cfg.LogLevel,
		File:     cfg.LogFile,
		Fallback: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	return &setup{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		out:      render.NewPrinter(stdout, stderr, useColor(cfg.Console.Color, flags.noColor, stdout)),
	}, nil
}

func (s *setup) close() {
	if err := s.closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing log: %v\n", err)
	}
}

func useColor(mode string, disabled bool, w io.Writer) bool {
	if disabled {
		return false
	}
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return render.ColorEnabled(w)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "droidsh %s (%s)\n", Version, Commit)
		},
	}
}
