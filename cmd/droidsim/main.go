// Command droidsim serves a simulated Android agent for demos and tests.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/cgast/droidsh/internal/agentsim"
	"github.com/cgast/droidsh/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type options struct {
	listen        string
	secret        string
	logLevel      string
	disabled      []string
	rooted        bool
	deliveryFails bool
	noFix         bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "droidsim",
		Short: "Serve a simulated Android agent",
		Long: `droidsim answers droidsh's JSON-RPC calls from an in-memory device with
sample SMS, contacts, call log, location and WLAN data. It also serves a
geolocation endpoint in the Google API format at ` + agentsim.GeolocatePath + `.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.listen, "listen", "l", "127.0.0.1:4444", "address to listen on")
	f.StringVar(&opts.secret, "secret", os.Getenv("DROIDSH_AGENT_SECRET"), "shared request signing secret")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.StringSliceVar(&opts.disabled, "disable", nil, "capabilities to leave out, e.g. --disable send_sms,check_root")
	f.BoolVar(&opts.rooted, "rooted", false, "report the device as rooted")
	f.BoolVar(&opts.deliveryFails, "delivery-fails", false, "fail SMS delivery reports")
	f.BoolVar(&opts.noFix, "no-fix", false, "simulate a device without a location fix")
	return cmd
}

func serve(cmd *cobra.Command, opts *options) error {
	logger, closeLog, err := logging.New(logging.Options{Level: opts.logLevel, Fallback: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer closeLog()

	dev := agentsim.DemoDevice(time.Now())
	dev.Rooted = opts.rooted
	dev.DeliveryFails = opts.deliveryFails
	dev.Disabled = opts.disabled
	if opts.noFix {
		dev.Position = nil
	}

	agent := agentsim.New(dev, agentsim.Options{Logger: logger})
	srv, err := agentsim.NewServer(agent, agentsim.ServerConfig{Secret: opts.secret, Logger: logger})
	if err != nil {
		return err
	}

	logger.Info("agent simulator listening",
		"addr", opts.listen,
		"rpc", agentsim.RPCPath,
		"signed", opts.secret != "",
		"capabilities", len(agent.Capabilities()))
	return srv.ListenAndServe(cmd.Context(), opts.listen)
}
