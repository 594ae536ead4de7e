package android

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cgast/droidsh/pkg/args"
	"github.com/cgast/droidsh/pkg/collect"
	"github.com/cgast/droidsh/pkg/platform"
)

// IntervalCollect manages the agent's background collectors.
type IntervalCollect struct{}

func (*IntervalCollect) Name() string                   { return "interval-collect" }
func (*IntervalCollect) Description() string            { return "Manage interval collection capabilities" }
func (*IntervalCollect) RequiredCapabilities() []string { return []string{collect.Capability} }

func (*IntervalCollect) Run(ctx context.Context, env *platform.Env, argv []string) error {
	a := args.New(
		helpFlag,
		args.Flag{Name: "-a", TakesValue: true, Help: fmt.Sprintf("Action (required, one of: %s)",
			strings.Join(env.Session.CollectActions(), ", "))},
		args.Flag{Name: "-c", TakesValue: true, Help: fmt.Sprintf("Collector type (required, one of: %s)",
			strings.Join(env.Session.CollectTypes(), ", "))},
		args.Flag{Name: "-t", TakesValue: true, Help: fmt.Sprintf("Collect poll timeout period in seconds (default: %d)",
			collect.DefaultTimeout)},
	)
	u := usage{line: "interval-collect <parameters>", summary: "Specifies an action to perform on a collector type."}
	opts, err := parse(env, u, a, argv)
	if err != nil {
		return err
	}

	ctrl := &collect.Controller{Session: env.Session}
	req, err := ctrl.Normalize(collect.Request{
		Action:  opts.String("-a", ""),
		Type:    opts.String("-c", ""),
		Timeout: opts.Int("-t", collect.DefaultTimeout),
	})
	if err != nil {
		env.Usage(u.line, u.summary, a)
		return fmt.Errorf("%w: %w", platform.ErrUsage, err)
	}

	env.Logger.Debug("interval collect", "action", req.Action, "type", req.Type, "timeout", req.Timeout)
	req, result, err := ctrl.Run(ctx, req)
	if err != nil {
		if errors.Is(err, collect.ErrMalformed) {
			return err
		}
		return &platform.InvocationError{Capability: collect.Capability, Err: err}
	}
	collect.Render(env.Out, req.Type, result)
	return nil
}
