package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cgast/droidsh/internal/sandbox"
	"github.com/cgast/droidsh/pkg/args"
	"github.com/cgast/droidsh/pkg/events"
	"github.com/cgast/droidsh/pkg/geo"
	"github.com/cgast/droidsh/pkg/loot"
	"github.com/cgast/droidsh/pkg/render"
	"github.com/cgast/droidsh/pkg/session"
)

// ErrUsage marks input rejected before anything was sent to the agent. The
// command has already printed its usage when it returns this.
var ErrUsage = errors.New("usage error")

// ErrHelp is returned when the operator asked for a command's help text.
var ErrHelp = errors.New("help requested")

// ErrReported marks a failure the command has already printed.
var ErrReported = errors.New("command failed")

// Command is one console command.
type Command interface {
	Name() string
	Description() string
	// RequiredCapabilities lists the agent capability IDs the command uses.
	RequiredCapabilities() []string
	Run(ctx context.Context, env *Env, argv []string) error
}

// Env is everything a command may touch while it runs.
type Env struct {
	Session session.Session
	Out     *render.Printer
	Logger  *slog.Logger

	// Loot is optional; commands skip loot storage when it is nil.
	Loot loot.Store
	// Sandbox is optional; when set, report paths must pass it.
	Sandbox *sandbox.Sandbox
	Geo     geo.Resolver
	Opener  Opener
	Links   geo.Links
	// Events is optional; Publish is a no-op without it.
	Events events.Bus

	LootDir string
	Now     func() time.Time
}

// Clock returns the current time from Now, or time.Now when unset.
func (e *Env) Clock() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Usage prints the usage block of a command.
func (e *Env) Usage(usage, summary string, a *args.Arguments) {
	e.Out.Line("Usage: %s", usage)
	if summary != "" {
		e.Out.Line("%s", summary)
	}
	if u := a.Usage(); u != "" {
		e.Out.Blank()
		e.Out.Raw(u)
	}
}

// Publish sends e to the event bus when one is attached.
func (e *Env) Publish(ev events.Event) {
	if e.Events != nil {
		e.Events.Publish(ev)
	}
}

// Invoke calls the agent and wraps failures as *InvocationError.
func (e *Env) Invoke(ctx context.Context, capability string, params any, out any) error {
	start := time.Now()
	err := e.Session.Invoke(ctx, capability, params, out)
	e.Logger.Debug("invoke", "capability", capability, "duration", time.Since(start), "error", err)
	if err != nil {
		return &InvocationError{Capability: capability, Err: err}
	}
	return nil
}

// InvocationError is a failed agent call.
type InvocationError struct {
	Capability string
	Err        error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Capability, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Opener shows a URL to the operator, e.g. in a browser.
type Opener interface {
	Open(url string) error
}
