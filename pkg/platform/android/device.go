package android

import (
	"context"
	"fmt"

	"github.com/cgast/droidsh/pkg/args"
	"github.com/cgast/droidsh/pkg/platform"
)

// CheckRoot reports whether the device is rooted.
type CheckRoot struct{}

func (*CheckRoot) Name() string                   { return "check-root" }
func (*CheckRoot) Description() string            { return "Check if device is rooted" }
func (*CheckRoot) RequiredCapabilities() []string { return []string{"check_root"} }

func (*CheckRoot) Run(ctx context.Context, env *platform.Env, argv []string) error {
	a := args.New(helpFlag)
	if _, err := parse(env, usage{line: "check-root [options]", summary: "Check if device is rooted."}, a, argv); err != nil {
		return err
	}

	var rooted bool
	if err := env.Invoke(ctx, "check_root", nil, &rooted); err != nil {
		return err
	}
	if rooted {
		env.Out.Good("Device is rooted")
	} else {
		env.Out.Status("Device is not rooted")
	}
	return nil
}

// DeviceShutdown powers the device off, optionally after a delay.
type DeviceShutdown struct{}

func (*DeviceShutdown) Name() string                   { return "device-shutdown" }
func (*DeviceShutdown) Description() string            { return "Shutdown device" }
func (*DeviceShutdown) RequiredCapabilities() []string { return []string{"device_shutdown"} }

func (*DeviceShutdown) Run(ctx context.Context, env *platform.Env, argv []string) error {
	a := args.New(helpFlag, args.Flag{Name: "-t", TakesValue: true, Help: "Shutdown after n seconds"})
	opts, err := parse(env, usage{line: "device-shutdown [options]", summary: "Shutdown device."}, a, argv)
	if err != nil {
		return err
	}
	seconds := max(opts.Int("-t", 0), 0)

	var ok bool
	if err := env.Invoke(ctx, "device_shutdown", map[string]any{"seconds": seconds}, &ok); err != nil {
		return err
	}
	if !ok {
		env.Out.Error("Device shutdown failed")
		return platform.ErrReported
	}
	when := "now"
	if seconds > 0 {
		when = fmt.Sprintf("after %d seconds", seconds)
	}
	env.Out.Status("Device will shutdown %s", when)
	return nil
}

// Ringer modes accepted by set-audio-mode.
const (
	RingerOff    = 0
	RingerNormal = 1
	RingerMax    = 2
)

// SetAudioMode changes the ringer mode.
type SetAudioMode struct{}

func (*SetAudioMode) Name() string                   { return "set-audio-mode" }
func (*SetAudioMode) Description() string            { return "Set Ringer Mode" }
func (*SetAudioMode) RequiredCapabilities() []string { return []string{"set_audio_mode"} }

func (*SetAudioMode) Run(ctx context.Context, env *platform.Env, argv []string) error {
	a := args.New(helpFlag, args.Flag{
		Name:       "-m",
		TakesValue: true,
		Help:       fmt.Sprintf("Set Mode - (0 - Off, 1 - Normal, 2 - Max) (Default: '%d')", RingerNormal),
	})
	u := usage{line: "set-audio-mode [options]", summary: "Set Ringer mode."}
	opts, err := parse(env, u, a, argv)
	if err != nil {
		return err
	}
	if len(opts.Unknown) > 0 {
		env.Usage(u.line, u.summary, a)
		return fmt.Errorf("%w: unknown option %s", platform.ErrUsage, opts.Unknown[0])
	}
	mode := opts.Int("-m", RingerNormal)
	if mode < RingerOff || mode > RingerMax {
		env.Usage(u.line, u.summary, a)
		return fmt.Errorf("%w: mode %d out of range", platform.ErrUsage, mode)
	}

	if err := env.Invoke(ctx, "set_audio_mode", map[string]any{"mode": mode}, nil); err != nil {
		return err
	}
	env.Out.Status("Ringer mode was changed to %d!", mode)
	return nil
}

// ActivityStart starts an activity from a URI such as tel: or https:.
type ActivityStart struct{}

func (*ActivityStart) Name() string                   { return "activity-start" }
func (*ActivityStart) Description() string            { return "Start an Android activity from a Uri string" }
func (*ActivityStart) RequiredCapabilities() []string { return []string{"activity_start"} }

func (*ActivityStart) Run(ctx context.Context, env *platform.Env, argv []string) error {
	a := args.New(helpFlag)
	u := usage{line: "activity-start <uri>", summary: "Start an Android activity from a uri"}
	opts, err := parse(env, u, a, argv)
	if err != nil {
		return err
	}
	if len(opts.Positional) == 0 {
		env.Usage(u.line, u.summary, a)
		return fmt.Errorf("%w: uri is required", platform.ErrUsage)
	}
	uri := opts.Positional[0]

	var failure *string
	if err := env.Invoke(ctx, "activity_start", map[string]any{"uri": uri}, &failure); err != nil {
		return err
	}
	if failure != nil {
		env.Out.Error("Error: %s", *failure)
		return platform.ErrReported
	}
	env.Out.Status("Intent started")
	return nil
}
