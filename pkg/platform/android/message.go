package android

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cgast/droidsh/pkg/args"
	"github.com/cgast/droidsh/pkg/platform"
)

// TransmissionOK is the agent's status text for a successful send or
// delivery.
const TransmissionOK = "Transmission successful"

// SendMessage sends an SMS from the device.
type SendMessage struct{}

func (*SendMessage) Name() string                   { return "send-message" }
func (*SendMessage) Description() string            { return "Sends SMS from target session" }
func (*SendMessage) RequiredCapabilities() []string { return []string{"send_sms"} }

func (*SendMessage) Run(ctx context.Context, env *platform.Env, argv []string) error {
	a := args.New(
		helpFlag,
		args.Flag{Name: "-d", TakesValue: true, Help: "Destination number"},
		args.Flag{Name: "-t", TakesValue: true, Help: "SMS body text"},
		args.Flag{Name: "-dr", Help: "Wait for delivery report"},
	)
	u := usage{line: "send-message -d <number> -t <sms body>", summary: "Sends SMS messages to specified number."}
	opts, err := parse(env, u, a, argv)
	if err != nil {
		return err
	}

	dest, body := opts.String("-d", ""), opts.String("-t", "")
	report := opts.Has("-dr")
	if dest == "" || body == "" {
		env.Out.Error("You must enter both a destination address -d and the SMS text body -t")
		env.Out.Error(`e.g. send-message -d +351961234567 -t "GREETINGS PROFESSOR FALKEN."`)
		env.Out.Raw(a.Usage())
		return fmt.Errorf("%w: destination and body are required", platform.ErrUsage)
	}

	var raw json.RawMessage
	params := map[string]any{"destination": dest, "body": body, "delivery_report": report}
	if err := env.Invoke(ctx, "send_sms", params, &raw); err != nil {
		return err
	}

	var statuses []string
	if report {
		if err := json.Unmarshal(raw, &statuses); err != nil || len(statuses) != 2 {
			return &platform.InvocationError{Capability: "send_sms", Err: fmt.Errorf("want submission and delivery status, got %s", raw)}
		}
	} else {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return &platform.InvocationError{Capability: "send_sms", Err: fmt.Errorf("want a status string, got %s", raw)}
		}
		statuses = []string{s}
	}

	failed := false
	if statuses[0] == TransmissionOK {
		env.Out.Good("SMS sent - %s", statuses[0])
	} else {
		env.Out.Error("SMS send failed - %s", statuses[0])
		failed = true
	}
	if report {
		if statuses[1] == TransmissionOK {
			env.Out.Good("SMS delivered - %s", statuses[1])
		} else {
			env.Out.Error("SMS delivery failed - %s", statuses[1])
			failed = true
		}
	}
	if failed {
		return platform.ErrReported
	}
	return nil
}
