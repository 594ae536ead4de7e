package agentsim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/cgast/droidsh/pkg/protocol"
)

// TransmissionOK is the status the device reports for a sent or delivered
// message.
const TransmissionOK = "Transmission successful"

type invokeFunc func(ctx context.Context, params json.RawMessage) (any, *protocol.Error)

// Outgoing is a message the agent was asked to send.
type Outgoing struct {
	Destination    string
	Body           string
	DeliveryReport bool
}

// Activity is what the agent has done to the device so far.
type Activity struct {
	RingerMode int
	Sent       []Outgoing
	// ShutdownAfter is nil until a shutdown was requested.
	ShutdownAfter *int
	Started       []string
}

// Agent serves the session methods for one simulated device.
type Agent struct {
	dev        *Device
	handler    *protocol.Handler
	collectors *collectors
	logger     *slog.Logger
	invokes    map[string]invokeFunc

	mu       sync.Mutex
	activity Activity
}

// Options configures an Agent.
type Options struct {
	Logger *slog.Logger
	Now    func() time.Time
}

// New creates an agent for dev and registers its methods.
func New(dev *Device, opts Options) *Agent {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	a := &Agent{
		dev:        dev,
		handler:    protocol.NewHandler(),
		collectors: newCollectors(now),
		logger:     logger,
		activity:   Activity{RingerMode: 1},
	}
	a.invokes = map[string]invokeFunc{
		"dump_sms":         a.dumpSMS,
		"dump_contacts":    a.dumpContacts,
		"geolocate":        a.geolocate,
		"dump_calllog":     a.dumpCallLog,
		"check_root":       a.checkRoot,
		"device_shutdown":  a.deviceShutdown,
		"send_sms":         a.sendSMS,
		"wlan_geolocate":   a.wlanGeolocate,
		"interval_collect": a.intervalCollect,
		"activity_start":   a.activityStart,
		"set_audio_mode":   a.setAudioMode,
	}

	a.handler.Register(protocol.MethodDescribe, a.describe)
	a.handler.Register(protocol.MethodInvoke, a.invoke)
	return a
}

// Handler returns the JSON-RPC method router.
func (a *Agent) Handler() *protocol.Handler {
	return a.handler
}

// Device returns the simulated device.
func (a *Agent) Device() *Device {
	return a.dev
}

// Capabilities returns the advertised capabilities.
func (a *Agent) Capabilities() []string {
	caps := make([]string, 0, len(Capabilities))
	for _, c := range Capabilities {
		if !slices.Contains(a.dev.Disabled, c) {
			caps = append(caps, c)
		}
	}
	return caps
}

// Activity returns a snapshot of what the agent has done.
func (a *Agent) Activity() Activity {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := a.activity
	snap.Sent = slices.Clone(a.activity.Sent)
	snap.Started = slices.Clone(a.activity.Started)
	return snap
}

func (a *Agent) describe(context.Context, json.RawMessage) (any, *protocol.Error) {
	return protocol.DescribeResult{
		OS:             a.dev.OS,
		Capabilities:   a.Capabilities(),
		CollectActions: CollectActions,
		CollectTypes:   CollectTypes,
	}, nil
}

func (a *Agent) invoke(ctx context.Context, raw json.RawMessage) (any, *protocol.Error) {
	p, perr := protocol.ParseParams[protocol.InvokeParams](raw)
	if perr != nil {
		return nil, perr
	}
	fn, ok := a.invokes[p.Capability]
	if !ok || slices.Contains(a.dev.Disabled, p.Capability) {
		return nil, &protocol.Error{
			Code:    protocol.CodeCapabilityUnsupported,
			Message: fmt.Sprintf("capability not supported: %s", p.Capability),
		}
	}
	a.logger.Debug("invoke", "capability", p.Capability)
	return fn(ctx, p.Params)
}

func failed(format string, args ...any) *protocol.Error {
	return &protocol.Error{Code: protocol.CodeInvocationFailed, Message: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) *protocol.Error {
	return &protocol.Error{Code: protocol.CodeInvalidParams, Message: fmt.Sprintf(format, args...)}
}

// orEmpty keeps empty collections encoding as [] instead of null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (a *Agent) dumpSMS(context.Context, json.RawMessage) (any, *protocol.Error) {
	return orEmpty(a.dev.SMS), nil
}

func (a *Agent) dumpContacts(context.Context, json.RawMessage) (any, *protocol.Error) {
	return orEmpty(a.dev.Contacts), nil
}

func (a *Agent) dumpCallLog(context.Context, json.RawMessage) (any, *protocol.Error) {
	return orEmpty(a.dev.Calls), nil
}

func (a *Agent) geolocate(context.Context, json.RawMessage) (any, *protocol.Error) {
	if a.dev.Position == nil {
		return nil, failed("location unavailable")
	}
	return []Position{*a.dev.Position}, nil
}

func (a *Agent) wlanGeolocate(context.Context, json.RawMessage) (any, *protocol.Error) {
	return orEmpty(a.dev.Networks), nil
}

func (a *Agent) checkRoot(context.Context, json.RawMessage) (any, *protocol.Error) {
	return a.dev.Rooted, nil
}

func (a *Agent) deviceShutdown(_ context.Context, raw json.RawMessage) (any, *protocol.Error) {
	p, perr := protocol.ParseParams[struct {
		Seconds int `json:"seconds"`
	}](raw)
	if perr != nil {
		return nil, perr
	}
	if p.Seconds < 0 {
		return nil, invalid("seconds must not be negative")
	}
	a.mu.Lock()
	a.activity.ShutdownAfter = &p.Seconds
	a.mu.Unlock()
	return true, nil
}

func (a *Agent) sendSMS(_ context.Context, raw json.RawMessage) (any, *protocol.Error) {
	p, perr := protocol.ParseParams[struct {
		Destination    string `json:"destination"`
		Body           string `json:"body"`
		DeliveryReport bool   `json:"delivery_report"`
	}](raw)
	if perr != nil {
		return nil, perr
	}
	if p.Destination == "" || p.Body == "" {
		return nil, invalid("destination and body are required")
	}

	a.mu.Lock()
	a.activity.Sent = append(a.activity.Sent, Outgoing{
		Destination:    p.Destination,
		Body:           p.Body,
		DeliveryReport: p.DeliveryReport,
	})
	a.mu.Unlock()

	if !p.DeliveryReport {
		return TransmissionOK, nil
	}
	delivery := TransmissionOK
	if a.dev.DeliveryFails {
		delivery = "Generic failure"
	}
	return []string{TransmissionOK, delivery}, nil
}

func (a *Agent) intervalCollect(_ context.Context, raw json.RawMessage) (any, *protocol.Error) {
	p, perr := protocol.ParseParams[struct {
		Action  string `json:"action"`
		Type    string `json:"type"`
		Timeout int    `json:"timeout"`
	}](raw)
	if perr != nil {
		return nil, perr
	}
	if !slices.Contains(CollectActions, p.Action) {
		return nil, invalid("unknown action %q", p.Action)
	}
	if !slices.Contains(CollectTypes, p.Type) {
		return nil, invalid("unknown collector type %q", p.Type)
	}
	env, err := a.collectors.apply(a.dev, p.Action, p.Type)
	if err != nil {
		return nil, failed("%v", err)
	}
	return env, nil
}

func (a *Agent) activityStart(_ context.Context, raw json.RawMessage) (any, *protocol.Error) {
	p, perr := protocol.ParseParams[struct {
		URI string `json:"uri"`
	}](raw)
	if perr != nil {
		return nil, perr
	}
	u, err := url.Parse(p.URI)
	if err != nil || u.Scheme == "" {
		return "No Activity found to handle Intent { act=android.intent.action.VIEW dat=" + p.URI + " }", nil
	}
	a.mu.Lock()
	a.activity.Started = append(a.activity.Started, p.URI)
	a.mu.Unlock()
	return nil, nil
}

func (a *Agent) setAudioMode(_ context.Context, raw json.RawMessage) (any, *protocol.Error) {
	p, perr := protocol.ParseParams[struct {
		Mode int `json:"mode"`
	}](raw)
	if perr != nil {
		return nil, perr
	}
	if p.Mode < 0 || p.Mode > 2 {
		return nil, invalid("ringer mode %d out of range", p.Mode)
	}
	a.mu.Lock()
	a.activity.RingerMode = p.Mode
	a.mu.Unlock()
	return true, nil
}
