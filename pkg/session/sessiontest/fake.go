// Package sessiontest provides an in-memory session for tests.
package sessiontest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cgast/droidsh/pkg/capability"
	"github.com/cgast/droidsh/pkg/session"
)

// Call records one Invoke.
type Call struct {
	Capability string
	Params     map[string]any
}

// Fake is a session.Session whose results are canned per capability.
// Results are passed through JSON so decoding matches a real transport.
type Fake struct {
	mu sync.Mutex

	SessionInfo session.Info
	Caps        []string
	Actions     []string
	Types       []string

	Results map[string]any
	Errors  map[string]error
	Calls   []Call
}

// New returns a Fake advertising the given capabilities.
func New(caps ...string) *Fake {
	return &Fake{
		SessionInfo: session.Info{Address: "10.0.0.2", Port: 4444, OS: "Android 14 (SDK 34)"},
		Caps:        caps,
		Results:     make(map[string]any),
		Errors:      make(map[string]error),
	}
}

func (f *Fake) Info() session.Info           { return f.SessionInfo }
func (f *Fake) Capabilities() capability.Set { return capability.NewSet(f.Caps...) }
func (f *Fake) CollectActions() []string     { return f.Actions }
func (f *Fake) CollectTypes() []string       { return f.Types }

// Invoke records the call and decodes the canned result into out.
func (f *Fake) Invoke(_ context.Context, capability string, params any, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := Call{Capability: capability}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("encode params: %w", err)
		}
		if err := json.Unmarshal(raw, &call.Params); err != nil {
			return fmt.Errorf("params must encode as an object: %w", err)
		}
	}
	f.Calls = append(f.Calls, call)

	if err := f.Errors[capability]; err != nil {
		return err
	}
	result, ok := f.Results[capability]
	if !ok || out == nil {
		return nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return json.Unmarshal(raw, out)
}

// CallCount returns how many times capability was invoked.
func (f *Fake) CallCount(capability string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.Calls {
		if c.Capability == capability {
			n++
		}
	}
	return n
}

// LastCall returns the most recent call, if any.
func (f *Fake) LastCall() (Call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.Calls) == 0 {
		return Call{}, false
	}
	return f.Calls[len(f.Calls)-1], true
}
