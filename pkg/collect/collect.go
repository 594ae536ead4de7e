// Package collect drives the agent's interval collectors: start, stop and
// query calls against named data streams, and rendering of what they return.
package collect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cgast/droidsh/pkg/render"
	"github.com/cgast/droidsh/pkg/session"
)

// Capability is the agent capability behind every collector call.
const Capability = "interval_collect"

// DefaultTimeout replaces non-positive poll timeouts, in seconds.
const DefaultTimeout = 30

var (
	// ErrUsage means the request was rejected before reaching the agent.
	ErrUsage = errors.New("invalid interval collection request")
	// ErrMalformed means the agent returned an envelope breaking its shape.
	ErrMalformed = errors.New("malformed collection result")
)

// Request is one collector call.
type Request struct {
	Action  string
	Type    string
	Timeout int
}

// Envelope is the typed result of a collector call.
type Envelope struct {
	Headers   []string   `json:"headers"`
	Entries   [][]string `json:"entries"`
	Timestamp *int64     `json:"timestamp,omitempty"`
}

// Validate checks the envelope invariant: rows need headers, and every row
// is as wide as the headers.
func (e Envelope) Validate() error {
	if len(e.Entries) == 0 {
		return nil
	}
	if len(e.Headers) == 0 {
		return fmt.Errorf("%d rows without headers: %w", len(e.Entries), ErrMalformed)
	}
	for i, row := range e.Entries {
		if len(row) != len(e.Headers) {
			return fmt.Errorf("row %d has %d values for %d headers: %w",
				i+1, len(row), len(e.Headers), ErrMalformed)
		}
	}
	return nil
}

// Controller validates requests against what the session advertises and
// performs them. It keeps no state between calls.
type Controller struct {
	Session session.Session
}

// Normalize lower-cases action and type, checks them against the advertised
// sets and applies the default timeout. Errors wrap ErrUsage.
func (c *Controller) Normalize(req Request) (Request, error) {
	req.Action = strings.ToLower(strings.TrimSpace(req.Action))
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))

	if !contains(c.Session.CollectActions(), req.Action) {
		return req, fmt.Errorf("action %q: %w", req.Action, ErrUsage)
	}
	if !contains(c.Session.CollectTypes(), req.Type) {
		return req, fmt.Errorf("collector type %q: %w", req.Type, ErrUsage)
	}
	req.Timeout = EffectiveTimeout(req.Timeout)
	return req, nil
}

// Run normalizes req and sends it to the agent.
func (c *Controller) Run(ctx context.Context, req Request) (Request, Envelope, error) {
	req, err := c.Normalize(req)
	if err != nil {
		return req, Envelope{}, err
	}

	var env Envelope
	params := map[string]any{
		"action":  req.Action,
		"type":    req.Type,
		"timeout": req.Timeout,
	}
	if err := c.Session.Invoke(ctx, Capability, params, &env); err != nil {
		return req, Envelope{}, err
	}
	if err := env.Validate(); err != nil {
		return req, Envelope{}, err
	}
	return req, env, nil
}

// Table builds the table for a result, or nil when there is nothing to show.
func Table(collector string, env Envelope) *render.Table {
	if len(env.Headers) == 0 || len(env.Entries) == 0 {
		return nil
	}

	title := fmt.Sprintf("Captured %s data", collector)
	if env.Timestamp != nil {
		title += " at " + render.FormatTime(time.Unix(*env.Timestamp, 0))
	}

	t := render.NewTable(title, env.Headers...)
	t.SortIndex = 0
	for _, row := range env.Entries {
		t.AddRow(row...)
	}
	return t
}

// Render prints the result table, or a completion status for empty results.
func Render(p *render.Printer, collector string, env Envelope) {
	t := Table(collector, env)
	if t == nil {
		p.Good("Interval action completed successfully")
		return
	}
	p.Table(t)
}

// EffectiveTimeout applies DefaultTimeout to non-positive values.
func EffectiveTimeout(seconds int) int {
	if seconds <= 0 {
		return DefaultTimeout
	}
	return seconds
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
