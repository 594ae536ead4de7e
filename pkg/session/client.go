package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cgast/droidsh/pkg/capability"
	"github.com/cgast/droidsh/pkg/protocol"
)

// maxResponseSize bounds a single agent response.
const maxResponseSize = 32 * 1024 * 1024

// ClientConfig configures an HTTP JSON-RPC session.
type ClientConfig struct {
	URL     string
	Secret  string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client is a Session backed by JSON-RPC 2.0 over HTTP POST.
type Client struct {
	endpoint   string
	httpClient *http.Client
	key        []byte
	logger     *slog.Logger

	info    Info
	caps    capability.Set
	actions []string
	types   []string
}

// Dial connects to the agent endpoint and fetches its description.
func Dial(ctx context.Context, cfg ClientConfig) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse agent url %q: %w", cfg.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("agent url %q: unsupported scheme %q", cfg.URL, u.Scheme)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		endpoint:   u.String(),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	if cfg.Secret != "" {
		if c.key, err = protocol.DeriveKey(cfg.Secret); err != nil {
			return nil, err
		}
	}

	var desc protocol.DescribeResult
	if err := c.call(ctx, protocol.MethodDescribe, nil, &desc); err != nil {
		return nil, fmt.Errorf("describe session: %w", err)
	}

	c.info = Info{Address: u.Hostname(), Port: urlPort(u), OS: desc.OS}
	c.caps = capability.NewSet(desc.Capabilities...)
	c.actions = desc.CollectActions
	c.types = desc.CollectTypes

	logger.Info("session established",
		"remote", c.info.String(),
		"capabilities", c.caps.Len())
	return c, nil
}

func (c *Client) Info() Info                   { return c.info }
func (c *Client) Capabilities() capability.Set { return c.caps }
func (c *Client) CollectActions() []string     { return append([]string(nil), c.actions...) }
func (c *Client) CollectTypes() []string       { return append([]string(nil), c.types...) }

// Invoke calls one capability on the agent.
func (c *Client) Invoke(ctx context.Context, capability string, params any, out any) error {
	p := protocol.InvokeParams{Capability: capability}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("encode %s params: %w", capability, err)
		}
		p.Params = raw
	}
	return c.call(ctx, protocol.MethodInvoke, p, out)
}

func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	req := protocol.Request{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
	}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("encode params: %w", err)
		}
		req.Params = raw
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.key != nil {
		httpReq.Header.Set(protocol.SignatureHeader, protocol.Sign(c.key, body))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", method, err)
	}
	c.logger.Debug("agent call", "method", method, "status", resp.StatusCode,
		"bytes", len(data), "duration", time.Since(start))

	var rpcResp protocol.RawResponse
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: http status %d", method, resp.StatusCode)
		}
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return &RemoteError{Code: rpcResp.Error.Code, Message: rpcResp.Error.Message}
	}
	if out == nil || len(rpcResp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}

func urlPort(u *url.URL) int {
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			return n
		}
	}
	if u.Scheme == "https" {
		return 443
	}
	return 80
}
