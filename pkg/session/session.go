// Package session defines what the console needs from a connected agent: a
// synchronous capability-keyed call and read-only metadata about the remote
// end. Transports implement both.
package session

import (
	"context"
	"fmt"

	"github.com/cgast/droidsh/pkg/capability"
)

// Info describes the remote end of a session.
type Info struct {
	Address string
	Port    int
	OS      string
}

func (i Info) String() string {
	return fmt.Sprintf("%s:%d (%s)", i.Address, i.Port, i.OS)
}

// Invoker performs one capability call. params is encoded by the transport;
// the result is decoded into out when out is non-nil.
type Invoker interface {
	Invoke(ctx context.Context, capability string, params any, out any) error
}

// Metadata exposes what the agent advertised at connect time. Values do not
// change for the lifetime of a session.
type Metadata interface {
	Info() Info
	Capabilities() capability.Set
	CollectActions() []string
	CollectTypes() []string
}

// Session is a connected agent.
type Session interface {
	Invoker
	Metadata
}

// RemoteError is a failure reported by the agent itself.
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("agent error %d: %s", e.Code, e.Message)
}
