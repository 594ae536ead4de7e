package platform

import (
	"fmt"
	"sync"

	"github.com/cgast/droidsh/pkg/capability"
)

// Registry holds the console commands in registration order.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	commands map[string]Command
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command. Returns an error if a command with the same name
// is already registered.
func (r *Registry) Register(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := cmd.Name()
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command already registered: %s", name)
	}
	r.commands[name] = cmd
	r.order = append(r.order, name)
	return nil
}

// MustRegister registers every command and panics on a duplicate name.
// Intended for wiring static command sets at startup.
func (r *Registry) MustRegister(cmds ...Command) {
	for _, c := range cmds {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

// Resolve looks up a command by name.
func (r *Registry) Resolve(name string) (Command, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	if !ok {
		return nil, fmt.Errorf("command not found: %s", name)
	}
	return cmd, nil
}

// List returns all commands in registration order.
func (r *Registry) List() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, len(r.order))
	for i, name := range r.order {
		out[i] = r.commands[name]
	}
	return out
}

// Catalog describes the registered commands for capability filtering.
func (r *Registry) Catalog() capability.Catalog {
	cmds := r.List()
	catalog := make(capability.Catalog, len(cmds))
	for i, c := range cmds {
		catalog[i] = capability.Descriptor{
			Name:        c.Name(),
			Description: c.Description(),
			Requires:    c.RequiredCapabilities(),
		}
	}
	return catalog
}
