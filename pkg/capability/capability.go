package capability

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownCommand is returned when a name is not in the catalog at all.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUnavailable is returned when the session lacks a required capability.
	ErrUnavailable = errors.New("command not supported by this session")
)

// Set is the immutable set of capability IDs a session registered.
type Set struct {
	ids map[string]struct{}
}

// NewSet builds a Set from capability IDs. Duplicates collapse.
func NewSet(ids ...string) Set {
	s := Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports whether id is present.
func (s Set) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of capabilities.
func (s Set) Len() int {
	return len(s.ids)
}

// IDs returns the capability IDs in sorted order.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Missing returns the IDs from required that are not present, in order.
func (s Set) Missing(required []string) []string {
	var missing []string
	for _, id := range required {
		if !s.Has(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// Descriptor describes one console command and what it needs from the agent.
type Descriptor struct {
	Name        string
	Description string
	Requires    []string
}

// Catalog is the static, ordered list of known commands.
type Catalog []Descriptor

// Lookup finds a descriptor by command name.
func (c Catalog) Lookup(name string) (Descriptor, bool) {
	for _, d := range c {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Enabled returns the commands whose every required capability is in live,
// keeping catalog order. It must be called on each listing or dispatch.
func Enabled(catalog Catalog, live Set) Catalog {
	out := make(Catalog, 0, len(catalog))
	for _, d := range catalog {
		if len(live.Missing(d.Requires)) == 0 {
			out = append(out, d)
		}
	}
	return out
}

// Check reports whether name may be dispatched against live. The error wraps
// ErrUnknownCommand or ErrUnavailable.
func Check(catalog Catalog, live Set, name string) error {
	d, ok := catalog.Lookup(name)
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownCommand)
	}
	if missing := live.Missing(d.Requires); len(missing) > 0 {
		return fmt.Errorf("%s (missing %v): %w", name, missing, ErrUnavailable)
	}
	return nil
}
