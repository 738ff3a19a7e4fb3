package commands

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry holds registered commands.
type Registry struct {
	mu    sync.RWMutex
	cmds  map[string]Command // primary names only
	index map[string]string  // name or alias -> primary name
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		cmds:  make(map[string]Command),
		index: make(map[string]string),
	}
}

// Register adds a command to the registry.
// Returns an error if the name or any alias is already taken.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{c.Name()}, c.Aliases()...)
	for _, n := range names {
		if owner, exists := r.index[n]; exists {
			return fmt.Errorf("command name %q already registered by %s", n, owner)
		}
	}

	r.cmds[c.Name()] = c
	for _, n := range names {
		r.index[n] = c.Name()
	}
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	primary, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.cmds[primary], true
}

// All returns all commands sorted by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, 0, len(r.cmds))
	for _, name := range slices.Sorted(maps.Keys(r.cmds)) {
		out = append(out, r.cmds[name])
	}
	return out
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
