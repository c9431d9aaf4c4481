package strategy

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownStrategy is returned when no strategy is registered under a name
var ErrUnknownStrategy = errors.New("unknown strategy")

// Factory builds a strategy from options
type Factory func(Options) Strategy

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

func init() {
	Register(NameBaseline, func(o Options) Strategy { return NewBaseline(o) })
	Register(NameGreedy, func(o Options) Strategy { return NewGreedy(o) })
	Register(NameRandom, func(o Options) Strategy { return NewRandom(o) })
}

// Register makes a strategy available by name. It panics if the name is
// taken or the factory is nil.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if f == nil {
		panic("strategy: Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("strategy: Register called twice for " + name)
	}
	registry[name] = f
}

// Lookup returns the factory registered under name
func Lookup(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// New builds the named strategy
func New(name string, opts Options) (Strategy, error) {
	f, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return f(opts), nil
}

// Names returns the registered names in sorted order
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
