package noise

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrUnknownField = errors.New("noise: unknown field kind")

const DefaultKind = "perlin"

var (
	mu     sync.RWMutex
	fields = map[string]func(seed int64) Field{
		"perlin":  func(seed int64) Field { return NewPerlin(seed) },
		"simplex": func(seed int64) Field { return NewSimplex(seed) },
	}
)

// New builds the field registered under kind. An empty kind selects DefaultKind.
func New(kind string, seed int64) (Field, error) {
	if kind == "" {
		kind = DefaultKind
	}
	mu.RLock()
	fn, ok := fields[kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownField, kind, Kinds())
	}
	return fn(seed), nil
}

// Register adds or replaces a field constructor under kind. It is safe to
// call while other goroutines build worlds; worlds already built keep the
// field they were given.
func Register(kind string, fn func(seed int64) Field) {
	mu.Lock()
	defer mu.Unlock()
	fields[kind] = fn
}

func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
