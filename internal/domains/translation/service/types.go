package service

import (
	"context"
	"sync"

	"events-backend/pkg/cache"

	"github.com/rs/zerolog/log"
)

// TypeRegistry holds the set of event types eligible for translation.
//
// The set starts from the built-in defaults and is extended through Register
// hooks during container build. It is computed lazily, and only persisted to
// the shared cache once Seal has been called: persisting earlier would lock
// in a value before every extension had a chance to register.
type TypeRegistry struct {
	mu     sync.Mutex
	cache  cache.Cache
	hooks  []func([]string) []string
	sealed bool
}

const typesCacheKey = "events:translated-types"

func NewTypeRegistry(c cache.Cache) *TypeRegistry {
	return &TypeRegistry{cache: c}
}

// Register adds a hook that may extend or override the type list. Hooks must
// be registered before Seal.
func (r *TypeRegistry) Register(hook func(types []string) []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
}

// Seal marks registration as complete. From here on the computed set may be
// cached process-wide.
func (r *TypeRegistry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Types returns the translated type names as a set.
func (r *TypeRegistry) Types(ctx context.Context) map[string]struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	var cached []string
	found, err := r.cache.Get(ctx, typesCacheKey, &cached)
	if err != nil {
		log.Warn().Err(err).Msg("translated types cache read failed")
	} else if found {
		return asSet(cached)
	}

	types := []string{"event", "conference", "seminar"}
	for _, hook := range r.hooks {
		types = hook(types)
	}

	if r.sealed {
		if err := r.cache.Set(ctx, typesCacheKey, types, 0); err != nil {
			log.Warn().Err(err).Msg("translated types cache write failed")
		}
	}

	return asSet(types)
}

// IsTranslated reports whether events of the given type carry a language.
func (r *TypeRegistry) IsTranslated(ctx context.Context, eventType string) bool {
	_, ok := r.Types(ctx)[eventType]
	return ok
}

func asSet(types []string) map[string]struct{} {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}
