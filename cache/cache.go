// Package cache keeps objects that are expensive to build and never change
// once built, such as parsed level files. Callers that mutate what they get
// back must copy it first.
package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/blockfall/blockhint/config"
)

type cache struct {
	sync.Mutex
	objects map[string]any
}

// GlobalObjectCache is shared by every shell in the process.
var GlobalObjectCache *cache

func (c *cache) get(key string) (any, bool) {
	c.Lock()
	defer c.Unlock()
	obj, ok := c.objects[key]
	return obj, ok
}

func (c *cache) put(key string, obj any) {
	c.Lock()
	defer c.Unlock()
	c.objects[key] = obj
}

func (c *cache) evict(key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.objects, key)
}

func CreateGlobalObjectCache() {
	GlobalObjectCache = &cache{objects: make(map[string]any)}
}

// Load returns the object stored under key, building it with loader on a
// miss. Failed loads are not stored. Two callers missing the same key at
// once may both run loader; the last one wins.
func Load[T any](cfg *config.Config, key string, loader func(cfg *config.Config, key string) (T, error)) (T, error) {
	if GlobalObjectCache == nil {
		CreateGlobalObjectCache()
	}
	if obj, ok := GlobalObjectCache.get(key); ok {
		if t, ok := obj.(T); ok {
			log.Debug().Str("key", key).Msg("getting obj from cache")
			return t, nil
		}
	}
	log.Debug().Str("key", key).Msg("loading into cache")
	t, err := loader(cfg, key)
	if err != nil {
		var zero T
		return zero, err
	}
	GlobalObjectCache.put(key, t)
	return t, nil
}

// Evict drops key so the next Load builds it again.
func Evict(key string) {
	if GlobalObjectCache == nil {
		return
	}
	GlobalObjectCache.evict(key)
}
