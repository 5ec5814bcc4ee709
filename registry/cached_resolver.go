/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is used when NewCachedResolver receives a non-positive size.
const DefaultCacheSize = 256

// generational is implemented by registries that can report changes.
type generational interface {
	Generation() uint64
}

type resolution struct {
	def Definition
	ok  bool
}

type cacheKey struct {
	name  string
	alias string
}

// CachedResolver memoizes Resolver results, misses included.
type CachedResolver struct {
	resolver *Resolver
	cache    *lru.Cache[cacheKey, resolution]

	mu         sync.Mutex
	generation uint64
}

// NewCachedResolver wraps a Resolver over reg with an LRU cache of the given size.
func NewCachedResolver(reg TypeRegistry, size int) (*CachedResolver, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, resolution](size)
	if err != nil {
		return nil, err
	}
	c := &CachedResolver{
		resolver: NewResolver(reg),
		cache:    cache,
	}
	if g, ok := reg.(generational); ok {
		c.generation = g.Generation()
	}
	return c, nil
}

// Resolve has the same semantics as Resolver.Resolve.
func (c *CachedResolver) Resolve(name, aliasTarget string) (Definition, bool) {
	c.invalidateIfChanged()

	key := cacheKey{name: name, alias: aliasTarget}
	if hit, ok := c.cache.Get(key); ok {
		return hit.def, hit.ok
	}
	def, ok := c.resolver.Resolve(name, aliasTarget)
	c.cache.Add(key, resolution{def: def, ok: ok})
	return def, ok
}

// Len returns the number of cached resolutions.
func (c *CachedResolver) Len() int {
	return c.cache.Len()
}

func (c *CachedResolver) invalidateIfChanged() {
	g, ok := c.resolver.Registry.(generational)
	if !ok {
		return
	}
	current := g.Generation()

	c.mu.Lock()
	defer c.mu.Unlock()
	if current != c.generation {
		c.cache.Purge()
		c.generation = current
	}
}
