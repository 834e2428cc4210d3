package cache

import "sync"

// Versions hands out a monotonically increasing version per key. A result
// computed under an older version has been superseded and must be dropped.
type Versions struct {
	mu sync.Mutex
	m  map[string]uint64
}

func NewVersions() *Versions {
	return &Versions{m: make(map[string]uint64)}
}

// Current returns the version of key without changing it.
func (v *Versions) Current(key string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.m[key]
}

// Bump advances key to a new version and returns it.
func (v *Versions) Bump(key string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.m[key]++
	return v.m[key]
}

// IsCurrent reports whether version is still the latest for key.
func (v *Versions) IsCurrent(key string, version uint64) bool {
	return v.Current(key) == version
}

// Guarded is an LRU whose entries can only be filled by the latest
// computation for their key: Invalidate bumps the key's version so that a
// computation started earlier cannot store its stale result.
type Guarded[T any] struct {
	lru      *LRUCache[T]
	versions *Versions
}

func NewGuarded[T any](lru *LRUCache[T]) *Guarded[T] {
	return &Guarded[T]{lru: lru, versions: NewVersions()}
}

func (g *Guarded[T]) Get(key string) (T, bool) {
	return g.lru.Get(key)
}

// Begin returns the version a computation for key must present to Store.
func (g *Guarded[T]) Begin(key string) uint64 {
	return g.versions.Current(key)
}

// Store saves data when version is still current and reports whether it did.
func (g *Guarded[T]) Store(key string, version uint64, data T) bool {
	// Holding the versions lock keeps an Invalidate from slipping in between
	// the check and the write.
	g.versions.mu.Lock()
	defer g.versions.mu.Unlock()
	if g.versions.m[key] != version {
		return false
	}
	g.lru.Set(key, data)
	return true
}

// Invalidate drops the entry for key and supersedes running computations.
func (g *Guarded[T]) Invalidate(key string) {
	g.versions.mu.Lock()
	defer g.versions.mu.Unlock()
	g.versions.m[key]++
	g.lru.Delete(key)
}

func (g *Guarded[T]) CleanExpired() int {
	return g.lru.CleanExpired()
}

func (g *Guarded[T]) Size() int {
	return g.lru.Size()
}
