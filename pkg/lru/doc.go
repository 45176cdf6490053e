// Package lru provides a small, thread-safe, generic LRU cache.
//
// The cache evicts the least recently used entry once it reaches its fixed
// capacity, which makes it suitable for memoizing derived values whose source
// set is unbounded — for example compiled rule programs keyed by rule source.
//
//	cache := lru.New[string, *vm.Program](256)
//	if prog, ok := cache.Get(rule); ok { ... }
//	cache.Put(rule, prog)
//
// Get, Put and Remove are O(1). All methods are safe for concurrent use.
package lru
