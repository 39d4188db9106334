// Package cache holds a process-wide TTL cache used for the game catalog
// and other slow upstream lookups.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	defaultTTL      = 10 * time.Minute
	cleanupInterval = 15 * time.Minute
)

var store = gocache.New(defaultTTL, cleanupInterval)

func Get(key string) (any, bool) {
	return store.Get(key)
}

func Set(key string, value any) {
	store.Set(key, value, gocache.DefaultExpiration)
}

func SetTTL(key string, value any, ttl time.Duration) {
	store.Set(key, value, ttl)
}

func Delete(key string) {
	store.Delete(key)
}

// Flush drops every cached entry. Used by admin refresh endpoints.
func Flush() {
	store.Flush()
}
