// Package ttlcache provides a generic in-memory store whose entries expire a
// fixed time after insertion.
//
// # Expiry
//
// An entry is present if and only if less than the TTL has elapsed since it
// was last Set. Get checks the age of the entry itself, so an expired entry is
// never returned even if the background sweep has not run yet. The sweep,
// which runs every sweep interval (ttl/2 by default, capped at 30s), only
// reclaims memory.
//
// # Single-use payloads
//
// Take removes and returns an entry under one lock, so a payload stored for a
// two-step interaction can be consumed at most once even when the second step
// is delivered twice.
//
// # Usage
//
//	cache := ttlcache.New[Extract](5*time.Minute, ttlcache.WithSweepInterval(time.Minute))
//	defer cache.Destroy()
//
//	cache.Set(interactionID, extract)
//	if extract, ok := cache.Take(interactionID); ok {
//	    // ...
//	}
//
// Destroy stops the sweep goroutine and clears the store; the cache ignores
// writes afterwards.
package ttlcache
