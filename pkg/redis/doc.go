// Package redis connects to an optional Redis server.
//
// The gateway uses Redis only to share rate-limit buckets between replicas;
// with REDIS_URL unset everything stays in memory.
package redis
