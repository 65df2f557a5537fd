// Package ratelimiter implements token bucket rate limiting.
//
// A Bucket pairs a Config (capacity, refill rate and interval) with a Store.
// MemoryStore keeps buckets in process; RedisStore keeps them in Redis with a
// Lua script so several gateway replicas share one budget per key.
//
//	bucket, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
//		Capacity:       100,
//		RefillRate:     100,
//		RefillInterval: time.Minute,
//	})
//	r.Use(ratelimiter.Middleware(bucket, clientip.GetIP))
//
// A request is allowed when Result.Remaining is not negative. Denied requests
// do not consume tokens.
package ratelimiter
