// Package clientip resolves the caller's IP address for rate limiting and logs.
//
// Forwarded headers are spoofable, so a Resolver reads only the headers it is
// told to trust (for example X-Forwarded-For behind a load balancer) and
// otherwise falls back to the connection's RemoteAddr.
//
//	r.Use(clientip.Middleware(clientip.NewResolver(cfg.TrustedIPHeaders...)))
//	r.Use(ratelimiter.Middleware(bucket, clientip.FromRequest))
package clientip
