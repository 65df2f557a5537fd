// Package webhook sends JSON webhooks.
//
// Delivery is at most once: Send makes a single POST and reports the outcome.
// Callers that need best-effort semantics run Send in a goroutine and log the
// error. Optional features are a static auth header (WithHeader), HMAC
// signing (WithSignature) and a circuit breaker that short-circuits calls to
// a destination that keeps failing (WithCircuitBreaker).
//
//	cb := webhook.NewCircuitBreaker(5, 1, 30*time.Second)
//	err := webhook.NewSender().Send(ctx, url, event,
//		webhook.WithHeader("x-webhook-token", token),
//		webhook.WithCircuitBreaker(cb),
//	)
package webhook
