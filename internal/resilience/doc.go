// Package resilience groups the fault tolerance helpers used around outbound calls.
//
//   - circuitbreaker: sony/gobreaker presets for URL fetching and each summarization backend
//   - retry: exponential backoff with jitter, used only while connecting at startup
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.BackendConfig("bart"))
//	out, err := circuitbreaker.Run(cb, func() (string, error) {
//	    return callBackend(ctx)
//	})
//
//	err := retry.WithBackoff(ctx, retry.ConnectConfig("database"), func() error {
//	    return db.PingContext(ctx)
//	})
package resilience
