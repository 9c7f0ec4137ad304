// Package resilience provides reliability and fault tolerance patterns for the application.
// It includes implementations of circuit breakers and retry logic used around
// every outbound call the service makes.
//
// The package supports:
//   - Circuit breakers for each CORS proxy endpoint and for the spreadsheet backend
//   - Retry logic with exponential backoff and jitter for idempotent backend reads
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.ProxyConfig("allorigins"))
//	body, err := circuitbreaker.Do(cb, func() (string, error) {
//	    return fetchThroughProxy(ctx, target)
//	})
//
//	err := retry.WithBackoff(ctx, retry.SpreadsheetConfig(), func() error {
//	    return loadCatalog()
//	})
package resilience
