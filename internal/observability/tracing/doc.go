// Package tracing provides OpenTelemetry tracing integration.
//
// Spans are created for every HTTP request (Middleware), for each OGP
// resolution and for each proxy attempt inside it. Setup installs the SDK
// provider when tracing is enabled; otherwise the global no-op provider
// is used.
//
//	shutdown, err := tracing.Setup(tracing.Config{Enabled: true, SampleRatio: 0.1})
//	if err != nil {
//	    return err
//	}
//	defer shutdown(context.Background())
package tracing
