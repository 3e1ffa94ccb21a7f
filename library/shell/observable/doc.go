// Package observable provides wrappers that instrument command and query handlers with metrics,
// tracing and logging while the handlers themselves stay free of observability concerns.
//
// The wrappers are applied explicitly at wiring time:
//
//	coreHandler := requestloan.NewCommandHandler(eventStore)
//
//	handler, err := observable.NewCommandWrapper[requestloan.Command](
//		coreHandler,
//		observable.WithCommandMetrics[requestloan.Command](metricsCollector),
//		observable.WithCommandTracing[requestloan.Command](tracingCollector),
//		observable.WithCommandContextualLogging[requestloan.Command](contextualLogger),
//	)
//
// Outcomes are reported with the statuses success, idempotent, rejected (business rule violation),
// concurrency_conflict (retries exhausted), canceled, timeout and error.
package observable
