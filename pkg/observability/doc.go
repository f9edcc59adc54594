/*
Package observability turns engine lifecycle hooks into Prometheus metrics and structured logs.

Both outputs are plain domain.LifecycleHooks and can be merged:

	metrics := observability.NewMetrics()
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
	eng, _ := randomart.New(randomart.WithLifecycleHooks(hooks))
	http.Handle("/metrics", metrics.Handler())
*/
package observability
