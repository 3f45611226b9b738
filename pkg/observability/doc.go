/*
Package observability turns dispatcher lifecycle hooks into Prometheus metrics
and structured log lines.

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	hooks := observability.Chain(metrics.Hooks(), observability.LogHooks(logger))
	bot, err := insight.New(gen, insight.WithLifecycleHooks(hooks))
*/
package observability
