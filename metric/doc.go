// Package metric exposes Prometheus counters for UMF message handling.
//
// A Registry owns a private prometheus.Registry with the core Metrics already
// registered:
//
//	<ns>_messages_created_total{form}
//	<ns>_messages_validated_total{result}
//	<ns>_messages_converted_total{direction}
//	<ns>_messages_encoded_total{operation,status}
//	<ns>_routes_parsed_total{status}
//	<ns>_routes_cache_lookups_total{result}
//
// Pass Registry.Metrics() to message.NewFactory and route.NewResolver via
// their WithMetrics options. Components treat a nil *Metrics as "metrics
// disabled".
package metric
