// Package config holds the process-wide settings of the UMF library.
//
// A host process builds a Config once at startup, either from Default() or
// from a JSON/YAML file via Load, and installs it with Init. Message
// factories and route parsers created afterwards read Current() instead of
// compiled-in literals, so bumping the UMF version tag or changing the
// default HTTP verb is a configuration change.
//
// Example configuration (YAML):
//
//	version: UMF/1.4.2
//	short_form: false
//	default_http_method: post
//	route_cache_size: 1024
//	metrics_namespace: umf
//
// Setting default_http_method to an empty string makes the route parser
// report no verb when a route has no [VERB] segment, instead of "post".
//
// The package reads no environment variables.
package config
