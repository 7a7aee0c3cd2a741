// Package umf is the root of the UMF (Universal Message Format) library.
//
// UMF is a JSON envelope for service-to-service messages. Every message
// carries a destination route, a sender route and a body, plus optional
// identifiers and metadata. The same envelope can be written with long keys
// (from, body, timestamp, version, forward) or short keys (frm, bdy, ts, ver,
// for).
//
// # Packages
//
//   - message: the envelope, its dual-vocabulary accessors, construction with
//     generated mid/timestamp/version, validation, conversion and JSON codec
//   - route: parser and cached resolver for the "to" grammar
//     [instance[-subID]@]service[:port]:[VERB]apiRoute
//   - config: library configuration (version tag, default vocabulary,
//     default HTTP verb, route cache size, metrics namespace)
//   - errors: classified errors shared by every package
//   - metric: Prometheus counters and registry
//   - natsumf: carries envelopes inside NATS messages without opening a
//     connection
//   - pkg/timestamp, pkg/idgen: clocks and identifier generators
//
// The message and route packages do not depend on each other; a message's
// "to" value is handed to the route parser by the caller.
//
// # Out of scope
//
// Delivery, transport, persistence and interpretation of body payloads are
// left to the host.
package umf
