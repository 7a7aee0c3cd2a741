// Package natsumf carries UMF messages inside NATS messages.
//
// The adapter is pure: it builds and reads *nats.Msg values and never opens
// a connection. Hosts publish the result with their own *nats.Conn:
//
//	codec, err := natsumf.NewCodec()
//	if err != nil {
//	    return err
//	}
//	nm, err := codec.Encode(msg)
//	if err != nil {
//	    return err
//	}
//	return conn.PublishMsg(nm)
//
// # Subjects
//
// The subject is derived from the message's "to" route:
//
//	<prefix>.<service>            untargeted routes
//	<prefix>.<service>.<instance> routes naming an instance
//
// Characters NATS treats specially ('.', '*', '>', whitespace) and anything
// outside [A-Za-z0-9_-] are replaced with '_', so "http://host:9000" becomes
// the single token "http___host_9000".
//
// # Headers
//
// The message id is written to the Nats-Msg-Id header so JetStream can
// de-duplicate redelivered envelopes. The UMF version and the key vocabulary
// travel in Umf-Version and Umf-Form.
package natsumf
