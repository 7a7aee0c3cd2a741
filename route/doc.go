// Package route parses the destination strings carried in a UMF message's
// "to" field.
//
// # Grammar
//
//	[<instance>[-<subID>]@]<serviceName>[:<port>]:[<VERB>]<apiRoute>
//
// Examples:
//
//	someservice:/                                     service "someservice", route "/"
//	fa1ae8d5...@test-service:[GET]/v1/somedata        instance "fa1ae8d5...", verb "get"
//	web-2@api:[delete]/v1/item/7                      instance "web", subID "2"
//	http://host:9000:/path                            service "http://host:9000", route "/path"
//
// The verb is always reported lower-case. Routes without a [VERB] segment
// report the parser's DefaultMethod, which comes from
// config.DefaultHTTPMethod ("post") unless the host configures otherwise;
// an empty default reports no verb at all.
//
// # Errors
//
// Parsing never panics and never returns a Go error directly. A malformed
// route, an unterminated "[" or an instance qualifier with nothing after the
// "@", sets Route.Error; Route.Err converts it to an invalid-class error.
package route
