package route

import (
	"fmt"
	"strings"

	"github.com/F45FW/fwsp-umf-message/config"
	"github.com/F45FW/fwsp-umf-message/errors"
)

// Parse failure descriptions reported in Route.Error.
const (
	ErrTextBadVerb       = "route field has ill-formed HTTP method verb in segment"
	ErrTextNoRouteTarget = "route field has invalid number of routable segments"
)

// Route is the parsed form of a UMF "to" string:
//
//	[<instance>[-<subID>]@]<serviceName>[:<port>]:[<VERB>]<apiRoute>
//
// SubID is everything after the first '-' of the instance qualifier, so
// "a-b-c@svc:/" has Instance "a" and SubID "b-c".
//
// When Error is set the other fields are best effort and must not be used
// for dispatch.
type Route struct {
	Instance    string `json:"instance"`
	SubID       string `json:"subID"`
	ServiceName string `json:"serviceName"`
	HTTPMethod  string `json:"httpMethod,omitempty"`
	APIRoute    string `json:"apiRoute"`
	Error       string `json:"error,omitempty"`
}

// Valid reports whether the route parsed without error.
func (r Route) Valid() bool {
	return r.Error == ""
}

// Err returns the parse failure as an invalid-class error wrapping
// errors.ErrInvalidRoute, or nil.
func (r Route) Err() error {
	if r.Error == "" {
		return nil
	}
	return errors.WrapInvalid(fmt.Errorf("%w: %s", errors.ErrInvalidRoute, r.Error), "Route", "Parse", "parse route")
}

// Targeted reports whether the route names a specific service instance.
func (r Route) Targeted() bool {
	return r.Instance != ""
}

// String renders the route back into a "to" string. A method is always
// written as an upper-case [VERB] segment, so a route parsed without a
// bracket but with a default method renders with one.
func (r Route) String() string {
	var b strings.Builder
	if r.Instance != "" {
		b.WriteString(r.Instance)
		if r.SubID != "" {
			b.WriteByte('-')
			b.WriteString(r.SubID)
		}
		b.WriteByte('@')
	}
	b.WriteString(r.ServiceName)
	b.WriteByte(':')
	if r.HTTPMethod != "" {
		b.WriteByte('[')
		b.WriteString(strings.ToUpper(r.HTTPMethod))
		b.WriteByte(']')
	}
	b.WriteString(r.APIRoute)
	return b.String()
}

// Parser parses route strings. The zero value reports no method for routes
// without a [VERB] segment.
type Parser struct {
	// DefaultMethod is reported when the route has no [VERB] segment, and
	// when the verb segment is malformed.
	DefaultMethod string
}

// NewParser returns a Parser using the default method from config.Current().
func NewParser() Parser {
	return Parser{DefaultMethod: config.Current().DefaultHTTPMethod}
}

// Parse parses a route string with the default method from config.Current().
func Parse(to string) Route {
	return NewParser().Parse(to)
}

// Parse decomposes a route string. It never fails outright: malformed input
// is reported through Route.Error.
func (p Parser) Parse(to string) Route {
	r := Route{HTTPMethod: p.DefaultMethod}

	target := to
	if qualifier, rest, found := strings.Cut(to, "@"); found {
		r.Instance, r.SubID, _ = strings.Cut(qualifier, "-")
		target = rest
		if target == "" {
			r.Error = ErrTextNoRouteTarget
			return r
		}
	}

	segments := strings.Split(target, ":")
	service := segments[0]
	rest := segments[1:]

	// Service identifiers that are URLs carry their own colons:
	// http://host[:port]
	if strings.HasPrefix(service, "http") && len(rest) > 0 {
		service += ":" + rest[0]
		rest = rest[1:]
		if len(rest) > 0 && isPort(rest[0]) {
			service += ":" + rest[0]
			rest = rest[1:]
		}
	}

	r.ServiceName = service
	r.APIRoute = strings.Join(rest, ":")

	if strings.HasPrefix(r.APIRoute, "[") {
		closeAt := strings.IndexByte(r.APIRoute, ']')
		if closeAt < 0 {
			r.Error = ErrTextBadVerb
			return r
		}
		if verb := r.APIRoute[1:closeAt]; verb != "" {
			r.HTTPMethod = strings.ToLower(verb)
		}
		r.APIRoute = r.APIRoute[closeAt+1:]
	}

	return r
}

func isPort(s string) bool {
	if s == "" || len(s) > 5 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
