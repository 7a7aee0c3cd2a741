package natsumf

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/F45FW/fwsp-umf-message/errors"
	"github.com/F45FW/fwsp-umf-message/message"
	"github.com/F45FW/fwsp-umf-message/route"
)

// Header names set on encoded messages.
const (
	HeaderVersion = "Umf-Version"
	HeaderForm    = "Umf-Form"
)

const (
	// DefaultPrefix is the first subject token.
	DefaultPrefix = "umf"

	// DefaultHandlerTimeout bounds each Handler callback.
	DefaultHandlerTimeout = 30 * time.Second
)

// Subject maps a parsed route to a NATS subject under DefaultPrefix.
func Subject(r route.Route) string {
	return subjectFor(DefaultPrefix, r)
}

func subjectFor(prefix string, r route.Route) string {
	subject := prefix + "." + token(r.ServiceName)
	if r.Instance != "" {
		subject += "." + token(r.Instance)
	}
	return subject
}

// token turns s into a single NATS subject token.
func token(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
			return c
		default:
			return '_'
		}
	}, s)
}

// Codec converts between message.Message and *nats.Msg.
type Codec struct {
	prefix   string
	factory  *message.Factory
	resolver *route.Resolver
	logger   *slog.Logger
	timeout  time.Duration
}

// Option configures a Codec.
type Option func(*Codec)

// WithPrefix sets the first subject token.
func WithPrefix(prefix string) Option {
	return func(c *Codec) {
		c.prefix = prefix
	}
}

// WithFactory sets the factory used for JSON encoding, which carries the
// metrics and logger for encode and decode outcomes.
func WithFactory(f *message.Factory) Option {
	return func(c *Codec) {
		c.factory = f
	}
}

// WithResolver sets the resolver used to parse "to" routes.
func WithResolver(r *route.Resolver) Option {
	return func(c *Codec) {
		c.resolver = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Codec) {
		c.logger = logger
	}
}

// WithHandlerTimeout bounds each Handler callback. Zero disables the bound.
func WithHandlerTimeout(d time.Duration) Option {
	return func(c *Codec) {
		c.timeout = d
	}
}

// NewCodec creates a Codec. Unset dependencies are built from
// config.Current().
func NewCodec(opts ...Option) (*Codec, error) {
	c := &Codec{
		prefix:  DefaultPrefix,
		timeout: DefaultHandlerTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.prefix == "" || token(c.prefix) != c.prefix {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "Codec", "NewCodec", "validate subject prefix "+c.prefix)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.factory == nil {
		c.factory = message.NewFactory(message.WithLogger(c.logger))
	}
	if c.resolver == nil {
		r, err := route.NewResolver(route.WithLogger(c.logger))
		if err != nil {
			return nil, errors.Wrap(err, "Codec", "NewCodec", "create route resolver")
		}
		c.resolver = r
	}
	return c, nil
}

// Subject resolves to and returns its subject. Malformed routes and routes
// without a service name are invalid.
func (c *Codec) Subject(to string) (string, error) {
	r := c.resolver.Resolve(to)
	if err := r.Err(); err != nil {
		return "", err
	}
	if r.ServiceName == "" {
		return "", errors.WrapInvalid(errors.ErrInvalidRoute, "Codec", "Subject", "resolve service for "+to)
	}
	return subjectFor(c.prefix, r), nil
}

// Encode validates m and wraps it in a NATS message addressed by its route.
func (c *Codec) Encode(m *message.Message) (*nats.Msg, error) {
	if err := m.Check(); err != nil {
		return nil, err
	}

	subject, err := c.Subject(m.To())
	if err != nil {
		return nil, err
	}

	data, err := c.factory.Marshal(m)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Codec", "Encode", "marshal message")
	}

	nm := nats.NewMsg(subject)
	nm.Data = data
	if mid := m.MID(); mid != "" {
		nm.Header.Set(nats.MsgIdHdr, mid)
	}
	if version := m.Version(); version != "" {
		nm.Header.Set(HeaderVersion, version)
	}
	nm.Header.Set(HeaderForm, m.Form().String())
	return nm, nil
}

// Decode parses and validates the UMF message carried by nm.
func (c *Codec) Decode(nm *nats.Msg) (*message.Message, error) {
	if nm == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "Codec", "Decode", "read nil message")
	}

	m, err := c.factory.Unmarshal(nm.Data)
	if err != nil {
		return nil, err
	}
	if err := m.Check(); err != nil {
		return nil, err
	}

	if mid := nm.Header.Get(nats.MsgIdHdr); mid != "" && m.MID() != "" && mid != m.MID() {
		c.logger.Warn("UMF message id differs from NATS header",
			"subject", nm.Subject, "header", mid, "mid", m.MID())
	}
	return m, nil
}

// Handler adapts fn into a nats.MsgHandler. Messages that fail to decode are
// logged and dropped, as are messages arriving after ctx is done. Each call
// gets a context derived from ctx, bounded by the handler timeout. Handler
// failures are logged with their error class; transient ones at warn level.
func (c *Codec) Handler(ctx context.Context, fn func(context.Context, *message.Message) error) nats.MsgHandler {
	return func(nm *nats.Msg) {
		if nm == nil {
			return
		}
		m, err := c.Decode(nm)
		if err != nil {
			c.logger.Warn("Dropping undecodable UMF message", "subject", nm.Subject, "error", err)
			return
		}

		msgCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			msgCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		if err := msgCtx.Err(); err != nil {
			c.logger.Warn("Dropping UMF message, handler context done",
				"subject", nm.Subject, "mid", m.MID(),
				"error", errors.WrapTransient(err, "Codec", "Handler", "dispatch message"))
			return
		}

		if err := fn(msgCtx, m); err != nil {
			level := slog.LevelError
			if errors.IsTransient(err) {
				level = slog.LevelWarn
			}
			c.logger.Log(msgCtx, level, "UMF message handler failed",
				"subject", nm.Subject, "mid", m.MID(),
				"class", errors.Classify(err).String(), "error", err)
		}
	}
}
