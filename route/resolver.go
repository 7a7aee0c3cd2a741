package route

import (
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/F45FW/fwsp-umf-message/config"
	"github.com/F45FW/fwsp-umf-message/errors"
	"github.com/F45FW/fwsp-umf-message/metric"
)

// Resolver parses route strings through a bounded LRU cache. Hosts that
// dispatch many messages to the same handful of destinations avoid
// re-parsing identical "to" strings. Parse results are pure functions of the
// input, so cached entries never go stale.
//
// Resolver is safe for concurrent use.
type Resolver struct {
	parser  Parser
	cache   *lru.Cache[string, Route]
	metrics *metric.Metrics
	logger  *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*resolverOptions)

type resolverOptions struct {
	parser    *Parser
	cacheSize *int
	metrics   *metric.Metrics
	logger    *slog.Logger
}

// WithParser replaces the parser built from config.Current().
func WithParser(p Parser) ResolverOption {
	return func(o *resolverOptions) {
		o.parser = &p
	}
}

// WithCacheSize overrides the configured cache size. Zero disables caching.
func WithCacheSize(size int) ResolverOption {
	return func(o *resolverOptions) {
		o.cacheSize = &size
	}
}

// WithMetrics enables Prometheus accounting.
func WithMetrics(m *metric.Metrics) ResolverOption {
	return func(o *resolverOptions) {
		o.metrics = m
	}
}

// WithLogger sets the logger used for parse failures.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(o *resolverOptions) {
		o.logger = logger
	}
}

// NewResolver creates a Resolver. Unset options come from config.Current().
func NewResolver(opts ...ResolverOption) (*Resolver, error) {
	cfg := config.Current()

	o := resolverOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Resolver{
		parser:  Parser{DefaultMethod: cfg.DefaultHTTPMethod},
		metrics: o.metrics,
		logger:  o.logger,
	}
	if o.parser != nil {
		r.parser = *o.parser
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	size := cfg.RouteCacheSize
	if o.cacheSize != nil {
		size = *o.cacheSize
	}
	if size < 0 {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "Resolver", "NewResolver", "negative cache size")
	}
	if size > 0 {
		cache, err := lru.New[string, Route](size)
		if err != nil {
			return nil, errors.WrapFatal(err, "Resolver", "NewResolver", "create route cache")
		}
		r.cache = cache
	}

	return r, nil
}

// Resolve parses to, serving repeated strings from the cache.
func (r *Resolver) Resolve(to string) Route {
	if r.cache != nil {
		if cached, ok := r.cache.Get(to); ok {
			r.metrics.RecordRouteCacheLookup(true)
			return cached
		}
		r.metrics.RecordRouteCacheLookup(false)
	}

	parsed := r.parser.Parse(to)
	r.metrics.RecordRouteParsed(parsed.Valid())
	if !parsed.Valid() {
		r.logger.Debug("UMF route rejected", "to", to, "error", parsed.Error)
	}

	if r.cache != nil {
		r.cache.Add(to, parsed)
	}
	return parsed
}

// Len returns the number of cached routes.
func (r *Resolver) Len() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.Len()
}

// Purge drops every cached route.
func (r *Resolver) Purge() {
	if r.cache != nil {
		r.cache.Purge()
	}
}
