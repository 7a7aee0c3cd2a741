package message

import (
	"log/slog"

	"github.com/F45FW/fwsp-umf-message/config"
	"github.com/F45FW/fwsp-umf-message/metric"
	"github.com/F45FW/fwsp-umf-message/pkg/idgen"
	"github.com/F45FW/fwsp-umf-message/pkg/timestamp"
)

// Factory builds UMF messages, filling mid, timestamp and version when the
// caller leaves them out.
//
// A Factory holds no per-message state and is safe for concurrent use as long
// as its Clock and Generator are.
//
// Construction using Functional Options:
//
//	// Defaults from config.Current()
//	f := NewFactory()
//
//	// Deterministic factory for tests
//	f := NewFactory(
//	    WithClock(timestamp.ClockFunc(func() time.Time { return fixed })),
//	    WithIDGenerator(&idgen.Sequence{IDs: []string{"mid-1"}}))
type Factory struct {
	clock   timestamp.Clock
	ids     idgen.Generator
	version string
	form    Form
	metrics *metric.Metrics
	logger  *slog.Logger
}

// Option is a functional option for configuring a Factory.
type Option func(*Factory)

// WithClock replaces the system clock.
func WithClock(clock timestamp.Clock) Option {
	return func(f *Factory) {
		f.clock = clock
	}
}

// WithIDGenerator replaces the default identifier generator.
func WithIDGenerator(ids idgen.Generator) Option {
	return func(f *Factory) {
		f.ids = ids
	}
}

// WithVersion overrides the configured version tag.
func WithVersion(version string) Option {
	return func(f *Factory) {
		f.version = version
	}
}

// WithForm overrides the configured vocabulary used by Create.
func WithForm(form Form) Option {
	return func(f *Factory) {
		f.form = form
	}
}

// WithMetrics enables Prometheus accounting.
func WithMetrics(m *metric.Metrics) Option {
	return func(f *Factory) {
		f.metrics = m
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

// NewFactory creates a Factory whose version tag and vocabulary come from
// config.Current() unless overridden.
func NewFactory(opts ...Option) *Factory {
	cfg := config.Current()

	f := &Factory{
		clock:   timestamp.SystemClock,
		ids:     idgen.Default,
		version: cfg.Version,
		form:    Long,
	}
	if cfg.ShortForm {
		f.form = Short
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// Form returns the vocabulary Create builds in.
func (f *Factory) Form() Form {
	return f.form
}

// Version returns the version tag stamped on new messages.
func (f *Factory) Version() string {
	return f.version
}

// Create builds a message in the factory's vocabulary.
func (f *Factory) Create(overrides map[string]any) *Message {
	return f.CreateForm(f.form, overrides)
}

// CreateLong builds a long-form message.
func (f *Factory) CreateLong(overrides map[string]any) *Message {
	return f.CreateForm(Long, overrides)
}

// CreateShort builds a short-form message. Its generated mid is a short ID.
func (f *Factory) CreateShort(overrides map[string]any) *Message {
	return f.CreateForm(Short, overrides)
}

// CreateForm builds a message in form from overrides. A value supplied under
// either spelling of a field is kept verbatim. Missing mid, timestamp and
// version are generated; every other field is present only if supplied.
// Required fields are not checked here; call Validate.
func (f *Factory) CreateForm(form Form, overrides map[string]any) *Message {
	m := FromMap(overrides, form)

	if _, ok := m.values[FieldMID]; !ok {
		if form == Short {
			m.put(FieldMID, f.ids.ShortID())
		} else {
			m.put(FieldMID, f.ids.MessageID())
		}
	}
	if _, ok := m.values[FieldTimestamp]; !ok {
		m.put(FieldTimestamp, f.clock.Now())
	}
	if _, ok := m.values[FieldVersion]; !ok {
		m.put(FieldVersion, f.version)
	}

	f.metrics.RecordMessageCreated(form.String())
	return m
}

// CreateMessageID returns a new long message identifier.
func (f *Factory) CreateMessageID() string {
	return f.ids.MessageID()
}

// CreateShortMessageID returns a new short message identifier.
func (f *Factory) CreateShortMessageID() string {
	return f.ids.ShortID()
}

// Validate checks m and records the outcome.
func (f *Factory) Validate(m *Message) bool {
	missing := m.Missing()
	valid := len(missing) == 0
	if !valid {
		f.logger.Debug("UMF message failed validation",
			"mid", m.MID(),
			"missing", missing)
	}
	f.metrics.RecordValidation(valid)
	return valid
}

// ToShort converts m to a short-form mapping and records the conversion.
func (f *Factory) ToShort(m *Message) map[string]any {
	f.metrics.RecordConversion(metric.DirectionToShort)
	return m.ToShort()
}

// ToLong converts m to a long-form mapping and records the conversion.
func (f *Factory) ToLong(m *Message) map[string]any {
	f.metrics.RecordConversion(metric.DirectionToLong)
	return m.ToLong()
}

// Create builds a message with a factory configured from config.Current().
func Create(overrides map[string]any) *Message {
	return NewFactory().Create(overrides)
}

// CreateShort builds a short-form message with a factory configured from
// config.Current().
func CreateShort(overrides map[string]any) *Message {
	return NewFactory().CreateShort(overrides)
}
