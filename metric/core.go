package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Label values shared by the message and route packages.
const (
	FormLong  = "long"
	FormShort = "short"

	ResultValid   = "valid"
	ResultInvalid = "invalid"

	DirectionToShort = "to_short"
	DirectionToLong  = "to_long"

	StatusOK    = "ok"
	StatusError = "error"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics contains the UMF library metrics.
//
// All Record methods are safe on a nil *Metrics, so components can carry an
// optional metrics pointer without guarding every call site.
type Metrics struct {
	MessagesCreated   *prometheus.CounterVec
	MessagesValidated *prometheus.CounterVec
	MessagesConverted *prometheus.CounterVec
	MessagesEncoded   *prometheus.CounterVec
	RoutesParsed      *prometheus.CounterVec
	RouteCacheLookups *prometheus.CounterVec
}

// NewMetrics creates the metric vectors under the given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		MessagesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "messages",
				Name:      "created_total",
				Help:      "Total number of UMF messages constructed",
			},
			[]string{"form"},
		),

		MessagesValidated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "messages",
				Name:      "validated_total",
				Help:      "Total number of UMF message validations by result",
			},
			[]string{"result"},
		),

		MessagesConverted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "messages",
				Name:      "converted_total",
				Help:      "Total number of long/short form conversions",
			},
			[]string{"direction"},
		),

		MessagesEncoded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "messages",
				Name:      "encoded_total",
				Help:      "Total number of wire encode/decode operations",
			},
			[]string{"operation", "status"},
		),

		RoutesParsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "routes",
				Name:      "parsed_total",
				Help:      "Total number of route strings parsed",
			},
			[]string{"status"},
		),

		RouteCacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "routes",
				Name:      "cache_lookups_total",
				Help:      "Route cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// Collectors returns every collector in m for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.MessagesCreated,
		m.MessagesValidated,
		m.MessagesConverted,
		m.MessagesEncoded,
		m.RoutesParsed,
		m.RouteCacheLookups,
	}
}

// RecordMessageCreated increments the construction counter for a vocabulary.
func (m *Metrics) RecordMessageCreated(form string) {
	if m == nil {
		return
	}
	m.MessagesCreated.WithLabelValues(form).Inc()
}

// RecordValidation increments the validation counter.
func (m *Metrics) RecordValidation(valid bool) {
	if m == nil {
		return
	}
	result := ResultInvalid
	if valid {
		result = ResultValid
	}
	m.MessagesValidated.WithLabelValues(result).Inc()
}

// RecordConversion increments the conversion counter for a direction.
func (m *Metrics) RecordConversion(direction string) {
	if m == nil {
		return
	}
	m.MessagesConverted.WithLabelValues(direction).Inc()
}

// RecordEncoding increments the encode/decode counter.
func (m *Metrics) RecordEncoding(operation string, err error) {
	if m == nil {
		return
	}
	m.MessagesEncoded.WithLabelValues(operation, status(err == nil)).Inc()
}

// RecordRouteParsed increments the route parse counter.
func (m *Metrics) RecordRouteParsed(ok bool) {
	if m == nil {
		return
	}
	m.RoutesParsed.WithLabelValues(status(ok)).Inc()
}

// RecordRouteCacheLookup increments the route cache counter.
func (m *Metrics) RecordRouteCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.RouteCacheLookups.WithLabelValues(result).Inc()
}

func status(ok bool) string {
	if ok {
		return StatusOK
	}
	return StatusError
}
