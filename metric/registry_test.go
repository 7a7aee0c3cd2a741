package metric

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	umferrors "github.com/F45FW/fwsp-umf-message/errors"
)

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry("umf")

	require.NotNil(t, registry.PrometheusRegistry())
	require.NotNil(t, registry.Metrics())

	registry.Metrics().RecordMessageCreated(FormLong)

	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["umf_messages_created_total"])
}

func TestMetrics_Record(t *testing.T) {
	m := NewRegistry("umf").Metrics()

	m.RecordMessageCreated(FormLong)
	m.RecordMessageCreated(FormShort)
	m.RecordMessageCreated(FormShort)
	m.RecordValidation(true)
	m.RecordValidation(false)
	m.RecordValidation(false)
	m.RecordConversion(DirectionToShort)
	m.RecordEncoding("marshal", nil)
	m.RecordEncoding("unmarshal", errors.New("bad json"))
	m.RecordRouteParsed(true)
	m.RecordRouteParsed(false)
	m.RecordRouteCacheLookup(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesCreated.WithLabelValues(FormLong)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesCreated.WithLabelValues(FormShort)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesValidated.WithLabelValues(ResultValid)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesValidated.WithLabelValues(ResultInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesConverted.WithLabelValues(DirectionToShort)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesEncoded.WithLabelValues("marshal", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesEncoded.WithLabelValues("unmarshal", StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RoutesParsed.WithLabelValues(StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RoutesParsed.WithLabelValues(StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RouteCacheLookups.WithLabelValues(CacheHit)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordMessageCreated(FormLong)
		m.RecordValidation(true)
		m.RecordConversion(DirectionToLong)
		m.RecordEncoding("marshal", nil)
		m.RecordRouteParsed(false)
		m.RecordRouteCacheLookup(false)
	})
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry("umf")

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "host_frames_total",
		Help: "Frames seen by the host",
	})

	require.NoError(t, registry.Register("host", "frames", counter))

	err := registry.Register("host", "frames", counter)
	require.Error(t, err)
	assert.True(t, umferrors.IsInvalid(err))
	assert.True(t, errors.Is(err, umferrors.ErrAlreadyRegistered))

	assert.True(t, registry.Unregister("host", "frames"))
	assert.False(t, registry.Unregister("host", "frames"))
}

func TestRegistry_RegisterPrometheusConflict(t *testing.T) {
	registry := NewRegistry("umf")

	first := prometheus.NewCounter(prometheus.CounterOpts{Name: "dup_total", Help: "dup"})
	second := prometheus.NewCounter(prometheus.CounterOpts{Name: "dup_total", Help: "dup"})

	require.NoError(t, registry.Register("a", "dup", first))
	err := registry.Register("b", "dup", second)
	require.Error(t, err)
	assert.True(t, umferrors.IsInvalid(err))
}

func TestRegistry_ConcurrentRegister(t *testing.T) {
	registry := NewRegistry("umf")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := prometheus.NewCounter(prometheus.CounterOpts{
				Name: "concurrent_total",
				Help: "concurrent",
				ConstLabels: prometheus.Labels{
					"worker": string(rune('a' + i)),
				},
			})
			assert.NoError(t, registry.Register("worker", string(rune('a'+i)), c))
		}(i)
	}
	wg.Wait()
}

func TestRegistry_Handler(t *testing.T) {
	registry := NewRegistry("hydra")
	registry.Metrics().RecordRouteParsed(true)

	rec := httptest.NewRecorder()
	registry.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hydra_routes_parsed_total")
}
