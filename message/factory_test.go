package message_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/F45FW/fwsp-umf-message/config"
	"github.com/F45FW/fwsp-umf-message/message"
	"github.com/F45FW/fwsp-umf-message/metric"
	"github.com/F45FW/fwsp-umf-message/pkg/idgen"
	"github.com/F45FW/fwsp-umf-message/pkg/timestamp"
)

var fixedTime = time.Date(2023, 1, 15, 12, 30, 45, 123000000, time.UTC)

func testFactory(opts ...message.Option) *message.Factory {
	base := []message.Option{
		message.WithClock(timestamp.ClockFunc(func() time.Time { return fixedTime })),
		message.WithIDGenerator(&idgen.Sequence{IDs: []string{"long-id"}, ShortIDs: []string{"shortid"}}),
	}
	return message.NewFactory(append(base, opts...)...)
}

func TestNewFactory_Defaults(t *testing.T) {
	f := message.NewFactory()

	assert.Equal(t, config.DefaultVersion, f.Version())
	assert.Equal(t, message.Long, f.Form())
}

func TestFactory_CreateEmpty(t *testing.T) {
	m := message.Create(map[string]any{})

	assert.NotEmpty(t, m.MID())
	assert.NotEmpty(t, m.Timestamp())
	assert.Equal(t, config.DefaultVersion, m.Version())
	assert.False(t, m.Validate())

	_, err := uuid.Parse(m.MID())
	assert.NoError(t, err, "long form mid is a UUID")

	ts, err := m.Time()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, 5*time.Second)

	keys := m.Map()
	assert.Contains(t, keys, "mid")
	assert.Contains(t, keys, "timestamp")
	assert.Contains(t, keys, "version")
	assert.NotContains(t, keys, "from")
	assert.NotContains(t, keys, "to")
	assert.NotContains(t, keys, "body")
}

func TestFactory_CreateShortEmpty(t *testing.T) {
	m := message.CreateShort(nil)

	keys := m.Map()
	assert.Contains(t, keys, "mid")
	assert.Contains(t, keys, "ts")
	assert.Contains(t, keys, "ver")
	assert.NotContains(t, keys, "timestamp")
	assert.NotContains(t, keys, "version")
	assert.Equal(t, message.Short, m.Form())
	assert.Less(t, len(m.MID()), 36, "short form mid is a short ID")
}

func TestFactory_DefaultsAreDeterministic(t *testing.T) {
	f := testFactory(message.WithVersion("UMF/9.0.0"))

	long := f.CreateLong(nil)
	assert.Equal(t, "long-id", long.MID())
	assert.Equal(t, "2023-01-15T12:30:45.123Z", long.Timestamp())
	assert.Equal(t, "UMF/9.0.0", long.Version())

	short := f.CreateShort(nil)
	assert.Equal(t, "shortid", short.MID())
	assert.Equal(t, "2023-01-15T12:30:45.123Z", short.TS())
	assert.Equal(t, "UMF/9.0.0", short.Ver())
}

func TestFactory_OverridesWin(t *testing.T) {
	f := testFactory()

	tests := []struct {
		name      string
		form      message.Form
		overrides map[string]any
	}{
		{
			name: "long overrides",
			form: message.Long,
			overrides: map[string]any{
				"mid": "given", "timestamp": "2000-01-01T00:00:00.000Z", "version": "UMF/0.1",
			},
		},
		{
			name: "short overrides on long message",
			form: message.Long,
			overrides: map[string]any{
				"mid": "given", "ts": "2000-01-01T00:00:00.000Z", "ver": "UMF/0.1",
			},
		},
		{
			name: "long overrides on short message",
			form: message.Short,
			overrides: map[string]any{
				"mid": "given", "timestamp": "2000-01-01T00:00:00.000Z", "version": "UMF/0.1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := f.CreateForm(tt.form, tt.overrides)
			assert.Equal(t, "given", m.MID())
			assert.Equal(t, "2000-01-01T00:00:00.000Z", m.Timestamp())
			assert.Equal(t, "UMF/0.1", m.Version())
			assert.Len(t, m.Map(), 3, "no duplicate default under the other spelling")
		})
	}
}

func TestFactory_OverrideValuesVerbatim(t *testing.T) {
	f := testFactory()
	body := []any{1.0, "two"}

	m := f.Create(map[string]any{"to": "svc:/", "frm": "a:/", "bdy": body, "mid": 7})

	assert.Equal(t, body, m.Body())
	v, _ := m.Get("mid")
	assert.Equal(t, 7, v, "no coercion of supplied values")
}

func TestFactory_CreateThenValidate(t *testing.T) {
	f := testFactory()

	m := f.Create(map[string]any{
		"to":   "service:/",
		"from": "client:/",
		"body": map[string]any{},
	})
	assert.True(t, f.Validate(m))
	assert.Equal(t, m.From(), m.Frm())
	assert.Equal(t, m.Body(), m.Bdy())

	m = f.CreateShort(map[string]any{"to": "someservice:/", "frm": "tester", "bdy": map[string]any{"val": "some value"}})
	assert.True(t, f.Validate(m))
	long := f.ToLong(m)
	assert.Contains(t, long, "from")
	assert.Contains(t, long, "body")

	m = f.CreateLong(map[string]any{"to": "someservice:/", "from": "tester", "body": map[string]any{"val": "some value"}})
	short := f.ToShort(m)
	assert.Contains(t, short, "frm")
	assert.Contains(t, short, "bdy")
}

func TestFactory_ConfiguredShortForm(t *testing.T) {
	f := testFactory(message.WithForm(message.Short))

	m := f.Create(map[string]any{"to": "svc:/"})
	assert.Equal(t, message.Short, m.Form())
	assert.Contains(t, m.Map(), "ts")
}

func TestFactory_IDPassthrough(t *testing.T) {
	f := message.NewFactory()

	_, err := uuid.Parse(f.CreateMessageID())
	assert.NoError(t, err)
	assert.NotEmpty(t, f.CreateShortMessageID())
	assert.NotEqual(t, f.CreateShortMessageID(), f.CreateShortMessageID())
}

func TestFactory_Metrics(t *testing.T) {
	registry := metric.NewRegistry("umf")
	m := registry.Metrics()
	f := testFactory(message.WithMetrics(m))

	valid := f.CreateLong(map[string]any{"to": "svc:/", "from": "a:/", "body": 1})
	invalid := f.CreateShort(nil)
	f.Validate(valid)
	f.Validate(invalid)
	f.ToShort(valid)
	f.ToLong(invalid)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesCreated.WithLabelValues(metric.FormLong)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesCreated.WithLabelValues(metric.FormShort)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesValidated.WithLabelValues(metric.ResultValid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesValidated.WithLabelValues(metric.ResultInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesConverted.WithLabelValues(metric.DirectionToShort)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesConverted.WithLabelValues(metric.DirectionToLong)))
}

func TestFactory_ValidateLogsMissingFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := testFactory(message.WithLogger(logger))

	assert.False(t, f.Validate(f.Create(map[string]any{"to": "svc:/"})))
	assert.Contains(t, buf.String(), "failed validation")
	assert.Contains(t, buf.String(), "from")
	assert.Contains(t, buf.String(), "body")
}

func TestFactory_ConcurrentCreate(t *testing.T) {
	f := message.NewFactory()

	const n = 200
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := f.Create(map[string]any{"to": "svc:/", "from": "a:/", "body": 1})
			assert.True(t, m.Validate())
			ids <- m.MID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate mid %s", id)
		seen[id] = true
	}
}
