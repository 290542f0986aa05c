package interceptor

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anoideaopen/proxy/core/invocation"
	"github.com/anoideaopen/proxy/core/telemetry"
	"github.com/anoideaopen/proxy/core/typeinfo"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func failing(err error) Handler {
	return HandlerFunc(func(*invocation.Invocation) ([]any, error) {
		return nil, err
	})
}

func TestLogging(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	chain := NewChain(Logging(logrus.NewEntry(log))).Then(Proceed())
	_, err := chain.Invoke(newSumInvocation(1, 2))
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "invoking proxy member", entries[0].Message)
	assert.Equal(t, "Sum(int,int)", entries[0].Data["member"])
	assert.Equal(t, "billing.Calculator", entries[0].Data["type"])
	assert.Equal(t, 2, entries[0].Data["args"])
	assert.Equal(t, "proxy member returned", entries[1].Message)
	assert.Equal(t, entries[0].Data["call_id"], entries[1].Data["call_id"])

	hook.Reset()

	errBoom := errors.New("boom")
	_, err = NewChain(Logging(logrus.NewEntry(log))).Then(failing(errBoom)).Invoke(newSumInvocation(1, 2))
	require.ErrorIs(t, err, errBoom)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.WarnLevel, last.Level)
	assert.Equal(t, errBoom, last.Data[logrus.ErrorKey])
}

func TestTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	var inner trace.SpanContext
	chain := NewChain(Tracing(tracer)).Then(HandlerFunc(func(inv *invocation.Invocation) ([]any, error) {
		inner = trace.SpanContextFromContext(inv.Context())
		return inv.Proceed()
	}))

	_, err := chain.Invoke(newSumInvocation(1, 2))
	require.NoError(t, err)

	errBoom := errors.New("boom")
	_, err = NewChain(Tracing(tracer)).Then(failing(errBoom)).Invoke(newSumInvocation(1, 2))
	require.ErrorIs(t, err, errBoom)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "billing.Calculator/Sum", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, spans[0].SpanContext().SpanID(), inner.SpanID())
	assert.Contains(t, spans[0].Attributes(), telemetry.KeyMember.String("Sum(int,int)"))

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}

func TestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := Metrics(provider.Meter("test"))
	require.NoError(t, err)

	ok := NewChain(metrics).Then(Proceed())
	bad := NewChain(metrics).Then(failing(errors.New("boom")))

	for range 3 {
		_, err = ok.Invoke(newSumInvocation(1, 2))
		require.NoError(t, err)
	}
	_, err = bad.Invoke(newSumInvocation(1, 2))
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := make(map[string]metricdata.Metrics)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	calls, found := byName[MetricCalls].Data.(metricdata.Sum[int64])
	require.True(t, found)

	counts := make(map[bool]int64)
	for _, dp := range calls.DataPoints {
		failed, _ := dp.Attributes.Value(telemetry.KeyFailed)
		counts[failed.AsBool()] = dp.Value
		member, _ := dp.Attributes.Value(telemetry.KeyMember)
		assert.Equal(t, attribute.StringValue("Sum(int,int)"), member)
	}
	assert.Equal(t, map[bool]int64{false: 3, true: 1}, counts)

	duration, found := byName[MetricDuration].Data.(metricdata.Histogram[float64])
	require.True(t, found)
	total := uint64(0)
	for _, dp := range duration.DataPoints {
		total += dp.Count
	}
	assert.Equal(t, uint64(4), total)
}

func TestGuard(t *testing.T) {
	errNegative := errors.New("negative argument")
	guard := Guard(func(inv *invocation.Invocation) error {
		for _, arg := range inv.Arguments() {
			if arg.(int) < 0 { //nolint:forcetypeassert
				return errNegative
			}
		}
		return nil
	})

	reached := false
	chain := NewChain(guard).Then(HandlerFunc(func(inv *invocation.Invocation) ([]any, error) {
		reached = true
		return inv.Proceed()
	}))

	_, err := chain.Invoke(newSumInvocation(-1, 2))
	require.ErrorIs(t, err, ErrAccessDenied)
	require.ErrorIs(t, err, errNegative)
	assert.False(t, reached)

	res, err := chain.Invoke(newSumInvocation(1, 2))
	require.NoError(t, err)
	assert.Equal(t, []any{3}, res)
}

type person struct {
	name string
}

func (p *person) Sum(a, b int) int         { return a + b }
func (p *person) GetName() string          { return p.name }
func (p *person) SetName(name string)      { p.name = name }
func (p *person) Age() (int, error)        { return 0, errors.New("unknown age") }
func (p *person) Greeting(s string) string { return s + ", " + p.name }

func TestDelegate(t *testing.T) {
	target := &person{name: "Ann"}
	stringType := reflect.TypeOf("")

	iface := typeinfo.MustInterface(typeinfo.InterfaceSpec{
		Name: "Person",
		Members: []typeinfo.Member{
			{Name: "Name", Kind: typeinfo.MemberGetter, Results: []reflect.Type{stringType}},
			{Name: "Name", Kind: typeinfo.MemberSetter, Params: []reflect.Type{stringType}},
			{Name: "Age", Results: []reflect.Type{intType}, ReturnsError: true},
		},
	})
	members := make(map[string]typeinfo.Member)
	for _, m := range iface.Members() {
		members[m.Key()] = m
	}

	handler := Delegate(target)

	_, err := handler.Invoke(invocation.New(context.Background(), nil, members["set Name(string)"], []any{"Bob"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "Bob", target.name)

	res, err := handler.Invoke(invocation.New(context.Background(), nil, members["get Name()"], nil, nil))
	require.NoError(t, err)
	assert.Equal(t, []any{"Bob"}, res)

	_, err = handler.Invoke(invocation.New(context.Background(), nil, members["Age()"], nil, nil))
	require.EqualError(t, err, "unknown age")

	res, err = handler.Invoke(newSumInvocation(3, 4))
	require.NoError(t, err)
	assert.Equal(t, []any{7}, res)
}

func TestLazy(t *testing.T) {
	var created atomic.Int32
	handler := Lazy(func() (Handler, error) {
		created.Add(1)
		return Proceed(), nil
	})

	assert.Equal(t, int32(0), created.Load())

	for range 3 {
		res, err := handler.Invoke(newSumInvocation(1, 1))
		require.NoError(t, err)
		assert.Equal(t, []any{2}, res)
	}
	assert.Equal(t, int32(1), created.Load())

	errDown := errors.New("backend down")
	broken := Lazy(func() (Handler, error) { return nil, errDown })

	_, err := broken.Invoke(newSumInvocation(1, 1))
	require.ErrorIs(t, err, ErrActivation)
	require.ErrorIs(t, err, errDown)

	empty := Lazy(func() (Handler, error) { return nil, nil })
	_, err = empty.Invoke(newSumInvocation(1, 1))
	require.ErrorIs(t, err, ErrActivation)
}

type ServerContext interface {
	GetPort(def int) int
	Host() string
	Timeout() time.Duration
	GetDebug() bool
}

func TestContextEntries(t *testing.T) {
	ctxType := typeinfo.MustInterfaceOf[ServerContext]()
	members := make(map[string]typeinfo.Member)
	for _, m := range ctxType.Members() {
		members[m.Name] = m
	}

	assert.Equal(t, "port", EntryKey(members["GetPort"]))
	assert.Equal(t, "host", EntryKey(members["Host"]))

	handler := ContextEntries(map[string]string{
		"host":    "localhost",
		"timeout": "1500000000",
		"debug":   "true",
	})

	call := func(name string, args ...any) ([]any, error) {
		return handler.Invoke(invocation.New(context.Background(), nil, members[name], args, nil))
	}

	res, err := call("Host")
	require.NoError(t, err)
	assert.Equal(t, []any{"localhost"}, res)

	res, err = call("Timeout")
	require.NoError(t, err)
	assert.Equal(t, []any{1500 * time.Millisecond}, res)

	res, err = call("GetDebug")
	require.NoError(t, err)
	assert.Equal(t, []any{true}, res)

	res, err = call("GetPort", 8080)
	require.NoError(t, err)
	assert.Equal(t, []any{8080}, res)

	_, err = ContextEntries(nil).Invoke(invocation.New(context.Background(), nil, members["Host"], nil, nil))
	require.ErrorIs(t, err, ErrMissingEntry)

	_, err = handler.Invoke(newSumInvocation(1, 2))
	require.ErrorIs(t, err, ErrNotAnEntry)

	require.NoError(t, ValidateEntries(ctxType, map[string]string{"host": "h", "timeout": "1", "debug": "false"}))
	require.ErrorIs(t, ValidateEntries(ctxType, map[string]string{"host": "h"}), ErrMissingEntry)
}
