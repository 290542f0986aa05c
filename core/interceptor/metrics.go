package interceptor

import (
	"fmt"
	"time"

	"github.com/anoideaopen/proxy/core/invocation"
	"github.com/anoideaopen/proxy/core/telemetry"
	"go.opentelemetry.io/otel/metric"
)

// Metric names recorded by the Metrics interceptor.
const (
	MetricCalls    = "proxy.calls"
	MetricDuration = "proxy.call.duration"
)

// Metrics returns an interceptor counting calls and recording their duration
// in seconds, labelled with the member and whether the call failed.
func Metrics(meter metric.Meter) (Interceptor, error) {
	calls, err := meter.Int64Counter(
		MetricCalls,
		metric.WithDescription("Number of calls made through proxies."),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricCalls, err)
	}

	duration, err := meter.Float64Histogram(
		MetricDuration,
		metric.WithDescription("Duration of calls made through proxies."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricDuration, err)
	}

	return Func(func(inv *invocation.Invocation, next Handler) ([]any, error) {
		started := time.Now()
		values, err := next.Invoke(inv)

		attrs := append(
			telemetry.MemberAttributes(inv.Member()),
			telemetry.KeyFailed.Bool(err != nil),
		)
		opt := metric.WithAttributes(attrs...)

		calls.Add(inv.Context(), 1, opt)
		duration.Record(inv.Context(), time.Since(started).Seconds(), opt)

		return values, err
	}), nil
}
