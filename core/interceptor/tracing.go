package interceptor

import (
	"github.com/anoideaopen/proxy/core/invocation"
	"github.com/anoideaopen/proxy/core/telemetry"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns an interceptor that wraps every call in a span started from
// the invocation context. The span context is stored back into the invocation,
// so spans started further down the chain become its children.
func Tracing(tracer trace.Tracer) Interceptor {
	return Func(func(inv *invocation.Invocation, next Handler) ([]any, error) {
		member := inv.Member()

		ctx, span := tracer.Start(
			inv.Context(),
			telemetry.SpanName(member),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(telemetry.MemberAttributes(member)...),
		)
		defer span.End()

		inv.SetContext(ctx)

		values, err := next.Invoke(inv)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return values, err
		}

		span.SetStatus(codes.Ok, "")

		return values, nil
	})
}
