package telemetry

import (
	"github.com/anoideaopen/proxy/core/typeinfo"
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys attached to proxy call spans and metrics.
const (
	KeyMember     = attribute.Key("proxy.member")
	KeyMemberKind = attribute.Key("proxy.member_kind")
	KeyType       = attribute.Key("proxy.type")
	KeyFailed     = attribute.Key("proxy.failed")
)

// MemberKind returns the member kind attribute.
func MemberKind(k typeinfo.MemberKind) attribute.KeyValue {
	return KeyMemberKind.String(k.String())
}

// MemberAttributes describes the invoked member.
func MemberAttributes(m typeinfo.Member) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		KeyMember.String(m.Key()),
		MemberKind(m.Kind),
	}
	if declaring := m.DeclaringType(); declaring != nil {
		attrs = append(attrs, KeyType.String(declaring.String()))
	}

	return attrs
}

// SpanName returns the span name of a call to m, e.g. "billing.ServiceClass/Sum".
func SpanName(m typeinfo.Member) string {
	if declaring := m.DeclaringType(); declaring != nil {
		return declaring.String() + "/" + m.Name
	}

	return m.Name
}
