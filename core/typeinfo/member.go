package typeinfo

import (
	"reflect"
	"strings"
)

// Func is the base implementation of a class member. self is the base instance
// the call is made on; args are already checked against the member's parameters.
// The returned values match the member's Results.
type Func func(self any, args []any) ([]any, error)

// Member describes a method or property accessor.
type Member struct {
	Name      string
	Kind      MemberKind
	Params    []reflect.Type // nil element accepts any value
	Results   []reflect.Type
	Access    Access
	Modifiers Modifier

	// ReturnsError marks members whose Go counterpart has a trailing error result.
	// The error is not part of Results; it is returned by Impl and by the proxy call.
	ReturnsError bool

	// Impl is the base implementation. Nil for interface and abstract members.
	Impl Func

	declaring *Type
}

// Key identifies the member for override resolution and dispatch.
// It contains the member name and parameter types, e.g. "Sum(int,int)" or "get Name()".
func (m Member) Key() string {
	var b strings.Builder

	switch m.Kind {
	case MemberGetter:
		b.WriteString("get ")
	case MemberSetter:
		b.WriteString("set ")
	case MemberMethod:
	}

	b.WriteString(m.Name)
	writeTypes(&b, m.Params)

	return b.String()
}

// Signature returns the key followed by the result types.
func (m Member) Signature() string {
	var b strings.Builder

	b.WriteString(m.Key())
	if len(m.Results) > 0 || m.ReturnsError {
		b.WriteByte(' ')
		results := m.Results
		if m.ReturnsError {
			results = append(append([]reflect.Type{}, m.Results...), errorType)
		}
		writeTypes(&b, results)
	}

	return b.String()
}

// DeclaringType returns the type that declared the member, or nil for a member
// that was never attached to a type.
func (m Member) DeclaringType() *Type {
	return m.declaring
}

// Overridable reports whether the member is virtual or abstract, not sealed and not static.
func (m Member) Overridable() bool {
	if m.Modifiers.Has(Static) || m.Modifiers.Has(Sealed) {
		return false
	}

	return m.Modifiers.Has(Virtual) || m.Modifiers.Has(Abstract)
}

// AccessibleFrom reports whether code in pkg may override the member.
// Package-private members are accessible only from their declaring package.
func (m Member) AccessibleFrom(pkg string) bool {
	switch m.Access {
	case AccessPublic, AccessProtected:
		return true
	case AccessPackage:
		return m.declaring != nil && m.declaring.pkg == pkg
	default:
		return false
	}
}

// Eligible reports whether a class proxy generated for pkg intercepts the member.
func (m Member) Eligible(pkg string) bool {
	return m.Overridable() && m.AccessibleFrom(pkg)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func writeTypes(b *strings.Builder, types []reflect.Type) {
	b.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(typeString(t))
	}
	b.WriteByte(')')
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "any"
	}

	return t.String()
}
