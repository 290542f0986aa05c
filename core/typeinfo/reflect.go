package typeinfo

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/anoideaopen/proxy/core/reflectx"
	"github.com/anoideaopen/proxy/core/stringsx"
)

// registry holds descriptions derived from Go types, so that every request
// for the same Go type yields the same *Type. Interfaces are keyed by their
// reflect.Type, classes by classKey.
var registry sync.Map // reflect.Type | classKey -> *Type

// classKey identifies a class description: the Go type and the options it
// was described with.
type classKey struct {
	goType  reflect.Type
	options string
}

// InterfaceOf describes the Go interface type T.
//
//	readerType := typeinfo.MustInterfaceOf[io.Reader]()
func InterfaceOf[T any]() (*Type, error) {
	return FromInterface(reflect.TypeOf((*T)(nil)).Elem())
}

// MustInterfaceOf is like InterfaceOf but panics on error.
func MustInterfaceOf[T any]() *Type {
	t, err := InterfaceOf[T]()
	if err != nil {
		panic(err)
	}

	return t
}

// FromInterface describes a Go interface type. Each method becomes a public
// abstract member; a trailing error result sets ReturnsError. Embedded
// interfaces are already flattened by the Go type system, so the description
// extends nothing.
func FromInterface(rt reflect.Type) (*Type, error) {
	if rt == nil || rt.Kind() != reflect.Interface {
		return nil, fmt.Errorf("%w: %v is not an interface type", ErrInvalidDescription, rt)
	}

	if t, ok := registry.Load(rt); ok {
		return t.(*Type), nil //nolint:forcetypeassert
	}

	members := make([]Member, 0, rt.NumMethod())
	for _, name := range reflectx.TypeMethods(rt) {
		method, _ := rt.MethodByName(name)
		members = append(members, memberFromFunc(name, method.Type, 0))
	}

	t, err := NewInterface(InterfaceSpec{
		Package: rt.PkgPath(),
		Name:    typeName(rt),
		Members: members,
		GoType:  rt,
	})
	if err != nil {
		return nil, err
	}

	actual, _ := registry.LoadOrStore(rt, t)

	return actual.(*Type), nil //nolint:forcetypeassert
}

// ClassOption customises ClassOf.
type ClassOption func(*classOptions)

type classOptions struct {
	sealed       []string
	implements   []*Type
	constructors []Constructor
}

// key renders the options canonically. Constructors are compared by access
// and parameter types only.
func (o *classOptions) key() string {
	sealed := slices.Clone(o.sealed)
	slices.Sort(sealed)
	sealed = slices.Compact(sealed)

	ifaces := make([]string, 0, len(o.implements))
	for _, t := range o.implements {
		if t != nil {
			ifaces = append(ifaces, t.ID().String())
		}
	}
	slices.Sort(ifaces)
	ifaces = slices.Compact(ifaces)

	var b strings.Builder
	b.WriteString("sealed=")
	b.WriteString(strings.Join(sealed, ","))
	b.WriteString(";implements=")
	b.WriteString(strings.Join(ifaces, ","))
	b.WriteString(";ctors=")
	for i, c := range o.constructors {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(c.Access.String())
		writeTypes(&b, c.Params)
	}

	return b.String()
}

// SealedMethods marks the named methods as non-overridable.
func SealedMethods(names ...string) ClassOption {
	return func(o *classOptions) {
		o.sealed = append(o.sealed, names...)
	}
}

// Implements declares interfaces the class implements.
func Implements(ifaces ...*Type) ClassOption {
	return func(o *classOptions) {
		o.implements = append(o.implements, ifaces...)
	}
}

// WithConstructors replaces the default zero-value constructor.
func WithConstructors(ctors ...Constructor) ClassOption {
	return func(o *classOptions) {
		o.constructors = append(o.constructors, ctors...)
	}
}

// ClassOf describes the Go struct type T as a class whose instances are *T.
// Every exported method of *T becomes a public virtual member, except those
// named in SealedMethods. Base implementations call the method on the instance by
// reflection. Unless WithConstructors is given, the class has one public
// constructor returning new(T).
//
// Calls with the same type and equivalent options return the same
// description; different options yield distinct descriptions. Options are
// order independent, and constructors count as equivalent when their access
// and parameter types match.
func ClassOf[T any](opts ...ClassOption) (*Type, error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a struct type", ErrInvalidDescription, rt)
	}

	ptr := reflect.PointerTo(rt)

	var o classOptions
	for _, opt := range opts {
		opt(&o)
	}

	key := classKey{goType: ptr, options: o.key()}
	if t, ok := registry.Load(key); ok {
		return t.(*Type), nil //nolint:forcetypeassert
	}

	members := make([]Member, 0, ptr.NumMethod())
	for _, name := range reflectx.TypeMethods(ptr) {
		method, _ := ptr.MethodByName(name)

		modifiers := Virtual
		if stringsx.OneOf(name, o.sealed...) {
			modifiers = Sealed
		}

		m := memberFromFunc(name, method.Type, 1)
		m.Modifiers = modifiers
		m.Impl = reflectImpl(name)
		members = append(members, m)
	}

	ctors := o.constructors
	if len(ctors) == 0 {
		ctors = []Constructor{{
			New: func([]any) (any, error) {
				return reflect.New(rt).Interface(), nil
			},
		}}
	}

	t, err := NewClass(ClassSpec{
		Package:      rt.PkgPath(),
		Name:         typeName(rt),
		Implements:   o.implements,
		Members:      members,
		Constructors: ctors,
		GoType:       ptr,
	})
	if err != nil {
		return nil, err
	}

	actual, _ := registry.LoadOrStore(key, t)

	return actual.(*Type), nil //nolint:forcetypeassert
}

// MustClassOf is like ClassOf but panics on error.
func MustClassOf[T any](opts ...ClassOption) *Type {
	t, err := ClassOf[T](opts...)
	if err != nil {
		panic(err)
	}

	return t
}

// memberFromFunc builds a member from a func type, skipping the first skip
// parameters (the receiver for method expressions).
func memberFromFunc(name string, ft reflect.Type, skip int) Member {
	m := Member{
		Name:         name,
		Kind:         MemberMethod,
		Access:       AccessPublic,
		ReturnsError: reflectx.ReturnsError(ft),
	}

	for i := skip; i < ft.NumIn(); i++ {
		m.Params = append(m.Params, ft.In(i))
	}

	numOut := ft.NumOut()
	if m.ReturnsError {
		numOut--
	}
	for i := 0; i < numOut; i++ {
		m.Results = append(m.Results, ft.Out(i))
	}

	return m
}

func reflectImpl(name string) Func {
	return func(self any, args []any) ([]any, error) {
		return reflectx.CallValues(self, name, args)
	}
}

func typeName(rt reflect.Type) string {
	if rt.Name() != "" {
		return rt.Name()
	}

	return rt.String()
}
