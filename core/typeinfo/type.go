package typeinfo

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// ErrInvalidDescription is returned when a type description is inconsistent.
var ErrInvalidDescription = errors.New("invalid type description")

// Constructor creates a base instance of a class.
type Constructor struct {
	Params []reflect.Type
	Access Access
	New    func(args []any) (any, error)
}

// Type is an immutable description of an interface or a class.
type Type struct {
	id      uuid.UUID
	pkg     string
	name    string
	kind    Kind
	final   bool
	base    *Type
	extends []*Type
	members []Member
	ctors   []Constructor
	goType  reflect.Type
}

// InterfaceSpec is the input of NewInterface.
type InterfaceSpec struct {
	Package string
	Name    string
	Extends []*Type
	Members []Member
	GoType  reflect.Type // optional Go interface type the description mirrors
}

// ClassSpec is the input of NewClass.
type ClassSpec struct {
	Package      string
	Name         string
	Base         *Type
	Implements   []*Type
	Members      []Member
	Constructors []Constructor
	Final        bool
	GoType       reflect.Type // optional Go type of base instances
}

// NewInterface validates spec and returns an interface description.
// Interface members are always abstract and public.
func NewInterface(spec InterfaceSpec) (*Type, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: interface name is empty", ErrInvalidDescription)
	}

	for i, parent := range spec.Extends {
		if parent == nil {
			return nil, fmt.Errorf("%w: interface %s: extended interface %d is nil", ErrInvalidDescription, spec.Name, i)
		}
		if parent.kind != KindInterface {
			return nil, fmt.Errorf("%w: interface %s extends class %s", ErrInvalidDescription, spec.Name, parent)
		}
	}

	t := &Type{
		id:      uuid.New(),
		pkg:     spec.Package,
		name:    spec.Name,
		kind:    KindInterface,
		extends: append([]*Type(nil), spec.Extends...),
		goType:  spec.GoType,
	}

	members := make([]Member, 0, len(spec.Members))
	for _, m := range spec.Members {
		if m.Modifiers.Has(Static) {
			return nil, fmt.Errorf("%w: interface %s: member %s is static", ErrInvalidDescription, spec.Name, m.Name)
		}
		m.Access = AccessPublic
		m.Modifiers = Abstract
		m.Impl = nil
		members = append(members, m)
	}

	if err := t.attach(members); err != nil {
		return nil, err
	}

	return t, nil
}

// NewClass validates spec and returns a class description.
func NewClass(spec ClassSpec) (*Type, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: class name is empty", ErrInvalidDescription)
	}

	if spec.Base != nil {
		if spec.Base.kind != KindClass {
			return nil, fmt.Errorf("%w: class %s: base %s is not a class", ErrInvalidDescription, spec.Name, spec.Base)
		}
		if spec.Base.final {
			return nil, fmt.Errorf("%w: class %s extends final class %s", ErrInvalidDescription, spec.Name, spec.Base)
		}
	}

	for i, iface := range spec.Implements {
		if iface == nil {
			return nil, fmt.Errorf("%w: class %s: implemented interface %d is nil", ErrInvalidDescription, spec.Name, i)
		}
		if iface.kind != KindInterface {
			return nil, fmt.Errorf("%w: class %s implements class %s", ErrInvalidDescription, spec.Name, iface)
		}
	}

	for i, c := range spec.Constructors {
		if c.New == nil {
			return nil, fmt.Errorf("%w: class %s: constructor %d has no body", ErrInvalidDescription, spec.Name, i)
		}
	}

	t := &Type{
		id:      uuid.New(),
		pkg:     spec.Package,
		name:    spec.Name,
		kind:    KindClass,
		final:   spec.Final,
		base:    spec.Base,
		extends: append([]*Type(nil), spec.Implements...),
		ctors:   append([]Constructor(nil), spec.Constructors...),
		goType:  spec.GoType,
	}

	if err := t.attach(append([]Member(nil), spec.Members...)); err != nil {
		return nil, err
	}

	return t, nil
}

// MustInterface is like NewInterface but panics on error.
func MustInterface(spec InterfaceSpec) *Type {
	t, err := NewInterface(spec)
	if err != nil {
		panic(err)
	}

	return t
}

// MustClass is like NewClass but panics on error.
func MustClass(spec ClassSpec) *Type {
	t, err := NewClass(spec)
	if err != nil {
		panic(err)
	}

	return t
}

func (t *Type) attach(members []Member) error {
	seen := make(map[string]struct{}, len(members))
	for i := range members {
		m := &members[i]
		if m.Name == "" {
			return fmt.Errorf("%w: %s: member %d has no name", ErrInvalidDescription, t, i)
		}
		if m.Kind == MemberSetter && (len(m.Params) != 1 || len(m.Results) != 0) {
			return fmt.Errorf("%w: %s: setter %s must take one value and return nothing", ErrInvalidDescription, t, m.Name)
		}
		if m.Kind == MemberGetter && (len(m.Params) > 1 || len(m.Results) != 1) {
			return fmt.Errorf("%w: %s: getter %s must return one value", ErrInvalidDescription, t, m.Name)
		}

		key := m.Key()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s: member %s declared twice", ErrInvalidDescription, t, key)
		}
		seen[key] = struct{}{}

		m.declaring = t
	}

	t.members = members

	return nil
}

// ID returns the process-unique identity of the type.
func (t *Type) ID() uuid.UUID { return t.id }

// Package returns the declaring package.
func (t *Type) Package() string { return t.pkg }

// Name returns the unqualified name.
func (t *Type) Name() string { return t.name }

// Kind returns whether t is an interface or a class.
func (t *Type) Kind() Kind { return t.kind }

// IsInterface reports whether t is an interface.
func (t *Type) IsInterface() bool { return t.kind == KindInterface }

// Final reports whether the class cannot be extended.
func (t *Type) Final() bool { return t.final }

// Base returns the base class or nil.
func (t *Type) Base() *Type { return t.base }

// GoType returns the Go type the description mirrors, if any.
func (t *Type) GoType() reflect.Type { return t.goType }

// Extends returns the directly extended (interface) or implemented (class) interfaces.
func (t *Type) Extends() []*Type {
	return append([]*Type(nil), t.extends...)
}

// Members returns the members declared by t itself.
func (t *Type) Members() []Member {
	return append([]Member(nil), t.members...)
}

// Constructors returns the declared constructors.
func (t *Type) Constructors() []Constructor {
	return append([]Constructor(nil), t.ctors...)
}

// AccessibleConstructors returns the constructors callable from pkg by a subclass.
func (t *Type) AccessibleConstructors(pkg string) []Constructor {
	var res []Constructor
	for _, c := range t.ctors {
		switch c.Access {
		case AccessPublic, AccessProtected:
			res = append(res, c)
		case AccessPackage:
			if t.pkg == pkg {
				res = append(res, c)
			}
		case AccessPrivate:
		}
	}

	return res
}

// Ancestors returns t followed by its base classes, most-derived first.
// For an interface it returns just t.
func (t *Type) Ancestors() []*Type {
	var chain []*Type
	for c := t; c != nil; c = c.base {
		chain = append(chain, c)
	}

	return chain
}

// Interfaces returns every interface t is assignable to, flattened and de-duplicated.
// For an interface the result starts with t itself.
func (t *Type) Interfaces() []*Type {
	if t.kind == KindInterface {
		return Flatten(t)
	}

	var direct []*Type
	for _, c := range t.Ancestors() {
		direct = append(direct, c.extends...)
	}

	return Flatten(direct...)
}

// AssignableTo reports whether a value of type t can be used where other is expected.
func (t *Type) AssignableTo(other *Type) bool {
	if other == nil {
		return false
	}

	if other.kind == KindClass {
		for _, c := range t.Ancestors() {
			if c == other {
				return true
			}
		}

		return false
	}

	for _, iface := range t.Interfaces() {
		if iface == other {
			return true
		}
	}

	return false
}

// String returns the package-qualified name.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.pkg == "" {
		return t.name
	}

	return t.pkg + "." + t.name
}

// Flatten returns the transitive closure of the given interfaces over Extends,
// de-duplicated, in depth-first declaration order. Nil entries are skipped.
func Flatten(ifaces ...*Type) []*Type {
	var (
		res  []*Type
		seen = make(map[*Type]struct{})
		walk func(*Type)
	)

	walk = func(t *Type) {
		if t == nil {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		res = append(res, t)

		for _, parent := range t.extends {
			walk(parent)
		}
	}

	for _, t := range ifaces {
		walk(t)
	}

	return res
}
