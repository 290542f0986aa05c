package proxygen

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"weak"

	"github.com/anoideaopen/proxy/core/interceptor"
	"github.com/anoideaopen/proxy/core/proxyerr"
	"github.com/anoideaopen/proxy/core/typecache"
	"github.com/anoideaopen/proxy/core/typeinfo"
)

// Slot is one entry of the dispatch table.
type Slot struct {
	member      typeinfo.Member
	intercepted bool
}

// Member returns the member the slot dispatches.
func (s *Slot) Member() typeinfo.Member { return s.member }

// Key returns the member key.
func (s *Slot) Key() string { return s.member.Key() }

// Intercepted reports whether calls go through the handler.
func (s *Slot) Intercepted() bool { return s.intercepted }

type nameKey struct {
	kind typeinfo.MemberKind
	name string
}

// Implementation is a generated proxy type. It is immutable and shared by all
// instances created from it.
type Implementation struct {
	fingerprint typecache.Fingerprint
	name        string
	kind        typeinfo.Kind
	class       *typeinfo.Type
	interfaces  []*typeinfo.Type
	pkg         string
	ctors       []typeinfo.Constructor

	slots  []*Slot
	byKey  map[string]*Slot
	byName map[nameKey][]*Slot
}

// Fingerprint returns the fingerprint of the descriptor the implementation was generated from.
func (impl *Implementation) Fingerprint() typecache.Fingerprint { return impl.fingerprint }

// Name returns the implementation name.
func (impl *Implementation) Name() string { return impl.name }

// Kind returns whether the implementation is an interface or a class proxy.
func (impl *Implementation) Kind() typeinfo.Kind { return impl.kind }

// Class returns the proxied class or nil.
func (impl *Implementation) Class() *typeinfo.Type { return impl.class }

// Interfaces returns the flattened interfaces the implementation implements.
func (impl *Implementation) Interfaces() []*typeinfo.Type { return slices.Clone(impl.interfaces) }

// Slots returns the dispatch table in key order.
func (impl *Implementation) Slots() []*Slot { return slices.Clone(impl.slots) }

// Slot returns the slot for a member key.
func (impl *Implementation) Slot(key string) (*Slot, bool) {
	s, ok := impl.byKey[key]
	return s, ok
}

// Intercepted returns the intercepted members in key order.
func (impl *Implementation) Intercepted() []typeinfo.Member {
	var res []typeinfo.Member
	for _, s := range impl.slots {
		if s.intercepted {
			res = append(res, s.member)
		}
	}

	return res
}

// AssignableTo reports whether instances can be used where t is expected:
// t is the proxied class, one of its ancestors or one of the implemented interfaces.
func (impl *Implementation) AssignableTo(t *typeinfo.Type) bool {
	if t == nil {
		return false
	}
	if impl.class != nil && impl.class.AssignableTo(t) {
		return true
	}

	return slices.Contains(impl.interfaces, t)
}

func (impl *Implementation) String() string {
	return fmt.Sprintf("%s[%s]", impl.name, impl.fingerprint.Short())
}

// NewInstance creates a proxy instance dispatching intercepted calls to handler.
// Class proxies construct their base instance with the first accessible
// constructor that accepts args; interface proxies take no arguments.
func (impl *Implementation) NewInstance(handler interceptor.Handler, args ...any) (*Instance, error) {
	if handler == nil {
		return nil, fmt.Errorf("%w: handler is nil", proxyerr.ErrArgument)
	}

	if impl.kind == typeinfo.KindInterface {
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: interface proxy %s takes no constructor arguments",
				ErrConstructorMatch, impl.name)
		}

		return &Instance{impl: impl, handler: handler}, nil
	}

	ctor, err := impl.constructor(args)
	if err != nil {
		return nil, err
	}

	base, err := ctor.New(slices.Clone(args))
	if err != nil {
		return nil, fmt.Errorf("construct %s: %w", impl.class, err)
	}
	if base == nil {
		return nil, fmt.Errorf("%w: constructor of %s returned nil", proxyerr.ErrGeneration, impl.class)
	}

	return impl.bound(handler, base), nil
}

// Bind creates a class proxy instance around an existing base instance.
func (impl *Implementation) Bind(handler interceptor.Handler, target any) (*Instance, error) {
	if err := impl.checkBind(handler, target); err != nil {
		return nil, err
	}

	return impl.bound(handler, target), nil
}

// BindWeak is like Bind but holds target weakly. Once target is collected,
// calls fail with ErrTargetReleased.
func BindWeak[T any](impl *Implementation, handler interceptor.Handler, target *T) (*Instance, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: target is nil", proxyerr.ErrArgument)
	}
	if err := impl.checkBind(handler, target); err != nil {
		return nil, err
	}

	ref := weak.Make(target)

	return &Instance{
		impl:    impl,
		handler: handler,
		target: func() (any, error) {
			if p := ref.Value(); p != nil {
				return p, nil
			}

			return nil, fmt.Errorf("%w: %s", ErrTargetReleased, impl.name)
		},
	}, nil
}

func (impl *Implementation) checkBind(handler interceptor.Handler, target any) error {
	if handler == nil {
		return fmt.Errorf("%w: handler is nil", proxyerr.ErrArgument)
	}
	if impl.kind != typeinfo.KindClass {
		return fmt.Errorf("%w: only class proxies bind to a target", proxyerr.ErrUnsupportedTarget)
	}
	if target == nil {
		return fmt.Errorf("%w: target is nil", proxyerr.ErrArgument)
	}
	if goType := impl.class.GoType(); goType != nil && !reflect.TypeOf(target).AssignableTo(goType) {
		return fmt.Errorf("%w: target %T is not a %s", proxyerr.ErrArgument, target, goType)
	}

	return nil
}

func (impl *Implementation) bound(handler interceptor.Handler, base any) *Instance {
	return &Instance{
		impl:    impl,
		handler: handler,
		target:  func() (any, error) { return base, nil },
	}
}

func (impl *Implementation) constructor(args []any) (typeinfo.Constructor, error) {
	for _, c := range impl.ctors {
		if len(c.Params) == len(args) && checkValues(c.Params, args) == nil {
			return c, nil
		}
	}

	sigs := make([]string, 0, len(impl.ctors))
	for _, c := range impl.ctors {
		sigs = append(sigs, typeList(c.Params))
	}

	return typeinfo.Constructor{}, fmt.Errorf("%w: %s accepts %s, got %d arguments",
		ErrConstructorMatch, impl.class, strings.Join(sigs, " or "), len(args))
}

// resolve finds the slot for a call. member is either a key such as
// "Sum(int,int)" or a bare name; a name is resolved among the overloads of
// the given kind by argument count and types.
func (impl *Implementation) resolve(kind typeinfo.MemberKind, member string, args []any) (*Slot, error) {
	if strings.ContainsRune(member, '(') {
		slot, ok := impl.byKey[member]
		if !ok {
			return nil, fmt.Errorf("%w: %s has no member %s", ErrMemberNotFound, impl.name, member)
		}

		return slot, checkArguments(slot.member, args)
	}

	candidates := impl.byName[nameKey{kind: kind, name: member}]
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s has no %s %s", ErrMemberNotFound, impl.name, kind, member)
	}
	if len(candidates) == 1 {
		return candidates[0], checkArguments(candidates[0].member, args)
	}

	var (
		match    []*Slot
		firstErr error
	)
	for _, s := range candidates {
		err := checkArguments(s.member, args)
		if err == nil {
			match = append(match, s)
		} else if firstErr == nil {
			firstErr = err
		}
	}

	switch len(match) {
	case 0:
		return nil, firstErr
	case 1:
		return match[0], nil
	default:
		return nil, fmt.Errorf("%w: %d overloads of %s accept the arguments", ErrAmbiguousMember, len(match), member)
	}
}

// resolveByCount is resolve for string arguments, which only carry a count.
func (impl *Implementation) resolveByCount(member string, n int) (*Slot, error) {
	if strings.ContainsRune(member, '(') {
		slot, ok := impl.byKey[member]
		if !ok {
			return nil, fmt.Errorf("%w: %s has no member %s", ErrMemberNotFound, impl.name, member)
		}

		return slot, nil
	}

	candidates := impl.byName[nameKey{kind: typeinfo.MemberMethod, name: member}]
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s has no method %s", ErrMemberNotFound, impl.name, member)
	}

	var match []*Slot
	for _, s := range candidates {
		if len(s.member.Params) == n {
			match = append(match, s)
		}
	}

	switch len(match) {
	case 0:
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArgumentCount, member, len(candidates[0].member.Params), n)
	case 1:
		return match[0], nil
	default:
		return nil, fmt.Errorf("%w: %d overloads of %s take %d arguments", ErrAmbiguousMember, len(match), member, n)
	}
}

func checkArguments(m typeinfo.Member, args []any) error {
	if len(args) != len(m.Params) {
		return fmt.Errorf("%w: %s takes %d, got %d", ErrArgumentCount, m.Key(), len(m.Params), len(args))
	}
	if err := checkValues(m.Params, args); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrArgumentType, m.Key(), err)
	}

	return nil
}

// checkValues reports the first value not assignable to its type. A nil type
// accepts anything; a nil value is accepted by nillable types.
func checkValues(types []reflect.Type, values []any) error {
	for i, t := range types {
		if t == nil {
			continue
		}

		v := values[i]
		if v == nil {
			if !nillable(t) {
				return fmt.Errorf("value %d: nil is not a %s", i, t)
			}
			continue
		}
		if vt := reflect.TypeOf(v); !vt.AssignableTo(t) {
			return fmt.Errorf("value %d: %s is not a %s", i, vt, t)
		}
	}

	return nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() { //nolint:exhaustive
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

func typeList(types []reflect.Type) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		if t == nil {
			names = append(names, "any")
			continue
		}
		names = append(names, t.String())
	}

	return "(" + strings.Join(names, ",") + ")"
}
